package updateinfo

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"

	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
	"golang.org/x/net/html/charset"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/vuln-list-updateinfo/utils"
)

const (
	updateElement = "update"
	rebootElement = "reboot_suggested"
)

var utf8BOM = []byte("\xef\xbb\xbf")

type options struct {
	fs afero.Fs
}

type option func(*options)

// WithFs sets the filesystem the updateinfo file is read from.
func WithFs(fs afero.Fs) option {
	return func(opts *options) { opts.fs = fs }
}

// Parser holds the advisories of one updateinfo.xml.
// It is not modified after NewParser returns.
type Parser struct {
	updates []Update
}

// NewParser reads and parses the updateinfo file at path. Compressed files
// (.gz, .bz2, .xz, .zst) are decompressed according to their extension.
//
// The returned error matches ErrNotFound, ErrMalformed or ErrUnknownType.
func NewParser(path string, opts ...option) (*Parser, error) {
	o := &options{
		fs: afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(o)
	}

	b, err := afero.ReadFile(o.fs, path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	r, err := utils.Decompress(bytes.NewReader(b), path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer r.Close()

	raws, err := decode(r)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	updates := make([]Update, 0, len(raws))
	for _, raw := range raws {
		u := convert(raw)
		if !slices.Contains(KnownTypes, u.Type) {
			return nil, xerrors.Errorf("invalid advisory in %s: %w", path, &TypeError{ID: u.ID, Type: u.Type})
		}
		updates = append(updates, u)
	}

	return &Parser{updates: updates}, nil
}

// ListUpdates returns the advisories in document order.
func (p *Parser) ListUpdates() []Update {
	updates := make([]Update, len(p.updates))
	for i, u := range p.updates {
		u.References = slices.Clone(u.References)
		u.PkgList = slices.Clone(u.PkgList)
		updates[i] = u
	}
	return updates
}

// decode collects every <update> element of the document, wherever it is nested,
// and fails unless the whole input is a single well-formed XML element.
func decode(r io.Reader) ([]xmlUpdate, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	d := xml.NewDecoder(br)
	d.CharsetReader = charset.NewReaderLabel

	var (
		updates []xmlUpdate
		depth   int
		root    bool
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if root {
					return nil, xerrors.Errorf("unexpected element <%s> after the root element", t.Name.Local)
				}
				root = true
			}
			if t.Name.Local != updateElement {
				depth++
				continue
			}
			var u xmlUpdate
			if err = d.DecodeElement(&u, &t); err != nil {
				return nil, err
			}
			updates = append(updates, u)
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, xerrors.New("unexpected text outside the root element")
			}
		}
	}

	if !root {
		return nil, xerrors.Errorf("no root element: %w", io.ErrUnexpectedEOF)
	}
	return updates, nil
}

func convert(raw xmlUpdate) Update {
	refs := make([]Reference, 0, len(raw.References))
	for _, ref := range raw.References {
		refs = append(refs, Reference{
			Href:  ref.Href,
			ID:    ref.ID,
			Type:  ref.Type,
			Title: ref.Title,
		})
	}

	return Update{
		From:        raw.From,
		Status:      raw.Status,
		Type:        raw.Type,
		Version:     raw.Version,
		ID:          raw.ID,
		Title:       raw.Title,
		Issued:      raw.Issued.Date,
		Updated:     raw.Updated.Date,
		Rights:      raw.Rights,
		Release:     raw.Release,
		Summary:     raw.Summary,
		Description: raw.Description,
		Severity:    raw.Severity,
		Solution:    raw.Solution,
		Reboot:      raw.PkgList.contains(rebootElement),
		References:  refs,
		PkgList:     packages(raw.PkgList),
	}
}

// packages flattens the packages of every collection of a pkglist.
func packages(pkglist xmlNode) []PackageRef {
	pkgs := []PackageRef{}
	for _, collection := range pkglist.children("collection") {
		for _, pkg := range collection.children("package") {
			pkgs = append(pkgs, PackageRef{
				Name:  pkg.attr("name"),
				Epoch: pkg.attr("epoch"),
				Ver:   pkg.attr("version", "ver"),
				Rel:   pkg.attr("release", "rel"),
				Arch:  pkg.attr("arch"),
			})
		}
	}
	return pkgs
}

// IsNotExist reports whether err was caused by a missing updateinfo file,
// as opposed to an unreadable one.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotFound) && errors.Is(err, os.ErrNotExist)
}
