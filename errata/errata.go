package errata

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/vuln-list-updateinfo/repomd"
	"github.com/aquasecurity/vuln-list-updateinfo/updateinfo"
	"github.com/aquasecurity/vuln-list-updateinfo/utils"
)

const (
	retry      = 3
	unknownDir = "unknown"

	FormatJSON = "json"
	FormatYAML = "yaml"
)

type options struct {
	dir    string
	fs     afero.Fs
	retry  int
	format string
}

type option func(*options)

func WithDir(dir string) option {
	return func(opts *options) { opts.dir = dir }
}

func WithFs(fs afero.Fs) option {
	return func(opts *options) { opts.fs = fs }
}

func WithRetry(retry int) option {
	return func(opts *options) { opts.retry = retry }
}

func WithFormat(format string) option {
	return func(opts *options) { opts.format = format }
}

type Config struct {
	*options
}

func NewConfig(opts ...option) Config {
	o := &options{
		dir:    utils.OutputDir(),
		fs:     afero.NewOsFs(),
		retry:  retry,
		format: FormatJSON,
	}
	for _, opt := range opts {
		opt(o)
	}

	return Config{
		options: o,
	}
}

// UpdateRepo exports the advisories of the repository at repoURL,
// looking up the updateinfo file in repodata/repomd.xml.
func (c Config) UpdateRepo(ctx context.Context, repoURL string) error {
	u, err := url.Parse(repoURL)
	if err != nil {
		return xerrors.Errorf("failed to parse root url: %w", err)
	}
	rootPath := u.Path
	u.Path = path.Join(rootPath, "repodata/repomd.xml")

	log.Printf("Fetching %s", u.String())
	res, err := utils.FetchURL(u.String(), c.retry)
	if err != nil {
		return xerrors.Errorf("failed to fetch repomd.xml: %w", err)
	}
	repoMd, err := repomd.Parse(bytes.NewReader(res))
	if err != nil {
		return xerrors.Errorf("failed to parse repomd.xml: %w", err)
	}
	updateInfoPath, err := repoMd.UpdateInfoPath()
	if err != nil {
		return xerrors.Errorf("failed to fetch updateInfo path from repomd.xml: %w", err)
	}

	u.Path = path.Join(rootPath, updateInfoPath)
	return c.Update(ctx, u.String())
}

// Update exports the advisories of src, a local updateinfo file or an http(s) URL of one.
func (c Config) Update(ctx context.Context, src string) error {
	if c.format != FormatJSON && c.format != FormatYAML {
		return xerrors.Errorf("unknown output format: %s", c.format)
	}

	filePath := src
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		log.Printf("Fetching %s", src)
		filePath, err = utils.DownloadToTempFile(ctx, src, path.Ext(u.Path))
		if err != nil {
			return xerrors.Errorf("failed to fetch updateInfo: %w", err)
		}
		defer os.Remove(filePath)
	}

	p, err := updateinfo.NewParser(filePath)
	if updateinfo.IsNotExist(err) {
		return xerrors.Errorf("updateinfo %s does not exist: %w", src, err)
	} else if err != nil {
		return xerrors.Errorf("failed to parse updateInfo: %w", err)
	}
	updates := p.ListUpdates()

	var cves int
	byYear := map[string][]updateinfo.Update{}
	for _, u := range updates {
		if u.ID == "" || strings.ContainsAny(u.ID, `/\`) {
			return xerrors.Errorf("invalid advisory ID: %q", u.ID)
		}
		y, err := year(u)
		if err != nil {
			return err
		}
		byYear[y] = append(byYear[y], u)
		cves += len(u.CveIDs())
	}

	log.Printf("Remove updateinfo directory %s", c.dir)
	if err = c.fs.RemoveAll(c.dir); err != nil {
		return xerrors.Errorf("failed to remove updateinfo directory: %w", err)
	}

	log.Printf("Write %d advisories (%d CVE references)", len(updates), cves)
	fs := utils.NewFs(c.fs)
	bar := pb.StartNew(len(updates))
	for y, list := range byYear {
		if err = c.fs.MkdirAll(filepath.Join(c.dir, y), os.ModePerm); err != nil {
			return xerrors.Errorf("failed to mkdir: %w", err)
		}
		for _, u := range list {
			outPath := filepath.Join(c.dir, y, fmt.Sprintf("%s.%s", u.ID, c.format))
			if err = c.write(fs, outPath, u); err != nil {
				return xerrors.Errorf("failed to write %s: %w", u.ID, err)
			}
			bar.Increment()
		}
	}
	bar.Finish()

	return nil
}

func (c Config) write(fs utils.Fs, filePath string, u updateinfo.Update) error {
	if c.format == FormatYAML {
		return fs.WriteYAML(filePath, u)
	}
	return fs.WriteJSON(filePath, u)
}

func year(u updateinfo.Update) (string, error) {
	if u.Issued == "" {
		return unknownDir, nil
	}
	t, err := u.IssuedTime()
	if err != nil {
		return "", err
	}
	return strconv.Itoa(t.Year()), nil
}
