package repomd

import (
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/xerrors"
)

const updateInfoType = "updateinfo"

var ErrNoUpdateInfoField = xerrors.New("no updateinfo field in the repomd")

// RepoMd has repomd data
type RepoMd struct {
	Revision string `xml:"revision"`
	RepoList []Repo `xml:"data"`
}

// Repo has a repo data
type Repo struct {
	Type     string   `xml:"type,attr"`
	Location Location `xml:"location"`
}

// Location has a location of repomd
type Location struct {
	Href string `xml:"href,attr"`
}

// Parse decodes repodata/repomd.xml
func Parse(r io.Reader) (*RepoMd, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var repoMd RepoMd
	if err := d.Decode(&repoMd); err != nil {
		return nil, xerrors.Errorf("failed to decode repomd.xml: %w", err)
	}
	return &repoMd, nil
}

// UpdateInfoPath returns the href of updateinfo, relative to the repository root.
func (md *RepoMd) UpdateInfoPath() (string, error) {
	for _, repo := range md.RepoList {
		if repo.Type == updateInfoType && repo.Location.Href != "" {
			return repo.Location.Href, nil
		}
	}
	return "", ErrNoUpdateInfoField
}
