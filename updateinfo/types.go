package updateinfo

import (
	"encoding/xml"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
)

// Advisory types accepted in the type attribute of <update>
const (
	TypeSecurity    = "security"
	TypeBugfix      = "bugfix"
	TypeEnhancement = "enhancement"
	TypeNewPackage  = "newpackage"
)

// KnownTypes is the closed set of advisory types
var KnownTypes = []string{TypeSecurity, TypeBugfix, TypeEnhancement, TypeNewPackage}

// Update has detailed data of one advisory in updateinfo.xml
type Update struct {
	From        string       `json:"from" yaml:"from"`
	Status      string       `json:"status" yaml:"status"`
	Type        string       `json:"type" yaml:"type"`
	Version     string       `json:"version" yaml:"version"`
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Issued      string       `json:"issued" yaml:"issued"`
	Updated     string       `json:"updated" yaml:"updated"`
	Rights      string       `json:"rights" yaml:"rights"`
	Release     string       `json:"release" yaml:"release"`
	Summary     string       `json:"summary" yaml:"summary"`
	Description string       `json:"description" yaml:"description"`
	Severity    string       `json:"severity" yaml:"severity"`
	Solution    string       `json:"solution" yaml:"solution"`
	Reboot      bool         `json:"reboot" yaml:"reboot"`
	References  []Reference  `json:"references" yaml:"references"`
	PkgList     []PackageRef `json:"pkglist" yaml:"pkglist"`
}

// Reference has reference information
type Reference struct {
	Href  string `json:"href" yaml:"href"`
	ID    string `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"`
	Title string `json:"title" yaml:"title"`
}

// PackageRef has a package fixed by the advisory
type PackageRef struct {
	Name  string `json:"name" yaml:"name"`
	Epoch string `json:"epoch" yaml:"epoch"`
	Ver   string `json:"ver" yaml:"ver"`
	Rel   string `json:"rel" yaml:"rel"`
	Arch  string `json:"arch" yaml:"arch"`
}

// CveIDs returns the IDs of "cve" references in order of appearance, without duplicates.
func (u Update) CveIDs() []string {
	return lo.Uniq(lo.FilterMap(u.References, func(ref Reference, _ int) (string, bool) {
		return ref.ID, ref.Type == "cve" && ref.ID != ""
	}))
}

// IssuedTime parses the issued date, whatever layout the repository uses.
func (u Update) IssuedTime() (time.Time, error) {
	if u.Issued == "" {
		return time.Time{}, xerrors.Errorf("advisory %s has no issued date", u.ID)
	}
	t, err := dateparse.ParseAny(u.Issued)
	if err != nil {
		return time.Time{}, xerrors.Errorf("failed to parse issued date of %s: %w", u.ID, err)
	}
	return t, nil
}

type xmlUpdate struct {
	From        string         `xml:"from,attr"`
	Status      string         `xml:"status,attr"`
	Type        string         `xml:"type,attr"`
	Version     string         `xml:"version,attr"`
	ID          string         `xml:"id"`
	Title       string         `xml:"title"`
	Issued      xmlDate        `xml:"issued"`
	Updated     xmlDate        `xml:"updated"`
	Rights      string         `xml:"rights"`
	Release     string         `xml:"release"`
	Summary     string         `xml:"summary"`
	Description string         `xml:"description"`
	Severity    string         `xml:"severity"`
	Solution    string         `xml:"solution"`
	References  []xmlReference `xml:"references>reference"`
	PkgList     xmlNode        `xml:"pkglist"`
}

type xmlDate struct {
	Date string `xml:"date,attr"`
}

type xmlReference struct {
	Href  string `xml:"href,attr"`
	ID    string `xml:"id,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

// xmlNode keeps an arbitrary subtree. pkglist is walked generically since
// reboot_suggested shows up at different depths depending on the producer.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []xmlNode  `xml:",any"`
}

// attr returns the first non-empty value among the given attribute names.
func (n xmlNode) attr(names ...string) string {
	for _, name := range names {
		for _, a := range n.Attrs {
			if a.Name.Local == name && a.Value != "" {
				return a.Value
			}
		}
	}
	return ""
}

func (n xmlNode) children(name string) []xmlNode {
	return lo.Filter(n.Nodes, func(c xmlNode, _ int) bool {
		return c.XMLName.Local == name
	})
}

func (n xmlNode) contains(name string) bool {
	for _, c := range n.Nodes {
		if c.XMLName.Local == name || c.contains(name) {
			return true
		}
	}
	return false
}
