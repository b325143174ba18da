package main

import (
	"context"
	"flag"
	"log"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/vuln-list-updateinfo/errata"
	"github.com/aquasecurity/vuln-list-updateinfo/utils"
)

var (
	src    = flag.String("src", "", "updateinfo.xml to export (local path or http(s) URL, optionally .gz, .bz2, .xz or .zst)")
	repo   = flag.String("repo", "", "repository base URL; updateinfo is located through repodata/repomd.xml")
	dir    = flag.String("dir", utils.OutputDir(), "output directory")
	format = flag.String("format", errata.FormatJSON, "output format (json, yaml)")
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Parse()
	ctx := context.Background()

	c := errata.NewConfig(errata.WithDir(*dir), errata.WithFormat(*format))
	switch {
	case *src != "" && *repo != "":
		return xerrors.New("-src and -repo are mutually exclusive")
	case *src != "":
		log.Printf("Exporting advisories of %s to %s", *src, *dir)
		if err := c.Update(ctx, *src); err != nil {
			return xerrors.Errorf("error in updateinfo export: %w", err)
		}
	case *repo != "":
		log.Printf("Exporting advisories of repository %s to %s", *repo, *dir)
		if err := c.UpdateRepo(ctx, *repo); err != nil {
			return xerrors.Errorf("error in repository export: %w", err)
		}
	default:
		return xerrors.New("either -src or -repo must be specified")
	}
	log.Printf("Done")
	return nil
}
