package utils

import (
	"context"
	"net/url"
	"os"

	getter "github.com/hashicorp/go-getter"
	"golang.org/x/xerrors"
)

// DownloadToTempFile downloads src as-is into a temp file whose name ends with ext,
// so that the compression can still be told from the file name afterwards.
func DownloadToTempFile(ctx context.Context, src, ext string) (string, error) {
	f, err := os.CreateTemp("", "updateinfo-*"+ext)
	if err != nil {
		return "", xerrors.Errorf("failed to create a temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", xerrors.Errorf("close error: %w", err)
	}

	// go-getter decompresses known extensions on its own; keep the payload untouched.
	u, err := url.Parse(src)
	if err != nil {
		return "", xerrors.Errorf("failed to parse %s: %w", src, err)
	}
	q := u.Query()
	q.Set("archive", "false")
	u.RawQuery = q.Encode()

	if err = download(ctx, u.String(), f.Name(), getter.ClientModeFile); err != nil {
		_ = os.Remove(f.Name())
		return "", xerrors.Errorf("download error: %w", err)
	}

	return f.Name(), nil
}

func download(ctx context.Context, src, dst string, mode getter.ClientMode) error {
	pwd, err := os.Getwd()
	if err != nil {
		return xerrors.Errorf("unable to get the current dir: %w", err)
	}

	// Build the client
	client := &getter.Client{
		Ctx:     ctx,
		Src:     src,
		Dst:     dst,
		Pwd:     pwd,
		Getters: getter.Getters,
		Mode:    mode,
	}

	if err = client.Get(); err != nil {
		return xerrors.Errorf("failed to download: %w", err)
	}

	return nil
}
