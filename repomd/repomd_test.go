package repomd_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/vuln-list-updateinfo/repomd"
)

func TestRepoMd_UpdateInfoPath(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    string
		wantErr error
	}{
		{
			name: "happy path",
			file: "testdata/repomd_valid.xml",
			want: "repodata/a1b2c3-updateinfo.xml.gz",
		},
		{
			name:    "no updateinfo",
			file:    "testdata/repomd_invalid.xml",
			wantErr: repomd.ErrNoUpdateInfoField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := os.Open(tt.file)
			require.NoError(t, err)
			defer f.Close()

			md, err := repomd.Parse(f)
			require.NoError(t, err)

			got, err := md.UpdateInfoPath()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	md, err := repomd.Parse(strings.NewReader(`<repomd><revision>42</revision><data type="group"><location href="repodata/comps.xml"/></data></repomd>`))
	require.NoError(t, err)
	assert.Equal(t, "42", md.Revision)
	assert.Equal(t, []repomd.Repo{{Type: "group", Location: repomd.Location{Href: "repodata/comps.xml"}}}, md.RepoList)

	_, err = repomd.Parse(strings.NewReader("<repomd>"))
	assert.Error(t, err)
}
