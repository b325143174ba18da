package utils_test

import (
	"math"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/vuln-list-updateinfo/utils"
)

func TestFs_Write(t *testing.T) {
	advisory := map[string]interface{}{"id": "FEDORA-2017-63f9b40927", "reboot": true}

	tests := []struct {
		name    string
		appFs   afero.Fs
		format  string
		data    interface{}
		want    string
		wantErr string
	}{
		{
			name:   "json",
			appFs:  afero.NewMemMapFs(),
			format: "json",
			data:   advisory,
			want:   "{\n  \"id\": \"FEDORA-2017-63f9b40927\",\n  \"reboot\": true\n}",
		},
		{
			name:   "yaml",
			appFs:  afero.NewMemMapFs(),
			format: "yaml",
			data:   advisory,
			want:   "id: FEDORA-2017-63f9b40927\nreboot: true\n",
		},
		{
			name:    "json on read-only fs",
			appFs:   afero.NewReadOnlyFs(afero.NewMemMapFs()),
			format:  "json",
			data:    advisory,
			wantErr: "unable to open a file",
		},
		{
			name:    "yaml on read-only fs",
			appFs:   afero.NewReadOnlyFs(afero.NewMemMapFs()),
			format:  "yaml",
			data:    advisory,
			wantErr: "unable to open a file",
		},
		{
			name:    "unsupported json value",
			appFs:   afero.NewMemMapFs(),
			format:  "json",
			data:    math.NaN(),
			wantErr: "failed to marshal JSON: json: unsupported value: NaN",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := utils.NewFs(tt.appFs)
			filePath := "/updateinfo/FEDORA-2017-63f9b40927." + tt.format

			var err error
			if tt.format == "yaml" {
				err = fs.WriteYAML(filePath, tt.data)
			} else {
				err = fs.WriteJSON(filePath, tt.data)
			}
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := afero.ReadFile(tt.appFs, filePath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
