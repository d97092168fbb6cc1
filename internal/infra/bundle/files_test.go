package bundle

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/importer"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want importer.Format
	}{
		{"backup.json", importer.FormatJSON},
		{"backup.YAML", importer.FormatYAML},
		{"backup.yml", importer.FormatYAML},
		{"tasks.csv", importer.FormatCSV},
		{"tasks.txt", importer.FormatCSV},
		{"tasks.tsv", importer.FormatTSV},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatForPath("tasks.xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestFiles_WriteThenRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := New(fs)

	require.NoError(t, files.WriteExport("/out/nested/backup.yaml", []byte("events: []\n")))

	data, format, err := files.ReadImport("/out/nested/backup.yaml")
	require.NoError(t, err)
	assert.Equal(t, importer.FormatYAML, format)
	assert.Equal(t, "events: []\n", string(data))
}

func TestFiles_ReadImport_Missing(t *testing.T) {
	files := New(afero.NewMemMapFs())

	_, _, err := files.ReadImport("/nope.csv")
	assert.Error(t, err)
}

func TestFiles_ReadImport_UnknownExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/notes.md", []byte("x"), 0o600))

	_, _, err := New(fs).ReadImport("/notes.md")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}
