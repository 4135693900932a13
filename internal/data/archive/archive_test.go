package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExportZip(t *testing.T, dir string, names ...string) string {
	t.Helper()

	zipPath := filepath.Join(dir, "export.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, name := range names {
		entry, err := w.Create("apple_health_export/" + name)
		require.NoError(t, err)
		_, err = entry.Write([]byte("<HealthData></HealthData>"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return zipPath
}

func TestPrepareFromZip(t *testing.T) {
	tempDir := t.TempDir()
	zipPath := writeExportZip(t, tempDir, "export.xml", "export_cda.xml")

	files, err := Prepare(zipPath, "")
	require.NoError(t, err)
	defer files.Close()

	assert.FileExists(t, files.ExportPath)
	assert.FileExists(t, files.CDAPath)
	assert.Equal(t, "export.xml", filepath.Base(files.ExportPath))
	assert.Equal(t, "export_cda.xml", filepath.Base(files.CDAPath))
}

func TestPrepareFromZipDirectoryInput(t *testing.T) {
	tempDir := t.TempDir()
	writeExportZip(t, tempDir, "export.xml", "export_cda.xml")

	// A directory input resolves to the expected export.zip inside it.
	files, err := Prepare(tempDir, "")
	require.NoError(t, err)
	defer files.Close()

	assert.FileExists(t, files.ExportPath)
}

func TestPrepareCloseRemovesTempDir(t *testing.T) {
	tempDir := t.TempDir()
	zipPath := writeExportZip(t, tempDir, "export.xml", "export_cda.xml")

	files, err := Prepare(zipPath, "")
	require.NoError(t, err)
	require.NoError(t, files.Close())

	assert.NoFileExists(t, files.ExportPath)
}

func TestPrepareMissingCDAFile(t *testing.T) {
	tempDir := t.TempDir()
	zipPath := writeExportZip(t, tempDir, "export.xml")

	_, err := Prepare(zipPath, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export_cda.xml")
}

func TestPrepareMissingExportFile(t *testing.T) {
	tempDir := t.TempDir()
	zipPath := writeExportZip(t, tempDir, "export_cda.xml")

	_, err := Prepare(zipPath, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.xml")
}

func TestPrepareFromDataDir(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "export.xml"), []byte("<HealthData/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "export_cda.xml"), []byte("<xml/>"), 0644))

	files, err := Prepare("", tempDir)
	require.NoError(t, err)
	defer files.Close()

	assert.Equal(t, filepath.Join(tempDir, "export.xml"), files.ExportPath)
}

func TestPrepareBothInputsRejected(t *testing.T) {
	_, err := Prepare("/some/export.zip", "/some/dir")
	assert.Error(t, err)
}

func TestPrepareNoInput(t *testing.T) {
	_, err := Prepare("", "")
	assert.Error(t, err)
}

func TestPrepareMissingInputFile(t *testing.T) {
	_, err := Prepare("/path/that/does/not/exist.zip", "")
	assert.Error(t, err)
}
