package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-health-extractor/internal/util"
)

const (
	exportZipName  = "export.zip"
	exportDirName  = "apple_health_export"
	exportFileName = "export.xml"
	cdaFileName    = "export_cda.xml"
)

// ExportFiles holds the two key files of a prepared Apple Health export.
// The CDA file's presence is validated, but its content is never read.
type ExportFiles struct {
	ExportPath string
	CDAPath    string

	tempDir string
}

// Prepare locates the export data. Exactly one of infile (an export.zip, or
// a directory containing one) or datadir (already-extracted files) must be
// given. Call Close when done; it removes the extraction tempdir in zip
// mode and is a no-op otherwise.
func Prepare(infile, datadir string) (*ExportFiles, error) {
	if infile != "" && datadir != "" {
		return nil, fmt.Errorf("cannot have both an input file to extract and a ready-extracted data dir")
	}

	switch {
	case infile != "":
		return prepareFromZip(infile)
	case datadir != "":
		return prepareFromDir(datadir)
	default:
		return nil, fmt.Errorf("no input given: need an export zipball or a data directory")
	}
}

// Close removes the extraction tempdir, if any.
func (f *ExportFiles) Close() error {
	if f.tempDir == "" {
		return nil
	}
	return os.RemoveAll(f.tempDir)
}

func prepareFromZip(infile string) (*ExportFiles, error) {
	info, err := os.Stat(infile)
	if err != nil {
		return nil, fmt.Errorf("bad input file received %s: %w", infile, err)
	}

	inputFile := infile
	if info.IsDir() {
		// Not an exact file input, look for the expected name.
		inputFile = filepath.Join(infile, exportZipName)
		if _, err := os.Stat(inputFile); err != nil {
			return nil, fmt.Errorf("received input directory, but expected input file %s not found", inputFile)
		}
	}

	tempDir, err := os.MkdirTemp("", "health-export-*")
	if err != nil {
		return nil, err
	}
	util.LogInfof("Working in folder %s", tempDir)

	start := time.Now()
	if err := extractZip(inputFile, tempDir); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to extract %s: %w", inputFile, err)
	}
	util.LogDebugf("Archive extraction duration: %v", time.Since(start))

	files, err := keyFiles(filepath.Join(tempDir, exportDirName))
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}
	files.tempDir = tempDir
	return files, nil
}

func prepareFromDir(datadir string) (*ExportFiles, error) {
	info, err := os.Stat(datadir)
	if err != nil {
		return nil, fmt.Errorf("bad input file received %s: %w", datadir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("received non-directory input %s", datadir)
	}
	return keyFiles(datadir)
}

func keyFiles(dir string) (*ExportFiles, error) {
	cdaPath := filepath.Join(dir, cdaFileName)
	exportPath := filepath.Join(dir, exportFileName)

	if _, err := os.Stat(cdaPath); err != nil {
		return nil, fmt.Errorf("bad input file received, missing key file %s", cdaFileName)
	}
	if _, err := os.Stat(exportPath); err != nil {
		return nil, fmt.Errorf("bad input file received, missing key file %s", exportFileName)
	}

	return &ExportFiles{ExportPath: exportPath, CDAPath: cdaPath}, nil
}

func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		target := filepath.Join(destDir, file.Name)
		// Reject entries that escape the destination.
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal archive entry path: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(file *zip.File, target string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
