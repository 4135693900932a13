package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-health-extractor/internal/data/archive"
	"github.com/penwyp/go-health-extractor/internal/data/parser"
	"github.com/penwyp/go-health-extractor/internal/data/watcher"
	"github.com/penwyp/go-health-extractor/internal/extractor"
	"github.com/penwyp/go-health-extractor/internal/presentation/sink"
	"github.com/penwyp/go-health-extractor/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Input data
	infile  string
	datadir string

	// Output related
	outfile      string
	outputFormat string

	// Filtering
	device     string
	sourceName string
	workout    int
	summary    bool

	// Watch mode
	watch bool

	rootCmd = &cobra.Command{
		Use:   "go-health-extractor [flags]",
		Short: "Apple Health heart-rate extraction tool",
		Long: `go-health-extractor converts the heart-rate and heart-rate-variability
records of an Apple Health export into a flat time-series file.

The tool accepts either the export.zip downloaded from the Health app or a
directory with the already-extracted files, and writes one row per
observation, with per-beat HRV samples rebuilt into absolute timestamps.

Examples:
  go-health-extractor --infile export.zip                    # Extract everything to out.csv
  go-health-extractor --datadir ./apple_health_export        # Use pre-extracted files
  go-health-extractor --infile export.zip --summary          # Only per-source/type counts
  go-health-extractor --infile export.zip --workout 3        # Records of the third workout only
  go-health-extractor --infile export.zip --source-name "Apple Watch"
  go-health-extractor --datadir ./data --output parquet      # Parquet instead of CSV
  go-health-extractor --datadir ./data --watch               # Re-extract on file change`,
		RunE: runExtract,
	}
)

const defaultLogFile = "~/.go-health-extractor/logs/app.log"

func init() {
	// Input data configuration
	rootCmd.Flags().StringVar(&infile, "infile", "",
		"Path to Apple Health export zipball (or a directory containing export.zip)")
	rootCmd.Flags().StringVar(&datadir, "datadir", "",
		"Path to already-extracted Apple Health files")

	// Filtering
	rootCmd.Flags().StringVar(&device, "device", "",
		"Filter records by device (exact match)")
	rootCmd.Flags().StringVar(&sourceName, "source-name", "",
		"Filter records by sourceName (exact match)")
	rootCmd.Flags().IntVarP(&workout, "workout", "w", 0,
		"Restrict output to the Nth workout's time window (1-based)")
	rootCmd.Flags().BoolVarP(&summary, "summary", "s", false,
		"Just print a summary of what is in the export")

	// Output configuration
	rootCmd.Flags().StringVar(&outfile, "outfile", "",
		"Path to output file (default ./out.csv, or stdout in summary mode)")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "csv",
		"Output format (csv, parquet)")

	// System and debugging
	rootCmd.Flags().BoolVar(&watch, "watch", false,
		"Keep running and re-extract when the export file changes")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	util.InitLogger(logLevel, logFile, debug)

	if outputFormat != "csv" && outputFormat != "parquet" {
		return fmt.Errorf("unsupported output format %q (csv, parquet)", outputFormat)
	}

	if infile != "" {
		infile = expandPath(infile)
		util.LogInfof("Path to input: %s", infile)
	}
	if datadir != "" {
		datadir = expandPath(datadir)
		util.LogInfof("Path to readily available data: %s", datadir)
	}

	files, err := archive.Prepare(infile, datadir)
	if err != nil {
		return err
	}
	defer files.Close()

	util.LogInfof("Processing export file %s", files.ExportPath)

	config := &extractor.Config{
		Device:     device,
		SourceName: sourceName,
		Workout:    workout,
		Summary:    summary,
	}

	p := parser.NewParser()
	if err := extractOnce(p, files.ExportPath, config); err != nil {
		return err
	}

	if watch {
		return watchAndExtract(p, files.ExportPath, config)
	}
	return nil
}

// extractOnce runs one full extraction pass against the export file,
// creating the output sink fresh so repeated runs replace the output.
func extractOnce(p *parser.Parser, exportPath string, config *extractor.Config) error {
	doc, err := p.ParseFile(exportPath)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}

	s := buildSink(out)
	e := extractor.New(config, s, util.GetLogger())

	runErr := e.Run(doc)
	if closeErr := s.Close(); runErr == nil {
		runErr = closeErr
	}
	if closeOut != nil {
		if closeErr := closeOut(); runErr == nil {
			runErr = closeErr
		}
	}
	return runErr
}

func watchAndExtract(p *parser.Parser, exportPath string, config *extractor.Config) error {
	w, err := watcher.NewExportWatcher([]string{exportPath})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer w.Close()

	util.LogInfof("Watching %s for changes", exportPath)
	for event := range w.Events() {
		if event.Path != exportPath {
			continue
		}
		util.LogInfof("Export changed (%s), re-extracting", event.Operation)
		p.Invalidate(exportPath)
		if err := extractOnce(p, exportPath, config); err != nil {
			util.LogErrorf("Re-extraction failed: %v", err)
		}
	}
	return nil
}

// openOutput resolves the output destination: --outfile when set, otherwise
// out.csv / out.parquet, except summary mode which defaults to stdout.
func openOutput() (io.Writer, func() error, error) {
	path := outfile
	if path == "" {
		if summary {
			return os.Stdout, nil, nil
		}
		path = "out." + outputFormat
	}

	f, err := os.Create(expandPath(path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func buildSink(w io.Writer) sink.Sink {
	switch outputFormat {
	case "parquet":
		return sink.NewParquetSink(w)
	default:
		return sink.NewCSVSink(w)
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
