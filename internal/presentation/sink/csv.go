package sink

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// csvHeader is the fixed column header of the flat time-series output.
const csvHeader = "start_date,end_date,observation_time,hr_bpm"

// CSVSink writes the historical CSV text format: a leading blank line, the
// fixed header, then raw comma-joined rows. Fields are written verbatim
// with no quoting or escaping; device strings in particular contain commas,
// and downstream consumers of this format expect them unescaped.
type CSVSink struct {
	w *bufio.Writer
}

// NewCSVSink creates a CSVSink writing to w. The caller keeps ownership of
// the underlying writer.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: bufio.NewWriter(w)}
}

// Header writes the leading blank line and the column header.
func (s *CSVSink) Header() error {
	if _, err := fmt.Fprintln(s.w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.w, csvHeader)
	return err
}

// Row writes one comma-joined data row.
func (s *CSVSink) Row(row Row) error {
	_, err := fmt.Fprintln(s.w, strings.Join(row[:], ","))
	return err
}

// Comment writes one comment line as-is.
func (s *CSVSink) Comment(line string) error {
	_, err := fmt.Fprintln(s.w, line)
	return err
}

// Close flushes buffered lines.
func (s *CSVSink) Close() error {
	return s.w.Flush()
}
