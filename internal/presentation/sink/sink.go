package sink

// Row is one output line's four columns, positionally matching the CSV
// header start_date,end_date,observation_time,hr_bpm. Heart-rate rows fill
// them as (start, end, "", bpm); HRV-derived rows reuse the same columns as
// (reconstructed instant, bpm, sourceName, device).
type Row [4]string

// Sink receives extraction output in document order. Rows are streamed one
// at a time and never revisited.
type Sink interface {
	// Header emits the column header. Called exactly once, before any row.
	Header() error
	// Row emits one data row.
	Row(row Row) error
	// Comment emits one `# ...` line (workout section headers, summary
	// tallies). Sinks without a comment representation may drop it.
	Comment(line string) error
	// Close flushes buffered output. It does not close the underlying
	// writer.
	Close() error
}
