package extractor

// Config is the filter surface of one extraction run. Zero values mean "no
// filter".
type Config struct {
	// Device keeps only records whose device attribute equals it exactly.
	Device string
	// SourceName keeps only records whose sourceName attribute equals it
	// exactly.
	SourceName string
	// Workout, when non-zero, is the 1-based index of the single workout
	// whose time window scopes the output. Records outside workout mode are
	// not processed at all.
	Workout int
	// Summary suppresses all data rows; only section headers and the final
	// tally are emitted.
	Summary bool
}
