package extractor

import (
	"time"

	"github.com/penwyp/go-health-extractor/internal/core/hktime"
	"github.com/penwyp/go-health-extractor/internal/core/model"
	"github.com/penwyp/go-health-extractor/internal/presentation/sink"
)

// timeWindow is a closed [start, end] interval, taken from a workout.
type timeWindow struct {
	start time.Time
	end   time.Time
}

// classifyRecord decides whether rec is in scope and emits its output rows.
// A nil key with a nil error means the record was skipped: absent type, or
// filtered out by device, sourceName, or the window. Skipped records get no
// tally entry.
func (e *Extractor) classifyRecord(rec *model.Record, window *timeWindow) (*TallyKey, error) {
	if rec.Type == "" {
		return nil, nil
	}

	sourceName := rec.SourceName
	device := rec.Device

	// Exact-equality filters, no pattern matching.
	if e.config.Device != "" && e.config.Device != device {
		return nil, nil
	}
	if e.config.SourceName != "" && e.config.SourceName != sourceName {
		return nil, nil
	}

	if rec.StartDate == "" {
		return nil, &MissingAttributeError{Element: "Record", Attribute: "startDate"}
	}
	if rec.EndDate == "" {
		return nil, &MissingAttributeError{Element: "Record", Attribute: "endDate"}
	}

	if window != nil {
		recStart, err := hktime.ParseAbsolute(rec.StartDate)
		if err != nil {
			return nil, err
		}
		recEnd, err := hktime.ParseAbsolute(rec.EndDate)
		if err != nil {
			return nil, err
		}
		// Approximate overlap heuristic carried over from the original
		// exporter, not a strict interval intersection. Both branches must
		// fail for the record to stay in scope.
		if window.start.Before(recStart) && window.end.Before(recEnd) {
			return nil, nil
		}
		if window.start.After(recStart) && window.end.After(recEnd) {
			return nil, nil
		}
	}

	switch rec.Type {
	case model.TypeHeartRate:
		if rec.Value != "" {
			if err := e.emit(sink.Row{rec.StartDate, rec.EndDate, "", rec.Value}); err != nil {
				return nil, err
			}
		}
	case model.TypeHeartRateVariability:
		if err := e.emitBeatRows(rec, sourceName, device); err != nil {
			return nil, err
		}
	}
	// Unrecognized types emit nothing but still classify, so the summary
	// tally stays complete for future record types.

	return &TallyKey{SourceName: sourceName, Type: rec.Type}, nil
}

// emitBeatRows reconstructs one absolute instant per beat sample of an HRV
// record and emits one row each. The record's own startDate is the sequence
// start; the first sample's wall-clock time, bpm or not, is the reference
// every offset is measured from.
func (e *Extractor) emitBeatRows(rec *model.Record, sourceName, device string) error {
	if len(rec.BeatSamples) == 0 {
		return nil
	}

	sequenceStart, err := hktime.ParseAbsolute(rec.StartDate)
	if err != nil {
		return err
	}
	reference, err := hktime.ParseTimeOfDay(rec.BeatSamples[0].Time)
	if err != nil {
		return err
	}

	for _, sample := range rec.BeatSamples {
		if sample.BPM == "" {
			continue
		}
		sampleTime, err := hktime.ParseTimeOfDay(sample.Time)
		if err != nil {
			return err
		}
		instant := hktime.Reconstruct(sequenceStart, reference, sampleTime)
		row := sink.Row{hktime.FormatInstant(instant), sample.BPM, sourceName, device}
		if err := e.emit(row); err != nil {
			return err
		}
	}

	return nil
}

// emit streams one row to the sink, unless summary mode suppresses it.
func (e *Extractor) emit(row sink.Row) error {
	if e.config.Summary {
		return nil
	}
	return e.sink.Row(row)
}
