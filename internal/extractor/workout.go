package extractor

import (
	"fmt"

	"github.com/penwyp/go-health-extractor/internal/core/hktime"
	"github.com/penwyp/go-health-extractor/internal/core/model"
)

// scopeWorkout writes a workout section header and re-drives record
// classification over the whole document, restricted to the workout's
// [start, end] window. Summary mode stops after the header; the tally is
// fed by the main dispatch pass only.
func (e *Extractor) scopeWorkout(w *model.Workout, doc *model.ExportDocument, index int) error {
	if w.ActivityType == "" {
		return &MissingAttributeError{Element: "Workout", Attribute: "workoutActivityType"}
	}
	if w.StartDate == "" {
		return &MissingAttributeError{Element: "Workout", Attribute: "startDate"}
	}
	if w.EndDate == "" {
		return &MissingAttributeError{Element: "Workout", Attribute: "endDate"}
	}

	start, err := hktime.ParseAbsolute(w.StartDate)
	if err != nil {
		return err
	}
	end, err := hktime.ParseAbsolute(w.EndDate)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("# [%d] : %s : %s - %s", index, w.ActivityType, w.StartDate, w.EndDate)
	if err := e.sink.Comment(header); err != nil {
		return err
	}
	if e.config.Summary {
		return nil
	}

	// The full record set is re-scanned per workout. Only one workout is
	// ever scoped outside summary mode, so an index is not worth building.
	window := &timeWindow{start: start, end: end}
	for _, rec := range doc.Records() {
		if _, err := e.classifyRecord(rec, window); err != nil {
			return err
		}
	}

	return nil
}
