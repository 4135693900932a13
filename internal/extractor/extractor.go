// Package extractor turns a loaded Apple Health export document into a flat
// heart-rate time series. One Run is a single synchronous forward pass:
// header, node dispatch in document order, optional summary footer. Output
// rows stream to the sink as they are produced and are never revisited.
package extractor

import (
	"fmt"
	"time"

	"github.com/penwyp/go-health-extractor/internal/core/model"
	"github.com/penwyp/go-health-extractor/internal/presentation/sink"
	"github.com/penwyp/go-health-extractor/internal/util"
)

// Extractor drives record classification over one export document.
type Extractor struct {
	config *Config
	sink   sink.Sink
	logger util.LoggerInterface
	tally  *Tally
}

// New creates an Extractor. logger may be nil.
func New(config *Config, out sink.Sink, logger util.LoggerInterface) *Extractor {
	return &Extractor{
		config: config,
		sink:   out,
		logger: logger,
	}
}

// Run processes the whole document once. Any fatal condition (malformed
// timestamp, missing required attribute, sink failure) aborts the pass;
// output already written stays written.
func (e *Extractor) Run(doc *model.ExportDocument) error {
	start := time.Now()
	// Fresh tally per run keeps repeated runs byte-identical.
	e.tally = NewTally()

	if err := e.sink.Header(); err != nil {
		return err
	}

	workoutIdx := 0
	for i := range doc.Nodes {
		node := &doc.Nodes[i]
		switch {
		case node.Record != nil:
			if e.config.Workout != 0 {
				// Workout mode: records surface only through the scoped
				// workout's window.
				continue
			}
			key, err := e.classifyRecord(node.Record, nil)
			if err != nil {
				return err
			}
			if key != nil {
				e.tally.Add(*key)
			}
		case node.Workout != nil:
			workoutIdx++
			if e.config.Workout == workoutIdx || e.config.Summary {
				if err := e.scopeWorkout(node.Workout, doc, workoutIdx); err != nil {
					return err
				}
			}
		}
	}

	if e.config.Summary {
		for _, entry := range e.tally.Entries() {
			line := fmt.Sprintf("# %6d Records from sourceName: %-16s type: %s",
				entry.Count, entry.Key.SourceName, entry.Key.Type)
			if err := e.sink.Comment(line); err != nil {
				return err
			}
		}
	}

	if e.logger != nil {
		e.logger.Debugf("Extraction pass finished: %d nodes, %d workouts, duration %v",
			len(doc.Nodes), workoutIdx, time.Since(start))
	}

	return nil
}

// Tally returns the per-(sourceName, type) counts accumulated by the last
// Run.
func (e *Extractor) Tally() *Tally {
	return e.tally
}
