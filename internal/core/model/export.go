package model

import (
	"encoding/xml"
	"io"
)

// HealthKit quantity type identifiers this tool extracts.
const (
	TypeHeartRate            = "HKQuantityTypeIdentifierHeartRate"
	TypeHeartRateVariability = "HKQuantityTypeIdentifierHeartRateVariabilitySDNN"
)

// Record is a single health observation from the export document. Absent
// attributes decode to the empty string.
type Record struct {
	Type       string `xml:"type,attr"`
	SourceName string `xml:"sourceName,attr"`
	Device     string `xml:"device,attr"`
	StartDate  string `xml:"startDate,attr"`
	EndDate    string `xml:"endDate,attr"`
	Value      string `xml:"value,attr"`

	// BeatSamples holds the nested per-beat series of an HRV record, in
	// document order. Empty for every other record type.
	BeatSamples []BeatSample `xml:"HeartRateVariabilityMetadataList>InstantaneousBeatsPerMinute"`
}

// BeatSample is one InstantaneousBeatsPerMinute child of an HRV record.
// Time is a date-less 12-hour wall-clock string; the first sample of a
// record establishes the record's time-zero reference.
type BeatSample struct {
	BPM  string `xml:"bpm,attr"`
	Time string `xml:"time,attr"`
}

// Workout is one exercise session. Its [StartDate, EndDate] window scopes
// record output when a workout filter is active.
type Workout struct {
	ActivityType string `xml:"workoutActivityType,attr"`
	StartDate    string `xml:"startDate,attr"`
	EndDate      string `xml:"endDate,attr"`
}

// Node is one dispatchable child of the export root: exactly one of Record
// or Workout is set.
type Node struct {
	Record  *Record
	Workout *Workout
}

// ExportDocument is the fully-loaded export. Nodes preserves the interleaved
// document order of Record and Workout elements; the driver depends on it
// for the 1-based workout index.
type ExportDocument struct {
	Nodes []Node
}

// Records returns every record in document order. The workout scoper
// re-scans this list for each scoped workout.
func (d *ExportDocument) Records() []*Record {
	var records []*Record
	for i := range d.Nodes {
		if d.Nodes[i].Record != nil {
			records = append(records, d.Nodes[i].Record)
		}
	}
	return records
}

// DecodeExport reads a full export document from r. Only Record and Workout
// elements are retained; every other element is skipped without validation.
func DecodeExport(r io.Reader) (*ExportDocument, error) {
	decoder := xml.NewDecoder(r)
	doc := &ExportDocument{}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "Record":
			var rec Record
			if err := decoder.DecodeElement(&rec, &start); err != nil {
				return nil, err
			}
			doc.Nodes = append(doc.Nodes, Node{Record: &rec})
		case "Workout":
			var w Workout
			if err := decoder.DecodeElement(&w, &start); err != nil {
				return nil, err
			}
			doc.Nodes = append(doc.Nodes, Node{Workout: &w})
		}
	}

	return doc, nil
}
