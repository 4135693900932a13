package extractor

import "fmt"

// MissingAttributeError reports an element that lacks an attribute the
// extraction cannot proceed without. It is fatal for the run.
type MissingAttributeError struct {
	Element   string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s element missing required attribute %q", e.Element, e.Attribute)
}
