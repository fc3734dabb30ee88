package domain

import "fmt"

// Dimension names a column records can be grouped or filtered by.
type Dimension string

const (
	DimensionPerson  Dimension = "person"
	DimensionProject Dimension = "project"
	DimensionDate    Dimension = "date"
)

// Dimensions lists the dimensions in display order.
var Dimensions = []Dimension{DimensionPerson, DimensionProject, DimensionDate}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(s); d {
	case DimensionPerson, DimensionProject, DimensionDate:
		return d, nil
	default:
		return "", fmt.Errorf("unknown dimension %q (expected person, project, or date)", s)
	}
}

// NarrativeState records what happened to the optional narrative step.
type NarrativeState string

const (
	NarrativeOK       NarrativeState = "ok"
	NarrativeDisabled NarrativeState = "disabled" // no credential configured
	NarrativeSkipped  NarrativeState = "skipped"  // not requested, or nothing to narrate
	NarrativeFailed   NarrativeState = "failed"
)
