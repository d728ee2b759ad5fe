package cases

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// FieldPartition is a three-way split of a case's field names.
type FieldPartition struct {
	// Satisfied holds required fields that have been received.
	Satisfied []string
	// Missing holds required fields not yet received.
	Missing []string
	// Extra holds received fields that were never required.
	Extra []string
}

// AddFieldValue returns a copy of the case with the named field set.
// An existing entry under the same name is overwritten, last write
// wins. The case's modification timestamp is updated.
func AddFieldValue(c Case, name, value, sourceID string, confidence float64, now time.Time) Case {
	fields := make(map[string]FieldValue, len(c.ReceivedFields)+1)
	maps.Copy(fields, c.ReceivedFields)

	fields[name] = FieldValue{
		FieldName:  name,
		Value:      value,
		ReceivedAt: now,
		SourceID:   sourceID,
		Confidence: confidence,
	}

	c.ReceivedFields = fields
	c.UpdatedAt = now
	return c
}

// CategorizeFields partitions the case's fields into satisfied,
// missing, and extra sets. Satisfied and missing preserve
// required-field order; extra is sorted.
func CategorizeFields(c *Case) FieldPartition {
	p := FieldPartition{
		Satisfied: make([]string, 0),
		Missing:   make([]string, 0),
		Extra:     make([]string, 0),
	}

	for _, field := range c.RequiredFields {
		if _, ok := c.ReceivedFields[field]; ok {
			p.Satisfied = append(p.Satisfied, field)
		} else {
			p.Missing = append(p.Missing, field)
		}
	}

	for name := range c.ReceivedFields {
		if !slices.Contains(c.RequiredFields, name) {
			p.Extra = append(p.Extra, name)
		}
	}
	slices.Sort(p.Extra)

	return p
}

// LowConfidenceFields returns received fields whose confidence falls
// below the threshold, sorted by field name.
func LowConfidenceFields(c *Case, threshold float64) []FieldValue {
	low := make([]FieldValue, 0)
	for _, fv := range c.ReceivedFields {
		if fv.Confidence < threshold {
			low = append(low, fv)
		}
	}

	slices.SortFunc(low, func(a, b FieldValue) int {
		return strings.Compare(a.FieldName, b.FieldName)
	})

	return low
}

// SuggestNextAction produces a human-readable suggestion driven by
// the count of missing fields.
func SuggestNextAction(c *Case) string {
	missing := c.MissingFields()

	switch len(missing) {
	case 0:
		return "all required fields received"
	case 1:
		return fmt.Sprintf("chase provider for: %s", missing[0])
	default:
		return fmt.Sprintf("chase provider for %d missing fields", len(missing))
	}
}
