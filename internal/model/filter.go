package model

import "github.com/alfredjeanlab/facets/internal/filter"

// Condition is one filter resolved against storage: the column it targets
// and a concrete value. Date values are already YYYY-MM-DD.
type Condition struct {
	Column    string          `json:"column"`
	Attribute bool            `json:"attribute,omitempty"` // column names a key in Record.Fields
	Operator  filter.Operator `json:"operator"`
	Value     string          `json:"value"`
}

// RecordFilter holds criteria for querying records.
type RecordFilter struct {
	Conditions []Condition `json:"conditions,omitempty"`
	Search     string      `json:"search,omitempty"` // substring match on title
	Sort       string      `json:"sort,omitempty"`   // e.g. "-priority", "created_at"; prefix "-" = descending
	Limit      int         `json:"limit,omitempty"`
	Offset     int         `json:"offset,omitempty"`
}
