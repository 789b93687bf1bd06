package model

import (
	"encoding/json"
	"time"
)

// Status represents the lifecycle state of a record.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusClosed     Status = "closed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusClosed:
		return true
	}
	return false
}

// Record is one row of the filterable collection.
type Record struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Status    Status          `json:"status"`
	Priority  int             `json:"priority"`
	Assignee  string          `json:"assignee,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Fields    json.RawMessage `json:"fields,omitempty"`
}

// View is a named, saved URL query over records.
type View struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}
