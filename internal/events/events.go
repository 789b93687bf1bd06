// Package events publishes facets activity to the event bus.
package events

import (
	"context"

	"github.com/alfredjeanlab/facets/internal/model"
)

// Event topic constants
const (
	TopicViewSaved      = "facets.view.saved"
	TopicViewDeleted    = "facets.view.deleted"
	TopicRecordsQueried = "facets.records.queried"
	TopicRecordCreated  = "facets.record.created"

	// TopicAll matches every facets topic.
	TopicAll = "facets.>"
)

// Event types

type ViewSaved struct {
	View *model.View `json:"view"`
}

type ViewDeleted struct {
	Name string `json:"name"`
}

type RecordCreated struct {
	Record *model.Record `json:"record"`
}

// RecordsQueried describes one page of records served for a URL query.
type RecordsQueried struct {
	Query      string `json:"query"` // canonical query string
	Conditions int    `json:"conditions"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalCount int    `json:"total_count"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
