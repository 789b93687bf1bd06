// Package server serves records filtered and paged by URL query, the field
// set that drives filter menus, and saved views.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/facets/internal/events"
	"github.com/alfredjeanlab/facets/internal/fieldset"
	"github.com/alfredjeanlab/facets/internal/pagination"
	"github.com/alfredjeanlab/facets/internal/store"
)

// maxOptionResults caps distinct-value option searches.
const maxOptionResults = 50

// Server holds the dependencies shared by the HTTP and gRPC surfaces.
type Server struct {
	store        store.Store
	publisher    events.Publisher
	fields       *fieldset.Set
	defaultLimit int
	sseHub       *sseHub
	logger       *slog.Logger
	now          func() time.Time
}

// Options configures a Server. Zero values select defaults.
type Options struct {
	Fields       *fieldset.Set // default fieldset.Default()
	DefaultLimit int           // default pagination.DefaultLimit
	Logger       *slog.Logger  // default slog.Default()
}

// New returns a Server backed by the given store and publisher.
func New(s store.Store, p events.Publisher, opts Options) *Server {
	if opts.Fields == nil {
		opts.Fields = fieldset.Default()
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = pagination.DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		store:        s,
		publisher:    p,
		fields:       opts.Fields,
		defaultLimit: opts.DefaultLimit,
		sseHub:       newSSEHub(),
		logger:       opts.Logger,
		now:          time.Now,
	}
}

// publish sends an event to the bus and to SSE clients. Failures are
// logged and never fail the request.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }
