package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/facets/internal/store"
)

// header is the first JSONL line written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ViewCount int       `json:"view_count"`
}

// line wraps a single JSONL entry with a type discriminator.
type line struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every saved view in the store as JSONL to w: a
// header line followed by one "view" line per view, sorted by name.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	views, err := s.ListViews(ctx)
	if err != nil {
		return fmt.Errorf("list views: %w", err)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		ViewCount: len(views),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, v := range views {
		if err := enc.Encode(line{Type: "view", Data: v}); err != nil {
			return fmt.Errorf("encode view %s: %w", v.Name, err)
		}
	}
	return nil
}
