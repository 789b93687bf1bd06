package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/facets/internal/model"
)

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.ViewCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_Views(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		ms.views[name] = &model.View{ID: "vw-" + name, Name: name, Query: "filters=status:is:open&limit=50", CreatedAt: now}
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.ViewCount != 3 {
		t.Fatalf("header view_count = %d", h.ViewCount)
	}

	var names []string
	for _, l := range lines[1:] {
		var entry struct {
			Type string     `json:"type"`
			Data model.View `json:"data"`
		}
		if err := json.Unmarshal([]byte(l), &entry); err != nil {
			t.Fatalf("unmarshal %s: %v", l, err)
		}
		if entry.Type != "view" {
			t.Fatalf("type = %q, want view", entry.Type)
		}
		names = append(names, entry.Data.Name)
	}
	if strings.Join(names, ",") != "alpha,mid,zeta" {
		t.Errorf("views not sorted by name: %v", names)
	}

	// The query is written verbatim, without HTML escaping of '&'.
	if !strings.Contains(lines[1], "status:is:open&limit=50") {
		t.Errorf("query escaped: %s", lines[1])
	}
}

func TestExportJSONL_ListError(t *testing.T) {
	ms := newMockStore()
	ms.listErr = errListFailed
	err := ExportJSONL(context.Background(), ms, &bytes.Buffer{})
	if !errors.Is(err, errListFailed) {
		t.Fatalf("err = %v, want wrapped errListFailed", err)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
