package main

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/alfredjeanlab/facets/internal/client"
	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/model"
)

// optionsClient answers option searches and nothing else.
type optionsClient struct {
	client.FacetsClient
	gotField, gotQuery string
}

func (c *optionsClient) SearchOptions(_ context.Context, fieldID, query string) ([]filter.Option, error) {
	c.gotField, c.gotQuery = fieldID, query
	return []filter.Option{{Value: "alice", Label: "alice"}}, nil
}

func (c *optionsClient) ListRecords(context.Context, url.Values) (*client.RecordsPage, error) {
	return &client.RecordsPage{Records: []*model.Record{}}, nil
}

func withClient(t *testing.T, c client.FacetsClient) {
	t.Helper()
	prev := facetsClient
	facetsClient = c
	t.Cleanup(func() { facetsClient = prev })
}

func TestBindLoaders(t *testing.T) {
	oc := &optionsClient{}
	withClient(t, oc)

	fields := bindLoaders(filter.Fields{
		{ID: "status", Label: "Status", Type: filter.TypeSelect},
		{ID: "assignee", Label: "Assignee", Type: filter.TypeAsyncSelect},
	})
	if fields[0].LoadOptions != nil {
		t.Error("select field got a loader")
	}
	if fields[1].LoadOptions == nil {
		t.Fatal("async field has no loader")
	}
	opts, err := fields[1].LoadOptions(context.Background(), "al")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(opts) != 1 || oc.gotField != "assignee" || oc.gotQuery != "al" {
		t.Errorf("opts=%v field=%q query=%q", opts, oc.gotField, oc.gotQuery)
	}
}

func TestLoadFields_File(t *testing.T) {
	withClient(t, &optionsClient{})
	path := filepath.Join(t.TempDir(), "fields.toml")
	data := `
[[fields]]
id = "owner"
label = "Owner"
type = "asyncSelect"
column = "assignee"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	prev := fieldsFile
	fieldsFile = path
	t.Cleanup(func() { fieldsFile = prev })

	fields, err := loadFields(context.Background())
	if err != nil {
		t.Fatalf("loadFields: %v", err)
	}
	f, ok := fields.Lookup("owner")
	if !ok || f.LoadOptions == nil {
		t.Fatalf("owner = %+v, ok=%v", f, ok)
	}
}

func TestOfflineFields_Default(t *testing.T) {
	prev := fieldsFile
	fieldsFile = ""
	t.Cleanup(func() { fieldsFile = prev })

	fields, err := offlineFields()
	if err != nil {
		t.Fatalf("offlineFields: %v", err)
	}
	if _, ok := fields.Lookup("status"); !ok {
		t.Error("default fields have no status")
	}
}
