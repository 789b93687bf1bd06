package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/facets/internal/client"
	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/ui"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printRecordTable(r *model.Record) {
	fmt.Printf("ID:          %s\n", r.ID)
	fmt.Printf("Title:       %s\n", r.Title)
	fmt.Printf("Status:      %s\n", r.Status)
	fmt.Printf("Priority:    %d\n", r.Priority)
	if r.Assignee != "" {
		fmt.Printf("Assignee:    %s\n", r.Assignee)
	}
	if len(r.Fields) > 0 {
		fmt.Printf("Fields:      %s\n", string(r.Fields))
	}
	if !r.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !r.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", r.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

// printRecordsPage prints the active filters, the records, and the page
// selector.
func printRecordsPage(page *client.RecordsPage, fields filter.Fields) {
	if chips := filter.Chips(page.Filters, fields); len(chips) > 0 {
		fmt.Println(ui.RenderMuted("Filters: ") + ui.RenderChipLine(chips))
		fmt.Println()
	}

	maxTitle := min(50, max(20, ui.Width()/2))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tTITLE\tASSIGNEE\tCREATED")
	for _, r := range page.Records {
		title := r.Title
		if runes := []rune(title); len(runes) > maxTitle {
			title = string(runes[:maxTitle-3]) + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID,
			r.Status,
			r.Priority,
			title,
			r.Assignee,
			r.CreatedAt.Format(filter.DateLayout),
		)
	}
	w.Flush()
	fmt.Println()
	fmt.Println(ui.RenderPager(page.State))
}

func printViewList(views []*model.View) {
	if len(views) == 0 {
		fmt.Println("no saved views")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tQUERY\tCREATED")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Query, v.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
