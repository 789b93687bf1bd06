package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/pagination"
)

// queryFlags are the flags shared by commands that request a page of
// records.
type queryFlags struct {
	query   string
	filters []string
	page    int
	limit   int
	search  string
	sort    string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&q.query, "query", "", "raw URL query to start from (e.g. \"filters=status:is:open&page=2\")")
	cmd.Flags().StringArrayVarP(&q.filters, "filter", "f", nil, "filter as field:operator:value (repeatable)")
	cmd.Flags().IntVarP(&q.page, "page", "p", 0, "page number (1-based)")
	cmd.Flags().IntVarP(&q.limit, "limit", "n", 0, fmt.Sprintf("page size, one of %s", limitChoices()))
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "substring match on title")
	cmd.Flags().StringVar(&q.sort, "sort", "", "sort column, prefix \"-\" for descending (e.g. -priority)")
}

// values merges the flags over the --query string. Filter flags are
// appended to filters already in the query.
func (q *queryFlags) values() (url.Values, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(q.query, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}
	if len(q.filters) > 0 {
		entries := make([]string, 0, len(q.filters)+1)
		if existing := values.Get(filter.DefaultParamName); existing != "" {
			entries = append(entries, existing)
		}
		for _, f := range q.filters {
			if strings.Count(f, ":") < 2 {
				return nil, fmt.Errorf("invalid --filter %q: want field:operator:value", f)
			}
			entries = append(entries, f)
		}
		values.Set(filter.DefaultParamName, strings.Join(entries, ","))
	}
	if q.page > 0 {
		values.Set(pagination.DefaultPageParam, strconv.Itoa(q.page))
	}
	if q.limit > 0 {
		values.Set(pagination.DefaultLimitParam, strconv.Itoa(q.limit))
	}
	if q.search != "" {
		values.Set("search", q.search)
	}
	if q.sort != "" {
		values.Set("sort", q.sort)
	}
	return values, nil
}

func limitChoices() string {
	parts := make([]string, len(pagination.DefaultAllowedLimits))
	for i, n := range pagination.DefaultAllowedLimits {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

var listFlags queryFlags

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List records matching filters",
	GroupID: "records",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := listFlags.values()
		if err != nil {
			return err
		}
		page, err := facetsClient.ListRecords(cmd.Context(), values)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(page)
		}
		fields, err := loadFields(cmd.Context())
		if err != nil {
			return err
		}
		printRecordsPage(page, fields)
		return nil
	},
}

func init() {
	listFlags.register(listCmd)
}
