package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/client"
	"github.com/alfredjeanlab/facets/internal/fieldset"
	"github.com/alfredjeanlab/facets/internal/filter"
)

// loadFields returns the field set for parsing and menus: the --fields
// file when given, otherwise the server's. Async fields search options on
// the server.
func loadFields(ctx context.Context) (filter.Fields, error) {
	if fieldsFile != "" {
		set, err := fieldset.Load(fieldsFile)
		if err != nil {
			return nil, err
		}
		return set.WithLoaders(serverLoader), nil
	}
	fields, err := facetsClient.Fields(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching fields: %w", err)
	}
	return bindLoaders(fields), nil
}

// offlineFields returns the --fields file, or the built-in set, without
// contacting a server.
func offlineFields() (filter.Fields, error) {
	if fieldsFile == "" {
		return fieldset.Default().Fields(), nil
	}
	set, err := fieldset.Load(fieldsFile)
	if err != nil {
		return nil, err
	}
	return set.Fields(), nil
}

func serverLoader(fieldID string) filter.LoaderFunc {
	return client.Loader(facetsClient, fieldID)
}

// bindLoaders attaches a server-backed loader to every async field.
func bindLoaders(fields filter.Fields) filter.Fields {
	out := make(filter.Fields, len(fields))
	for i, f := range fields {
		if f.Type == filter.TypeAsyncSelect {
			f.LoadOptions = serverLoader(f.ID)
		}
		out[i] = f
	}
	return out
}

var fieldsCmd = &cobra.Command{
	Use:     "fields",
	Short:   "List the fields records can be filtered on",
	GroupID: "filters",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := loadFields(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(fields)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tTYPE\tOPERATORS\tOPTIONS")
		for _, f := range fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", f.ID, f.Label, f.Type, operatorList(f.Type), len(f.Options))
		}
		return w.Flush()
	},
}

var fieldOptionsCmd = &cobra.Command{
	Use:   "options <field> [query]",
	Short: "Search the values of a field",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 2 {
			query = args[1]
		}
		opts, err := facetsClient.SearchOptions(cmd.Context(), args[0], query)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(opts)
		}
		if len(opts) == 0 {
			fmt.Println(filter.EmptyNoResults.String())
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VALUE\tLABEL")
		for _, o := range opts {
			fmt.Fprintf(w, "%s\t%s\n", o.Value, o.Label)
		}
		return w.Flush()
	},
}

func operatorList(t filter.FieldType) string {
	ops := filter.OperatorsFor(t)
	s := ""
	for i, op := range ops {
		if i > 0 {
			s += "|"
		}
		s += op.String()
	}
	return s
}

func init() {
	fieldsCmd.AddCommand(fieldOptionsCmd)
}
