package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/ui"
)

var filterCmd = &cobra.Command{
	Use:               "filter",
	Short:             "Parse and normalize filter strings offline",
	GroupID:           "filters",
	PersistentPreRunE: noClient,
}

var filterParseCmd = &cobra.Command{
	Use:   "parse <filters>",
	Short: "Parse a filters value into chips",
	Long: `Parse a filters value such as "status:is:open,created:after:relative:7d"
against the field set and print each filter that survives.

Unknown fields and operators are dropped. With --strict, operators that
do not apply to the field's type are dropped too, as the server does.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := offlineFields()
		if err != nil {
			return err
		}
		strict, _ := cmd.Flags().GetBool("strict")
		var filters []filter.Value
		if strict {
			filters = filter.ParseStrict(args[0], fields)
		} else {
			filters = filter.Parse(args[0], fields)
		}
		if jsonOutput {
			return printJSON(filters)
		}
		chips := filter.Chips(filters, fields)
		if len(chips) == 0 {
			fmt.Println(ui.RenderMuted("No filters"))
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tOPERATOR\tVALUE\tCHIP")
		for _, c := range chips {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Filter.Field, c.Filter.Operator, c.Filter.Value, ui.ChipText(c))
		}
		return w.Flush()
	},
}

var filterNormalizeCmd = &cobra.Command{
	Use:   "normalize <filters>",
	Short: "Print the canonical form of a filters value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := offlineFields()
		if err != nil {
			return err
		}
		strict, _ := cmd.Flags().GetBool("strict")
		fmt.Println(filter.Normalize(args[0], fields, strict))
		return nil
	},
}

var filterDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List relative date shortcuts and the days they resolve to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		type row struct {
			Value    string `json:"value"`
			Label    string `json:"label"`
			Resolved string `json:"resolved"`
		}
		var rows []row
		for _, o := range filter.RelativeShortcuts() {
			resolved := ""
			if day, ok := filter.ResolveDate(o.Value, now); ok {
				resolved = day.Format(filter.DateLayout)
			}
			rows = append(rows, row{Value: o.Value, Label: o.Label, Resolved: resolved})
		}
		if jsonOutput {
			return printJSON(rows)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VALUE\tLABEL\tRESOLVES TO")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Value, r.Label, r.Resolved)
		}
		return w.Flush()
	},
}

func init() {
	filterParseCmd.Flags().Bool("strict", false, "drop operators that do not apply to the field type")
	filterNormalizeCmd.Flags().Bool("strict", false, "drop operators that do not apply to the field type")
	filterCmd.AddCommand(filterParseCmd, filterNormalizeCmd, filterDatesCmd)
}
