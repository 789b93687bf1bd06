package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/pagination"
)

var viewCmd = &cobra.Command{
	Use:     "view",
	Short:   "Manage saved views",
	GroupID: "views",
}

var viewSaveFlags queryFlags

var viewSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the given filters as a named view",
	Long: `Save a named view. The query is built from --query and the filter flags
the same way "facets list" builds its request. The server stores the
canonical form and drops the page number.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := viewSaveFlags.values()
		if err != nil {
			return err
		}
		v, err := facetsClient.SaveView(cmd.Context(), args[0], values.Encode())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(v)
		}
		fmt.Printf("Saved view %q: %s\n", v.Name, v.Query)
		return nil
	},
}

var viewListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List saved views",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := facetsClient.ListViews(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(views)
		}
		printViewList(views)
		return nil
	},
}

var viewShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the records of a saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		overrides := url.Values{}
		if page > 0 {
			overrides.Set(pagination.DefaultPageParam, strconv.Itoa(page))
		}
		if limit > 0 {
			overrides.Set(pagination.DefaultLimitParam, strconv.Itoa(limit))
		}

		records, err := facetsClient.ViewRecords(cmd.Context(), args[0], overrides)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(records)
		}
		fields, err := loadFields(cmd.Context())
		if err != nil {
			return err
		}
		printRecordsPage(records, fields)
		return nil
	},
}

var viewDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Delete a saved view",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := facetsClient.DeleteView(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted view %q\n", args[0])
		return nil
	},
}

func init() {
	viewSaveFlags.register(viewSaveCmd)
	viewShowCmd.Flags().IntP("page", "p", 0, "page number (1-based)")
	viewShowCmd.Flags().IntP("limit", "n", 0, "page size")

	viewCmd.AddCommand(viewSaveCmd, viewListCmd, viewShowCmd, viewDeleteCmd)
}
