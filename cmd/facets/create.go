package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/model"
)

var createCmd = &cobra.Command{
	Use:     "create <title>",
	Short:   "Create a record",
	GroupID: "records",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetInt("priority")
		assignee, _ := cmd.Flags().GetString("assignee")
		fieldPairs, _ := cmd.Flags().GetStringArray("field")

		rec := &model.Record{
			Title:    args[0],
			Status:   model.Status(status),
			Priority: priority,
			Assignee: assignee,
		}
		if len(fieldPairs) > 0 {
			raw, err := parseFieldPairs(fieldPairs)
			if err != nil {
				return err
			}
			rec.Fields = raw
		}
		if err := model.ValidateRecord(rec); err != nil {
			return err
		}

		created, err := facetsClient.CreateRecord(cmd.Context(), rec)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(created)
		}
		fmt.Printf("Created %s\n", created.ID)
		return nil
	},
}

// parseFieldPairs turns key=value pairs into a JSON object.
func parseFieldPairs(pairs []string) (json.RawMessage, error) {
	obj := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --field %q: want key=value", p)
		}
		obj[strings.TrimSpace(k)] = v
	}
	return json.Marshal(obj)
}

func init() {
	createCmd.Flags().String("status", string(model.StatusOpen), "status (open, in_progress, blocked, closed)")
	createCmd.Flags().IntP("priority", "p", 2, "priority (0-3)")
	createCmd.Flags().StringP("assignee", "a", "", "assignee")
	createCmd.Flags().StringArray("field", nil, "custom attribute as key=value (repeatable)")
}
