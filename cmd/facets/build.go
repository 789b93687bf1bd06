package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/pagination"
	"github.com/alfredjeanlab/facets/internal/ui"
	"github.com/alfredjeanlab/facets/internal/urlstate"
)

var errBuildCancelled = errors.New("cancelled")

var buildCmd = &cobra.Command{
	Use:     "build",
	Short:   "Build filters interactively",
	GroupID: "filters",
	Long: `Open an interactive filter builder. Add filters from the field menu,
toggle or remove chips, then press enter to print the resulting query.

Start from an existing query with --query. With --save the result is
stored as a view; with --list the matching records are listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawQuery, _ := cmd.Flags().GetString("query")
		saveName, _ := cmd.Flags().GetString("save")
		list, _ := cmd.Flags().GetBool("list")

		initial, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
		if err != nil {
			return fmt.Errorf("invalid --query: %w", err)
		}
		fields, err := loadFields(cmd.Context())
		if err != nil {
			return err
		}

		loc := urlstate.NewStaticLocation(initial)
		b := filter.NewBuilder(filter.BuilderOptions{
			Fields:   fields,
			Location: loc,
		})
		defer b.Close()
		before := b.Serialized()

		if err := runBuilder(b); err != nil {
			if errors.Is(err, errBuildCancelled) {
				return nil
			}
			return err
		}

		values := loc.Query()
		if b.Serialized() != before {
			values.Del(pagination.DefaultPageParam)
		}
		query := values.Encode()

		switch {
		case saveName != "":
			v, err := facetsClient.SaveView(cmd.Context(), saveName, query)
			if err != nil {
				return err
			}
			fmt.Printf("Saved view %q: %s\n", v.Name, v.Query)
		case list:
			page, err := facetsClient.ListRecords(cmd.Context(), values)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(page)
			}
			printRecordsPage(page, fields)
		default:
			fmt.Println(query)
		}
		return nil
	},
}

// runBuilder runs the interactive model over b until the user applies or
// quits. Menu loader errors are discarded so they don't corrupt the screen.
func runBuilder(b *filter.Builder) error {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	m := ui.NewModel(b, ui.ModelOptions{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("running filter builder: %w", err)
	}
	if fm, ok := final.(ui.Model); !ok || !fm.Applied() {
		return errBuildCancelled
	}
	return nil
}

func init() {
	buildCmd.Flags().String("query", "", "URL query to start from")
	buildCmd.Flags().String("save", "", "save the result as a view with this name")
	buildCmd.Flags().Bool("list", false, "list the matching records")
}
