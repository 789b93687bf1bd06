package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/client"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	fieldsFile string

	facetsClient client.FacetsClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("FACETS_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("FACETS_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "facets <command>",
	Short: "Filter, page, and save views over records",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		facetsClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	SilenceUsage: true,
}

// noClient skips client setup for commands that work offline.
func noClient(*cobra.Command, []string) error { return nil }

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&fieldsFile, "fields", os.Getenv("FACETS_FIELDS_FILE"), "field set TOML file (default: fetched from the server)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "filters", Title: "Filters:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Records
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)

	// Filters
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(fieldsCmd)

	// Views
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
