// mushafctl imports Quran manuscript data into a remote API: mushaf layouts,
// translations, and takhtit records, authenticated by a cached session token.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mushafctl/internal/apiclient"
	"mushafctl/internal/config"
	"mushafctl/internal/session"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mushafctl",
		Short:         "Importer for Quran manuscript, translation and takhtit data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newLoginCommand())
	cmd.AddCommand(newImportMushafCommand())
	cmd.AddCommand(newImportTranslationCommand())
	cmd.AddCommand(newImportTranslationsCommand())
	cmd.AddCommand(newCreateTakhtitCommand())
	cmd.AddCommand(newImportTakhtitCommand())
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newEnv wires the pieces every command needs: resolved settings, the session
// store over the cache files, and an API client pointed at the given base URL
// writing status output to the command's stdout.
func newEnv(cmd *cobra.Command, apiURL string) (config.Settings, *session.Store, *apiclient.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, nil, nil, err
	}

	client := apiclient.New(apiURL)
	client.HTTPClient.Timeout = cfg.HTTPTimeout
	client.Stdout = cmd.OutOrStdout()

	return cfg, session.NewStore(cfg), client, nil
}

// requireJSONFile rejects paths that do not exist or do not end in .json,
// before any network traffic.
func requireJSONFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file %q does not exist", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%q is a directory, expected a .json file", path)
	}
	if !strings.HasSuffix(path, ".json") {
		return fmt.Errorf("input file %q must be a .json file", path)
	}
	return nil
}

// reportImport echoes the server's verdict and converts a rejected upload
// into a typed error.
func reportImport(cmd *cobra.Command, operation string, res *apiclient.ImportResult) error {
	fmt.Fprintf(cmd.OutOrStdout(), "status %d\n", res.Status)
	if res.Body != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "response: %s\n", res.Body)
	}
	if !res.Accepted() {
		return &apiclient.APIError{Operation: operation, Status: res.Status, Body: res.Body}
	}
	return nil
}
