package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportMushafCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-mushaf <input_json_file> <api_url>",
		Short: "Upload a mushaf JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, apiURL := args[0], args[1]
			if err := requireJSONFile(file); err != nil {
				return err
			}

			_, store, client, err := newEnv(cmd, apiURL)
			if err != nil {
				return err
			}
			sess, err := store.Load()
			if err != nil {
				return err
			}

			// An absent token is tolerated; the upload goes out
			// unauthenticated and the server decides.
			res, err := client.ImportMushafFile(commandContext(cmd), sess.Token, file)
			if err != nil {
				return err
			}
			return reportImport(cmd, "import mushaf", res)
		},
	}
}

func newImportTranslationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-translation <input_json_file> <api_url>",
		Short: "Upload a single translation JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, apiURL := args[0], args[1]
			if err := requireJSONFile(file); err != nil {
				return err
			}

			_, store, client, err := newEnv(cmd, apiURL)
			if err != nil {
				return err
			}
			sess, err := store.Load()
			if err != nil {
				return err
			}

			res, err := client.ImportTranslationFile(commandContext(cmd), sess.Token, file)
			if err != nil {
				return err
			}
			return reportImport(cmd, "import translation", res)
		},
	}
}

func newImportTranslationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-translations <translations_dir> <api_url>",
		Short: "Upload every translation JSON file in a directory",
		Long: `Upload every *.json file directly inside the directory, sequentially.
Individual failures are counted but do not stop the batch; the command
exits non-zero if any file failed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, apiURL := args[0], args[1]
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("directory %q does not exist", dir)
			}

			_, store, client, err := newEnv(cmd, apiURL)
			if err != nil {
				return err
			}
			sess, err := store.Load()
			if err != nil {
				return err
			}

			result, err := client.ImportTranslationsDir(commandContext(cmd), sess.Token, dir)
			if err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d translation files failed", result.Failed, result.Failed+result.Succeeded)
			}
			return nil
		},
	}
}
