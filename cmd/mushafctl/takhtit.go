package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mushafctl/internal/apiclient"
	"mushafctl/internal/config"
)

func newCreateTakhtitCommand() *cobra.Command {
	var (
		mushafShortName string
		profilePath     string
	)

	cmd := &cobra.Command{
		Use:   "create-takhtit <api_url>",
		Short: "Provision an account and create a takhtit for it",
		Long: `Create a fresh account, look up the target mushaf by short name, link the
two into a takhtit and cache the resulting identifier for import-takhtit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, client, err := newEnv(cmd, args[0])
			if err != nil {
				return err
			}
			sess, err := store.Load()
			if err != nil {
				return err
			}
			if err := sess.RequireToken(); err != nil {
				return err
			}

			profile := config.DefaultProfile()
			if profilePath != "" {
				profile, err = config.LoadProfile(profilePath)
				if err != nil {
					return err
				}
			}

			ctx := commandContext(cmd)
			accountUUID, err := client.CreateUser(ctx, sess.Token, profile)
			if err != nil {
				return err
			}

			mushafs, err := client.ListMushafs(ctx, sess.Token)
			if err != nil {
				return err
			}
			mushaf, err := apiclient.FindMushaf(mushafs, mushafShortName)
			if err != nil {
				return err
			}

			takhtitUUID, err := client.CreateTakhtit(ctx, sess.Token, mushaf.UUID, accountUUID)
			if err != nil {
				return err
			}
			if takhtitUUID == "" {
				// Created but unidentifiable; warn without failing and
				// leave the cache untouched.
				fmt.Fprintln(cmd.OutOrStdout(), "takhtit created but the response carried no uuid; nothing cached")
				return nil
			}

			if err := store.SaveTakhtitID(takhtitUUID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "takhtit %s created, id saved to %s\n", takhtitUUID, store.TakhtitFile())
			return nil
		},
	}

	cmd.Flags().StringVar(&mushafShortName, "mushaf", "hafs", "short name of the mushaf to link the takhtit to")
	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML profile for the provisioned account")
	return cmd
}

func newImportTakhtitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-takhtit <json_file> <type> <api_url>",
		Short: "Upload a layout file into the cached takhtit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, typeName, apiURL := args[0], args[1], args[2]

			_, store, client, err := newEnv(cmd, apiURL)
			if err != nil {
				return err
			}
			sess, err := store.Load()
			if err != nil {
				return err
			}
			if err := sess.RequireToken(); err != nil {
				return err
			}
			if err := sess.RequireTakhtitID(); err != nil {
				return err
			}
			if _, err := os.Stat(file); err != nil {
				return fmt.Errorf("file %q does not exist", file)
			}

			res, err := client.ImportTakhtit(commandContext(cmd), sess.Token, sess.TakhtitID, typeName, file)
			if err != nil {
				return err
			}
			return reportImport(cmd, "import takhtit", res)
		},
	}
}
