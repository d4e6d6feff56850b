package main

import (
	"bufio"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// credentialMode distinguishes how login credentials are collected.
type credentialMode int

const (
	// modeInteractive prompts for every missing field.
	modeInteractive credentialMode = iota
	// modeMixed uses the supplied arguments and prompts for the rest.
	modeMixed
	// modeExplicit requires all fields as arguments and never prompts.
	modeExplicit
)

type credentials struct {
	mode     credentialMode
	username string
	password string
}

func newLoginCommand() *cobra.Command {
	var nonInteractive bool

	cmd := &cobra.Command{
		Use:   "login <api_url> [username [password]]",
		Short: "Authenticate and cache the session token",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := resolveCredentials(cmd, args[1:], nonInteractive)
			if err != nil {
				return err
			}

			_, store, client, err := newEnv(cmd, args[0])
			if err != nil {
				return err
			}

			token, err := client.Login(commandContext(cmd), creds.username, creds.password)
			if err != nil {
				return err
			}
			if token == "" {
				// A 200 without a token field is reported but does not
				// fail the process, and nothing is persisted.
				fmt.Fprintln(cmd.OutOrStdout(), "login failed: no token in response")
				return nil
			}

			if err := store.SaveToken(token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "login successful, token saved")
			return nil
		},
	}

	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false,
		"fail instead of prompting; username and password must be given as arguments")
	return cmd
}

// resolveCredentials settles the input mode before any prompt or network
// call. extra is the argument vector after the api_url.
func resolveCredentials(cmd *cobra.Command, extra []string, nonInteractive bool) (credentials, error) {
	creds := credentials{}
	switch len(extra) {
	case 0:
		creds.mode = modeInteractive
	case 1:
		creds.mode = modeMixed
		creds.username = extra[0]
	case 2:
		creds.mode = modeExplicit
		creds.username = extra[0]
		creds.password = extra[1]
	}

	if nonInteractive && creds.mode != modeExplicit {
		return credentials{}, fmt.Errorf("--non-interactive requires both username and password arguments")
	}

	if creds.username == "" {
		username, err := promptLine(cmd, "Username: ")
		if err != nil {
			return credentials{}, err
		}
		creds.username = username
	}
	if creds.password == "" {
		password, err := promptPassword(cmd)
		if err != nil {
			return credentials{}, err
		}
		creds.password = password
	}
	return creds, nil
}

func promptLine(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read username: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	p, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(p), nil
}
