// Command soundctl is a command-line client for the soundmint API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simp-lee/logger"
	"github.com/spf13/cobra"

	"github.com/simp-lee/soundmint/internal/client"
	"github.com/simp-lee/soundmint/internal/config"
)

// env is shared by every subcommand.
type env struct {
	sessionPath string
	logLevel    string

	log    *logger.Logger
	cfg    client.Config
	client *client.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "soundctl",
		Short:        "soundmint API client",
		Long:         "Query soundmint listings and manage a session from the command line.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&e.sessionPath, "session", defaultSessionPath(), "path of the session token file")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newListCmd(e),
		newLoginCmd(e),
		newLogoutCmd(e),
		newApplicationsCmd(e),
		newMintWaitCmd(e),
	)
	return root
}

func (e *env) init() error {
	log, err := config.SetupLogger(&config.LogConfig{Level: e.logLevel, Format: "text"})
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	e.log = log

	session := client.NewSession(e.sessionPath)
	if err := session.Hydrate(); err != nil {
		return err
	}
	e.cfg = client.ConfigFromEnv()
	e.client = client.New(e.cfg, session)
	return nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".soundmint-session.json"
	}
	return filepath.Join(dir, "soundmint", "session.json")
}
