// cmd/cli/main.go
package main

import (
	"fmt"
	"os"

	"kiwi-bot/internal/config"
	"kiwi-bot/internal/logging"
	"kiwi-bot/internal/storage"
	"kiwi-bot/internal/storage/backend"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand(openFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openFromEnv opens the store configured by STORAGE_DRIVER and STORAGE_PATH.
func openFromEnv() (storage.GuildConfigStore, error) {
	sc, err := config.LoadStorage()
	if err != nil {
		return nil, err
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log, err := logging.New(level)
	if err != nil {
		return nil, err
	}
	return backend.Open(*sc, log)
}

func newRootCommand(open storeOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "kiwi-cli",
		Short:         "Inspect and edit kiwi-bot guild configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(newGuildCommand(open))
	return root
}
