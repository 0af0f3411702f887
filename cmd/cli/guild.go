package main

import (
	"fmt"
	"strconv"

	"kiwi-bot/internal/storage"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type storeOpener func() (storage.GuildConfigStore, error)

func newGuildCommand(open storeOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guild",
		Short: "Manage per-guild configuration (list, show, set-trusted-role, set-level, set-reward)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List guilds with a stored config",
			Args:  cobra.NoArgs,
			RunE: withStore(open, func(cmd *cobra.Command, store storage.GuildConfigStore, _ []string) error {
				ids, err := store.ListGuildIDs(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show <guild>",
			Short: "Print a guild's config as YAML",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(open, func(cmd *cobra.Command, store storage.GuildConfigStore, args []string) error {
				cfg, err := store.GetGuildConfig(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("guild %s: %w", args[0], err)
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return fmt.Errorf("encode config: %w", err)
				}
				return enc.Close()
			}),
		},
		&cobra.Command{
			Use:   "set-trusted-role <guild> <role>",
			Short: `Set the trusted role; pass "" to clear it`,
			Args:  cobra.ExactArgs(2),
			RunE: withConfig(open, func(cfg *storage.GuildConfig, args []string) error {
				cfg.SetTrustedRole(args[1])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "set-level <guild> <user-or-role> <level>",
			Short: "Set a permission level override (1-1000)",
			Args:  cobra.ExactArgs(3),
			RunE: withConfig(open, func(cfg *storage.GuildConfig, args []string) error {
				level, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("invalid level %q", args[2])
				}
				return cfg.SetPermissionLevel(args[1], level)
			}),
		},
		&cobra.Command{
			Use:   "set-reward <guild> <level> <role>",
			Short: "Set the role rewarded at a level (1-200)",
			Args:  cobra.ExactArgs(3),
			RunE: withConfig(open, func(cfg *storage.GuildConfig, args []string) error {
				level, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid level %q", args[1])
				}
				return cfg.SetLevelRole(level, args[2])
			}),
		},
	)
	return cmd
}

func withStore(open storeOpener, run func(*cobra.Command, storage.GuildConfigStore, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		store, err := open()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close store: %w", cerr)
			}
		}()
		return run(cmd, store, args)
	}
}

// withConfig loads (or creates) the guild named by args[0], applies edit and
// saves the result.
func withConfig(open storeOpener, edit func(*storage.GuildConfig, []string) error) func(*cobra.Command, []string) error {
	return withStore(open, func(cmd *cobra.Command, store storage.GuildConfigStore, args []string) error {
		cfg, err := storage.LoadOrCreate(cmd.Context(), store, args[0])
		if err != nil {
			return err
		}
		if err := edit(cfg, args); err != nil {
			return err
		}
		if err := store.SaveGuildConfig(cmd.Context(), cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated guild %s\n", args[0])
		return nil
	})
}
