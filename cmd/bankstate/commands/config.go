package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set enableHttp or port in the config file",
	Long: `Write a single key to the config file. A running 'bankstate serve'
picks the change up and restarts its listener.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show file locations",
	RunE:  runConfigPaths,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathsCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	store := config.NewStore(cfg, nil)
	if err := store.Set(args[0], args[1]); err != nil {
		return err
	}

	next := store.Snapshot()
	if err := config.Validate(next); err != nil {
		return err
	}
	return config.Save(next, path)
}

func runConfigPaths(cmd *cobra.Command, args []string) error {
	paths := config.GetPaths()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  Config:   %s\n", resolveConfigPath())
	fmt.Fprintf(out, "  State:    %s\n", paths.State)
	fmt.Fprintf(out, "  Widgets:  %s\n", paths.WidgetFile())
	return nil
}
