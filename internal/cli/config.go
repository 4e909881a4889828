package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/edgeloom/edgeloom/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the edgeloom configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file with defaults if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			_, statErr := os.Stat(path)
			existed := statErr == nil

			if err := config.EnsureExists(); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			if existed {
				printInfo("Config already exists")
			} else {
				printSuccess("Wrote default config")
			}
			printFile(path)
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(config.Path())
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand. It prints the
// effective configuration, merged from defaults and the loaded file.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
}
