package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/ghlens/config"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

Settings are read from the global file, then from .ghlens.yaml in the
current directory; local values win. Secrets are never read from these
files: GITHUB_TOKEN and ANTHROPIC_API_KEY come from the environment or a
.env file.

Without a subcommand the merged configuration is printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), format)
		},
	}
	addConfigFormatFlag(cmd, &format)

	cmd.AddCommand(
		NewCmdConfigShow(),
		NewCmdConfigPath(),
		NewCmdConfigDefaults(),
		NewCmdConfigInit(),
		NewCmdConfigSet(),
	)
	return cmd
}

func addConfigFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", "yaml", "Output format (yaml, json)")
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the merged configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), format)
		},
	}
	addConfigFormatFlag(cmd, &format)
	return cmd
}

// NewCmdConfigDefaults creates the config defaults subcommand.
func NewCmdConfigDefaults() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show every setting with its default value",
		Long: `Show a complete configuration with all default values.

Redirect it to start a config file with everything spelled out:
  ghlens config defaults > ~/.config/ghlens/config.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printConfig(cmd.OutOrStdout(), config.DefaultConfig(), format)
		},
	}
	addConfigFormatFlag(cmd, &format)
	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config and data file locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigPath(cmd.OutOrStdout())
		},
	}
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var global, local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Long: `Create a commented starter config file.

  --global  ~/.config/ghlens/config.yaml, applies everywhere
  --local   ./.ghlens.yaml, applies in this directory only

Without either flag you are asked which one to create.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd.InOrStdin(), cmd.OutOrStdout(), global, local)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Create the global config file")
	cmd.Flags().BoolVar(&local, "local", false, "Create a config file in the current directory")
	cmd.MarkFlagsMutuallyExclusive("global", "local")
	return cmd
}

// NewCmdConfigSet creates the config set subcommand.
func NewCmdConfigSet() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the global config file",
		Long: fmt.Sprintf(`Set a value in the global config file. Available keys:
  %s`, strings.Join(config.Keys(), "\n  ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "yaml":
		out, err := cfg.ToYAML()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return fmt.Errorf("invalid format: %s (must be yaml or json)", format)
	}
}

func runConfigShow(w io.Writer, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return printConfig(w, cfg, format)
}

func runConfigPath(w io.Writer) error {
	paths := config.GetConfigPaths()
	state := func(exists bool) string {
		if exists {
			return "exists"
		}
		return "not found"
	}

	fmt.Fprintf(w, "Global config: %s (%s)\n", paths.GlobalPath, state(paths.GlobalExists))
	fmt.Fprintf(w, "Local config:  %s (%s)\n", paths.LocalPath, state(paths.LocalExists))

	if cfg, err := config.Load(); err == nil {
		s := cfg.Resolve()
		fmt.Fprintf(w, "Notes (%s):   %s\n", s.NotesBackend, s.NotesPath)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load order: defaults -> global -> local")
	return nil
}

func runConfigInit(in io.Reader, w io.Writer, global, local bool) error {
	paths := config.GetConfigPaths()

	target := paths.GlobalPath
	switch {
	case local:
		target = paths.LocalPath
	case !global:
		fmt.Fprintln(w, "Where should the config file go?")
		fmt.Fprintf(w, "  [1] %s (global)\n", paths.GlobalPath)
		fmt.Fprintf(w, "  [2] %s (this directory)\n", paths.LocalPath)
		fmt.Fprint(w, "Choose [1/2]: ")

		choice, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && choice == "" {
			return fmt.Errorf("failed to read choice: %w", err)
		}
		switch strings.TrimSpace(choice) {
		case "1":
		case "2":
			target = paths.LocalPath
		default:
			return fmt.Errorf("invalid choice %q (must be 1 or 2)", strings.TrimSpace(choice))
		}
	}

	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("config file already exists: %s", target)
	}
	if err := config.SaveTo(target, config.MinimalConfig()); err != nil {
		return err
	}

	fmt.Fprintf(w, "Created %s\n", target)
	fmt.Fprintln(w, "Run 'ghlens config defaults' to see every option.")
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	switch strings.ToLower(key) {
	case "token", "github.token", "api_key", "analysis.api_key":
		return fmt.Errorf("secrets cannot be stored in config files; set GITHUB_TOKEN or ANTHROPIC_API_KEY in the environment instead")
	}

	// Only the global file is rewritten so local overrides never leak into it
	cfg, err := config.LoadFrom(config.ConfigPath(), "")
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, config.ConfigPath())
	return nil
}
