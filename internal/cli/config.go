package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/SkillExtract/internal/config"
)

// newConfigCommand creates the config command with subcommands.
// Its subcommands load configuration themselves so a broken file can be
// validated instead of failing in the root pre-run.
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage SkillExtract configuration",
		Long: `Manage SkillExtract configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new SkillExtract configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  skillx config init

  # Create minimal config
  skillx config init --minimal

  # Create config at specific path
  skillx config init --path ~/.config/skillx/config.yaml

  # Overwrite existing config
  skillx config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = ".skillx.yaml"
			}
			outputPath = config.ExpandPath(outputPath)

			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content := config.SampleConfig()
			if minimal {
				content = config.MinimalSampleConfig()
			}

			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s Configuration file created at: %s\n", GetEmoji("success"), outputPath)
			if minimal {
				_, _ = fmt.Fprintf(out, "%s Created minimal configuration with essential settings\n", GetEmoji("page"))
			} else {
				_, _ = fmt.Fprintf(out, "%s Created full configuration with all options and documentation\n", GetEmoji("page"))
			}

			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "path", "p", "", "output path for config file (default: .skillx.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, config files, .env files,
and environment variable overrides.`,
		Example: `  # Show config in YAML format
  skillx config show

  # Show config in JSON format
  skillx config show --format json

  # Show config from specific file
  skillx config show --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			var data []byte
			switch format {
			case "json":
				data, err = json.MarshalIndent(cfg, "", "  ")
				data = append(data, '\n')
			case "yaml":
				data, err = yaml.Marshal(cfg)
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to marshal config to %s: %w", format, err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a SkillExtract configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML syntax
- A parseable analyzer base URL and positive timeout
- Valid values for enums (radar mode, overlay mode, output format, color mode)
- Sensible render dimensions`,
		Example: `  # Validate current config
  skillx config validate

  # Validate specific config file
  skillx config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				_, _ = fmt.Fprintf(out, "%s Configuration validation failed:\n   %v\n", GetEmoji("error"), err)
				return err
			}

			_, _ = fmt.Fprintf(out, "%s Configuration is valid\n", GetEmoji("success"))
			_, _ = fmt.Fprintf(out, "%s Configuration summary:\n", GetEmoji("statistics"))
			_, _ = fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			_, _ = fmt.Fprintf(out, "   Analyzer: %s (timeout %s)\n", cfg.Analyzer.BaseURL, cfg.Analyzer.Timeout)
			_, _ = fmt.Fprintf(out, "   Radar Mode: %s\n", cfg.Console.RadarMode)
			_, _ = fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			_, _ = fmt.Fprintf(out, "   Topic Directories: %d configured\n", len(cfg.Topics.Directories))

			return nil
		},
	}
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths SkillExtract searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  skillx config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Configuration file search paths (in priority order):")
			_, _ = fmt.Fprintln(out)

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := " (not found)"
				if fileExists(path) {
					exists = " (exists)"
				}

				_, _ = fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					_, _ = fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
			}
			_, _ = fmt.Fprintln(out)

			if currentConfig, found := config.FindConfigFile(); found {
				_, _ = fmt.Fprintf(out, "Current config file: %s\n", currentConfig)
			} else {
				_, _ = fmt.Fprintln(out, "No config file found, using defaults")
			}

			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintf(out, "%s Environment variables with SKILLX_ prefix override file settings\n", GetEmoji("info"))
		},
	}
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
