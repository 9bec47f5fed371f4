package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/SkillExtract/internal/ui"
)

var (
	consoleTheme  string
	consoleSkills string
)

func newConsoleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console [resume.pdf]",
		Short: "Open the interactive analysis console",
		Long: `Open the interactive console: pick a resume, enter the required skills,
run the analysis, then browse the evidence list, the X-Ray page view and
the skill radar.

Log output goes to output.log_file while the console is open.

Examples:
  skillx console
  skillx console resume.pdf --skills "Python,FastAPI,React"
  skillx console --theme high-contrast`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConsole,
	}
	addConsoleFlags(cmd)
	return cmd
}

func addConsoleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&consoleTheme, "theme", "", "color theme (default, high-contrast, minimal)")
	cmd.Flags().StringVarP(&consoleSkills, "skills", "s", "", "required skills, comma-separated")
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger()

	closeLog, err := openLogFile(log, cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	if consoleSkills != "" {
		s.console.SetRequiredSkills(consoleSkills)
	}

	theme := consoleTheme
	if theme == "" {
		theme = cfg.Output.Theme
	}

	opts := ui.Options{
		Theme:       theme,
		OverlayMode: cfg.Console.OverlayMode,
	}
	if len(args) > 0 {
		opts.InitialPath = args[0]
	}

	log.Info("starting console with analyzer %s", s.client.BaseURL())
	if err := ui.Run(s.console, opts); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}
	return nil
}
