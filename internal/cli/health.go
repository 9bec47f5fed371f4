package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/SkillExtract/internal/common"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analyzer service is reachable",
		Long: `Call the analyzer's /health endpoint and report its status.
Exits with an error when the service is unreachable or unhealthy.`,
		Args: cobra.NoArgs,
		RunE: runHealth,
	}
}

func runHealth(cmd *cobra.Command, _ []string) error {
	cfg := GetGlobalConfig()
	log := newLogger()
	log.SetWriter(cmd.ErrOrStderr())

	client, err := newAnalyzerClient(cfg, log)
	if err != nil {
		return err
	}

	timeout := cfg.Analyzer.Timeout
	if timeout <= 0 || timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	out := cmd.OutOrStdout()
	status, err := client.Health(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(out, "%s Analyzer at %s is unreachable: %s\n",
			GetEmoji("error"), client.BaseURL(), common.UserMessage(err))
		return err
	}
	if !status.OK() {
		_, _ = fmt.Fprintf(out, "%s Analyzer at %s reported status %q\n",
			GetEmoji("warning"), client.BaseURL(), status.Status)
		return fmt.Errorf("analyzer unhealthy: %s", status.Status)
	}

	_, _ = fmt.Fprintf(out, "%s Analyzer at %s is healthy", GetEmoji("health"), client.BaseURL())
	if status.Service != "" {
		_, _ = fmt.Fprintf(out, " (%s)", status.Service)
	}
	_, _ = fmt.Fprintln(out)
	return nil
}
