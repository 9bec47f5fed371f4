package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/logger"
)

var (
	watchSkills   string
	watchDebounce time.Duration
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <resume.pdf>",
		Short: "Re-analyze a resume whenever it changes",
		Long: `Analyze a resume, then watch it for changes and analyze it again after
every save. Bursts of file events are collapsed into one analysis.
Press Ctrl+C to stop watching.

Examples:
  skillx watch resume.pdf --skills "Python,FastAPI"
  skillx watch resume.pdf --debounce 2s -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchSkills, "skills", "s", "", "required skills, comma-separated (default console.default_skills)")
	cmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before re-analyzing (default watch.debounce)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger()
	log.SetWriter(cmd.ErrOrStderr())

	filename := filepath.Clean(args[0])
	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	debounce := cfg.Watch.Debounce
	if watchDebounce > 0 {
		debounce = watchDebounce
	}

	s, err := newSession(cfg, log)
	if err != nil {
		return err
	}

	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	run := func() {
		runWatchAnalysis(ctx, s, filename, out)
	}

	log.Info("watching %s, press Ctrl+C to stop", filename)
	run()
	return watchLoop(ctx, watcher.Events, watcher.Errors, filename, debounce, log, run)
}

// runWatchAnalysis analyzes the file once and prints the report or the failure
func runWatchAnalysis(ctx context.Context, s *session, filename string, out io.Writer) {
	result, err := analyzeOnce(ctx, s, filename, watchSkills)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("%s", common.UserMessage(err))
		}
		return
	}

	output, err := formatResult(s.cfg, result)
	if err != nil {
		s.log.Error("%v", err)
		return
	}
	accuracy := float64(result.Accuracy) / 100
	_, _ = fmt.Fprintf(out, "--- %s (%s) %s %s %d%% ---\n", filepath.Base(filename), time.Now().Format("15:04:05"),
		GetTierEmoji(accuracy), CreateConfidenceBar(accuracy), result.Accuracy)
	_, _ = out.Write(output)
}

// watchLoop calls run once per burst of events for target, after debounce of quiet
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string,
	debounce time.Duration, log *logger.Logger, run func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug("stopping watch")
			return nil

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isResumeChange(event, target) {
				continue
			}
			log.Debug("change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			run()

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

// isResumeChange matches content changes of target; editors often save by
// renaming a temp file over the original, so Create counts too
func isResumeChange(event fsnotify.Event, target string) bool {
	if filepath.Base(event.Name) != filepath.Base(target) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Warn("failed to close watcher: %v", err)
	}
}

// createWatcher watches the file's directory so replaced files are still seen
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
