package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/SkillExtract/internal/common"
)

// newTopicsCommand creates the topics command for the topic-density radar
func newTopicsCommand() *cobra.Command {
	topicsCmd := &cobra.Command{
		Use:   "topics",
		Short: "Inspect capability topics used by the topic radar",
		Long: `List and validate the capability topics that group verified skills
when console.radar_mode is "topics".`,
	}

	topicsCmd.AddCommand(newTopicsListCommand())
	topicsCmd.AddCommand(newTopicsValidateCommand())

	return topicsCmd
}

func newTopicsListCommand() *cobra.Command {
	var directories []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the topics that would be loaded",
		Example: `  skillx topics list
  skillx topics list --directory ./topics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(directories) == 0 {
				directories = GetGlobalConfig().Topics.Directories
			}
			topics, err := common.LoadTopicsWithFallback(directories)
			if err != nil {
				return fmt.Errorf("failed to load topics: %w", err)
			}
			printTopics(cmd.OutOrStdout(), topics)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&directories, "directory", "d", nil, "topic directories (default topics.directories)")
	return cmd
}

func newTopicsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <file>...",
		Short:   "Validate topic YAML files",
		Example: `  skillx topics validate topics/backend.yaml topics/cloud.yml`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := validateTopicFiles(cmd.OutOrStdout(), args)
			if failed > 0 {
				return fmt.Errorf("%d of %d topic files failed validation", failed, len(args))
			}
			return nil
		},
	}
}

// validateTopicFiles reports each file and returns how many failed
func validateTopicFiles(out io.Writer, files []string) int {
	failed := 0
	for _, file := range files {
		topics, err := common.LoadTopicsFromFile(file)
		if err == nil && len(topics) == 0 {
			err = fmt.Errorf("no topics defined")
		}
		for _, topic := range topics {
			if err != nil {
				break
			}
			err = topic.Validate()
		}

		if err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "%s %s: %v\n", GetEmoji("error"), file, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s %s: %d topics\n", GetEmoji("success"), file, len(topics))
	}
	return failed
}

func printTopics(out io.Writer, topics []*common.Topic) {
	_, _ = fmt.Fprintf(out, "%s %d capability topics\n\n", GetEmoji("radar"), len(topics))
	for _, topic := range topics {
		_, _ = fmt.Fprintf(out, "  %-12s required %3d%%  %s\n",
			topic.Name, topic.Required, strings.Join(topic.Keywords, ", "))
	}
}
