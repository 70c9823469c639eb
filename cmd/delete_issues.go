package cmd

import (
	"fmt"

	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/krrrr38/trello-2-gitlab/pkg/gitlab"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/spf13/cobra"
)

func NewDeleteIssuesCommand() *cobra.Command {
	var convertConfig config.ConvertConfig
	cmd := &cobra.Command{
		Use:   "delete-issues <options.json>",
		Short: "Delete every issue of the target GitLab project",
		Long: `Delete every issue of the GitLab project named in the options file.
Meant to reset a test project between conversion runs. This cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convertConfig.OptionsFile = args[0]
			return runDeletion(convertConfig)
		},
	}

	return cmd
}

func runDeletion(convertConfig config.ConvertConfig) error {
	opts, err := loadOptions(convertConfig)
	if err != nil {
		return err
	}

	gitlabClient, err := gitlab.NewClient(opts.GitLab)
	if err != nil {
		return &exitError{code: ExitOptionsError, err: err}
	}

	ctx, cancel := signalContext(nil)
	defer cancel()

	logger.Info("Deleting issues...", "project", opts.GitLab.ProjectID)
	deleted, failed, err := gitlabClient.DeleteAllIssues(ctx)
	if err != nil {
		return &exitError{code: ExitConversionError, err: fmt.Errorf("failed to delete issues: %w", err)}
	}
	logger.Info("Issues deleted", "deleted", deleted, "failed", failed)
	return nil
}
