package cmd

import (
	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/krrrr38/trello-2-gitlab/pkg/conversion"
	"github.com/krrrr38/trello-2-gitlab/pkg/gitlab"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/krrrr38/trello-2-gitlab/pkg/progress"
	"github.com/krrrr38/trello-2-gitlab/pkg/trello"
	"github.com/spf13/cobra"
)

const optionsFormat = `Options file format:
  {
    "trello": {
      "key": <Trello API key>,
      "token": <Trello API token>,
      "boardId": <Trello board ID>,
      "include": <"all"|"open"|"visible"|"closed">  [default: "all"]
    },
    "gitlab": {
      "url": <GitLab server base URL>  [default: "https://gitlab.com"],
      "token": <GitLab private access token>,
      "sudo": <whether the token has sudo rights>,
      "projectId": <GitLab target project ID>
    },
    "associations": {
      "labels_labels": { <Trello label ID>: <GitLab label name> },
      "lists_labels": { <Trello list ID>: <GitLab label name> },
      "labels_milestones": { <Trello label ID>: <GitLab milestone IID> },
      "lists_milestones": { <Trello list ID>: <GitLab milestone IID> },
      "members_users": { <Trello member ID>: <GitLab user ID> }
    }
  }

Empty tokens fall back to TRELLO_KEY, TRELLO_TOKEN and GITLAB_TOKEN.

With "sudo", associated users are made admins for the duration of the run.
An interrupted run does not revoke them; the affected user ids are logged.`

func NewConvertCommand() *cobra.Command {
	var convertConfig config.ConvertConfig
	cmd := &cobra.Command{
		Use:   "convert <options.json>",
		Short: "Convert the cards of a Trello board to GitLab issues",
		Long:  "Convert the cards of a Trello board to GitLab issues.\n\n" + optionsFormat,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convertConfig.OptionsFile = args[0]
			return runConversion(convertConfig)
		},
	}

	return cmd
}

func runConversion(convertConfig config.ConvertConfig) error {
	opts, err := loadOptions(convertConfig)
	if err != nil {
		return err
	}

	gitlabClient, err := gitlab.NewClient(opts.GitLab)
	if err != nil {
		return &exitError{code: ExitOptionsError, err: err}
	}
	trelloClient := trello.NewClient(opts.Trello)

	converter := conversion.NewConverter(trelloClient, gitlabClient, &opts.Associations)
	ctx, cancel := signalContext(warnOutstandingAdmins(converter.GrantedAdmins))
	defer cancel()

	logger.Info("Conversion started...", "board", opts.Trello.BoardID, "project", opts.GitLab.ProjectID, "sudo", opts.GitLab.Sudo)
	console := progress.NewConsole()
	if _, err := converter.ConvertAll(ctx, console); err != nil {
		return &exitError{code: ExitConversionError, err: err}
	}

	logger.Info("Conversion completed", "cards", console.Cards(), "errors", console.Errors())
	return nil
}

// warnOutstandingAdmins returns an interrupt hook naming the users an
// interrupted run leaves with admin rights.
func warnOutstandingAdmins(granted func() []int) func() {
	return func() {
		if ids := granted(); len(ids) > 0 {
			logger.Warn("Interrupted before admin privileges were revoked, revoke them manually", "users", ids)
		}
	}
}
