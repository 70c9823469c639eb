package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOptionsError    = 1
	ExitConversionError = 2
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode returns the process exit code for an error returned by a command.
func ExitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitOptionsError
}

func NewRootCommand() *cobra.Command {
	var cfg config.GlobalConfig

	rootCmd := &cobra.Command{
		Use:   "trello-2-gitlab",
		Short: "Convert Trello cards to GitLab issues",
		Long: `Convert the cards of a Trello board to issues of a GitLab project.
This tool performs:
- Issue creation with labels, milestone, assignees and checklists
- Migration of card comments to issue comments
- Closing of issues for archived cards and lists`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !logger.ValidLevel(cfg.LogLevel) {
				return fmt.Errorf("unknown log level %q", cfg.LogLevel)
			}
			logger.SetLevel(cfg.LogLevel)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", logger.DefaultLevel, "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(NewConvertCommand())
	rootCmd.AddCommand(NewDeleteIssuesCommand())

	return rootCmd
}

// signalContext returns a context cancelled on interrupt, after which
// onInterrupt runs, if set, and the process exits.
func signalContext(onInterrupt func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-signalChan:
			logger.Info("Received interrupt signal, shutting down...")
			cancel()
			if onInterrupt != nil {
				onInterrupt()
			}
			os.Exit(ExitConversionError)
		case <-ctx.Done():
			signal.Stop(signalChan)
		}
	}()

	return ctx, cancel
}

// loadOptions reads and validates the options file of cfg.
func loadOptions(cfg config.ConvertConfig) (*config.Options, error) {
	opts, err := config.LoadOptions(cfg.OptionsFile)
	if err != nil {
		return nil, &exitError{code: ExitOptionsError, err: err}
	}
	if err := opts.Validate(); err != nil {
		return nil, &exitError{code: ExitOptionsError, err: fmt.Errorf("invalid options: %w", err)}
	}
	return opts, nil
}
