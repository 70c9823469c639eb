package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// LoadOptions reads a JSON options file.
//
// Tokens left empty in the file fall back to TRELLO_KEY, TRELLO_TOKEN, GITLAB_TOKEN and
// GITLAB_URL. Keys are matched case-insensitively, so association map keys come back
// lower-cased; Trello ids are lower-case hex already.
func LoadOptions(path string) (*Options, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("the options file cannot be located at %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("trello.include", DefaultTrelloInclude)
	v.SetDefault("gitlab.url", DefaultGitLabURL)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to decode options file: %w", err)
	}

	applyEnvFallbacks(&opts)
	opts.Associations.ensureMaps()
	return &opts, nil
}

func applyEnvFallbacks(opts *Options) {
	if opts.Trello.Key == "" {
		opts.Trello.Key = os.Getenv("TRELLO_KEY")
	}
	if opts.Trello.Token == "" {
		opts.Trello.Token = os.Getenv("TRELLO_TOKEN")
	}
	if opts.GitLab.Token == "" {
		opts.GitLab.Token = os.Getenv("GITLAB_TOKEN")
	}
	if env := os.Getenv("GITLAB_URL"); env != "" && opts.GitLab.URL == DefaultGitLabURL {
		opts.GitLab.URL = env
	}
}
