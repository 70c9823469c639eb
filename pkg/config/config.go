package config

import (
	"errors"
	"fmt"
	"slices"
)

const (
	DefaultGitLabURL     = "https://gitlab.com"
	DefaultTrelloInclude = "all"
)

// TrelloIncludeValues lists the accepted card filters of the Trello board endpoint.
var TrelloIncludeValues = []string{"all", "open", "visible", "closed"}

type GlobalConfig struct {
	LogLevel string
}

type ConvertConfig struct {
	OptionsFile string
}

// Options is the content of the options file handed to the converter.
type Options struct {
	Trello       TrelloOptions `mapstructure:"trello"`
	GitLab       GitLabOptions `mapstructure:"gitlab"`
	Associations Associations  `mapstructure:"associations"`
}

type TrelloOptions struct {
	Key     string `mapstructure:"key"`
	Token   string `mapstructure:"token"`
	BoardID string `mapstructure:"boardId"`
	// Include is one of TrelloIncludeValues
	Include string `mapstructure:"include"`
}

type GitLabOptions struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
	// Sudo tells that the token may impersonate other users and toggle admin rights
	Sudo      bool `mapstructure:"sudo"`
	ProjectID int  `mapstructure:"projectId"`
}

// Associations maps Trello identifiers to GitLab ones.
//
// LabelsMilestones and ListsMilestones are written by users with milestone iids and are
// rewritten to milestone ids by the converter before any card is processed.
type Associations struct {
	LabelsLabels     map[string]string `mapstructure:"labels_labels"`
	ListsLabels      map[string]string `mapstructure:"lists_labels"`
	LabelsMilestones map[string]int    `mapstructure:"labels_milestones"`
	ListsMilestones  map[string]int    `mapstructure:"lists_milestones"`
	MembersUsers     map[string]int    `mapstructure:"members_users"`
}

// HasMilestones reports whether any label or list is mapped to a milestone.
func (a *Associations) HasMilestones() bool {
	return len(a.LabelsMilestones) != 0 || len(a.ListsMilestones) != 0
}

func (a *Associations) ensureMaps() {
	if a.LabelsLabels == nil {
		a.LabelsLabels = map[string]string{}
	}
	if a.ListsLabels == nil {
		a.ListsLabels = map[string]string{}
	}
	if a.LabelsMilestones == nil {
		a.LabelsMilestones = map[string]int{}
	}
	if a.ListsMilestones == nil {
		a.ListsMilestones = map[string]int{}
	}
	if a.MembersUsers == nil {
		a.MembersUsers = map[string]int{}
	}
}

// Validate checks the options before a converter is built.
func (o *Options) Validate() error {
	var errs []error
	if o.Trello.Key == "" {
		errs = append(errs, errors.New("missing Trello key"))
	}
	if o.Trello.Token == "" {
		errs = append(errs, errors.New("missing Trello token"))
	}
	if o.Trello.BoardID == "" {
		errs = append(errs, errors.New("missing Trello board ID"))
	}
	if !slices.Contains(TrelloIncludeValues, o.Trello.Include) {
		errs = append(errs, fmt.Errorf("invalid Trello include %q: valid values are 'all', 'open', 'visible' or 'closed'", o.Trello.Include))
	}
	if o.GitLab.Token == "" {
		errs = append(errs, errors.New("missing GitLab token"))
	}
	if o.GitLab.ProjectID == 0 {
		errs = append(errs, errors.New("missing GitLab project ID"))
	}
	return errors.Join(errs...)
}
