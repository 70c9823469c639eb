package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() Options {
	return Options{
		Trello: TrelloOptions{Key: "k", Token: "t", BoardID: "b", Include: "all"},
		GitLab: GitLabOptions{URL: DefaultGitLabURL, Token: "gt", ProjectID: 42},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr string
	}{
		{name: "valid", mutate: func(o *Options) {}},
		{name: "missing trello key", mutate: func(o *Options) { o.Trello.Key = "" }, wantErr: "missing Trello key"},
		{name: "missing trello token", mutate: func(o *Options) { o.Trello.Token = "" }, wantErr: "missing Trello token"},
		{name: "missing board", mutate: func(o *Options) { o.Trello.BoardID = "" }, wantErr: "missing Trello board ID"},
		{name: "bad include", mutate: func(o *Options) { o.Trello.Include = "archived" }, wantErr: `invalid Trello include "archived"`},
		{name: "empty include", mutate: func(o *Options) { o.Trello.Include = "" }, wantErr: "invalid Trello include"},
		{name: "missing gitlab token", mutate: func(o *Options) { o.GitLab.Token = "" }, wantErr: "missing GitLab token"},
		{name: "missing project", mutate: func(o *Options) { o.GitLab.ProjectID = 0 }, wantErr: "missing GitLab project ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOptions()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := (&Options{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing Trello key")
	assert.Contains(t, err.Error(), "missing GitLab project ID")
}

func writeOptions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOptions(t *testing.T) {
	path := writeOptions(t, `{
		"trello": {"key": "tk", "token": "tt", "boardId": "board1", "include": "open"},
		"gitlab": {"url": "https://gitlab.example.com", "token": "gt", "sudo": true, "projectId": 7},
		"associations": {
			"labels_labels": {"5e1a": "bug"},
			"lists_labels": {"5e2b": "doing"},
			"labels_milestones": {"5e1a": 3},
			"lists_milestones": {"5e2b": 4},
			"members_users": {"5e3c": 12}
		}
	}`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	assert.Equal(t, TrelloOptions{Key: "tk", Token: "tt", BoardID: "board1", Include: "open"}, opts.Trello)
	assert.Equal(t, GitLabOptions{URL: "https://gitlab.example.com", Token: "gt", Sudo: true, ProjectID: 7}, opts.GitLab)
	assert.Equal(t, map[string]string{"5e1a": "bug"}, opts.Associations.LabelsLabels)
	assert.Equal(t, map[string]string{"5e2b": "doing"}, opts.Associations.ListsLabels)
	assert.Equal(t, map[string]int{"5e1a": 3}, opts.Associations.LabelsMilestones)
	assert.Equal(t, map[string]int{"5e2b": 4}, opts.Associations.ListsMilestones)
	assert.Equal(t, map[string]int{"5e3c": 12}, opts.Associations.MembersUsers)
	assert.True(t, opts.Associations.HasMilestones())
	assert.NoError(t, opts.Validate())
}

func TestLoadOptionsDefaultsAndEnv(t *testing.T) {
	t.Setenv("TRELLO_KEY", "")
	t.Setenv("TRELLO_TOKEN", "env-trello-token")
	t.Setenv("GITLAB_TOKEN", "env-gitlab-token")
	t.Setenv("GITLAB_URL", "")
	path := writeOptions(t, `{
		"trello": {"key": "tk", "boardId": "board1"},
		"gitlab": {"projectId": 7}
	}`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultTrelloInclude, opts.Trello.Include)
	assert.Equal(t, DefaultGitLabURL, opts.GitLab.URL)
	assert.Equal(t, "env-trello-token", opts.Trello.Token)
	assert.Equal(t, "env-gitlab-token", opts.GitLab.Token)
	assert.False(t, opts.GitLab.Sudo)
	assert.NotNil(t, opts.Associations.MembersUsers)
	assert.False(t, opts.Associations.HasMilestones())
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be located")
}

func TestLoadOptionsMalformed(t *testing.T) {
	path := writeOptions(t, `{"trello": `)

	_, err := LoadOptions(path)
	require.Error(t, err)
}
