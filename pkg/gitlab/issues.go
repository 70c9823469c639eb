package gitlab

import (
	"context"
	"net/http"

	"github.com/krrrr38/trello-2-gitlab/pkg/apierror"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/xanzy/go-gitlab"
)

// CreateIssue creates an issue, authored by actAs when the client is in sudo mode.
func (c *Client) CreateIssue(ctx context.Context, issue NewIssue, actAs *int) (*Issue, error) {
	opt := &gitlab.CreateIssueOptions{
		Title:       gitlab.String(issue.Title),
		Description: gitlab.String(issue.Description),
		MilestoneID: issue.MilestoneID,
	}
	if !issue.CreatedAt.IsZero() {
		opt.CreatedAt = timestamp(issue.CreatedAt)
	}
	if len(issue.Labels) > 0 {
		labels := gitlab.LabelOptions(issue.Labels)
		opt.Labels = &labels
	}
	if len(issue.AssigneeIDs) > 0 {
		assignees := issue.AssigneeIDs
		opt.AssigneeIDs = &assignees
	}
	if issue.DueDate != nil {
		due := gitlab.ISOTime(*issue.DueDate)
		opt.DueDate = &due
	}

	created, resp, err := c.inner.Issues.CreateIssue(c.projectID, opt, c.requestOptions(ctx, actAs)...)
	if err != nil {
		return nil, wrapError("create issue", resp, err)
	}
	logger.Debug("Created GitLab issue", "project", c.projectID, "iid", created.IID, "url", created.WebURL)
	return convertIssue(created), nil
}

// CreateNote adds a comment to an issue.
func (c *Client) CreateNote(ctx context.Context, issueIID int, note NewNote, actAs *int) error {
	opt := &gitlab.CreateIssueNoteOptions{
		Body: gitlab.String(note.Body),
	}
	if !note.CreatedAt.IsZero() {
		opt.CreatedAt = timestamp(note.CreatedAt)
	}

	_, resp, err := c.inner.Notes.CreateIssueNote(c.projectID, issueIID, opt, c.requestOptions(ctx, actAs)...)
	if err != nil {
		return wrapError("create issue note", resp, err)
	}
	return nil
}

// CloseIssue moves an issue to the closed state.
func (c *Client) CloseIssue(ctx context.Context, closing CloseIssue, actAs *int) error {
	opt := &gitlab.UpdateIssueOptions{
		StateEvent: gitlab.String("close"),
	}
	if !closing.ClosedAt.IsZero() {
		opt.UpdatedAt = timestamp(closing.ClosedAt)
	}

	_, resp, err := c.inner.Issues.UpdateIssue(c.projectID, closing.IssueIID, opt, c.requestOptions(ctx, actAs)...)
	if err != nil {
		return wrapError("close issue", resp, err)
	}
	return nil
}

// ListIssues returns every issue of the project.
func (c *Client) ListIssues(ctx context.Context) ([]Issue, error) {
	var resp *gitlab.Response
	issues, err := collectPages(func(page int) ([]*gitlab.Issue, error) {
		pageIssues, pageResp, err := c.inner.Issues.ListProjectIssues(c.projectID, &gitlab.ListProjectIssuesOptions{
			Scope: gitlab.String("all"),
			ListOptions: gitlab.ListOptions{
				PerPage: PerPage,
				Page:    page,
			},
		}, c.requestOptions(ctx, nil)...)
		resp = pageResp
		return pageIssues, err
	})
	if err != nil {
		return nil, wrapError("list issues", resp, err)
	}

	ret := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		ret = append(ret, *convertIssue(issue))
	}
	return ret, nil
}

// DeleteAllIssues removes every issue of the project. Issues already gone count
// as deleted. Individual failures are logged and counted; the returned error is
// the listing failure, if any.
func (c *Client) DeleteAllIssues(ctx context.Context) (deleted int, failed int, err error) {
	issues, err := c.ListIssues(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, issue := range issues {
		resp, err := c.inner.Issues.DeleteIssue(c.projectID, issue.IID, c.requestOptions(ctx, nil)...)
		if err != nil {
			err = wrapError("delete issue", resp, err)
			if apierror.IsStatus(err, http.StatusNotFound) {
				logger.Debug("Issue already deleted", "iid", issue.IID)
				deleted++
				continue
			}
			logger.Warn("Failed to delete issue", "iid", issue.IID, "error", err)
			failed++
			continue
		}
		deleted++
	}
	return deleted, failed, nil
}

func convertIssue(issue *gitlab.Issue) *Issue {
	return &Issue{
		ID:     issue.ID,
		IID:    issue.IID,
		Title:  issue.Title,
		State:  issue.State,
		Labels: issue.Labels,
		WebURL: issue.WebURL,
	}
}
