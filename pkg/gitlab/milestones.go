package gitlab

import (
	"context"

	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/xanzy/go-gitlab"
)

// ListMilestones returns every milestone of the project.
func (c *Client) ListMilestones(ctx context.Context) ([]Milestone, error) {
	var resp *gitlab.Response
	milestones, err := collectPages(func(page int) ([]*gitlab.Milestone, error) {
		pageMilestones, pageResp, err := c.inner.Milestones.ListMilestones(c.projectID, &gitlab.ListMilestonesOptions{
			ListOptions: gitlab.ListOptions{
				PerPage: PerPage,
				Page:    page,
			},
		}, c.requestOptions(ctx, nil)...)
		resp = pageResp
		return pageMilestones, err
	})
	if err != nil {
		return nil, wrapError("list milestones", resp, err)
	}

	ret := make([]Milestone, 0, len(milestones))
	for _, m := range milestones {
		ret = append(ret, Milestone{ID: m.ID, IID: m.IID, Title: m.Title})
	}
	logger.Debug("Listed GitLab milestones", "project", c.projectID, "count", len(ret))
	return ret, nil
}
