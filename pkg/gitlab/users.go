package gitlab

import (
	"context"

	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/xanzy/go-gitlab"
)

// ListUsers returns every user of the instance in API order.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp *gitlab.Response
	users, err := collectPages(func(page int) ([]*gitlab.User, error) {
		pageUsers, pageResp, err := c.inner.Users.ListUsers(&gitlab.ListUsersOptions{
			ListOptions: gitlab.ListOptions{
				PerPage: PerPage,
				Page:    page,
			},
		}, c.requestOptions(ctx, nil)...)
		resp = pageResp
		return pageUsers, err
	})
	if err != nil {
		return nil, wrapError("list users", resp, err)
	}

	ret := make([]User, 0, len(users))
	for _, u := range users {
		ret = append(ret, User{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
	}
	logger.Debug("Listed GitLab users", "count", len(ret))
	return ret, nil
}

// SetAdmin grants or revokes the admin flag of a user.
func (c *Client) SetAdmin(ctx context.Context, userID int, admin bool) error {
	_, resp, err := c.inner.Users.ModifyUser(userID, &gitlab.ModifyUserOptions{
		Admin: gitlab.Bool(admin),
	}, c.requestOptions(ctx, nil)...)
	if err != nil {
		return wrapError("modify user", resp, err)
	}
	logger.Debug("Changed GitLab user admin flag", "user", userID, "admin", admin)
	return nil
}
