package gitlab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krrrr38/trello-2-gitlab/pkg/apierror"
	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/xanzy/go-gitlab"
)

// PerPage is the page size used by every list call.
const PerPage = 100

// Client is a project-scoped GitLab API client.
type Client struct {
	inner     *gitlab.Client
	projectID int
	sudo      bool
}

// NewClient creates a client for the project of opts. Extra options are passed to go-gitlab.
func NewClient(opts config.GitLabOptions, options ...gitlab.ClientOptionFunc) (*Client, error) {
	url := opts.URL
	if url == "" {
		url = config.DefaultGitLabURL
	}
	options = append([]gitlab.ClientOptionFunc{gitlab.WithBaseURL(url)}, options...)

	inner, err := gitlab.NewClient(opts.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &Client{
		inner:     inner,
		projectID: opts.ProjectID,
		sudo:      opts.Sudo,
	}, nil
}

// Sudo reports whether the token may act as other users.
func (c *Client) Sudo() bool {
	return c.sudo
}

// requestOptions binds ctx and, in sudo mode, impersonates actAs.
func (c *Client) requestOptions(ctx context.Context, actAs *int) []gitlab.RequestOptionFunc {
	options := []gitlab.RequestOptionFunc{gitlab.WithContext(ctx)}
	if c.sudo && actAs != nil {
		options = append(options, gitlab.WithSudo(*actAs))
	}
	return options
}

// collectPages calls fetch with increasing page numbers until a page shorter
// than PerPage is returned.
func collectPages[T any](fetch func(page int) ([]T, error)) ([]T, error) {
	var ret []T
	page := 1
	for {
		items, err := fetch(page)
		if err != nil {
			return nil, err
		}
		ret = append(ret, items...)
		if len(items) < PerPage {
			break
		}
		page += 1
	}
	return ret, nil
}

// wrapError turns go-gitlab failures into apierror types. resp may be nil; when
// set, an error status on it is reported as an APIError even if go-gitlab
// returned a plain error for it.
func wrapError(op string, resp *gitlab.Response, err error) error {
	if err == nil {
		return nil
	}
	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return &apierror.APIError{
			StatusCode: errResp.Response.StatusCode,
			Header:     errResp.Response.Header.Clone(),
			Body:       string(errResp.Body),
		}
	}
	if resp != nil && resp.Response != nil && resp.StatusCode >= 400 {
		return &apierror.APIError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       err.Error(),
		}
	}
	return &apierror.TransportError{Op: op, Err: err}
}

// timestamp drops sub-second precision so dates go out as yyyy-MM-ddTHH:mm:ssZ.
func timestamp(t time.Time) *time.Time {
	return gitlab.Time(t.UTC().Truncate(time.Second))
}
