package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/krrrr38/trello-2-gitlab/pkg/apierror"
	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
)

const (
	// DefaultBaseURL is the Trello REST API root.
	DefaultBaseURL = "https://api.trello.com/1"

	// ActionsPageLimit is the maximum page size of the board actions endpoint.
	ActionsPageLimit = 1000

	// DefaultRetryMax is the number of retries on 429 and 5xx responses.
	DefaultRetryMax = 3
)

var actionFilter = strings.Join([]string{ActionCreateCard, ActionUpdateCard, ActionCommentCard, ActionUpdateList}, ",")

// Client fetches a board snapshot.
type Client struct {
	baseURL string
	key     string
	token   string
	boardID string
	include string

	actionsLimit int
	http         *retryablehttp.Client
}

// NewClient creates a Trello client for one board.
func NewClient(opts config.TrelloOptions) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = newRedactingLogger(opts.Key, opts.Token)
	rc.RetryMax = DefaultRetryMax
	// keep the last response so non-2xx statuses surface as APIError after retries
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	include := opts.Include
	if include == "" {
		include = config.DefaultTrelloInclude
	}

	return &Client{
		baseURL:      DefaultBaseURL,
		key:          opts.Key,
		token:        opts.Token,
		boardID:      opts.BoardID,
		include:      include,
		actionsLimit: ActionsPageLimit,
		http:         rc,
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithRetryMax changes the retry budget of 429 and 5xx responses.
func (c *Client) WithRetryMax(retryMax int) *Client {
	c.http.RetryMax = retryMax
	return c
}

// GetBoard fetches cards, lists and checklists, then every relevant action.
func (c *Client) GetBoard(ctx context.Context) (*Board, error) {
	var board Board
	params := url.Values{}
	params.Set("fields", "none")
	params.Set("cards", c.include)
	params.Set("checklists", "all")
	params.Set("lists", "all")
	if err := c.request(ctx, "", params, &board); err != nil {
		return nil, fmt.Errorf("failed to get Trello board %s: %w", c.boardID, err)
	}

	actions, err := c.getAllActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Trello board %s actions: %w", c.boardID, err)
	}
	board.Actions = actions

	logger.Debug("Fetched Trello board",
		"board", c.boardID,
		"cards", len(board.Cards),
		"lists", len(board.Lists),
		"checklists", len(board.Checklists),
		"actions", len(board.Actions))
	return &board, nil
}

// getAllActions pages backwards through the audit log with the id of the last
// action received, until a short page comes back.
func (c *Client) getAllActions(ctx context.Context) ([]Action, error) {
	var ret []Action
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.actionsLimit))
		params.Set("filter", actionFilter)
		if len(ret) > 0 {
			params.Set("before", ret[len(ret)-1].ID)
		}

		var page []Action
		if err := c.request(ctx, "/actions", params, &page); err != nil {
			return nil, err
		}
		ret = append(ret, page...)
		if len(page) < c.actionsLimit {
			break
		}
	}
	return ret, nil
}

func (c *Client) request(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	params.Set("key", c.key)
	params.Set("token", c.token)
	reqURL := fmt.Sprintf("%s/boards/%s%s?%s", c.baseURL, url.PathEscape(c.boardID), endpoint, params.Encode())
	op := "GET /boards/" + c.boardID + endpoint

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which carries the credentials
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return &apierror.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierror.TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierror.FromResponse(resp, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode Trello response: %w", err)
	}
	return nil
}
