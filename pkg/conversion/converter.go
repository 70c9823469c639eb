// Package conversion turns a Trello board snapshot into GitLab issues.
package conversion

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/krrrr38/trello-2-gitlab/pkg/gitlab"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/krrrr38/trello-2-gitlab/pkg/trello"
)

// BoardSource provides the board snapshot.
type BoardSource interface {
	GetBoard(ctx context.Context) (*trello.Board, error)
}

// IssueTracker is the GitLab side of a conversion. actAs is the user a write is
// performed as; it only takes effect in sudo mode.
type IssueTracker interface {
	Sudo() bool
	ListUsers(ctx context.Context) ([]gitlab.User, error)
	SetAdmin(ctx context.Context, userID int, admin bool) error
	ListMilestones(ctx context.Context) ([]gitlab.Milestone, error)
	CreateIssue(ctx context.Context, issue gitlab.NewIssue, actAs *int) (*gitlab.Issue, error)
	CreateNote(ctx context.Context, issueIID int, note gitlab.NewNote, actAs *int) error
	CloseIssue(ctx context.Context, closing gitlab.CloseIssue, actAs *int) error
}

// Converter migrates one board. It is meant for a single run: milestone
// associations are rewritten in place by ConvertAll.
type Converter struct {
	trello       BoardSource
	gitlab       IssueTracker
	associations associationTable

	board            *trello.Board
	listCloseActions *closeActionCache

	// findListCloseAction scans the audit log for a list's close action.
	findListCloseAction func(board *trello.Board, listID string) *trello.Action

	mu      sync.Mutex
	granted []int
}

func NewConverter(source BoardSource, tracker IssueTracker, associations *config.Associations) *Converter {
	if associations == nil {
		associations = &config.Associations{}
	}
	return &Converter{
		trello:              source,
		gitlab:              tracker,
		associations:        associationTable{associations},
		findListCloseAction: (*trello.Board).ListCloseAction,
	}
}

// UseBoard sets the snapshot Convert reads from and resets the list close cache.
// ConvertAll calls it with the fetched board.
func (c *Converter) UseBoard(board *trello.Board) {
	c.board = board
	c.listCloseActions = newCloseActionCache(func(listID string) *trello.Action {
		return c.findListCloseAction(board, listID)
	})
}

// ConvertAll runs a full conversion and reports every step to progress. Failures
// of single items are reported and skipped; only a failed board fetch, user
// listing or milestone listing aborts the run with an error.
func (c *Converter) ConvertAll(ctx context.Context, progress Progress) (bool, error) {
	progress.Report(Init{})

	progress.Report(FetchingBoard{})
	board, err := c.trello.GetBoard(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to fetch board: %w", err)
	}
	c.UseBoard(board)
	progress.Report(BoardFetched{})
	logger.Info("Board fetched", "cards", len(board.Cards), "lists", len(board.Lists), "actions", len(board.Actions))

	sudo := c.gitlab.Sudo()
	var users []gitlab.User
	if sudo {
		progress.Report(PhaseStarted{Phase: PhaseGrantAdmin})
		users, err = c.nonAdminUsers(ctx)
		if err != nil {
			return false, err
		}
		c.setAdminPrivileges(ctx, users, true, progress)
		progress.Report(PhaseDone{Phase: PhaseGrantAdmin})
	}

	if c.associations.HasMilestones() {
		if err := c.resolveMilestones(ctx, progress); err != nil {
			if sudo {
				c.revokeAdminPrivileges(ctx, users, progress)
			}
			return false, err
		}
	}

	total := len(board.Cards)
	failed := 0
	progress.Report(PhaseStarted{Phase: PhaseConvertCards})
	logger.Info("Converting cards", "total", total)
	for i := range board.Cards {
		progress.Report(PhaseProgress{Phase: PhaseConvertCards, Index: i, Total: total})
		if errs := c.Convert(ctx, board.Cards[i]); len(errs) > 0 {
			failed++
			progress.Report(PhaseErrors{Phase: PhaseConvertCards, Index: i, Total: total, Errors: errs})
		}
	}
	progress.Report(PhaseDone{Phase: PhaseConvertCards})
	logger.Info("Cards converted", "total", total, "failed", failed)

	if sudo {
		c.revokeAdminPrivileges(ctx, users, progress)
	}

	progress.Report(Finished{Index: total, Total: total})
	return true, nil
}

// nonAdminUsers lists the users that are targets of a member association and
// are not admins yet, in API order and without duplicates.
func (c *Converter) nonAdminUsers(ctx context.Context) ([]gitlab.User, error) {
	all, err := c.gitlab.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	associated := make(map[int]struct{}, len(c.associations.MembersUsers))
	for _, id := range c.associations.MembersUsers {
		associated[id] = struct{}{}
	}

	seen := map[int]struct{}{}
	var users []gitlab.User
	for _, u := range all {
		if u.IsAdmin {
			continue
		}
		if _, ok := associated[u.ID]; !ok {
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		users = append(users, u)
	}
	return users, nil
}

func (c *Converter) revokeAdminPrivileges(ctx context.Context, users []gitlab.User, progress Progress) {
	progress.Report(PhaseStarted{Phase: PhaseRevokeAdmin})
	c.setAdminPrivileges(ctx, users, false, progress)
	progress.Report(PhaseDone{Phase: PhaseRevokeAdmin})
}

// setAdminPrivileges toggles admin on every user, reporting under the grant or
// revoke phase.
func (c *Converter) setAdminPrivileges(ctx context.Context, users []gitlab.User, admin bool, progress Progress) {
	phase, verb := PhaseGrantAdmin, "granting"
	if !admin {
		phase, verb = PhaseRevokeAdmin, "revoking"
	}

	logger.Info("Setting admin privileges", "admin", admin, "users", len(users))
	for i, u := range users {
		progress.Report(PhaseProgress{Phase: phase, Index: i, Total: len(users)})
		if err := c.gitlab.SetAdmin(ctx, u.ID, admin); err != nil {
			logger.Warn("Failed to set admin privilege", "user", u.Username, "admin", admin, "error", err)
			progress.Report(PhaseErrors{
				Phase:  phase,
				Index:  i,
				Total:  len(users),
				Errors: []string{fmt.Sprintf("Error while %s admin privilege: %v\nUser: %d (%s)", verb, err, u.ID, u.Username)},
			})
			continue
		}
		c.trackGrant(u.ID, admin)
	}
}

// GrantedAdmins returns the users currently holding an admin privilege granted
// by this converter. It may be called while ConvertAll runs.
func (c *Converter) GrantedAdmins() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.granted)
}

func (c *Converter) trackGrant(userID int, admin bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if admin {
		c.granted = append(c.granted, userID)
		return
	}
	c.granted = slices.DeleteFunc(c.granted, func(id int) bool { return id == userID })
}

// resolveMilestones replaces the milestone iids of the associations with the
// ids of the project milestones.
func (c *Converter) resolveMilestones(ctx context.Context, progress Progress) error {
	progress.Report(PhaseStarted{Phase: PhaseFetchMilestones})
	milestones, err := c.gitlab.ListMilestones(ctx)
	if err != nil {
		return fmt.Errorf("failed to list milestones: %w", err)
	}

	c.associations.resolveMilestones(milestones, func(index, total int, errMsg string) {
		progress.Report(PhaseProgress{Phase: PhaseFetchMilestones, Index: index, Total: total})
		if errMsg != "" {
			logger.Warn("Milestone association dropped", "error", errMsg)
			progress.Report(PhaseErrors{Phase: PhaseFetchMilestones, Index: index, Total: total, Errors: []string{errMsg}})
		}
	})
	progress.Report(PhaseDone{Phase: PhaseFetchMilestones})
	return nil
}
