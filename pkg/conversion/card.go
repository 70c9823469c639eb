package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krrrr38/trello-2-gitlab/pkg/gitlab"
	"github.com/krrrr38/trello-2-gitlab/pkg/logger"
	"github.com/krrrr38/trello-2-gitlab/pkg/trello"
	"github.com/krrrr38/trello-2-gitlab/pkg/utils"
)

var errNoBoard = errors.New("no board loaded")

// Convert creates the issue of one card, its comments and, when the card or its
// list was archived, closes it. It returns the failures as display messages.
// Without a board set by UseBoard or ConvertAll nothing is created.
func (c *Converter) Convert(ctx context.Context, card trello.Card) []string {
	var errs []string
	if c.board == nil {
		return append(errs, cardError("creating issue", errNoBoard, card, nil))
	}

	createdAt := card.DateLastActivity
	var createdBy *int
	if action := c.board.CreateCardAction(card.ID); action != nil {
		createdAt = action.Date
		createdBy = c.associations.userID(action.IDMemberCreator)
	}

	issue, err := c.gitlab.CreateIssue(ctx, gitlab.NewIssue{
		Title:       utils.TruncateText(card.Name, utils.MaxIssueTitleLength),
		Description: utils.TruncateText(c.description(&card), utils.MaxIssueDescriptionLength),
		Labels:      c.associations.labels(&card),
		AssigneeIDs: c.associations.assignees(&card),
		MilestoneID: c.associations.milestone(&card),
		DueDate:     card.Due,
		CreatedAt:   createdAt,
	}, createdBy)
	if err != nil {
		logger.Warn("Failed to create issue", "card", card.ID, "error", err)
		return append(errs, cardError("creating issue", err, card, nil))
	}
	logger.Debug("Issue created", "card", card.ID, "issue", issue.IID)

	for _, comment := range c.board.CommentActions(card.ID) {
		err := c.gitlab.CreateNote(ctx, issue.IID, gitlab.NewNote{
			Body:      comment.Data.Text,
			CreatedAt: comment.Date,
		}, c.associations.userID(comment.IDMemberCreator))
		if err != nil {
			logger.Warn("Failed to create issue comment", "card", card.ID, "action", comment.ID, "error", err)
			errs = append(errs, cardError("creating issue comment", err, card, issue))
		}
	}

	if closing := c.closeAction(&card); closing != nil {
		err := c.gitlab.CloseIssue(ctx, gitlab.CloseIssue{
			IssueIID: issue.IID,
			ClosedAt: closing.Date,
		}, c.associations.userID(closing.IDMemberCreator))
		if err != nil {
			logger.Warn("Failed to close issue", "card", card.ID, "issue", issue.IID, "error", err)
			errs = append(errs, cardError("closing issue", err, card, issue))
		}
	}

	return errs
}

// closeAction returns the action that archived the card or, for an open card,
// its list. Open cards on open lists have none.
func (c *Converter) closeAction(card *trello.Card) *trello.Action {
	if card.Closed {
		return c.board.CardCloseAction(card.ID)
	}
	list, ok := c.board.List(card.IDList)
	if !ok || !list.Closed {
		return nil
	}
	return c.listCloseActions.get(list.ID)
}

// description appends the card checklists to its description as markdown task
// lists.
func (c *Converter) description(card *trello.Card) string {
	var b strings.Builder
	b.WriteString(card.Desc)
	for _, checklist := range c.board.ChecklistsOf(card.ID) {
		fmt.Fprintf(&b, "\n\n### %s\n", checklist.Name)
		for _, item := range checklist.CheckItems {
			mark := " "
			if item.Complete() {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, item.Name)
		}
	}
	return b.String()
}

func cardError(during string, err error, card trello.Card, issue *gitlab.Issue) string {
	msg := fmt.Sprintf("Error while %s: %v\nCard: %s", during, err, card.ID)
	if issue != nil {
		msg += fmt.Sprintf("\nIssue: %d (#%d)", issue.ID, issue.IID)
	}
	return msg
}
