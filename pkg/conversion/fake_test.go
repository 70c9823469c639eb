package conversion

import (
	"context"
	"errors"
	"time"

	"github.com/krrrr38/trello-2-gitlab/pkg/gitlab"
	"github.com/krrrr38/trello-2-gitlab/pkg/trello"
)

type fakeBoardSource struct {
	board *trello.Board
	err   error
	calls int
}

func (f *fakeBoardSource) GetBoard(context.Context) (*trello.Board, error) {
	f.calls++
	return f.board, f.err
}

type adminCall struct {
	UserID int
	Admin  bool
}

type createdIssue struct {
	Issue gitlab.NewIssue
	ActAs *int
}

type createdNote struct {
	IssueIID int
	Note     gitlab.NewNote
	ActAs    *int
}

type closedIssue struct {
	Close gitlab.CloseIssue
	ActAs *int
}

// fakeTracker records every write. Failures are injected per user id, card title
// or note body.
type fakeTracker struct {
	sudo       bool
	users      []gitlab.User
	usersErr   error
	milestones []gitlab.Milestone
	milesErr   error

	adminErrs map[int]error
	issueErrs map[string]error
	noteErrs  map[string]error
	closeErr  error

	milestoneCalls int
	adminCalls     []adminCall
	issues         []createdIssue
	notes          []createdNote
	closes         []closedIssue
}

func (f *fakeTracker) Sudo() bool {
	return f.sudo
}

func (f *fakeTracker) ListUsers(context.Context) ([]gitlab.User, error) {
	return f.users, f.usersErr
}

func (f *fakeTracker) SetAdmin(_ context.Context, userID int, admin bool) error {
	f.adminCalls = append(f.adminCalls, adminCall{UserID: userID, Admin: admin})
	return f.adminErrs[userID]
}

func (f *fakeTracker) ListMilestones(context.Context) ([]gitlab.Milestone, error) {
	f.milestoneCalls++
	return f.milestones, f.milesErr
}

func (f *fakeTracker) CreateIssue(_ context.Context, issue gitlab.NewIssue, actAs *int) (*gitlab.Issue, error) {
	if err := f.issueErrs[issue.Title]; err != nil {
		return nil, err
	}
	f.issues = append(f.issues, createdIssue{Issue: issue, ActAs: actAs})
	n := len(f.issues)
	return &gitlab.Issue{ID: 1000 + n, IID: n, Title: issue.Title}, nil
}

func (f *fakeTracker) CreateNote(_ context.Context, issueIID int, note gitlab.NewNote, actAs *int) error {
	if err := f.noteErrs[note.Body]; err != nil {
		return err
	}
	f.notes = append(f.notes, createdNote{IssueIID: issueIID, Note: note, ActAs: actAs})
	return nil
}

func (f *fakeTracker) CloseIssue(_ context.Context, closing gitlab.CloseIssue, actAs *int) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closes = append(f.closes, closedIssue{Close: closing, ActAs: actAs})
	return nil
}

// recorder collects events in order.
type recorder struct {
	events []Event
}

func (r *recorder) Report(event Event) {
	r.events = append(r.events, event)
}

func (r *recorder) steps() []string {
	steps := make([]string, 0, len(r.events))
	for _, e := range r.events {
		steps = append(steps, e.Flatten().Step)
	}
	return steps
}

func (r *recorder) errors() []string {
	var errs []string
	for _, e := range r.events {
		errs = append(errs, e.Flatten().Errors...)
	}
	return errs
}

var errBoom = errors.New("boom")

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(v int) *int {
	return &v
}

func createAction(id, cardID, member, date string) trello.Action {
	return trello.Action{
		ID:              id,
		IDMemberCreator: member,
		Type:            trello.ActionCreateCard,
		Date:            at(date),
		Data:            trello.ActionData{Card: &trello.ActionRef{ID: cardID}},
	}
}

func commentAction(id, cardID, member, text, date string) trello.Action {
	return trello.Action{
		ID:              id,
		IDMemberCreator: member,
		Type:            trello.ActionCommentCard,
		Date:            at(date),
		Data:            trello.ActionData{Text: text, Card: &trello.ActionRef{ID: cardID}},
	}
}

func closeCardAction(id, cardID, member, date string) trello.Action {
	return trello.Action{
		ID:              id,
		IDMemberCreator: member,
		Type:            trello.ActionUpdateCard,
		Date:            at(date),
		Data: trello.ActionData{
			Old:  map[string]interface{}{"closed": false},
			Card: &trello.ActionRef{ID: cardID},
		},
	}
}

func closeListAction(id, listID, member, date string) trello.Action {
	return trello.Action{
		ID:              id,
		IDMemberCreator: member,
		Type:            trello.ActionUpdateList,
		Date:            at(date),
		Data: trello.ActionData{
			Old:  map[string]interface{}{"closed": false},
			List: &trello.ActionRef{ID: listID},
		},
	}
}
