// Package trello reads one board snapshot from the Trello REST API.
package trello

import "time"

// Action types requested from the board actions endpoint.
const (
	ActionCreateCard  = "createCard"
	ActionUpdateCard  = "updateCard"
	ActionCommentCard = "commentCard"
	ActionUpdateList  = "updateList"
)

// CheckItemComplete is the state of a ticked checklist item.
const CheckItemComplete = "complete"

// Board is an immutable snapshot of everything the conversion needs.
type Board struct {
	ID         string      `json:"id"`
	Cards      []Card      `json:"cards"`
	Lists      []List      `json:"lists"`
	Checklists []Checklist `json:"checklists"`
	Actions    []Action    `json:"-"`
}

type Card struct {
	ID               string     `json:"id"`
	Closed           bool       `json:"closed"`
	DateLastActivity time.Time  `json:"dateLastActivity"`
	Name             string     `json:"name"`
	Desc             string     `json:"desc"`
	Due              *time.Time `json:"due"`
	IDList           string     `json:"idList"`
	IDLabels         []string   `json:"idLabels"`
	IDChecklists     []string   `json:"idChecklists"`
	IDMembers        []string   `json:"idMembers"`
}

type List struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

type Checklist struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	IDCard     string          `json:"idCard"`
	CheckItems []ChecklistItem `json:"checkItems"`
}

type ChecklistItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"` // "complete" or "incomplete"
}

// Complete reports whether the item is ticked.
func (i ChecklistItem) Complete() bool {
	return i.State == CheckItemComplete
}

// Action is one entry of the board audit log.
type Action struct {
	ID              string     `json:"id"`
	IDMemberCreator string     `json:"idMemberCreator"`
	Type            string     `json:"type"`
	Date            time.Time  `json:"date"`
	Data            ActionData `json:"data"`
}

// ActionData is the type-dependent payload of an action. Only the fields read by the
// conversion are decoded.
type ActionData struct {
	Text string                 `json:"text"`
	Old  map[string]interface{} `json:"old"`
	Card *ActionRef             `json:"card"`
	List *ActionRef             `json:"list"`
}

// ActionRef points at the card or list an action touched.
type ActionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a *Action) cardID() string {
	if a.Data.Card == nil {
		return ""
	}
	return a.Data.Card.ID
}

func (a *Action) listID() string {
	if a.Data.List == nil {
		return ""
	}
	return a.Data.List.ID
}

// closesEntity reports whether the action moved its target from open to closed,
// i.e. its previous state recorded closed=false.
func (a *Action) closesEntity() bool {
	closed, ok := a.Data.Old["closed"].(bool)
	return ok && !closed
}
