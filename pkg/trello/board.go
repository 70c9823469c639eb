package trello

// Snapshot queries. Every lookup scans the board in snapshot order.

// List returns the list with the given id.
func (b *Board) List(id string) (*List, bool) {
	for i := range b.Lists {
		if b.Lists[i].ID == id {
			return &b.Lists[i], true
		}
	}
	return nil, false
}

// ChecklistsOf returns the checklists of a card in snapshot order.
func (b *Board) ChecklistsOf(cardID string) []Checklist {
	var checklists []Checklist
	for _, c := range b.Checklists {
		if c.IDCard == cardID {
			checklists = append(checklists, c)
		}
	}
	return checklists
}

// CreateCardAction returns the first createCard action of a card, or nil when
// the action is gone (Trello purges old actions).
func (b *Board) CreateCardAction(cardID string) *Action {
	for i := range b.Actions {
		a := &b.Actions[i]
		if a.Type == ActionCreateCard && a.cardID() == cardID {
			return a
		}
	}
	return nil
}

// CommentActions returns every commentCard action of a card in snapshot order.
func (b *Board) CommentActions(cardID string) []*Action {
	var comments []*Action
	for i := range b.Actions {
		a := &b.Actions[i]
		if a.Type == ActionCommentCard && a.cardID() == cardID {
			comments = append(comments, a)
		}
	}
	return comments
}

// CardCloseAction returns the most recent updateCard action that closed the card.
func (b *Board) CardCloseAction(cardID string) *Action {
	return b.latestMatching(func(a *Action) bool {
		return a.Type == ActionUpdateCard && a.cardID() == cardID && a.closesEntity()
	})
}

// ListCloseAction returns the most recent updateList action that closed the list.
func (b *Board) ListCloseAction(listID string) *Action {
	return b.latestMatching(func(a *Action) bool {
		return a.Type == ActionUpdateList && a.listID() == listID && a.closesEntity()
	})
}

// latestMatching returns the matching action with the latest date. Ties go to
// the one later in snapshot order.
func (b *Board) latestMatching(match func(a *Action) bool) *Action {
	var latest *Action
	for i := range b.Actions {
		a := &b.Actions[i]
		if match(a) && (latest == nil || !a.Date.Before(latest.Date)) {
			latest = a
		}
	}
	return latest
}
