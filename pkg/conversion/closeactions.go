package conversion

import (
	"sync"

	"github.com/krrrr38/trello-2-gitlab/pkg/trello"
)

// closeActionCache memoizes the close action of each list, including the
// absence of one, so the audit log is scanned at most once per list.
type closeActionCache struct {
	mu      sync.Mutex
	find    func(listID string) *trello.Action
	actions map[string]*trello.Action
}

func newCloseActionCache(find func(listID string) *trello.Action) *closeActionCache {
	return &closeActionCache{
		find:    find,
		actions: map[string]*trello.Action{},
	}
}

func (c *closeActionCache) get(listID string) *trello.Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	if action, ok := c.actions[listID]; ok {
		return action
	}
	action := c.find(listID)
	c.actions[listID] = action
	return action
}
