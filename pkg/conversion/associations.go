package conversion

import (
	"fmt"
	"sort"

	"github.com/krrrr38/trello-2-gitlab/pkg/config"
	"github.com/krrrr38/trello-2-gitlab/pkg/gitlab"
	"github.com/krrrr38/trello-2-gitlab/pkg/trello"
)

// associationTable resolves Trello ids through the user supplied associations.
type associationTable struct {
	*config.Associations
}

// userID returns the GitLab user of a Trello member, or nil when unmapped.
func (t associationTable) userID(memberID string) *int {
	if memberID == "" {
		return nil
	}
	id, ok := t.MembersUsers[memberID]
	if !ok {
		return nil
	}
	return &id
}

// assignees maps card members to GitLab users, dropping unmapped members.
func (t associationTable) assignees(card *trello.Card) []int {
	var ids []int
	for _, member := range card.IDMembers {
		if id := t.userID(member); id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// labels returns the labels of the card's labels in card order, then the label of
// its list. Duplicates are kept.
func (t associationTable) labels(card *trello.Card) []string {
	var labels []string
	for _, idLabel := range card.IDLabels {
		if label, ok := t.LabelsLabels[idLabel]; ok {
			labels = append(labels, label)
		}
	}
	if label, ok := t.ListsLabels[card.IDList]; ok {
		labels = append(labels, label)
	}
	return labels
}

// milestone prefers the list mapping, then the first card label with a mapping.
func (t associationTable) milestone(card *trello.Card) *int {
	if id, ok := t.ListsMilestones[card.IDList]; ok {
		return &id
	}
	for _, idLabel := range card.IDLabels {
		if id, ok := t.LabelsMilestones[idLabel]; ok {
			return &id
		}
	}
	return nil
}

// milestoneEntry is one iid-keyed association awaiting resolution.
type milestoneEntry struct {
	target map[string]int
	key    string
	iid    int
}

// milestoneEntries lists label entries then list entries, each by ascending key.
func (t associationTable) milestoneEntries(labels, lists map[string]int) []milestoneEntry {
	var entries []milestoneEntry
	for _, key := range sortedKeys(t.LabelsMilestones) {
		entries = append(entries, milestoneEntry{target: labels, key: key, iid: t.LabelsMilestones[key]})
	}
	for _, key := range sortedKeys(t.ListsMilestones) {
		entries = append(entries, milestoneEntry{target: lists, key: key, iid: t.ListsMilestones[key]})
	}
	return entries
}

// resolveMilestones rewrites both milestone maps from iids to ids. visit is
// called once per entry with its combined index and, for an iid missing from
// milestones, the error message. Unmatched entries are dropped.
func (t associationTable) resolveMilestones(milestones []gitlab.Milestone, visit func(index, total int, errMsg string)) {
	idByIID := make(map[int]int, len(milestones))
	for _, m := range milestones {
		if _, ok := idByIID[m.IID]; !ok {
			idByIID[m.IID] = m.ID
		}
	}

	labels := map[string]int{}
	lists := map[string]int{}
	entries := t.milestoneEntries(labels, lists)
	for i, entry := range entries {
		id, ok := idByIID[entry.iid]
		if !ok {
			visit(i, len(entries), fmt.Sprintf("Error while fetching milestone: milestone with iid '%d' not found on project", entry.iid))
			continue
		}
		entry.target[entry.key] = id
		visit(i, len(entries), "")
	}

	t.LabelsMilestones = labels
	t.ListsMilestones = lists
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
