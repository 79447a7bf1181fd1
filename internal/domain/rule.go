package domain

import (
	"bytes"
	"cmp"
	"slices"
)

// RuleDefinition is an opaque rule script. Version is assigned by the
// registry when the definition is materialized.
type RuleDefinition struct {
	RuleID  string
	Domain  Domain
	Source  []byte
	Version uint64
}

// SameContent reports whether two definitions carry the same script for the
// same domain, ignoring version.
func (r RuleDefinition) SameContent(other RuleDefinition) bool {
	return r.RuleID == other.RuleID && r.Domain == other.Domain && bytes.Equal(r.Source, other.Source)
}

// ScopeBinding binds exactly one rule to a scope key.
type ScopeBinding struct {
	Domain Domain
	Scope  ScopeKey
	RuleID string
}

// PriorityEntry is one candidate of a priority group. Lower priority values
// are evaluated first.
type PriorityEntry struct {
	RuleID   string
	Priority int64
}

// PriorityGroup is an ordered fallback chain of rules.
type PriorityGroup struct {
	GroupID string
	Domain  Domain
	Entries []PriorityEntry
}

// NewPriorityGroup copies entries and orders them by priority. Equal
// priorities keep their insertion order.
func NewPriorityGroup(groupID string, d Domain, entries []PriorityEntry) PriorityGroup {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b PriorityEntry) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return PriorityGroup{GroupID: groupID, Domain: d, Entries: ordered}
}

// RuleIDs returns the rule ids in evaluation order.
func (g PriorityGroup) RuleIDs() []string {
	ids := make([]string, len(g.Entries))
	for i, e := range g.Entries {
		ids[i] = e.RuleID
	}
	return ids
}

// GroupReference binds a priority group to a scope key.
type GroupReference struct {
	Domain  Domain
	Scope   ScopeKey
	GroupID string
}
