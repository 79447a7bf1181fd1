// Package registrytest builds populated registries for tests by applying the
// same commands the command log would deliver.
package registrytest

import (
	"testing"

	"fraudgate/internal/domain"
	"fraudgate/internal/registry"
)

// Builder applies commands to a registry and fails the test on error.
type Builder struct {
	t   testing.TB
	Reg *registry.Registry
}

func New(t testing.TB) *Builder {
	t.Helper()
	return &Builder{t: t, Reg: registry.New()}
}

func (b *Builder) apply(cmd domain.Command) *Builder {
	b.t.Helper()
	if _, err := b.Reg.ApplyCommand(cmd); err != nil {
		b.t.Fatalf("apply %s %s %q: %v", cmd.Type, cmd.Kind, cmd.Key, err)
	}
	return b
}

// Rule defines a rule.
func (b *Builder) Rule(d domain.Domain, ruleID, source string) *Builder {
	b.t.Helper()
	return b.apply(domain.Command{
		Type: domain.CommandCreate, Domain: d, Kind: domain.BodyRule, Key: ruleID,
		Rule: &domain.RuleDefinition{RuleID: ruleID, Domain: d, Source: []byte(source)},
	})
}

// Bind binds ruleID at scope.
func (b *Builder) Bind(d domain.Domain, scope domain.ScopeKey, ruleID string) *Builder {
	b.t.Helper()
	return b.apply(domain.Command{
		Type: domain.CommandCreate, Domain: d, Kind: domain.BodyBinding, Key: scope.String(),
		Binding: &domain.ScopeBinding{Domain: d, Scope: scope, RuleID: ruleID},
	})
}

// Group defines a priority group. Entries get priorities in argument order.
func (b *Builder) Group(d domain.Domain, groupID string, ruleIDs ...string) *Builder {
	b.t.Helper()
	entries := make([]domain.PriorityEntry, len(ruleIDs))
	for i, id := range ruleIDs {
		entries[i] = domain.PriorityEntry{RuleID: id, Priority: int64(i + 1)}
	}
	return b.apply(domain.Command{
		Type: domain.CommandCreate, Domain: d, Kind: domain.BodyGroup, Key: groupID,
		Group: &domain.PriorityGroup{GroupID: groupID, Domain: d, Entries: entries},
	})
}

// ReferenceGroup binds groupID at scope.
func (b *Builder) ReferenceGroup(d domain.Domain, scope domain.ScopeKey, groupID string) *Builder {
	b.t.Helper()
	return b.apply(domain.Command{
		Type: domain.CommandCreate, Domain: d, Kind: domain.BodyGroupReference, Key: scope.String(),
		GroupReference: &domain.GroupReference{Domain: d, Scope: scope, GroupID: groupID},
	})
}

// Delete applies a tombstone for key in the kind's stream.
func (b *Builder) Delete(d domain.Domain, kind domain.BodyKind, key string) *Builder {
	b.t.Helper()
	return b.apply(domain.Command{Type: domain.CommandDelete, Domain: d, Kind: kind, Key: key})
}
