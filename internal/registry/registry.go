// Package registry materializes rule definitions, scope bindings, priority
// groups, and group references from the command log.
//
// State is held in immutable snapshots published through an atomic pointer.
// A single writer applies one command at a time by cloning only the table it
// touches and swapping the pointer, so readers never block and never observe
// a half-applied command.
package registry

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"fraudgate/internal/domain"
	"fraudgate/internal/registry/metrics"
	dErrors "fraudgate/pkg/domain-errors"
)

// ApplyResult describes the effect of one command.
type ApplyResult string

const (
	ResultCreated   ApplyResult = "created"
	ResultReplaced  ApplyResult = "replaced"
	ResultDeleted   ApplyResult = "deleted"
	ResultUnchanged ApplyResult = "unchanged"
	ResultNoop      ApplyResult = "noop"
)

type scopedKey struct {
	domain domain.Domain
	key    string
}

type state struct {
	rules     map[string]domain.RuleDefinition
	bindings  map[scopedKey]string // rule id
	groups    map[scopedKey]domain.PriorityGroup
	groupRefs map[scopedKey]string // group id
}

func emptyState() *state {
	return &state{
		rules:     make(map[string]domain.RuleDefinition),
		bindings:  make(map[scopedKey]string),
		groups:    make(map[scopedKey]domain.PriorityGroup),
		groupRefs: make(map[scopedKey]string),
	}
}

// shallow copies the table pointers; the caller clones the one it mutates.
func (s *state) shallow() *state {
	next := *s
	return &next
}

// Registry is safe for concurrent use by any number of readers and writers.
// Writers are serialized.
type Registry struct {
	writeMu sync.Mutex
	current atomic.Pointer[state]
	version uint64 // guarded by writeMu

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(emptyState())
	return r
}

// Snapshot returns a consistent read-only view of the current state.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{s: r.current.Load()}
}

// LookupRuleDefinition returns the current definition of ruleID.
func (r *Registry) LookupRuleDefinition(ruleID string) (domain.RuleDefinition, error) {
	return r.Snapshot().Rule(ruleID)
}

// ResolveBinding returns the rule bound at scope, if any.
func (r *Registry) ResolveBinding(d domain.Domain, scope domain.ScopeKey) (string, bool) {
	return r.Snapshot().Binding(d, scope)
}

// ResolveGroup returns the priority-ordered entries of the group referenced
// at scope, if any.
func (r *Registry) ResolveGroup(d domain.Domain, scope domain.ScopeKey) ([]domain.PriorityEntry, bool) {
	return r.Snapshot().ResolveGroup(d, scope)
}

// ApplyCommand validates cmd and applies it. Malformed commands return a
// CodeMalformedCommand error and leave state untouched. CREATE overwrites and
// DELETE of an absent key is a no-op, so replays are harmless.
func (r *Registry) ApplyCommand(cmd domain.Command) (ApplyResult, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	cur := r.current.Load()
	if err := checkRuleDomain(cur, cmd); err != nil {
		r.logger.Warn("registry command rejected",
			"domain", cmd.Domain,
			"kind", cmd.Kind,
			"key", cmd.Key,
			"error", err,
		)
		return "", err
	}
	next, result, delta := r.apply(cur, cmd)
	if next != nil {
		r.current.Store(next)
	}

	r.metrics.IncrementApplied(string(cmd.Kind), string(result))
	r.metrics.AddEntries(string(cmd.Domain), string(cmd.Kind), delta)
	r.logger.Debug("registry command applied",
		"domain", cmd.Domain,
		"kind", cmd.Kind,
		"type", cmd.Type,
		"key", cmd.Key,
		"result", result,
	)
	return result, nil
}

// checkRuleDomain rejects rule commands for an id owned by the other domain.
// Rule ids are shared across streams, so a peer-transfer command must never
// replace or delete a payment rule and vice versa.
func checkRuleDomain(cur *state, cmd domain.Command) error {
	if cmd.Kind != domain.BodyRule {
		return nil
	}
	existing, ok := cur.rules[cmd.Key]
	if !ok || existing.Domain == cmd.Domain {
		return nil
	}
	return dErrors.Newf(dErrors.CodeMalformedCommand, "rule %q belongs to domain %s, not %s", cmd.Key, existing.Domain, cmd.Domain)
}

// apply returns the next state (nil when unchanged), the result, and the
// change in entry count for the touched table.
func (r *Registry) apply(cur *state, cmd domain.Command) (*state, ApplyResult, int) {
	switch cmd.Kind {
	case domain.BodyRule:
		return r.applyRule(cur, cmd)
	case domain.BodyBinding:
		k := scopedKey{domain: cmd.Domain, key: cmd.Key}
		if cmd.Type == domain.CommandDelete {
			return deleteEntry(cur, cur.bindings, k, func(s *state, m map[scopedKey]string) { s.bindings = m })
		}
		return putEntry(cur, cur.bindings, k, cmd.Binding.RuleID, func(a, b string) bool { return a == b },
			func(s *state, m map[scopedKey]string) { s.bindings = m })
	case domain.BodyGroup:
		k := scopedKey{domain: cmd.Domain, key: cmd.Key}
		if cmd.Type == domain.CommandDelete {
			return deleteEntry(cur, cur.groups, k, func(s *state, m map[scopedKey]domain.PriorityGroup) { s.groups = m })
		}
		g := domain.NewPriorityGroup(cmd.Group.GroupID, cmd.Domain, cmd.Group.Entries)
		return putEntry(cur, cur.groups, k, g, sameGroup,
			func(s *state, m map[scopedKey]domain.PriorityGroup) { s.groups = m })
	case domain.BodyGroupReference:
		k := scopedKey{domain: cmd.Domain, key: cmd.Key}
		if cmd.Type == domain.CommandDelete {
			return deleteEntry(cur, cur.groupRefs, k, func(s *state, m map[scopedKey]string) { s.groupRefs = m })
		}
		return putEntry(cur, cur.groupRefs, k, cmd.GroupReference.GroupID, func(a, b string) bool { return a == b },
			func(s *state, m map[scopedKey]string) { s.groupRefs = m })
	}
	return nil, ResultNoop, 0
}

func (r *Registry) applyRule(cur *state, cmd domain.Command) (*state, ApplyResult, int) {
	if cmd.Type == domain.CommandDelete {
		return deleteEntry(cur, cur.rules, cmd.Key, func(s *state, m map[string]domain.RuleDefinition) { s.rules = m })
	}

	incoming := domain.RuleDefinition{
		RuleID: cmd.Rule.RuleID,
		Domain: cmd.Domain,
		Source: slices.Clone(cmd.Rule.Source),
	}
	existing, ok := cur.rules[cmd.Key]
	if ok && existing.SameContent(incoming) {
		return nil, ResultUnchanged, 0
	}
	r.version++
	incoming.Version = r.version
	r.metrics.SetVersion(r.version)

	next := cur.shallow()
	next.rules = maps.Clone(cur.rules)
	next.rules[cmd.Key] = incoming
	if ok {
		return next, ResultReplaced, 0
	}
	return next, ResultCreated, 1
}

func putEntry[K comparable, V any](cur *state, table map[K]V, k K, v V, equal func(a, b V) bool, set func(*state, map[K]V)) (*state, ApplyResult, int) {
	existing, ok := table[k]
	if ok && equal(existing, v) {
		return nil, ResultUnchanged, 0
	}
	next := cur.shallow()
	cloned := maps.Clone(table)
	cloned[k] = v
	set(next, cloned)
	if ok {
		return next, ResultReplaced, 0
	}
	return next, ResultCreated, 1
}

func deleteEntry[K comparable, V any](cur *state, table map[K]V, k K, set func(*state, map[K]V)) (*state, ApplyResult, int) {
	if _, ok := table[k]; !ok {
		return nil, ResultNoop, 0
	}
	next := cur.shallow()
	cloned := maps.Clone(table)
	delete(cloned, k)
	set(next, cloned)
	return next, ResultDeleted, -1
}

func sameGroup(a, b domain.PriorityGroup) bool {
	return a.GroupID == b.GroupID && a.Domain == b.Domain && slices.Equal(a.Entries, b.Entries)
}

// Snapshot is an immutable view of the registry at one point in time.
type Snapshot struct {
	s *state
}

// Rule returns the definition of ruleID or a CodeNotFound error.
func (v Snapshot) Rule(ruleID string) (domain.RuleDefinition, error) {
	rule, ok := v.s.rules[ruleID]
	if !ok {
		return domain.RuleDefinition{}, dErrors.Newf(dErrors.CodeNotFound, "rule %q not found", ruleID)
	}
	return rule, nil
}

// Binding returns the rule id bound at scope.
func (v Snapshot) Binding(d domain.Domain, scope domain.ScopeKey) (string, bool) {
	id, ok := v.s.bindings[scopedKey{domain: d, key: scope.String()}]
	return id, ok
}

// GroupReference returns the group id referenced at scope.
func (v Snapshot) GroupReference(d domain.Domain, scope domain.ScopeKey) (string, bool) {
	id, ok := v.s.groupRefs[scopedKey{domain: d, key: scope.String()}]
	return id, ok
}

// Group returns a group by id.
func (v Snapshot) Group(d domain.Domain, groupID string) (domain.PriorityGroup, bool) {
	g, ok := v.s.groups[scopedKey{domain: d, key: groupID}]
	if !ok {
		return domain.PriorityGroup{}, false
	}
	g.Entries = slices.Clone(g.Entries)
	return g, true
}

// ResolveGroup follows the group reference at scope and returns the group's
// entries in priority order. A reference to a missing group resolves to
// absent.
func (v Snapshot) ResolveGroup(d domain.Domain, scope domain.ScopeKey) ([]domain.PriorityEntry, bool) {
	groupID, ok := v.GroupReference(d, scope)
	if !ok {
		return nil, false
	}
	g, ok := v.Group(d, groupID)
	if !ok {
		return nil, false
	}
	return g.Entries, true
}

// Stats counts entries in the snapshot.
type Stats struct {
	Rules           int `json:"rules"`
	Bindings        int `json:"bindings"`
	Groups          int `json:"groups"`
	GroupReferences int `json:"group_references"`
}

func (v Snapshot) Stats() Stats {
	return Stats{
		Rules:           len(v.s.rules),
		Bindings:        len(v.s.bindings),
		Groups:          len(v.s.groups),
		GroupReferences: len(v.s.groupRefs),
	}
}
