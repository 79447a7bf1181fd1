// Package resolver selects the rules that apply to a request.
//
// Scopes are walked from most to least specific. Payments check SHOP, then
// PARTY, then GLOBAL; peer transfers check IDENTITY, then GLOBAL. At each
// level a group reference wins over a single-rule binding. The first level
// that yields at least one live rule is the answer. Bindings or group entries
// that point at a missing rule are skipped, so a dangling reference falls
// through to the next level instead of hiding it.
package resolver

import (
	"fraudgate/internal/domain"
	"fraudgate/internal/registry"
)

// Request carries the identifiers that select scopes.
type Request struct {
	Domain     domain.Domain
	PartyID    string
	ShopID     string
	IdentityID string
}

// Candidate is one rule to evaluate.
type Candidate struct {
	Rule     domain.RuleDefinition
	Scope    domain.ScopeKey
	GroupID  string // empty for single-rule bindings
	Priority int64
}

// Resolution is the ordered candidate list, most specific first. An empty
// list means nothing is bound for the request.
type Resolution struct {
	Candidates []Candidate
	// Dangling lists rule ids that were referenced but not defined.
	Dangling []string
}

// Empty reports whether no rule applies.
func (r Resolution) Empty() bool {
	return len(r.Candidates) == 0
}

// Source provides consistent registry snapshots.
type Source interface {
	Snapshot() registry.Snapshot
}

// Resolver is stateless apart from its registry source.
type Resolver struct {
	source Source
}

func New(source Source) *Resolver {
	return &Resolver{source: source}
}

// Scopes returns the scope keys consulted for req, most specific first.
// A shop without a party is ignored.
func Scopes(req Request) []domain.ScopeKey {
	var scopes []domain.ScopeKey
	switch req.Domain {
	case domain.DomainPayment:
		if req.PartyID != "" {
			if req.ShopID != "" {
				scopes = append(scopes, domain.ShopScope(req.PartyID, req.ShopID))
			}
			scopes = append(scopes, domain.PartyScope(req.PartyID))
		}
	case domain.DomainPeerTransfer:
		if req.IdentityID != "" {
			scopes = append(scopes, domain.IdentityScope(req.IdentityID))
		}
	}
	return append(scopes, domain.GlobalScope())
}

// Resolve reads one snapshot and returns the candidates for req.
func (r *Resolver) Resolve(req Request) Resolution {
	snap := r.source.Snapshot()
	var res Resolution

	for _, scope := range Scopes(req) {
		if scope.Kind != domain.ScopeGlobal {
			if groupID, ok := snap.GroupReference(req.Domain, scope); ok {
				if group, ok := snap.Group(req.Domain, groupID); ok {
					for _, e := range group.Entries {
						rule, ok := liveRule(snap, req.Domain, e.RuleID)
						if !ok {
							res.Dangling = append(res.Dangling, e.RuleID)
							continue
						}
						res.Candidates = append(res.Candidates, Candidate{
							Rule:     rule,
							Scope:    scope,
							GroupID:  groupID,
							Priority: e.Priority,
						})
					}
					if len(res.Candidates) > 0 {
						return res
					}
				}
			}
		}

		if ruleID, ok := snap.Binding(req.Domain, scope); ok {
			rule, ok := liveRule(snap, req.Domain, ruleID)
			if !ok {
				res.Dangling = append(res.Dangling, ruleID)
				continue
			}
			res.Candidates = append(res.Candidates, Candidate{Rule: rule, Scope: scope})
			return res
		}
	}
	return res
}

func liveRule(snap registry.Snapshot, d domain.Domain, ruleID string) (domain.RuleDefinition, bool) {
	rule, err := snap.Rule(ruleID)
	if err != nil || rule.Domain != d {
		return domain.RuleDefinition{}, false
	}
	return rule, true
}
