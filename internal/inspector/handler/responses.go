package handler

import (
	"fraudgate/internal/domain"
	"fraudgate/internal/inspector"
	"fraudgate/internal/resolver"
)

// InspectResponse is the HTTP response for POST /v1/inspect.
type InspectResponse struct {
	RiskScore string `json:"risk_score"`
	RuleID    string `json:"rule_id,omitempty"`
	Version   uint64 `json:"version,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Scope     string `json:"scope,omitempty"`
	Escalated bool   `json:"escalated"`
}

func FromResult(res *inspector.Result) *InspectResponse {
	return &InspectResponse{
		RiskScore: string(res.Score),
		RuleID:    res.RuleID,
		Version:   res.Version,
		Outcome:   string(res.Outcome),
		Branch:    res.Branch,
		Scope:     res.Scope,
		Escalated: res.Escalated,
	}
}

// RuleResponse is the HTTP response for GET /v1/rules/{ruleID}.
type RuleResponse struct {
	RuleID  string `json:"rule_id"`
	Domain  string `json:"domain"`
	Version uint64 `json:"version"`
	Source  string `json:"source"`
}

func FromRule(r domain.RuleDefinition) *RuleResponse {
	return &RuleResponse{
		RuleID:  r.RuleID,
		Domain:  string(r.Domain),
		Version: r.Version,
		Source:  string(r.Source),
	}
}

// ResolveResponse is the HTTP response for GET /v1/resolve.
type ResolveResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Dangling   []string            `json:"dangling,omitempty"`
}

type CandidateResponse struct {
	RuleID   string `json:"rule_id"`
	Version  uint64 `json:"version"`
	Scope    string `json:"scope"`
	GroupID  string `json:"group_id,omitempty"`
	Priority int64  `json:"priority,omitempty"`
}

func FromResolution(res resolver.Resolution) *ResolveResponse {
	out := &ResolveResponse{
		Candidates: make([]CandidateResponse, 0, len(res.Candidates)),
		Dangling:   res.Dangling,
	}
	for _, c := range res.Candidates {
		out.Candidates = append(out.Candidates, CandidateResponse{
			RuleID:   c.Rule.RuleID,
			Version:  c.Rule.Version,
			Scope:    c.Scope.String(),
			GroupID:  c.GroupID,
			Priority: c.Priority,
		})
	}
	return out
}
