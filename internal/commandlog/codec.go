package commandlog

import (
	"encoding/json"
	"fmt"

	"fraudgate/internal/domain"
	dErrors "fraudgate/pkg/domain-errors"
)

// Wire format of a command record value. The record key is the natural key
// of the body. A nil value is a tombstone and deletes the keyed entity.
type envelope struct {
	CommandType string   `json:"command_type"`
	Body        wireBody `json:"body"`
}

type wireBody struct {
	Rule           *wireRule           `json:"rule,omitempty"`
	Binding        *wireBinding        `json:"binding,omitempty"`
	Group          *wireGroup          `json:"group,omitempty"`
	GroupReference *wireGroupReference `json:"group_reference,omitempty"`
}

type wireRule struct {
	RuleID string `json:"rule_id"`
	Source string `json:"source"`
}

type wireScope struct {
	IsGlobal   bool   `json:"is_global,omitempty"`
	PartyID    string `json:"party_id,omitempty"`
	ShopID     string `json:"shop_id,omitempty"`
	IdentityID string `json:"identity_id,omitempty"`
}

type wireBinding struct {
	wireScope
	RuleID string `json:"rule_id"`
}

type wireGroup struct {
	GroupID    string          `json:"group_id"`
	Priorities []wirePriority `json:"priorities"`
}

type wirePriority struct {
	RuleID   string `json:"rule_id"`
	Priority int64  `json:"priority"`
}

type wireGroupReference struct {
	wireScope
	GroupID string `json:"group_id"`
}

func (w wireScope) toDomain() (domain.ScopeKey, error) {
	var key domain.ScopeKey
	switch {
	case w.IsGlobal:
		key = domain.GlobalScope()
	case w.IdentityID != "":
		key = domain.IdentityScope(w.IdentityID)
	case w.PartyID != "" && w.ShopID != "":
		key = domain.ShopScope(w.PartyID, w.ShopID)
	case w.PartyID != "":
		key = domain.PartyScope(w.PartyID)
	default:
		return domain.ScopeKey{}, dErrors.New(dErrors.CodeValidation, "scope has no identifiers")
	}
	if w.IsGlobal && (w.PartyID != "" || w.ShopID != "" || w.IdentityID != "") {
		return domain.ScopeKey{}, dErrors.New(dErrors.CodeValidation, "global scope takes no identifiers")
	}
	if w.IdentityID != "" && (w.PartyID != "" || w.ShopID != "") {
		return domain.ScopeKey{}, dErrors.New(dErrors.CodeValidation, "identity scope cannot carry party or shop")
	}
	if w.ShopID != "" && w.PartyID == "" {
		return domain.ScopeKey{}, dErrors.New(dErrors.CodeValidation, "shop scope requires party_id")
	}
	return key, nil
}

func scopeToWire(k domain.ScopeKey) wireScope {
	return wireScope{
		IsGlobal:   k.Kind == domain.ScopeGlobal,
		PartyID:    k.PartyID,
		ShopID:     k.ShopID,
		IdentityID: k.IdentityID,
	}
}

// Decode turns a record into a command for stream. Every failure is a
// CodeMalformedCommand error. The returned command has already passed
// domain validation.
func Decode(stream Stream, key, value []byte) (domain.Command, error) {
	cmd, err := decode(stream, key, value)
	if err != nil {
		return domain.Command{}, dErrors.Wrap(err, dErrors.CodeMalformedCommand, "malformed command")
	}
	if err := cmd.Validate(); err != nil {
		return domain.Command{}, err
	}
	return cmd, nil
}

func decode(stream Stream, key, value []byte) (domain.Command, error) {
	cmd := domain.Command{
		Domain: stream.Domain,
		Kind:   stream.Kind,
		Key:    string(key),
	}
	if value == nil {
		cmd.Type = domain.CommandDelete
		return cmd, nil
	}

	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return domain.Command{}, fmt.Errorf("decode envelope: %w", err)
	}
	switch domain.CommandType(env.CommandType) {
	case domain.CommandCreate, domain.CommandDelete:
		cmd.Type = domain.CommandType(env.CommandType)
	default:
		return domain.Command{}, fmt.Errorf("unknown command_type %q", env.CommandType)
	}

	b := env.Body
	if b.Rule != nil {
		cmd.Rule = &domain.RuleDefinition{RuleID: b.Rule.RuleID, Domain: stream.Domain, Source: []byte(b.Rule.Source)}
	}
	if b.Binding != nil {
		scope, err := b.Binding.toDomain()
		if err != nil {
			return domain.Command{}, err
		}
		cmd.Binding = &domain.ScopeBinding{Domain: stream.Domain, Scope: scope, RuleID: b.Binding.RuleID}
	}
	if b.Group != nil {
		entries := make([]domain.PriorityEntry, len(b.Group.Priorities))
		for i, p := range b.Group.Priorities {
			entries[i] = domain.PriorityEntry{RuleID: p.RuleID, Priority: p.Priority}
		}
		cmd.Group = &domain.PriorityGroup{GroupID: b.Group.GroupID, Domain: stream.Domain, Entries: entries}
	}
	if b.GroupReference != nil {
		scope, err := b.GroupReference.toDomain()
		if err != nil {
			return domain.Command{}, err
		}
		cmd.GroupReference = &domain.GroupReference{Domain: stream.Domain, Scope: scope, GroupID: b.GroupReference.GroupID}
	}
	return cmd, nil
}

// Encode renders cmd as a record key and value. A DELETE without a body is
// encoded as a tombstone.
func Encode(cmd domain.Command) (key, value []byte, err error) {
	key = []byte(cmd.Key)
	env := envelope{CommandType: string(cmd.Type)}
	switch {
	case cmd.Rule != nil:
		env.Body.Rule = &wireRule{RuleID: cmd.Rule.RuleID, Source: string(cmd.Rule.Source)}
	case cmd.Binding != nil:
		env.Body.Binding = &wireBinding{wireScope: scopeToWire(cmd.Binding.Scope), RuleID: cmd.Binding.RuleID}
	case cmd.Group != nil:
		ps := make([]wirePriority, len(cmd.Group.Entries))
		for i, e := range cmd.Group.Entries {
			ps[i] = wirePriority{RuleID: e.RuleID, Priority: e.Priority}
		}
		env.Body.Group = &wireGroup{GroupID: cmd.Group.GroupID, Priorities: ps}
	case cmd.GroupReference != nil:
		env.Body.GroupReference = &wireGroupReference{
			wireScope: scopeToWire(cmd.GroupReference.Scope),
			GroupID:   cmd.GroupReference.GroupID,
		}
	default:
		if cmd.Type != domain.CommandDelete {
			return nil, nil, dErrors.New(dErrors.CodeValidation, "create command requires a body")
		}
		return key, nil, nil
	}
	value, err = json.Marshal(env)
	if err != nil {
		return nil, nil, fmt.Errorf("encode command: %w", err)
	}
	return key, value, nil
}
