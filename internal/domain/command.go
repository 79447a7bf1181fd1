package domain

import (
	"strings"

	dErrors "fraudgate/pkg/domain-errors"
)

// CommandType is the mutation a command performs.
type CommandType string

const (
	CommandCreate CommandType = "CREATE"
	CommandDelete CommandType = "DELETE"
)

// BodyKind tags which entity family a command addresses. Each family has its
// own stream per domain.
type BodyKind string

const (
	BodyRule           BodyKind = "rule"
	BodyBinding        BodyKind = "binding"
	BodyGroup          BodyKind = "group"
	BodyGroupReference BodyKind = "group_reference"
)

// BodyKinds lists every family in stream order.
var BodyKinds = []BodyKind{BodyRule, BodyBinding, BodyGroup, BodyGroupReference}

// Command is one decoded log record. Key is the natural key of the addressed
// entity: rule id, scope key string, or group id. A DELETE may omit the body.
// Exactly one body pointer is set on CREATE, matching Kind.
type Command struct {
	Type   CommandType
	Domain Domain
	Kind   BodyKind
	Key    string

	Rule           *RuleDefinition
	Binding        *ScopeBinding
	Group          *PriorityGroup
	GroupReference *GroupReference
}

// NaturalKey returns the key the body implies, or "" when the body is absent.
func (c Command) NaturalKey() string {
	switch c.Kind {
	case BodyRule:
		if c.Rule != nil {
			return c.Rule.RuleID
		}
	case BodyBinding:
		if c.Binding != nil {
			return c.Binding.Scope.String()
		}
	case BodyGroup:
		if c.Group != nil {
			return c.Group.GroupID
		}
	case BodyGroupReference:
		if c.GroupReference != nil {
			return c.GroupReference.Scope.String()
		}
	}
	return ""
}

func (c Command) hasBody() bool {
	return c.Rule != nil || c.Binding != nil || c.Group != nil || c.GroupReference != nil
}

// ScopeFromKey parses Key as a scope key. Only meaningful for binding and
// group reference commands.
func (c Command) ScopeFromKey() (ScopeKey, error) {
	return ParseScopeKey(c.Key)
}

// Validate checks the structural consistency of a command. Violations are
// malformed commands and must be dropped by the consumer.
func (c Command) Validate() error {
	if err := c.validate(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeMalformedCommand, "malformed command")
	}
	return nil
}

func (c Command) validate() error {
	if c.Type != CommandCreate && c.Type != CommandDelete {
		return dErrors.Newf(dErrors.CodeValidation, "unknown command type %q", c.Type)
	}
	if !c.Domain.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown domain %q", c.Domain)
	}
	if strings.TrimSpace(c.Key) == "" {
		return dErrors.New(dErrors.CodeValidation, "command key is required")
	}
	switch c.Kind {
	case BodyRule, BodyBinding, BodyGroup, BodyGroupReference:
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown body kind %q", c.Kind)
	}

	if c.Kind == BodyBinding || c.Kind == BodyGroupReference {
		scope, err := c.ScopeFromKey()
		if err != nil {
			return err
		}
		if err := scope.validateFor(c.Domain); err != nil {
			return err
		}
		if c.Kind == BodyGroupReference && scope.Kind == ScopeGlobal {
			return dErrors.New(dErrors.CodeValidation, "group references cannot be global")
		}
	}

	if !c.hasBody() {
		if c.Type == CommandCreate {
			return dErrors.New(dErrors.CodeValidation, "create command requires a body")
		}
		return nil
	}
	if err := c.validateBody(); err != nil {
		return err
	}
	if nk := c.NaturalKey(); nk != c.Key {
		return dErrors.Newf(dErrors.CodeValidation, "record key %q does not match body key %q", c.Key, nk)
	}
	return nil
}

func (c Command) validateBody() error {
	set := 0
	for _, present := range []bool{c.Rule != nil, c.Binding != nil, c.Group != nil, c.GroupReference != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return dErrors.New(dErrors.CodeValidation, "command must carry exactly one body")
	}

	switch c.Kind {
	case BodyRule:
		if c.Rule == nil {
			return dErrors.New(dErrors.CodeValidation, "rule stream carries a non-rule body")
		}
		if c.Rule.RuleID == "" {
			return dErrors.New(dErrors.CodeValidation, "rule id is required")
		}
		if c.Rule.Domain != c.Domain {
			return dErrors.New(dErrors.CodeValidation, "rule domain does not match stream domain")
		}
		if c.Type == CommandCreate && len(c.Rule.Source) == 0 {
			return dErrors.New(dErrors.CodeValidation, "rule source is required")
		}
	case BodyBinding:
		if c.Binding == nil {
			return dErrors.New(dErrors.CodeValidation, "binding stream carries a non-binding body")
		}
		if err := c.Binding.Scope.Validate(); err != nil {
			return err
		}
		if c.Binding.Domain != c.Domain {
			return dErrors.New(dErrors.CodeValidation, "binding domain does not match stream domain")
		}
		if c.Type == CommandCreate && c.Binding.RuleID == "" {
			return dErrors.New(dErrors.CodeValidation, "binding rule id is required")
		}
	case BodyGroup:
		if c.Group == nil {
			return dErrors.New(dErrors.CodeValidation, "group stream carries a non-group body")
		}
		if c.Group.GroupID == "" {
			return dErrors.New(dErrors.CodeValidation, "group id is required")
		}
		if c.Group.Domain != c.Domain {
			return dErrors.New(dErrors.CodeValidation, "group domain does not match stream domain")
		}
		if c.Type == CommandCreate {
			if len(c.Group.Entries) == 0 {
				return dErrors.New(dErrors.CodeValidation, "group requires at least one rule")
			}
			for _, e := range c.Group.Entries {
				if e.RuleID == "" {
					return dErrors.New(dErrors.CodeValidation, "group entry rule id is required")
				}
			}
		}
	case BodyGroupReference:
		if c.GroupReference == nil {
			return dErrors.New(dErrors.CodeValidation, "group reference stream carries a non-reference body")
		}
		if err := c.GroupReference.Scope.Validate(); err != nil {
			return err
		}
		if c.GroupReference.Domain != c.Domain {
			return dErrors.New(dErrors.CodeValidation, "group reference domain does not match stream domain")
		}
		if c.Type == CommandCreate && c.GroupReference.GroupID == "" {
			return dErrors.New(dErrors.CodeValidation, "group reference group id is required")
		}
	}
	return nil
}
