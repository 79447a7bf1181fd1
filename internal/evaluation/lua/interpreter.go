// Package lua is the rule interpreter. A rule is a Lua chunk that returns
// an outcome ("accept", "decline", "notify") and an optional branch name, or
// nil when it does not match:
//
//	local c = count("email", 10)
//	if c > 1 and one_of(country_by("country_bank"), "RUS") then
//	  return "decline", "repeat_email"
//	end
//
// List membership is available as in_blacklist(field, ...) and
// in_whitelist(field, ...). Only the base, string, math, and table libraries
// are loaded, minus the base functions that reach the filesystem, load code,
// or catch errors.
package lua

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Shopify/go-lua"

	"fraudgate/internal/evaluation"
	dErrors "fraudgate/pkg/domain-errors"
)

const ruleGlobal = "__rule"

// hookInterval is the number of VM instructions between deadline checks.
const hookInterval = 1000

// removedGlobals are stripped from every state. pcall and xpcall would let a
// script catch the deadline and feature errors raised from Go.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage", "print", "pcall", "xpcall"}

// Interpreter implements evaluation.Interpreter.
type Interpreter struct{}

func New() *Interpreter {
	return &Interpreter{}
}

// binding carries the per-run inputs the registered Go functions read.
type binding struct {
	ctx context.Context
	fc  evaluation.FeatureContext
	err error // typed error raised by a Go function
}

type vm struct {
	l *lua.State
	b *binding
}

// program is a compiled rule: a pool of states with the chunk preloaded.
// States are not shared between goroutines.
type program struct {
	source string
	pool   sync.Pool
}

// Compile parses source and keeps the prepared state for reuse.
func (i *Interpreter) Compile(source []byte) (evaluation.CompiledRule, error) {
	src := string(source)
	first, err := prepare(src)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInterpreter, "lua compile error")
	}
	p := &program{source: src}
	p.pool.New = func() any {
		v, err := prepare(src)
		if err != nil {
			// The same source compiled once already.
			return nil
		}
		return v
	}
	p.pool.Put(first)
	return p, nil
}

// Run evaluates the compiled rule against fc.
func (i *Interpreter) Run(ctx context.Context, rule evaluation.CompiledRule, fc evaluation.FeatureContext) (evaluation.Result, error) {
	p, ok := rule.(*program)
	if !ok {
		return evaluation.Result{}, dErrors.New(dErrors.CodeInterpreter, "compiled rule was not produced by the lua interpreter")
	}
	v, _ := p.pool.Get().(*vm)
	if v == nil {
		return evaluation.Result{}, dErrors.New(dErrors.CodeInterpreter, "lua state unavailable")
	}

	v.b.ctx, v.b.fc, v.b.err = ctx, fc, nil
	res, err := v.run()
	v.b.ctx, v.b.fc = nil, nil
	if err != nil {
		// A state that raised may hold partial globals; drop it.
		return evaluation.Result{}, err
	}
	p.pool.Put(v)
	return res, nil
}

func (v *vm) run() (evaluation.Result, error) {
	l := v.l
	l.SetTop(0)
	l.Global(ruleGlobal)
	callErr := l.ProtectedCall(0, 2, 0)
	defer l.SetTop(0)
	if v.b.err != nil {
		return evaluation.Result{}, v.b.err
	}
	if err := v.b.ctx.Err(); err != nil {
		return evaluation.Result{}, dErrors.Wrap(err, dErrors.CodeTimeout, "request deadline exceeded during rule run")
	}
	if callErr != nil {
		return evaluation.Result{}, dErrors.Wrap(callErr, dErrors.CodeInterpreter, "lua runtime error")
	}

	if l.IsNil(1) || (l.IsBoolean(1) && !l.ToBoolean(1)) {
		return evaluation.Result{}, nil
	}
	s, ok := l.ToString(1)
	if !ok {
		return evaluation.Result{}, dErrors.Newf(dErrors.CodeInterpreter, "rule returned %s, want outcome string", lua.TypeNameOf(l, 1))
	}
	outcome, err := evaluation.ParseOutcome(s)
	if err != nil {
		return evaluation.Result{}, err
	}
	branch, _ := l.ToString(2)
	return evaluation.Result{Matched: true, Outcome: outcome, Branch: branch}, nil
}

func prepare(source string) (*vm, error) {
	l := lua.NewState()
	for _, lib := range []struct {
		name string
		open lua.Function
	}{
		{"_G", lua.BaseOpen},
		{"string", lua.StringOpen},
		{"math", lua.MathOpen},
		{"table", lua.TableOpen},
	} {
		lua.Require(l, lib.name, lib.open, true)
		l.Pop(1)
	}
	for _, name := range removedGlobals {
		l.PushNil()
		l.SetGlobal(name)
	}

	b := &binding{}
	register(l, b)
	lua.SetDebugHook(l, func(l *lua.State, _ lua.Debug) {
		if b.ctx != nil && b.ctx.Err() != nil {
			raise(l, b, dErrors.Wrap(b.ctx.Err(), dErrors.CodeTimeout, "request deadline exceeded during rule run"))
		}
	}, lua.MaskCount, hookInterval)

	if err := lua.LoadBuffer(l, source, "=rule", ""); err != nil {
		return nil, err
	}
	l.SetGlobal(ruleGlobal)
	return &vm{l: l, b: b}, nil
}

// raise records a typed error and aborts the script. It does not return.
func raise(l *lua.State, b *binding, err error) {
	b.err = err
	lua.Errorf(l, "%s", err.Error())
}

func register(l *lua.State, b *binding) {
	l.Register("field", func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		v, err := b.fc.Field(name)
		if err != nil {
			raise(l, b, err)
		}
		l.PushString(v)
		return 1
	})

	l.Register("count", func(l *lua.State) int {
		field := lua.CheckString(l, 1)
		window := minutes(l, 2)
		n, err := b.fc.Count(b.ctx, field, window)
		if err != nil {
			raise(l, b, err)
		}
		l.PushInteger(int(n))
		return 1
	})

	l.Register("sum", func(l *lua.State) int {
		field := lua.CheckString(l, 1)
		window := minutes(l, 2)
		s, err := b.fc.Sum(b.ctx, field, window)
		if err != nil {
			raise(l, b, err)
		}
		l.PushNumber(s.InexactFloat64())
		return 1
	})

	l.Register("in_blacklist", listLookup(b, "in_blacklist", evaluation.FeatureContext.InBlackList))
	l.Register("in_whitelist", listLookup(b, "in_whitelist", evaluation.FeatureContext.InWhiteList))

	l.Register("country_by", func(l *lua.State) int {
		field := lua.CheckString(l, 1)
		c, err := b.fc.CountryBy(b.ctx, field)
		if err != nil {
			raise(l, b, err)
		}
		l.PushString(c)
		return 1
	})

	l.Register("one_of", func(l *lua.State) int {
		value := lua.CheckString(l, 1)
		for i := 2; i <= l.Top(); i++ {
			if strings.EqualFold(value, lua.CheckString(l, i)) {
				l.PushBoolean(true)
				return 1
			}
		}
		l.PushBoolean(false)
		return 1
	})
}

// listLookup builds a list membership function over the run's feature context.
func listLookup(b *binding, name string, lookup func(evaluation.FeatureContext, context.Context, ...string) (bool, error)) lua.Function {
	return func(l *lua.State) int {
		n := l.Top()
		if n == 0 {
			lua.Errorf(l, "%s requires at least one field", name)
		}
		names := make([]string, n)
		for i := range names {
			names[i] = lua.CheckString(l, i+1)
		}
		found, err := lookup(b.fc, b.ctx, names...)
		if err != nil {
			raise(l, b, err)
		}
		l.PushBoolean(found)
		return 1
	}
}

func minutes(l *lua.State, index int) time.Duration {
	m := lua.CheckInteger(l, index)
	if m <= 0 {
		lua.ArgumentError(l, index, fmt.Sprintf("window must be positive minutes, got %d", m))
	}
	return time.Duration(m) * time.Minute
}
