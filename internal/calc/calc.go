package calc

import (
	"fmt"
	"strings"

	lua "github.com/Shopify/go-lua"
)

// cellFunc is the Lua global the compiled expression is installed under.
// Variable names starting with "__" are rejected so scripts cannot collide
// with it.
const cellFunc = "__cell"

// Program is a compiled cell expression. A Program keeps its own Lua state
// and is not safe for concurrent use.
type Program struct {
	state *lua.State
	vars  []string
}

// Compile turns expr into a function of the named cell variables. The
// expression must be a single Lua expression over those variables; the
// standard libraries are open, so math.sqrt and friends work.
func Compile(expr string, vars []string) (*Program, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("calc: empty expression")
	}
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if !validIdent(v) {
			return nil, fmt.Errorf("calc: invalid variable name %q", v)
		}
		if seen[v] {
			return nil, fmt.Errorf("calc: duplicate variable name %q", v)
		}
		seen[v] = true
	}

	state := lua.NewState()
	lua.OpenLibraries(state)

	src := fmt.Sprintf("function %s(%s)\n\treturn (%s)\nend", cellFunc, strings.Join(vars, ", "), expr)
	if err := lua.LoadString(state, src); err != nil {
		return nil, fmt.Errorf("calc: compile %q: %w", expr, err)
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("calc: install %q: %w", expr, err)
	}
	return &Program{state: state, vars: vars}, nil
}

// Vars returns the variable names the program was compiled with, in argument
// order.
func (p *Program) Vars() []string { return p.vars }

// Eval computes the expression for one cell. Arguments bind to the compiled
// variables in order.
func (p *Program) Eval(args ...float64) (float64, error) {
	if len(args) != len(p.vars) {
		return 0, fmt.Errorf("calc: %d arguments for %d variables", len(args), len(p.vars))
	}

	p.state.Global(cellFunc)
	for _, a := range args {
		p.state.PushNumber(a)
	}
	if err := p.state.ProtectedCall(len(args), 1, 0); err != nil {
		p.state.SetTop(0)
		return 0, fmt.Errorf("calc: eval: %w", err)
	}
	v, ok := p.state.ToNumber(-1)
	p.state.Pop(1)
	if !ok {
		return 0, fmt.Errorf("calc: expression did not produce a number")
	}
	return v, nil
}

// VarNames returns the first n conventional cell variable names, a through
// z. It panics beyond 26 names; callers validate their input counts.
func VarNames(n int) []string {
	if n < 0 || n > 26 {
		panic(fmt.Errorf("calc: %d variables not representable as a..z", n))
	}
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	return names
}

var reserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

func validIdent(s string) bool {
	if s == "" || reserved[s] || strings.HasPrefix(s, "__") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
