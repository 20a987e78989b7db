package scripting

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// Entity is a plain snapshot of a character exposed to amount scripts as a
// Lua table: every stat under its name, plus "health" and "max_health".
type Entity struct {
	Stats     map[string]int
	Health    int
	MaxHealth int
}

// AmountEvaluator evaluates catalog amount expressions in a fresh sandboxed
// VM per call. Expressions see two globals, `caster` and `target`, and must
// evaluate to a number, e.g. "math.floor(caster.mental / 2) + 3".
//
// A fresh LState per evaluation keeps evaluations isolated: a script cannot
// leave state behind for the next request. AmountEvaluator is safe for
// concurrent use.
type AmountEvaluator struct {
	// InstructionLimit caps Lua opcodes per evaluation; 0 uses the default.
	InstructionLimit int
}

// Eval runs expr and returns its integer result (fractions truncate toward
// zero). Negative results are returned as-is; the caller decides whether a
// negative amount is meaningful.
//
// Precondition: expr must be a non-empty Lua expression.
// Postcondition: Returns the evaluated amount or a non-nil error; the VM is
// always closed before return.
func (e *AmountEvaluator) Eval(expr string, caster, target Entity) (int, error) {
	if expr == "" {
		return 0, fmt.Errorf("scripting: empty amount expression")
	}

	L := newSandboxedState(e.InstructionLimit)
	defer L.Close()

	L.SetGlobal("caster", entityTable(L, caster))
	L.SetGlobal("target", entityTable(L, target))

	if err := L.DoString("return " + expr); err != nil {
		return 0, fmt.Errorf("scripting: evaluating amount %q: %w", expr, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	num, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("scripting: amount %q returned %s, want number", expr, ret.Type())
	}
	return int(math.Trunc(float64(num))), nil
}

func entityTable(L *lua.LState, ent Entity) *lua.LTable {
	tbl := L.NewTable()
	for name, value := range ent.Stats {
		L.SetField(tbl, name, lua.LNumber(value))
	}
	L.SetField(tbl, "health", lua.LNumber(ent.Health))
	L.SetField(tbl, "max_health", lua.LNumber(ent.MaxHealth))
	return tbl
}
