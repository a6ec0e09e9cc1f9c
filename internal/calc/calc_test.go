package calc

import (
	"math"
	"testing"
)

func TestCompileEval(t *testing.T) {
	prog, err := Compile("a + b", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got, err := prog.Eval(3, 4)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got != 7 {
		t.Errorf("a + b with (3, 4): got %v, want 7", got)
	}
}

func TestEval_ArgumentOrder(t *testing.T) {
	prog, err := Compile("a - b", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got, err := prog.Eval(10, 4)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got != 6 {
		t.Errorf("a - b with (10, 4): got %v, want 6", got)
	}

	got, err = prog.Eval(4, 10)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got != -6 {
		t.Errorf("a - b with (4, 10): got %v, want -6", got)
	}
}

func TestEval_MathLibrary(t *testing.T) {
	tests := []struct {
		expr string
		arg  float64
		want float64
	}{
		{"math.sqrt(a)", 9, 3},
		{"math.abs(a)", -5, 5},
		{"math.max(a, 10)", 3, 10},
		{"a ^ 2", 4, 16},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prog, err := Compile(tt.expr, []string{"a"})
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			got, err := prog.Eval(tt.arg)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s with %v: got %v, want %v", tt.expr, tt.arg, got, tt.want)
			}
		})
	}
}

func TestEval_NaNPropagates(t *testing.T) {
	prog, err := Compile("a + 1", []string{"a"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	got, err := prog.Eval(math.NaN())
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("NaN input: got %v, want NaN", got)
	}
}

func TestEval_Repeated(t *testing.T) {
	// Many evaluations over one program must not disturb the Lua stack.
	prog, err := Compile("(a - b) / 2", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	for i := 0; i < 1000; i++ {
		got, err := prog.Eval(float64(i), float64(-i))
		if err != nil {
			t.Fatalf("Eval %d failed: %v", i, err)
		}
		if got != float64(i) {
			t.Fatalf("Eval %d: got %v, want %v", i, got, float64(i))
		}
	}
}

func TestEval_ArityMismatch(t *testing.T) {
	prog, err := Compile("a", []string{"a"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := prog.Eval(1, 2); err == nil {
		t.Error("extra argument did not fail")
	}
	if _, err := prog.Eval(); err == nil {
		t.Error("missing argument did not fail")
	}
}

func TestEval_RuntimeError(t *testing.T) {
	// Unknown names are nil globals, so arithmetic on them faults at
	// evaluation time, not compile time.
	prog, err := Compile("elevation + a", []string{"a"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := prog.Eval(1); err == nil {
		t.Error("arithmetic on nil did not fail")
	}
}

func TestEval_NonNumberResult(t *testing.T) {
	prog, err := Compile("a > 0", []string{"a"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := prog.Eval(1); err == nil {
		t.Error("boolean result did not fail")
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	if _, err := Compile("a +", []string{"a"}); err == nil {
		t.Error("malformed expression did not fail")
	}
}

func TestCompile_EmptyExpression(t *testing.T) {
	if _, err := Compile("   ", []string{"a"}); err == nil {
		t.Error("blank expression did not fail")
	}
}

func TestCompile_BadVariables(t *testing.T) {
	tests := []struct {
		name string
		vars []string
	}{
		{"leading digit", []string{"2fast"}},
		{"reserved word", []string{"and"}},
		{"dunder prefix", []string{"__cell"}},
		{"punctuation", []string{"a-b"}},
		{"empty", []string{""}},
		{"duplicate", []string{"a", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile("1", tt.vars); err == nil {
				t.Error("invalid variables did not fail")
			}
		})
	}
}

func TestVarNames(t *testing.T) {
	names := VarNames(3)
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("VarNames(3): got %v, want [a b c]", names)
	}
	if len(VarNames(0)) != 0 {
		t.Error("VarNames(0) not empty")
	}

	defer func() {
		if recover() == nil {
			t.Error("VarNames(27) did not panic")
		}
	}()
	VarNames(27)
}
