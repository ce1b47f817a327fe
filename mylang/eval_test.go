package mylang

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestEvaluatorArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"x = 3 + 5 * 2;", 13},
		{"x = 10 - 2 - 3;", 5},
		{"x = (3 + 5) * 2;", 16},
		{"x = 7 / 2;", 3},
		{"x = (0 - 7) / 2;", -3},
		{"x = 7 / (0 - 2);", -3},
		{"x = 2 * 3 - 8 / 4;", 4},
		{"x = 100 / 10 / 5;", 2},
		{"x = 9223372036854775807 + 1;", math.MinInt64},
		{"x = 0 - 9223372036854775807 - 1;", math.MinInt64},
	}
	for _, tt := range tests {
		program := mustParse(t, tt.src)
		evaluator := NewEvaluator(nil, nil)
		value, err := evaluator.Exec(program.Statements[0])
		if err != nil {
			t.Fatalf("Exec(%q) failed: %v", tt.src, err)
		}
		if value != tt.want {
			t.Errorf("Exec(%q) = %d, want %d", tt.src, value, tt.want)
		}
		if got := evaluator.Env().LookupVariable("x"); got != tt.want {
			t.Errorf("%q bound x = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestEvaluatorPrintsInOrder(t *testing.T) {
	var out bytes.Buffer
	evaluator := NewEvaluator(NewBindingEnv(), &out)
	program := mustParse(t, "a = 1; print a; a = a + 1; print a; print b;")
	if err := evaluator.Run(program); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "1\n2\n0\n" {
		t.Errorf("output = %q", out.String())
	}
	if !reflect.DeepEqual(evaluator.Printed(), []int64{1, 2, 0}) {
		t.Errorf("Printed = %v", evaluator.Printed())
	}
}

func TestEvaluatorDivisionByZero(t *testing.T) {
	var out bytes.Buffer
	evaluator := NewEvaluator(nil, &out)
	program := mustParse(t, "x = 4; print x; y = x / (x - 4); print y;")
	err := evaluator.Run(program)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || rtErr.Kind != DivisionByZero {
		t.Fatalf("error = %v, want DivisionByZero", err)
	}
	if !errors.Is(err, ErrDivisionByZero) {
		t.Error("error does not match ErrDivisionByZero")
	}
	if rtErr.Pos != 22 {
		t.Errorf("error at %d, want 22", rtErr.Pos)
	}
	if out.String() != "4\n" {
		t.Errorf("output = %q, want the print before the failure only", out.String())
	}
	if _, ok := evaluator.Env().Lookup("y"); ok {
		t.Error("y was bound by a failed assignment")
	}
}

func TestEvaluatorBothOperandsEvaluated(t *testing.T) {
	var unbound []string
	evaluator := NewEvaluator(nil, nil)
	evaluator.SetUnboundHandler(func(name string, pos int) {
		unbound = append(unbound, name)
	})
	program := mustParse(t, "x = 0 * a + (b - b) * c;")
	if err := evaluator.Run(program); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(unbound, []string{"a", "b", "c"}) {
		t.Errorf("unbound reads = %v", unbound)
	}
}

func TestEvaluatorUnboundReportedOnce(t *testing.T) {
	type read struct {
		name string
		pos  int
	}
	var reads []read
	evaluator := NewEvaluator(nil, nil)
	evaluator.SetUnboundHandler(func(name string, pos int) {
		reads = append(reads, read{name, pos})
	})
	program := mustParse(t, "print y; x = y + 1; y = 2; print y; print z;")
	if err := evaluator.Run(program); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []read{{"y", 6}, {"z", 42}}
	if !reflect.DeepEqual(reads, want) {
		t.Errorf("reads = %v, want %v", reads, want)
	}
	if evaluator.Env().LookupVariable("x") != 1 {
		t.Errorf("x = %d, want 1", evaluator.Env().LookupVariable("x"))
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEvaluatorWriteError(t *testing.T) {
	evaluator := NewEvaluator(nil, failingWriter{})
	err := evaluator.Run(mustParse(t, "print x;"))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v", err)
	}
	if ErrorKind(err) != "" {
		t.Errorf("ErrorKind = %q, want none", ErrorKind(err))
	}
}

func TestBindingEnv(t *testing.T) {
	env := NewBindingEnv()
	if env.LookupVariable("missing") != 0 {
		t.Error("unbound name is not 0")
	}
	env.AddBinding("b", 2)
	env.AddBinding("a", 1)
	env.AddBinding("b", 3)
	if value, ok := env.Lookup("b"); !ok || value != 3 {
		t.Errorf("b = %d, %v", value, ok)
	}
	if !reflect.DeepEqual(env.Names(), []string{"a", "b"}) || env.Len() != 2 {
		t.Errorf("Names = %v", env.Names())
	}
	var _ Env = env
}

func TestEvaluatorsAreIndependent(t *testing.T) {
	program := mustParse(t, "x = x + 1; print x;")
	for i := 0; i < 3; i++ {
		var out bytes.Buffer
		if err := NewEvaluator(nil, &out).Run(program); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if out.String() != "1\n" {
			t.Errorf("run %d printed %q", i, out.String())
		}
	}
}
