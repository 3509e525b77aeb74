package formula

import (
	"errors"
	"strings"
	"testing"
)

func TestPostfix(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "a b c * +"},
		{"(a + b) * c", "a b + c *"},
		{"a - b - c", "a b - c -"},
		{"a / b * c", "a b / c *"},
		{"2 ** 3 ** 2", "2 3 2 ** **"},
		{"-a ** 2", "a neg 2 **"},
		{"-(a ** 2)", "a 2 ** neg"},
		{"a ** -b", "a b neg **"},
		{"-a * b", "a neg b *"},
		{"--a", "a neg neg"},
		{"-e() ** -2", "e() neg 2 neg **"},
		{"pi()", "pi()"},
		{"sin(cos(-a))", "a neg cos() sin()"},
		{"min(a, b + 1)", "a b 1 + min()"},
		{"pow(-a, 2) // 3 % 2", "a neg 2 pow() 3 // 2 %"},
		{"max(min(a, b), (c))", "a b min() c max()"},
	}

	for _, tt := range tests {
		p, err := Compile(tt.src)
		if err != nil {
			t.Errorf("Compile(%q) failed: %v", tt.src, err)
			continue
		}
		if got := p.String(); got != tt.want {
			t.Errorf("Compile(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestCompileSyntaxErrors(t *testing.T) {
	tests := []struct {
		src     string
		message string
	}{
		{"", "empty"},
		{"   ", "empty"},
		{"a +", "end of formula"},
		{"* a", "left operand"},
		{"a * * b", "left operand"},
		{"(a", "Mismatched"},
		{"a)", "Mismatched"},
		{"((a)", "Mismatched"},
		{"a b", "Unexpected identifier"},
		{"2 3", "Unexpected number"},
		{"2 (3)", "Unexpected '('"},
		{"()", "Empty"},
		{"(a, b)", "Misplaced comma"},
		{"a, b", "Misplaced comma"},
		{"min(a)", "expects 2 argument(s), got 1"},
		{"sin(a, b)", "expects 1 argument(s), got 2"},
		{"pi(1)", "expects 0 argument(s), got 1"},
		{"sin()", "expects 1 argument(s), got 0"},
		{"min(a,)", "Missing argument"},
		{"min(,a)", "Missing argument"},
		{"sin(a +)", "Missing argument"},
		{"-", "end of formula"},
		{"pi", "Function 'pi' must be called with parentheses, e.g., pi()"},
		{"sqrt + 1", "Function 'sqrt' must be called with parentheses, e.g., sqrt()"},
	}

	for _, tt := range tests {
		_, err := Compile(tt.src)
		if err == nil {
			t.Errorf("Compile(%q) succeeded, want error", tt.src)
			continue
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Compile(%q) error %q is %s, want SyntaxError", tt.src, err, KindOf(err))
		}
		if !strings.Contains(err.Error(), tt.message) {
			t.Errorf("Compile(%q) error %q does not contain %q", tt.src, err, tt.message)
		}
	}
}

func TestCompileUnknownFunction(t *testing.T) {
	for _, src := range []string{"unknown_func(x)", "-unknown_func(x)", "foo()"} {
		_, err := Compile(src)
		if !errors.Is(err, ErrValue) {
			t.Errorf("Compile(%q) error = %v, want ValueError", src, err)
			continue
		}
		if !strings.Contains(err.Error(), "Unknown function") {
			t.Errorf("Compile(%q) error = %q", src, err)
		}
	}
}

func TestProgramVariables(t *testing.T) {
	p, err := Compile("a * e + b * e() + a")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	got := strings.Join(p.Variables(), ",")
	if got != "a,e,b" {
		t.Errorf("Variables() = %q, want %q", got, "a,e,b")
	}

	p, err = Compile("pi() * 2")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(p.Variables()) != 0 {
		t.Errorf("Variables() = %v, want none", p.Variables())
	}
}

func TestProgramDepth(t *testing.T) {
	p, err := Compile("a + (b + (c + (d + e)))")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if p.depth != 5 {
		t.Errorf("depth = %d, want 5", p.depth)
	}
	if p.Source() != "a + (b + (c + (d + e)))" {
		t.Errorf("Source() = %q", p.Source())
	}
}
