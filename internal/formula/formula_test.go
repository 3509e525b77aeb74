package formula

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		formula  string
		includes []string
	}{
		{"a + b", []string{"a", "+", "b"}},
		{"sqrt(a)", []string{"sqrt", "(", "a", ")"}},
		{"2*pi()", []string{"2", "*", "pi", "(", ")"}},
		{"a ** -b // 3", []string{"a", "**", "-", "b", "//", "3"}},
		{"max(a, 1.5)", []string{"max", "(", "a", ",", "1.5", ")"}},
	}

	for _, tt := range tests {
		got, err := Tokenize(tt.formula)
		if err != nil {
			t.Errorf("Tokenize(%q) failed: %v", tt.formula, err)
			continue
		}
		if strings.Join(got, " ") != strings.Join(tt.includes, " ") {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.formula, got, tt.includes)
		}
	}

	if _, err := Tokenize("a # b"); KindOf(err) != KindSyntax {
		t.Errorf("Tokenize with invalid character error = %v", err)
	}
}

func TestWhitespaceInvariance(t *testing.T) {
	formulas := []string{
		"a+b*c",
		"-a**2",
		"2*pi()",
		"max(a,-b)//c%2",
		"e+e()",
		"-(a/b)+sqrt(c)",
	}
	vars := Bindings{"a": 3, "b": 2, "c": 9, "e": 1.5}

	for _, src := range formulas {
		want, err := Evaluate(src, vars)
		if err != nil {
			t.Fatalf("Evaluate(%q) failed: %v", src, err)
		}

		tokens, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize(%q) failed: %v", src, err)
		}
		for _, sep := range []string{" ", "\t", "  \n "} {
			spaced := sep + strings.Join(tokens, sep) + sep
			got, err := Evaluate(spaced, vars)
			if err != nil {
				t.Errorf("Evaluate(%q) failed: %v", spaced, err)
				continue
			}
			if got != want {
				t.Errorf("Evaluate(%q) = %v, want %v", spaced, got, want)
			}
		}
	}
}

func TestNumberLiteralRoundTrip(t *testing.T) {
	for _, lit := range []string{"0", "1", "42", "3.14159", ".5", "7.", "000123.4500", "1234567890.125"} {
		want, _ := strconv.ParseFloat(lit, 64)
		got, err := Evaluate(lit, nil)
		if err != nil {
			t.Errorf("Evaluate(%q) failed: %v", lit, err)
			continue
		}
		if got != want {
			t.Errorf("Evaluate(%q) = %v, want %v", lit, got, want)
		}
	}
}

func TestVariableSubstitution(t *testing.T) {
	for _, name := range []string{"a", "x", "e", "value_1", "_tmp", "Z9"} {
		for _, v := range []float64{0, -1.25, 42, 1e-9, 6.02e23} {
			got, err := Evaluate(name, Bindings{name: v})
			if err != nil {
				t.Errorf("Evaluate(%q) failed: %v", name, err)
				continue
			}
			if got != v {
				t.Errorf("Evaluate(%q) with %v = %v", name, v, got)
			}
		}
	}
}

func TestUnusedBindingsIgnored(t *testing.T) {
	got, err := Evaluate("a * 2", Bindings{"a": 4, "b": 100, "pi": 3})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got != 8 {
		t.Errorf("got %v, want 8", got)
	}
}

func TestConstantsAreExact(t *testing.T) {
	pi, err := Evaluate("pi()", nil)
	if err != nil || pi != math.Pi {
		t.Errorf("pi() = %v, %v", pi, err)
	}
	e, err := Evaluate("e()", Bindings{"e": 10})
	if err != nil || e != math.E {
		t.Errorf("e() = %v, %v", e, err)
	}
}

func TestProgramPostfixAndString(t *testing.T) {
	p, err := Compile("-pi() ** 2 + 0.5")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	want := []string{"pi()", "neg", "2", "**", "0.5", "+"}
	got := p.Postfix()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Postfix() = %v, want %v", got, want)
	}
	if p.String() != "pi() neg 2 ** 0.5 +" {
		t.Errorf("String() = %q", p.String())
	}

	v, err := p.Eval(nil)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if !approxEqual(v, math.Pi*math.Pi+0.5) {
		t.Errorf("Eval = %v", v)
	}
}
