package validator

import (
	"testing"

	"github.com/linkflow-ai/mathnodes/internal/formula"
)

type evalRequest struct {
	Formula  string `json:"formula" validate:"required,formula"`
	Variable string `json:"variable" validate:"omitempty,varname"`
}

func TestValidateFormulaTags(t *testing.T) {
	tests := []struct {
		name    string
		req     evalRequest
		wantErr bool
		fields  []string
	}{
		{"valid", evalRequest{Formula: "a + b * pi()", Variable: "a"}, false, nil},
		{"missing formula", evalRequest{}, true, []string{"formula"}},
		{"broken formula", evalRequest{Formula: "(1 + 2"}, true, []string{"formula"}},
		{"bad variable", evalRequest{Formula: "1", Variable: "2x"}, true, []string{"variable"}},
		{"both bad", evalRequest{Formula: "1 +", Variable: "a-b"}, true, []string{"formula", "variable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			details := FormatErrors(err)
			if len(details) != len(tt.fields) {
				t.Fatalf("FormatErrors() = %v, want fields %v", details, tt.fields)
			}
			for i, d := range details {
				if d.Field != tt.fields[i] {
					t.Errorf("details[%d].Field = %q, want %q", i, d.Field, tt.fields[i])
				}
				if d.Message == "" {
					t.Errorf("details[%d].Message is empty", i)
				}
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	if err := ValidateVar("rate_2", "varname"); err != nil {
		t.Errorf("ValidateVar(rate_2) = %v", err)
	}
	if err := ValidateVar("", "varname"); err == nil {
		t.Error("ValidateVar(\"\") should fail")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Formula":      "formula",
		"EvaluationID": "evaluation_i_d",
		"PerPage":      "per_page",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{Sanitize, "  circle   area \x00", "circle area"},
		{StripHTML, "<b>bold</b>", "bold"},
		{SanitizeText, " Area of a <i>circle</i>\n\n of radius r ", "Area of a circle of radius r"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if SanitizeOptional(nil) != nil {
		t.Error("SanitizeOptional(nil) should be nil")
	}
	blank := "   "
	if SanitizeOptional(&blank) != nil {
		t.Error("SanitizeOptional(blank) should be nil")
	}
	desc := " <p>hi</p> "
	if got := SanitizeOptional(&desc); got == nil || *got != "hi" {
		t.Errorf("SanitizeOptional() = %v, want hi", got)
	}
}

func TestFormulaMessageUsesCompileError(t *testing.T) {
	err := Validate(&evalRequest{Formula: "(1 + 2"})
	details := FormatErrors(err)
	if len(details) != 1 {
		t.Fatalf("FormatErrors() = %v", details)
	}

	_, compileErr := formula.Compile("(1 + 2")
	if compileErr == nil {
		t.Fatal("Compile() should fail")
	}
	if details[0].Message != compileErr.Error() {
		t.Errorf("Message = %q, want %q", details[0].Message, compileErr.Error())
	}
}
