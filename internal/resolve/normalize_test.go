package resolve

import (
	"encoding/json"
	"testing"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

func TestNormalize(t *testing.T) {
	checkbox := &catalog.Argument{ID: "c", Type: catalog.ArgTypeCheckbox, Flag: "-c"}
	checkboxOn := &catalog.Argument{ID: "c", Type: catalog.ArgTypeCheckbox, Flag: "-c", Default: true}
	text := &catalog.Argument{ID: "t", Type: catalog.ArgTypeText, Flag: "-t"}
	textDefault := &catalog.Argument{ID: "t", Type: catalog.ArgTypeText, Flag: "-t", Default: "x"}
	textRequired := &catalog.Argument{ID: "t", Type: catalog.ArgTypeText, Flag: "-t", Default: "x", Required: true}
	number := &catalog.Argument{ID: "n", Type: catalog.ArgTypeNumber, Flag: "-n", Min: ptr(0), Max: ptr(10)}
	sel := &catalog.Argument{ID: "s", Type: catalog.ArgTypeSelect, Flag: "-s", Options: []catalog.Option{{Value: ""}, {Value: "a"}, {Value: "b"}}}

	tests := []struct {
		name        string
		arg         *catalog.Argument
		raw         any
		wantPresent bool
		wantString  string
		wantCode    Code
	}{
		{"checkbox absent", checkbox, nil, false, "false", ""},
		{"checkbox true", checkbox, true, true, "true", ""},
		{"checkbox false", checkbox, false, false, "false", ""},
		{"checkbox string true", checkbox, "true", true, "true", ""},
		{"checkbox string false", checkbox, "false", false, "false", ""},
		{"checkbox string yes", checkbox, "yes", true, "true", ""},
		{"checkbox empty string", checkbox, "", false, "false", ""},
		{"checkbox number", checkbox, 1, true, "true", ""},
		{"checkbox default", checkboxOn, nil, true, "true", ""},
		{"checkbox explicit false over default", checkboxOn, false, false, "false", ""},

		{"text absent", text, nil, false, "", ""},
		{"text empty", text, "", false, "", ""},
		{"text value", text, "hello world", true, "hello world", ""},
		{"text from int", text, 42, true, "42", ""},
		{"text default", textDefault, "", true, "x", ""},
		{"text value over default", textDefault, "y", true, "y", ""},
		{"required text ignores default", textRequired, "", false, "", ""},

		{"number absent", number, nil, false, "", ""},
		{"number empty string", number, "", false, "", ""},
		{"number zero is present", number, 0, true, "0", ""},
		{"number string", number, "4", true, "4", ""},
		{"number float", number, 2.5, true, "2.5", ""},
		{"number json", number, json.Number("7"), true, "7", ""},
		{"number upper bound inclusive", number, 10, true, "10", ""},
		{"number invalid", number, "four", false, "", CodeInvalidNumber},
		{"number bool", number, true, false, "", CodeInvalidNumber},
		{"number nan", number, "NaN", false, "", CodeInvalidNumber},
		{"number below min", number, -1, true, "-1", CodeOutOfRange},
		{"number above max", number, "11", true, "11", CodeOutOfRange},

		{"select absent", sel, nil, false, "", ""},
		{"select empty", sel, "", false, "", ""},
		{"select option", sel, "a", true, "a", ""},
		{"select unknown", sel, "c", false, "", CodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Normalize(tt.arg, tt.raw)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("expected %s error, got none", tt.wantCode)
				}
				if err.Code != tt.wantCode {
					t.Errorf("Code = %s, want %s", err.Code, tt.wantCode)
				}
				if err.Arg != tt.arg.ID {
					t.Errorf("Arg = %q, want %q", err.Arg, tt.arg.ID)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", v.Present, tt.wantPresent)
			}
			if got := v.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
		})
	}
}

func TestNormalizeNumberDefault(t *testing.T) {
	a := &catalog.Argument{ID: "n", Type: catalog.ArgTypeNumber, Flag: "-n", Default: 3}

	v, err := Normalize(a, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Present || v.Number != 3 {
		t.Errorf("got %+v, want default 3", v)
	}
}

func TestValueJSON(t *testing.T) {
	norm := Normalized{
		"n": {Type: catalog.ArgTypeNumber, Present: true, Number: 5},
		"c": {Type: catalog.ArgTypeCheckbox, Present: true, Bool: true},
		"t": {Type: catalog.ArgTypeText, Present: true, Text: "x"},
	}
	data, err := json.Marshal(norm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := string(data), `{"c":true,"n":5,"t":"x"}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestParseValues(t *testing.T) {
	values, err := ParseValues([]string{"pattern=a=b", "ignore-case", "file="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values["pattern"] != "a=b" {
		t.Errorf("pattern = %v, want a=b", values["pattern"])
	}
	if values["ignore-case"] != "true" {
		t.Errorf("ignore-case = %v, want true", values["ignore-case"])
	}
	if values["file"] != "" {
		t.Errorf("file = %v, want empty", values["file"])
	}

	if _, err := ParseValues([]string{"=x"}); err == nil {
		t.Error("expected error for empty id")
	}
}
