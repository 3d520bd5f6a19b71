package ast

import (
	"encoding/json"
	"testing"
)

func TestAsInteger(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{name: "zero", value: json.Number("0"), want: 0, ok: true},
		{name: "negative", value: json.Number("-3"), want: -3, ok: true},
		{name: "whole float literal", value: json.Number("5.0"), want: 5, ok: true},
		{name: "exponent", value: json.Number("1e3"), want: 1000, ok: true},
		{name: "fraction", value: json.Number("1.5"), ok: false},
		{name: "negative fraction", value: json.Number("-1.5"), ok: false},
		{name: "overflow", value: json.Number("1e400"), ok: false},
		{name: "float64", value: 2.0, want: 2, ok: true},
		{name: "int", value: 7, want: 7, ok: true},
		{name: "string", value: "5", ok: false},
		{name: "bool", value: true, ok: false},
		{name: "nil", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsInteger(tt.value)
			if ok != tt.ok {
				t.Fatalf("AsInteger(%v) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("AsInteger(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		value any
		want  Kind
	}{
		{nil, KindNull},
		{true, KindBool},
		{json.Number("1"), KindNumber},
		{"s", KindString},
		{[]any{}, KindArray},
		{map[string]any{}, KindObject},
	}

	for _, tt := range tests {
		if got := KindOf(tt.value); got != tt.want {
			t.Errorf("KindOf(%#v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"typo", "typo"},
		{"", ""},
		{json.Number("3"), "3"},
		{nil, "null"},
		{true, "true"},
		{[]any{"a"}, `["a"]`},
		{map[string]any{"k": json.Number("1")}, `{"k":1}`},
	}

	for _, tt := range tests {
		if got := Render(tt.value); got != tt.want {
			t.Errorf("Render(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	obj := map[string]any{"a": "x", "empty": "", "null": nil}

	tests := []struct {
		name    string
		obj     map[string]any
		key     string
		present bool
		blank   bool
	}{
		{name: "present", obj: obj, key: "a", present: true, blank: false},
		{name: "empty string", obj: obj, key: "empty", present: true, blank: true},
		{name: "explicit null", obj: obj, key: "null", present: false, blank: true},
		{name: "absent", obj: obj, key: "nope", present: false, blank: true},
		{name: "nil owner", obj: nil, key: "a", present: false, blank: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Lookup(tt.obj, tt.key)
			if f.Present != tt.present {
				t.Errorf("Present = %v, want %v", f.Present, tt.present)
			}
			if f.IsBlank() != tt.blank {
				t.Errorf("IsBlank() = %v, want %v", f.IsBlank(), tt.blank)
			}
		})
	}
}
