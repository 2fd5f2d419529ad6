package provider

import (
	"encoding/json"
	"testing"
)

func TestFlexBool_UnmarshalVariants(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`"true"`, true},
		{`"TRUE"`, true},
		{`"True"`, true},
		{`1`, true},
		{`"1"`, true},
		{`false`, false},
		{`"false"`, false},
		{`0`, false},
		{`"0"`, false},
		{`null`, false},
	}
	for _, tc := range cases {
		var b FlexBool
		if err := json.Unmarshal([]byte(tc.raw), &b); err != nil {
			t.Errorf("unmarshal %s: %v", tc.raw, err)
			continue
		}
		if bool(b) != tc.want {
			t.Errorf("unmarshal %s = %v, want %v", tc.raw, bool(b), tc.want)
		}
	}
}

func TestFlexBool_MarshalNormalizes(t *testing.T) {
	var p ParameterDefinition
	if err := json.Unmarshal([]byte(`{"parameter_name":"p","is_required":"1"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(p.Required)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "true" {
		t.Errorf("marshal = %s, want true", out)
	}
}
