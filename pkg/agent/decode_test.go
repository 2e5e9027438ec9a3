package agent

import (
	"testing"

	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"tool": "search"}`, `{"tool": "search"}`},
		{"plain fence", "```\n{\"tool\": \"search\"}\n```", `{"tool": "search"}`},
		{"json fence", "```json\n{\"tool\": \"search\"}\n```", `{"tool": "search"}`},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", `{}`},
		{"no fence word", "none", "none"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeToolSelection(t *testing.T) {
	sel, err := DecodeToolSelection("```json\n{\"tool\": \"search\", \"input\": {\"query\": \"go\"}}\n```")
	if err != nil {
		t.Fatalf("DecodeToolSelection failed: %v", err)
	}
	if sel.Tool != "search" {
		t.Errorf("tool = %q, want %q", sel.Tool, "search")
	}
	if sel.Input["query"] != "go" {
		t.Errorf("input = %v", sel.Input)
	}
}

func TestDecodeToolSelectionUnparseable(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not json", "I don't think any tool applies here."},
		{"wrong shape", `{"tool": 42, "input": {}}`},
		{"missing input", `{"tool": "search"}`},
		{"bare word", "none"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeToolSelection(tc.in)
			if !berrors.IsCode(err, berrors.CodeOracleUnparseable) {
				t.Errorf("expected ORACLE_UNPARSEABLE, got %v", err)
			}
		})
	}
}

func TestDecodeDelegation(t *testing.T) {
	dec, err := DecodeDelegation(`{"shouldDelegate": true, "reason": "needs research", "targetAgentRole": "researcher"}`)
	if err != nil {
		t.Fatalf("DecodeDelegation failed: %v", err)
	}
	if !dec.ShouldDelegate || dec.TargetAgentRole != "researcher" {
		t.Errorf("unexpected decision: %+v", dec)
	}
}

func TestDecodeDelegationNegative(t *testing.T) {
	dec, err := DecodeDelegation(`{"shouldDelegate": false}`)
	if err != nil {
		t.Fatalf("DecodeDelegation failed: %v", err)
	}
	if dec.ShouldDelegate {
		t.Error("expected shouldDelegate=false")
	}
}

func TestDecodeDelegationUnparseable(t *testing.T) {
	_, err := DecodeDelegation(`{"shouldDelegate": "maybe"}`)
	if !berrors.IsCode(err, berrors.CodeOracleUnparseable) {
		t.Errorf("expected ORACLE_UNPARSEABLE, got %v", err)
	}
}
