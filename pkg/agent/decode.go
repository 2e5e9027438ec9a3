package agent

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// ToolSelection is the decoded oracle reply for the tool-selection state.
type ToolSelection struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input"`
}

// DelegationDecision is the decoded oracle reply for the delegation state.
type DelegationDecision struct {
	ShouldDelegate  bool   `json:"shouldDelegate"`
	Reason          string `json:"reason"`
	TargetAgentRole string `json:"targetAgentRole"`
}

const toolSelectionSchema = `{
	"type": "object",
	"required": ["tool", "input"],
	"properties": {
		"tool": {"type": "string"},
		"input": {"type": "object"}
	}
}`

const delegationSchema = `{
	"type": "object",
	"required": ["shouldDelegate"],
	"properties": {
		"shouldDelegate": {"type": "boolean"},
		"reason": {"type": "string"},
		"targetAgentRole": {"type": "string"}
	}
}`

var (
	toolSelectionValidator = gojsonschema.NewStringLoader(toolSelectionSchema)
	delegationValidator    = gojsonschema.NewStringLoader(delegationSchema)
)

// stripFences removes surrounding markdown code-fence markers from an
// oracle reply. Models often wrap JSON in ``` or ```json blocks.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// DecodeToolSelection parses and schema-validates a tool-selection reply.
// Any parse or validation failure is an ORACLE_UNPARSEABLE error so callers
// can distinguish a protocol violation from a deliberate negative decision.
func DecodeToolSelection(raw string) (*ToolSelection, error) {
	doc := stripFences(raw)
	if err := validate(toolSelectionValidator, doc); err != nil {
		return nil, unparseable("tool selection reply failed validation", err, raw)
	}

	var sel ToolSelection
	if err := json.Unmarshal([]byte(doc), &sel); err != nil {
		return nil, unparseable("tool selection reply is not valid JSON", err, raw)
	}
	return &sel, nil
}

// DecodeDelegation parses and schema-validates a delegation reply.
func DecodeDelegation(raw string) (*DelegationDecision, error) {
	doc := stripFences(raw)
	if err := validate(delegationValidator, doc); err != nil {
		return nil, unparseable("delegation reply failed validation", err, raw)
	}

	var dec DelegationDecision
	if err := json.Unmarshal([]byte(doc), &dec); err != nil {
		return nil, unparseable("delegation reply is not valid JSON", err, raw)
	}
	return &dec, nil
}

func validate(schema gojsonschema.JSONLoader, doc string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return berrors.New(berrors.CodeInvalidInput, strings.Join(msgs, "; "), nil)
	}
	return nil
}

func unparseable(msg string, err error, raw string) error {
	if len(raw) > 256 {
		raw = raw[:256]
	}
	return berrors.New(berrors.CodeOracleUnparseable, msg, err).
		WithContext("reply", raw).
		WithRecoverable(false)
}
