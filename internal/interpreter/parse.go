package interpreter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"carmod-engine/internal/actions"
)

var codeFenceRe = regexp.MustCompile("^```\\w*\\n?")

// ParseActions extracts the action list from an LLM reply. Tolerates markdown
// fences, prose around the JSON, and the single-action form. Unknown action
// types parse fine; the pipeline skips them later.
func ParseActions(reply string) ([]actions.Action, error) {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = codeFenceRe.ReplaceAllString(reply, "")
		reply = strings.TrimSuffix(reply, "```")
		reply = strings.TrimSpace(reply)
	}
	obj, err := firstJSONObject(reply)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Actions json.RawMessage `json:"actions"`
		Type    string          `json:"type"`
	}
	if err := json.Unmarshal([]byte(obj), &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Actions) > 0 {
		var batch []actions.Action
		if err := json.Unmarshal(envelope.Actions, &batch); err == nil {
			return batch, nil
		}
		// Single object under "actions".
		var one actions.Action
		if err := json.Unmarshal(envelope.Actions, &one); err == nil {
			return []actions.Action{one}, nil
		}
		return nil, fmt.Errorf("\"actions\" is neither a list nor an action object")
	}
	// Top-level single action: {"type":"ADD_UNDERGLOW",...}
	if envelope.Type != "" {
		var one actions.Action
		if err := json.Unmarshal([]byte(obj), &one); err != nil {
			return nil, err
		}
		return []actions.Action{one}, nil
	}
	return nil, fmt.Errorf("missing actions array")
}

// firstJSONObject returns the first balanced {...} block in s.
func firstJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}
	s = s[start:]
	depth := 0
	inString := false
	escaped := false
	for i, c := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON braces")
}
