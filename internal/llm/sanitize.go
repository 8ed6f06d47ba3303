package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SanitizeAgainstSchema repairs the common ways a model response misses
// a strict schema without inventing data:
//   - drops keys the schema does not declare (additionalProperties: false)
//   - drops null-valued keys ("never output null" is asked for, not obeyed)
//   - trims string values, dropping ones that end up empty
//   - uppercases enum-constrained strings (mode labels come back as "air")
//
// Returns the repaired document and the list of touched keys.
func SanitizeAgainstSchema(schemaMap map[string]any, doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	props, _ := schemaMap["properties"].(map[string]any)
	var touched []string

	for k, v := range m {
		prop, known := props[k]
		if !known {
			delete(m, k)
			touched = append(touched, k+"(unknown)")
			continue
		}
		if v == nil {
			delete(m, k)
			touched = append(touched, k+"(null)")
			continue
		}
		s, isString := v.(string)
		if !isString {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "null") {
			delete(m, k)
			touched = append(touched, k+"(empty)")
			continue
		}
		if hasEnum(prop) {
			s = strings.ToUpper(s)
		}
		if s != v {
			touched = append(touched, k)
		}
		m[k] = s
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, touched, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, touched, nil
}

func hasEnum(prop any) bool {
	pm, ok := prop.(map[string]any)
	if !ok {
		return false
	}
	_, ok = pm["enum"]
	return ok
}
