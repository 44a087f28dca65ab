package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PhaseList is the ordered set of phases. It decodes from either a JSON
// array or an object keyed by phase id; for the object form the key order
// of the document becomes the phase order.
type PhaseList []Phase

// UnmarshalJSON implements json.Unmarshaler.
func (l *PhaseList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var phases []Phase
		if err := json.Unmarshal(trimmed, &phases); err != nil {
			return err
		}
		*l = phases
		return nil
	case '{':
		phases, err := decodeKeyedPhases(trimmed)
		if err != nil {
			return err
		}
		*l = phases
		return nil
	default:
		return fmt.Errorf("phases: expected array or object")
	}
}

// decodeKeyedPhases walks the object token by token so key order survives.
func decodeKeyedPhases(data []byte) ([]Phase, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var phases []Phase
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("phases: unexpected token %v", tok)
		}

		var p Phase
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("phase %q: %w", key, err)
		}
		if p.ID == "" {
			p.ID = key
		}
		if p.ID != key {
			return nil, fmt.Errorf("phase key %q does not match id %q", key, p.ID)
		}
		phases = append(phases, p)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return phases, nil
}
