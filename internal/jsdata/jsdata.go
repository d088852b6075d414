// Package jsdata encodes and decodes the generated implementor data files.
// Each file assigns the implementor index to a script-global variable and
// performs the hand-off handshake: call register_implementors if the host
// page has installed it, otherwise park the index in pending_implementors.
// See docs/ARCHITECTURE.md § Data Files.
package jsdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

// payloadPrefix introduces the index object inside a data file.
const payloadPrefix = "var implementors = "

// Decode errors.
var (
	ErrNoPayload = errors.New("no implementors payload found")
)

// Emit renders the index as a data file. Output is deterministic: traits are
// sorted, one per line, and record order within a trait is preserved exactly.
func Emit(ix types.Index) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("(function() {" + payloadPrefix + "{\n")

	traits := ix.Traits()
	for i, trait := range traits {
		key, err := json.Marshal(trait)
		if err != nil {
			return nil, fmt.Errorf("encoding trait name %q: %w", trait, err)
		}
		recs, err := json.Marshal(ix[trait])
		if err != nil {
			return nil, fmt.Errorf("encoding records for %q: %w", trait, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(recs)
		if i < len(traits)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}

	buf.WriteString("};\n")
	buf.WriteString("if (window.register_implementors) {\n")
	buf.WriteString("    window.register_implementors(implementors);\n")
	buf.WriteString("} else {\n")
	buf.WriteString("    window.pending_implementors = implementors;\n")
	buf.WriteString("}\n})()\n")

	return buf.Bytes(), nil
}

// Parse extracts the index payload from a data file. Surrounding script
// boilerplate is ignored; only the object assigned to the implementors
// variable is decoded. Returns ErrNoPayload when the assignment is missing.
func Parse(data []byte) (types.Index, error) {
	start := bytes.Index(data, []byte(payloadPrefix))
	if start < 0 {
		return nil, ErrNoPayload
	}
	rest := data[start+len(payloadPrefix):]

	open := bytes.IndexByte(rest, '{')
	if open < 0 {
		return nil, ErrNoPayload
	}
	payload, err := balancedObject(rest[open:])
	if err != nil {
		return nil, err
	}

	var raw map[string][]types.ImplementorRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decoding implementors payload: %w", err)
	}

	ix := make(types.Index, len(raw))
	for trait, recs := range raw {
		ix[trait] = recs
	}
	return ix, nil
}

// balancedObject returns the prefix of data spanning one complete JSON
// object, tracking brace depth outside of string literals.
func balancedObject(data []byte) ([]byte, error) {
	depth := 0
	inString := false
	escaped := false

	for i, c := range data {
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
				return data[:i+1], nil
			}
		}
	}
	return nil, fmt.Errorf("unterminated implementors payload")
}
