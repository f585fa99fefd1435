// Package json bridges nrf1.Value and plain JSON, for callers that want to
// inspect or author NRF-1.1 values as ordinary JSON documents (CLI output,
// HTTP debug endpoints, test fixtures) rather than the binary wire format.
//
// JSON has no native byte-string type, so Bytes values tunnel through a
// single-key object: {"$bytes": "<lowercase hex>"}. Any other object is
// interpreted as a Map. nrf1.Map entries marshal through a Go map, so the
// output object's keys are sorted by encoding/json regardless of the Map's
// entry order, and a repeated key keeps only its last entry.
package json

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/unkn0wn-root/nrf1"
)

const bytesKey = "$bytes"

// Marshal renders v as a JSON document using the $bytes tunnel for Bytes
// values.
func Marshal(v nrf1.Value) ([]byte, error) {
	return json.Marshal(toJSON(v))
}

// MarshalIndent is Marshal with indentation, handy for CLI output.
func MarshalIndent(v nrf1.Value, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(toJSON(v), prefix, indent)
}

// Unmarshal parses a JSON document produced by Marshal (or any JSON
// following the same $bytes convention) back into an nrf1.Value. JSON
// numbers decode to nrf1.Int64; a non-integral number is an error, since
// NRF-1.1 has no float kind.
func Unmarshal(b []byte) (nrf1.Value, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return fromJSON(raw)
}

func toJSON(v nrf1.Value) any {
	switch t := v.(type) {
	case nrf1.Null:
		return nil
	case nrf1.Bool:
		return bool(t)
	case nrf1.Int64:
		return int64(t)
	case nrf1.String:
		return string(t)
	case nrf1.Bytes:
		return map[string]any{bytesKey: hex.EncodeToString(t)}
	case nrf1.Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toJSON(e)
		}
		return out
	case nrf1.Map:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = toJSON(e.Value)
		}
		return out
	default:
		panic(fmt.Sprintf("bridge/json: unhandled Value kind %T", v))
	}
}

func fromJSON(raw any) (nrf1.Value, error) {
	switch t := raw.(type) {
	case nil:
		return nrf1.Null{}, nil
	case bool:
		return nrf1.Bool(t), nil
	case float64:
		i := int64(t)
		if float64(i) != t {
			return nil, fmt.Errorf("bridge/json: %v is not representable as int64", t)
		}
		return nrf1.Int64(i), nil
	case string:
		return nrf1.String(t), nil
	case []any:
		out := make(nrf1.Array, len(t))
		for i, e := range t {
			v, err := fromJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		if len(t) == 1 {
			if hv, ok := t[bytesKey]; ok {
				s, ok := hv.(string)
				if !ok {
					return nil, fmt.Errorf("bridge/json: %q must be a hex string", bytesKey)
				}
				b, err := hex.DecodeString(s)
				if err != nil {
					return nil, fmt.Errorf("bridge/json: decoding %q: %w", bytesKey, err)
				}
				return nrf1.Bytes(b), nil
			}
		}
		entries := make(map[string]nrf1.Value, len(t))
		for k, ev := range t {
			v, err := fromJSON(ev)
			if err != nil {
				return nil, err
			}
			entries[k] = v
		}
		return nrf1.NewMap(entries), nil
	default:
		return nil, fmt.Errorf("bridge/json: unhandled JSON value %T", raw)
	}
}
