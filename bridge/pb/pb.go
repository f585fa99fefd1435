// Package pb bridges nrf1.Value and google.golang.org/protobuf's
// structpb.Value, so an NRF-1.1 value can ride inside any protobuf message
// field typed google.protobuf.Value or google.protobuf.Struct without a
// dedicated .proto schema for this wire format.
//
// structpb has no byte-string kind either, so Bytes uses the same $bytes
// hex-tunnel convention as bridge/json, keeping the two bridges
// interchangeable for a caller that doesn't care which transport it's on.
package pb

import (
	"encoding/hex"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/nrf1"
)

const bytesKey = "$bytes"

// ToStruct converts v into a structpb.Value.
func ToStruct(v nrf1.Value) (*structpb.Value, error) {
	switch t := v.(type) {
	case nrf1.Null:
		return structpb.NewNullValue(), nil
	case nrf1.Bool:
		return structpb.NewBoolValue(bool(t)), nil
	case nrf1.Int64:
		return structpb.NewNumberValue(float64(t)), nil
	case nrf1.String:
		return structpb.NewStringValue(string(t)), nil
	case nrf1.Bytes:
		s, err := structpb.NewStruct(map[string]any{bytesKey: hex.EncodeToString(t)})
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(s), nil
	case nrf1.Array:
		vals := make([]*structpb.Value, len(t))
		for i, e := range t {
			pv, err := ToStruct(e)
			if err != nil {
				return nil, err
			}
			vals[i] = pv
		}
		return structpb.NewListValue(&structpb.ListValue{Values: vals}), nil
	case nrf1.Map:
		fields := make(map[string]*structpb.Value, len(t))
		for _, e := range t {
			pv, err := ToStruct(e.Value)
			if err != nil {
				return nil, err
			}
			fields[e.Key] = pv
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	default:
		return nil, fmt.Errorf("bridge/pb: unhandled Value kind %T", v)
	}
}

// FromStruct converts a structpb.Value back into an nrf1.Value. A
// NumberValue that isn't exactly representable as int64 is an error, since
// NRF-1.1 has no float kind.
func FromStruct(pv *structpb.Value) (nrf1.Value, error) {
	switch k := pv.GetKind().(type) {
	case *structpb.Value_NullValue, nil:
		return nrf1.Null{}, nil
	case *structpb.Value_BoolValue:
		return nrf1.Bool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		i := int64(k.NumberValue)
		if float64(i) != k.NumberValue {
			return nil, fmt.Errorf("bridge/pb: %v is not representable as int64", k.NumberValue)
		}
		return nrf1.Int64(i), nil
	case *structpb.Value_StringValue:
		return nrf1.String(k.StringValue), nil
	case *structpb.Value_ListValue:
		items := k.ListValue.GetValues()
		out := make(nrf1.Array, len(items))
		for i, e := range items {
			v, err := FromStruct(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		if len(fields) == 1 {
			if hv, ok := fields[bytesKey]; ok {
				s, ok := hv.GetKind().(*structpb.Value_StringValue)
				if !ok {
					return nil, fmt.Errorf("bridge/pb: %q must be a string", bytesKey)
				}
				b, err := hex.DecodeString(s.StringValue)
				if err != nil {
					return nil, fmt.Errorf("bridge/pb: decoding %q: %w", bytesKey, err)
				}
				return nrf1.Bytes(b), nil
			}
		}
		entries := make(map[string]nrf1.Value, len(fields))
		for key, fv := range fields {
			v, err := FromStruct(fv)
			if err != nil {
				return nil, err
			}
			entries[key] = v
		}
		return nrf1.NewMap(entries), nil
	default:
		return nil, fmt.Errorf("bridge/pb: unhandled structpb kind %T", k)
	}
}
