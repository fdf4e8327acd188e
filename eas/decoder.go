package eas

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// SchemaField is one (name, type) pair of a schema definition, in declared
// order. Decoding is positional against this order, not name-keyed.
type SchemaField struct {
	Name string
	Type string
}

// DecodedField is one decoded value. For bytes32 fields the value is the
// trailing-NUL-trimmed UTF-8 string when the bytes happen to decode, raw
// bytes otherwise. That heuristic is lossy: binary that happens to be valid
// UTF-8 is misread as text, and nothing in the schema description can tell
// the two apart.
type DecodedField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// SchemaDecoder decodes hex-encoded attestation payloads against a named
// field schema, e.g. "string title,uint64 moving_time,bool has_ended".
// "ipfsHash" is an alias for bytes32.
type SchemaDecoder struct {
	fields []SchemaField
	args   abi.Arguments
}

func NewSchemaDecoder(schema string) (*SchemaDecoder, error) {
	fixed := strings.ReplaceAll(schema, "ipfsHash", "bytes32")

	d := &SchemaDecoder{}
	for _, component := range strings.Split(fixed, ",") {
		component = strings.TrimSpace(component)
		parts := strings.Fields(component)

		var typeName, name string
		if len(parts) == 2 {
			typeName, name = parts[0], parts[1]
		} else {
			typeName = component
		}

		abiType, err := abi.NewType(typeName, "", nil)
		if err != nil {
			return nil, &DecodeError{Reason: "unsupported schema type " + typeName, Err: err}
		}
		d.fields = append(d.fields, SchemaField{Name: name, Type: typeName})
		d.args = append(d.args, abi.Argument{Name: name, Type: abiType})
	}
	return d, nil
}

// Fields returns the schema definition in declared order.
func (d *SchemaDecoder) Fields() []SchemaField { return d.fields }

// Decode positionally decodes the hex payload into one value per schema
// field, preserving schema order.
func (d *SchemaDecoder) Decode(hexPayload string) ([]DecodedField, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(hexPayload, "0x"))
	if err != nil {
		return nil, &DecodeError{Reason: "payload is not valid hex", Err: err}
	}

	values, err := d.args.Unpack(raw)
	if err != nil {
		return nil, &DecodeError{Reason: "payload does not match schema", Err: err}
	}

	decoded := make([]DecodedField, 0, len(d.fields))
	for i, field := range d.fields {
		value := values[i]
		if field.Type == "bytes32" {
			if word, ok := value.([32]byte); ok {
				value = decodeWord(word)
			}
		}
		decoded = append(decoded, DecodedField{Name: field.Name, Type: field.Type, Value: value})
	}
	return decoded, nil
}

// decodeWord tries to read a fixed 32-byte word as NUL-padded UTF-8 text,
// keeping the raw bytes when it isn't.
func decodeWord(word [32]byte) any {
	trimmed := bytes.TrimRight(word[:], "\x00")
	if utf8.Valid(trimmed) {
		return string(trimmed)
	}
	return word[:]
}

// ParseDecoded collapses an ordered field list into a name->value map. Only
// callers relying on single-value-per-name semantics need this; a schema
// that repeats a name fails with *DuplicateFieldError.
func ParseDecoded(fields []DecodedField) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if _, exists := out[f.Name]; exists {
			return nil, &DuplicateFieldError{Name: f.Name}
		}
		out[f.Name] = f.Value
	}
	return out, nil
}

// decodedItem mirrors the gateway's pre-decoded JSON: an array of
// {name, value: {value}} triples.
type decodedItem struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value struct {
		Value json.RawMessage `json:"value"`
	} `json:"value"`
}

// bigNumber is the tagged big-integer object some gateways emit for
// numeric fields.
type bigNumber struct {
	Type string `json:"type"`
	Hex  string `json:"hex"`
}

// ParseDecodedDataJSON is the parallel decode path for envelopes whose
// payload arrives pre-decoded as JSON. Tagged big-integer values are
// normalized to int64 via their hex representation; everything else is
// carried through as decoded.
func ParseDecodedDataJSON(data string) (map[string]any, error) {
	var items []decodedItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, &DecodeError{Reason: "payload is not a decoded field array", Err: err}
	}

	out := make(map[string]any, len(items))
	for _, item := range items {
		value, err := normalizeValue(item.Value.Value)
		if err != nil {
			return nil, &DecodeError{Reason: "field " + item.Name, Err: err}
		}
		out[item.Name] = value
	}
	return out, nil
}

func normalizeValue(raw json.RawMessage) (any, error) {
	var bn bigNumber
	if err := json.Unmarshal(raw, &bn); err == nil && bn.Type == "BigNumber" && bn.Hex != "" {
		n, ok := new(big.Int).SetString(strings.TrimPrefix(bn.Hex, "0x"), 16)
		if !ok {
			return nil, &DecodeError{Reason: "bad big number hex " + bn.Hex}
		}
		return n.Int64(), nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
