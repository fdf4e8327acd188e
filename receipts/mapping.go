package receipts

import (
	"fmt"

	"github.com/tann9949/go-receipts-indexer/eas"
	"github.com/tann9949/go-receipts-indexer/metrics"
	"github.com/tann9949/go-receipts-indexer/types"
)

// FieldMappingError names the decoded field a variant constructor could not
// read. Fatal to the single record only.
type FieldMappingError struct {
	Field  string
	Reason string
}

func (e *FieldMappingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("mapping field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("mapping field %q: missing from decoded payload", e.Field)
}

// fieldMap wraps the decoded name->value mapping with typed accessors.
type fieldMap map[string]any

func (m fieldMap) str(name string) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", &FieldMappingError{Field: name}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldMappingError{Field: name, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

// optStr reads a field that may be absent or non-textual (e.g. a bytes32
// reference that failed the text heuristic).
func (m fieldMap) optStr(name string) string {
	s, _ := m[name].(string)
	return s
}

func (m fieldMap) integer(name string) (int64, error) {
	v, ok := m[name]
	if !ok {
		return 0, &FieldMappingError{Field: name}
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, &FieldMappingError{Field: name, Reason: fmt.Sprintf("expected number, got %T", v)}
	}
}

func (m fieldMap) boolean(name string) (bool, error) {
	v, ok := m[name]
	if !ok {
		return false, &FieldMappingError{Field: name}
	}
	b, ok := v.(bool)
	if !ok {
		return false, &FieldMappingError{Field: name, Reason: fmt.Sprintf("expected bool, got %T", v)}
	}
	return b, nil
}

// decodeFields produces the name->value mapping for an envelope, preferring
// the gateway's pre-decoded JSON and falling back to a positional decode of
// the raw payload against the variant's schema description.
func decodeFields(env *types.AttestationEnvelope, schema string) (fieldMap, error) {
	if env.DecodedDataJSON != "" {
		m, err := eas.ParseDecodedDataJSON(env.DecodedDataJSON)
		if err != nil {
			metrics.DecodeFailures.Inc()
			return nil, err
		}
		return fieldMap(m), nil
	}

	decoder, err := eas.NewSchemaDecoder(schema)
	if err != nil {
		return nil, err
	}
	fields, err := decoder.Decode(env.Data)
	if err != nil {
		metrics.DecodeFailures.Inc()
		return nil, err
	}
	m, err := eas.ParseDecoded(fields)
	return fieldMap(m), err
}
