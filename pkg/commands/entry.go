package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/archx/pkg/errors"
)

// Entry is one raw command mapping from a config file
type Entry map[string]interface{}

const (
	// KeyKind names the command kind
	KeyKind = "kind"
	// KeyKindLegacy is accepted in place of kind
	KeyKindLegacy = "command"
	// KeyBackend selects a backend for the kind
	KeyBackend = "backend"
)

// Kind returns the entry's kind, honouring the legacy "command" key
func (e Entry) Kind() (string, error) {
	kind, ok, err := e.String(KeyKind, KeyKindLegacy)
	if err != nil {
		return "", err
	}
	if !ok || kind == "" {
		return "", errors.New(errors.ErrConfigValid, "command entry has no kind").
			WithDetail("keys", e.keys())
	}
	return kind, nil
}

// Backend returns the backend selector and whether one was given
func (e Entry) Backend() (string, bool, error) {
	return e.String(KeyBackend)
}

// String returns the value of the first key among keys that holds a
// non-empty value. Null and empty strings fall through to the next alias.
// It fails when the chosen value is not a string.
func (e Entry) String(keys ...string) (string, bool, error) {
	for _, key := range keys {
		v, ok := e[key]
		if !ok || v == nil || v == "" {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return "", false, errors.Newf(errors.ErrConfigValid,
				"field %q must be a string, got %s", key, typeName(v)).
				WithDetail("field", key)
		}
		return s, true, nil
	}
	return "", false, nil
}

// RequireString is String for mandatory fields. kind is used in the
// error message.
func (e Entry) RequireString(kind string, keys ...string) (string, error) {
	s, ok, err := e.String(keys...)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return "", errors.Newf(errors.ErrConfigValid,
			"%s command requires \"%s\"", kind, strings.Join(keys, "\" or \"")).
			WithDetail("kind", kind).
			WithDetail("field", keys[0])
	}
	return s, nil
}

// Bool returns a boolean field, or def when the key is absent
func (e Entry) Bool(key string, def bool) (bool, error) {
	v, ok := e[key]
	if !ok {
		return def, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, errors.Newf(errors.ErrConfigValid,
			"field %q must be a boolean, got %s", key, typeName(v)).
			WithDetail("field", key)
	}
	return b, nil
}

func (e Entry) keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
