package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sashabaranov/go-openai/jsonschema"
)

var ErrSchemaViolation = errors.New("schema violation")

var numberJSON = jsoniter.Config{UseNumber: true, EscapeHTML: true}.Froze()

// Violation describes one mismatch between a payload and its schema. Path is
// a JSON-pointer-like location such as "/keyPlayers/home/0/name".
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrSchemaViolation.Error()
	}
	first := e.Violations[0]
	if len(e.Violations) == 1 {
		return fmt.Sprintf("%s: %s %s", ErrSchemaViolation, pathOrRoot(first.Path), first.Message)
	}
	return fmt.Sprintf("%s: %s %s (and %d more)", ErrSchemaViolation, pathOrRoot(first.Path), first.Message, len(e.Violations)-1)
}

// Messages renders each violation as "path message".
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, pathOrRoot(v.Path)+" "+v.Message)
	}
	return out
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// Validate parses raw model output and checks it against schema. It returns
// the decoded arguments only when no violation is found. CheckValue lists
// every mismatch and enforces closed objects at each depth; the final decode
// goes through jsonschema.VerifySchemaAndUnmarshal, which also resolves $ref
// definitions.
func Validate(raw []byte, schema jsonschema.Definition) (Args, error) {
	var doc any
	if err := numberJSON.Unmarshal(raw, &doc); err != nil {
		return Args{}, &ValidationError{Violations: []Violation{{Path: "", Message: "is not valid JSON: " + err.Error()}}}
	}

	violations := CheckValue(doc, schema)
	if len(violations) > 0 {
		return Args{}, &ValidationError{Violations: violations}
	}

	var args Args
	if err := jsonschema.VerifySchemaAndUnmarshal(schema, raw, &args); err != nil {
		return Args{}, &ValidationError{Violations: []Violation{{Path: "", Message: "does not match schema: " + err.Error()}}}
	}
	return args, nil
}

// CheckValue walks doc against schema and returns every violation found in
// traversal order.
func CheckValue(doc any, schema jsonschema.Definition) []Violation {
	var out []Violation
	checkNode("", schema, doc, &out)
	return out
}

func checkNode(path string, def jsonschema.Definition, value any, out *[]Violation) {
	switch def.Type {
	case jsonschema.Object:
		obj, ok := value.(map[string]any)
		if !ok {
			addViolation(out, path, "must be an object, got "+kindOf(value))
			return
		}
		for _, key := range def.Required {
			if _, present := obj[key]; !present {
				addViolation(out, path+"/"+key, "is required")
			}
		}
		for _, key := range sortedKeys(obj) {
			prop, declared := def.Properties[key]
			if !declared {
				if closed(def) {
					addViolation(out, path+"/"+key, "is not allowed")
				}
				continue
			}
			checkNode(path+"/"+key, prop, obj[key], out)
		}
	case jsonschema.Array:
		items, ok := value.([]any)
		if !ok {
			addViolation(out, path, "must be an array, got "+kindOf(value))
			return
		}
		if def.Items == nil {
			return
		}
		for i, item := range items {
			checkNode(path+"/"+strconv.Itoa(i), *def.Items, item, out)
		}
	case jsonschema.String:
		if _, ok := value.(string); !ok {
			addViolation(out, path, "must be a string, got "+kindOf(value))
		}
	case jsonschema.Number:
		if _, ok := numberOf(value); !ok {
			addViolation(out, path, "must be a number, got "+kindOf(value))
		}
	case jsonschema.Integer:
		n, ok := numberOf(value)
		if !ok || n != math.Trunc(n) {
			addViolation(out, path, "must be an integer, got "+kindOf(value))
		}
	case jsonschema.Boolean:
		if _, ok := value.(bool); !ok {
			addViolation(out, path, "must be a boolean, got "+kindOf(value))
		}
	case jsonschema.Null:
		if value != nil {
			addViolation(out, path, "must be null, got "+kindOf(value))
		}
	}
	if len(def.Enum) > 0 {
		if s, ok := value.(string); !ok || !contains(def.Enum, s) {
			addViolation(out, path, "must be one of "+strings.Join(def.Enum, ", "))
		}
	}
}

// closed reports whether undeclared keys are rejected. Only an explicit false
// closes an object.
func closed(def jsonschema.Definition) bool {
	v, ok := def.AdditionalProperties.(bool)
	return ok && !v
}

func numberOf(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func addViolation(out *[]Violation, path, message string) {
	*out = append(*out, Violation{Path: path, Message: message})
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
