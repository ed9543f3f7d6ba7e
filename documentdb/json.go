package documentdb

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// JSONObject is the structured form of a JSON object as produced by the body parser.
// Numbers decode to json.Number so their textual form survives untouched.
type JSONObject = map[string]any

// jsonAPI keeps numbers as json.Number, which the aggregate normalization relies on.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// ParseJSONObject parses a raw JSON text that must hold an object.
func ParseJSONObject(raw string) (JSONObject, error) {
	var value any
	if err := jsonAPI.UnmarshalFromString(raw, &value); err != nil {
		return nil, illegalState(ErrMalformedJSONBody, err)
	}

	object, ok := value.(JSONObject)
	if !ok {
		return nil, illegalState(ErrMalformedJSONBody, fmt.Errorf("expected a json object, got %s", kindOf(value)))
	}

	return object, nil
}

// MarshalJSONObject serializes a structured body back to its JSON text.
func MarshalJSONObject(object JSONObject) (string, error) {
	return jsonAPI.MarshalToString(object)
}

// AsJSONArray reports whether v is a JSON array and returns its elements. Besides the []any the
// body parser produces it accepts []JSONObject and any other Go slice or array, so nested literals
// such as [][]any are recognised at every level. []byte is not an array: it marshals as a string.
func AsJSONArray(v any) ([]any, bool) {
	switch typed := v.(type) {
	case []any:
		return typed, true
	case []JSONObject:
		out := make([]any, len(typed))
		for i, object := range typed {
			out[i] = object
		}
		return out, true
	case []byte, nil:
		return nil, false
	}

	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, value.Len())
	for i := range out {
		out[i] = value.Index(i).Interface()
	}

	return out, true
}

// scalarText returns the textual form of a number or boolean and false for every other kind.
// json.Number keeps its original text. Go floats, which only appear in bodies built in code, are
// rendered in plain decimal notation, so 1e21 becomes "1000000000000000000000" and 5.0 becomes "5".
func scalarText(v any) (string, bool) {
	switch typed := v.(type) {
	case bool:
		return strconv.FormatBool(typed), true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case int:
		return strconv.Itoa(typed), true
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", typed), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", typed), true
	default:
		return "", false
	}
}

// kindOf names the JSON kind of v for error messages.
func kindOf(v any) string {
	if v == nil {
		return "null"
	}

	if _, ok := AsJSONArray(v); ok {
		return "array"
	}

	if _, ok := scalarText(v); ok {
		return "scalar"
	}

	switch v.(type) {
	case JSONObject:
		return "object"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}
