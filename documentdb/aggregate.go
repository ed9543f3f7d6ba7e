package documentdb

import "fmt"

// DefaultMaxUnwrapDepth bounds how many singleton array layers UnwrapAggregate removes.
const DefaultMaxUnwrapDepth = 64

// UnwrapAggregate removes the singleton array layers aggregate queries wrap their results in.
//
// While the array has exactly one element and that element is an array, the inner array replaces it.
// Arrays with zero or several elements, or whose single element is not an array, are returned as they are.
// More than maxDepth layers is treated as an unsupported element shape.
func UnwrapAggregate(array []any, maxDepth int) ([]any, error) {
	current := array

	for depth := 0; len(current) == 1; depth++ {
		inner, ok := AsJSONArray(current[0])
		if !ok {
			break
		}

		if depth >= maxDepth {
			return nil, illegalState(
				ErrUnsupportedElementShape,
				fmt.Errorf("aggregate result nested deeper than %d arrays", maxDepth),
			)
		}

		current = inner
	}

	return current, nil
}

// NormalizeAggregateElement turns one unwrapped query result element into a JSON object.
//
// Objects are returned as they are. Numbers and booleans become {"aggregate": "<text>"}.
// Anything else (array, string, null) is an unsupported element shape.
func NormalizeAggregateElement(element any) (JSONObject, error) {
	if object, ok := element.(JSONObject); ok {
		return object, nil
	}

	if text, ok := scalarText(element); ok {
		return JSONObject{PropertyAggregate: text}, nil
	}

	return nil, illegalState(
		ErrUnsupportedElementShape,
		fmt.Errorf("array element is a %s, not an object node", kindOf(element)),
	)
}
