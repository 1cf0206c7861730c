package udlai

// Flatten converts a nested JSON object into a single-level Record
// keyed by dot-joined paths. Nested objects recurse under
// "parent.child"; root-level keys carry no leading separator.
//
// Nested arrays are flattened element by element under the same parent
// key, so leaf keys that collide across elements resolve to the last
// element's value. This last-write-wins rule matches the upstream API
// tooling and is kept for compatibility; do not rely on Flatten to
// preserve per-element identity inside arrays.
func Flatten(input map[string]any) Record {
	out := make(Record)
	flattenInto(out, input, "")
	return out
}

func flattenInto(out Record, in map[string]any, prefix string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case map[string]any:
			flattenInto(out, val, key)
		case []any:
			for _, elem := range val {
				if m, ok := elem.(map[string]any); ok {
					flattenInto(out, m, key)
				} else {
					out[key] = elem
				}
			}
		default:
			out[key] = v
		}
	}
}
