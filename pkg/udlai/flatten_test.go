package udlai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  Record
	}{
		{
			name:  "scalars_pass_through",
			input: map[string]any{"id": float64(22), "name": "obj_compact", "unit": "-"},
			want:  Record{"id": float64(22), "name": "obj_compact", "unit": "-"},
		},
		{
			name: "nested_object",
			input: map[string]any{
				"main_tag": map[string]any{"id": float64(4), "name": "Morphology"},
			},
			want: Record{"main_tag.id": float64(4), "main_tag.name": "Morphology"},
		},
		{
			name: "deeply_nested_object",
			input: map[string]any{
				"value_formatter": map[string]any{
					"options": map[string]any{"multiply": float64(100)},
				},
			},
			want: Record{"value_formatter.options.multiply": float64(100)},
		},
		{
			name: "array_of_objects_merges_under_parent_key",
			input: map[string]any{
				"tags": []any{
					map[string]any{"id": float64(4), "name": "Morphology"},
				},
			},
			want: Record{"tags.id": float64(4), "tags.name": "Morphology"},
		},
		{
			name: "colliding_keys_last_element_wins",
			input: map[string]any{
				"tags": []any{
					map[string]any{"id": float64(4), "first": "a"},
					map[string]any{"id": float64(7), "second": "b"},
				},
			},
			// Both distinct keys survive, the shared key holds the
			// last element's value.
			want: Record{"tags.id": float64(7), "tags.first": "a", "tags.second": "b"},
		},
		{
			name: "mixed_nesting",
			input: map[string]any{
				"id": float64(10),
				"source": map[string]any{
					"provider": "Swiss Topo TLM",
					"links":    []any{map[string]any{"url": "https://example.ch"}},
				},
			},
			want: Record{
				"id":               float64(10),
				"source.provider":  "Swiss Topo TLM",
				"source.links.url": "https://example.ch",
			},
		},
		{
			name:  "nil_value_kept",
			input: map[string]any{"value_formatter": nil},
			want:  Record{"value_formatter": nil},
		},
		{
			name:  "empty_input",
			input: map[string]any{},
			want:  Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.input))
		})
	}
}

func TestFlattenFromJSON(t *testing.T) {
	// Shape of a real attribute detail payload.
	payload := `{
		"id": 22,
		"name": "obj_compact",
		"unit": "-",
		"tags": [{"id": 4, "name": "Morphology"}],
		"main_tag": {"id": 4, "name": "Morphology"},
		"value_formatter": null
	}`

	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &obj))

	flat := Flatten(obj)
	assert.Equal(t, Record{
		"id":              float64(22),
		"name":            "obj_compact",
		"unit":            "-",
		"tags.id":         float64(4),
		"tags.name":       "Morphology",
		"main_tag.id":     float64(4),
		"main_tag.name":   "Morphology",
		"value_formatter": nil,
	}, flat)
}
