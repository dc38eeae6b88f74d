package keywords

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  List
	}{
		{name: "comma separated", input: "dragon, moon", want: List{"dragon", "moon"}},
		{name: "case-insensitive duplicate dropped", input: "dragon, Dragon, moon", want: List{"dragon", "moon"}},
		{name: "first casing wins", input: "Moon moon MOON star", want: List{"Moon", "star"}},
		{name: "mixed separators", input: "  compass,river\tlantern ,, star\n", want: List{"compass", "river", "lantern", "star"}},
		{name: "five is allowed", input: "a b c d e", want: List{"a", "b", "c", "d", "e"}},
		{name: "duplicates do not count toward the maximum", input: "a b c d e A B", want: List{"a", "b", "c", "d", "e"}},
		{name: "unicode fold", input: "Ёлка ёлка снег", want: List{"Ёлка", "снег"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{name: "empty", input: "", count: 0},
		{name: "only separators", input: " , ,, ", count: 0},
		{name: "single word", input: "a", count: 1},
		{name: "single word repeated", input: "moon Moon MOON", count: 1},
		{name: "above maximum", input: "a b c d e f", count: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrInvalidKeywords))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.count, vErr.Count)
			assert.Contains(t, err.Error(), "2–5")
			assert.Contains(t, err.Error(), "Example")
		})
	}
}

func TestList_String(t *testing.T) {
	assert.Equal(t, "dragon, moon", List{"dragon", "moon"}.String())
}
