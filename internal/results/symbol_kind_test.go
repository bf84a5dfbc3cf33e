package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbolKind(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected SymbolKind
	}{
		{
			name:     "File symbol kind",
			input:    1,
			expected: SymbolKindFile,
		},
		{
			name:     "Module symbol kind",
			input:    2,
			expected: SymbolKindModule,
		},
		{
			name:     "Method symbol kind",
			input:    6,
			expected: SymbolKindMethod,
		},
		{
			name:     "Function symbol kind",
			input:    12,
			expected: SymbolKindFunction,
		},
		{
			name:     "Variable symbol kind",
			input:    13,
			expected: SymbolKindVariable,
		},
		{
			name:     "Struct symbol kind",
			input:    23,
			expected: SymbolKindStruct,
		},
		{
			name:     "TypeParameter symbol kind",
			input:    26,
			expected: SymbolKindTypeParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseSymbolKind(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result, "ParseSymbolKind(%d) should return %v", tt.input, tt.expected)
			assert.Equal(t, tt.input, result.Code())
		})
	}
}

func TestParseSymbolKindRejectsOutOfRange(t *testing.T) {
	for _, code := range []int{-1, 0, 27, 999} {
		kind, err := ParseSymbolKind(code)
		assert.ErrorIs(t, err, ErrUnknownSymbolKind, "code %d should be rejected", code)
		assert.Empty(t, kind)
	}
}

func TestSymbolKindMapCompleteness(t *testing.T) {
	assert.Len(t, symbolKindMap, 26)
	for code := 1; code <= 26; code++ {
		kind, err := ParseSymbolKind(code)
		require.NoError(t, err, "LSP kind %d should be mapped", code)
		assert.Equal(t, code, kind.Code())
	}
	assert.Equal(t, 0, SymbolKind("unknown").Code())
}
