package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHistory_Total(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"null", `null`, nil},
		{"number", `42`, nil},
		{"string", `"x"`, nil},
		{"empty object", `{}`, nil},
		{"empty sequence", `[]`, nil},
		{"bare sequence", `[1,2,3]`, []string{`1`, `2`, `3`}},
		{"wrapped sequence", `{"history":[1,2]}`, []string{`1`, `2`}},
		{"history not a sequence", `{"history":"nope"}`, nil},
		{"other field", `{"other":[1]}`, nil},
		{"malformed", `{"history":`, nil},
		{"empty input", ``, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeHistory(json.RawMessage(tc.raw))
			require.NotNil(t, got, "normalizer must never return a nil sequence")
			require.Len(t, got, len(tc.want))
			for i, want := range tc.want {
				assert.JSONEq(t, want, string(got[i]))
			}
		})
	}
}

func TestDecodeHistory_TypedEntries(t *testing.T) {
	raw := json.RawMessage(`{"history":[{"date":"2024-01-01","mode":"reading"}]}`)
	entries := DecodeHistory(raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-01", entries[0].Date)
	assert.Equal(t, "reading", string(entries[0].Mode))
}

func TestDecodeHistory_KeepsPositionsForMalformedEntries(t *testing.T) {
	raw := json.RawMessage(`[{"mode":"listening"},42]`)
	entries := DecodeHistory(raw)
	require.Len(t, entries, 2)
	assert.Equal(t, "listening", string(entries[0].Mode))
	assert.Zero(t, entries[1])
}

func TestDecodeHistory_EmptyObjectYieldsEmpty(t *testing.T) {
	assert.Empty(t, DecodeHistory(json.RawMessage(`{}`)))
}
