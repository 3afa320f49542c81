package sse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValidMessage(t *testing.T) {
	enc := NewEncoder()
	out, err := enc.Encode(&Message{Event: "result", Data: []byte(`{"ok":true}`)})
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "event: result\n"), "missing event line: %q", s)
	assert.Contains(t, s, "data: {\"ok\":true}\n")
	assert.True(t, strings.HasSuffix(s, "\n\n"), "message must end with blank line: %q", s)
}

func TestEncodeRejectsEmptyData(t *testing.T) {
	enc := NewEncoder()
	_, err := enc.Encode(&Message{Event: "done", Data: nil})
	assert.Equal(t, ErrMessageNoContent, err)
}

func TestEncodeRejectsInvalidEventName(t *testing.T) {
	cases := []string{"", "has space", ".leading", "trailing.", "double..dot", "1starts-with-digit"}
	enc := NewEncoder()
	for _, name := range cases {
		_, err := enc.Encode(&Message{Event: name, Data: []byte("x")})
		assert.Error(t, err, "Encode(%q) expected error", name)
	}
}

func TestEncodeMultilineData(t *testing.T) {
	enc := NewEncoder()
	out, err := enc.Encode(&Message{Event: "agent_thought", Data: []byte("line1\nline2")})
	require.NoError(t, err)
	s := string(out)
	assert.Equal(t, 2, strings.Count(s, "data: "))
}
