// Package sse implements the Server-Sent Events wire format used by the
// shortlisting pipeline to stream stage progress (spec.md §4.7, §6) to a
// single HTTP client per request.
//
// Adapted from Tangerg-lynx/sse, trimmed to the server-emit half of that
// package (Encoder + Writer); the client-side Decoder/Reader is dropped
// since the pipeline only ever produces events, never consumes them.
package sse

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrMessageNoContent        = errors.New("sse: message has no content")
	ErrMessageInvalidEventName = errors.New("sse: invalid event name")
)

var lineBreakReplacer = strings.NewReplacer("\n", "\\n", "\r", "\\r")

var (
	byteLF   = []byte("\n")
	byteLFLF = []byte("\n\n")
	byteCR   = []byte("\r")
)

const (
	fieldDelim = ": "
)

// Message is a single Server-Sent Event: an event name and its JSON-encoded
// payload. ID and Retry are omitted — the pipeline's stream is not resumable,
// since a RunState (spec.md §3) is discarded after the response is sent.
type Message struct {
	Event string
	Data  []byte
}

func isValidEventName(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	runes := []rune(name)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes {
		if unicode.IsSpace(r) {
			return false
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			continue
		}
		return false
	}
	return true
}

// Encoder converts Message values into the SSE wire format. It holds no
// state and is safe for concurrent use.
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

// Encode validates and serializes msg, terminating it with the blank line
// that marks an SSE message boundary.
func (e *Encoder) Encode(msg *Message) ([]byte, error) {
	if !isValidEventName(msg.Event) {
		return nil, fmt.Errorf("%w: %q", ErrMessageInvalidEventName, msg.Event)
	}
	if len(msg.Data) == 0 {
		return nil, ErrMessageNoContent
	}

	buf := GetBuffer()
	defer ReleaseBuffer(buf)

	buf.WriteString("event" + fieldDelim)
	buf.WriteString(lineBreakReplacer.Replace(msg.Event))
	buf.Write(byteLF)

	processed := bytes.ReplaceAll(msg.Data, byteCR, []byte("\\r"))
	for _, line := range bytes.Split(processed, byteLF) {
		buf.WriteString("data" + fieldDelim)
		buf.Write(line)
		buf.Write(byteLF)
	}
	buf.Write(byteLF)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}
