package sse

import (
	"bytes"
	"sync"
)

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// GetBuffer returns a reset buffer from the pool for building one encoded
// message. Callers must ReleaseBuffer it when done.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// ReleaseBuffer returns buf to the pool. Buffers that have grown unusually
// large are dropped instead of pooled, so one outsized evidence payload
// doesn't pin a multi-megabyte buffer in the pool forever.
func ReleaseBuffer(buf *bytes.Buffer) {
	const maxPooled = 64 * 1024
	if buf.Cap() > maxPooled {
		return
	}
	bufferPool.Put(buf)
}

var messagePool = sync.Pool{
	New: func() any { return new(Message) },
}

// GetMessage returns a zeroed Message from the pool.
func GetMessage() *Message {
	msg := messagePool.Get().(*Message)
	msg.Event = ""
	msg.Data = nil
	return msg
}

// ReleaseMessage returns msg to the pool.
func ReleaseMessage(msg *Message) {
	messagePool.Put(msg)
}
