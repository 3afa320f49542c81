package sse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrWriterClosed = errors.New("sse: writer closed")

// WriterConfig configures a Writer.
type WriterConfig struct {
	ResponseWriter http.ResponseWriter

	// QueueSize bounds how many encoded messages may be buffered between the
	// producer (a pipeline stage) and the flush loop before Send blocks.
	// Zero selects a small default so a slow client applies backpressure to
	// the pipeline rather than letting it run unbounded ahead.
	QueueSize int

	// HeartbeatInterval, if non-zero, emits a comment line on that cadence so
	// intermediary proxies don't time out an idle connection during a long
	// retrieval or rerank call.
	HeartbeatInterval time.Duration
}

// Writer streams SSE messages to a single HTTP client, serializing all
// writes onto one goroutine so concurrent pipeline stages can call Send
// without racing on the underlying http.ResponseWriter.
type Writer struct {
	rw      http.ResponseWriter
	flusher http.Flusher
	enc     *Encoder

	queue  chan *Message
	done   chan struct{}
	closed chan struct{}

	heartbeat time.Duration

	writeErr error
}

// NewWriter prepares response headers for an SSE stream and starts the
// writer's flush loop. The caller must call Close when the request's
// pipeline run has finished.
func NewWriter(ctx context.Context, cfg WriterConfig) (*Writer, error) {
	flusher, ok := cfg.ResponseWriter.(http.Flusher)
	if !ok {
		return nil, errors.New("sse: response writer does not support flushing")
	}

	header := cfg.ResponseWriter.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	cfg.ResponseWriter.WriteHeader(http.StatusOK)
	flusher.Flush()

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 16
	}

	w := &Writer{
		rw:        cfg.ResponseWriter,
		flusher:   flusher,
		enc:       NewEncoder(),
		queue:     make(chan *Message, queueSize),
		done:      make(chan struct{}),
		closed:    make(chan struct{}),
		heartbeat: cfg.HeartbeatInterval,
	}
	go w.run(ctx)
	return w, nil
}

func (w *Writer) run(ctx context.Context) {
	defer close(w.closed)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if w.heartbeat > 0 {
		ticker = time.NewTicker(w.heartbeat)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case msg, ok := <-w.queue:
			if !ok {
				return
			}
			w.flush(msg)
			ReleaseMessage(msg)
		case <-tickC:
			fmt.Fprint(w.rw, ": heartbeat\n\n")
			w.flusher.Flush()
		case <-ctx.Done():
			return
		case <-w.done:
			// Drain whatever is already queued before exiting so a final
			// "done" event sent right before Close is not dropped.
			for {
				select {
				case msg, ok := <-w.queue:
					if !ok {
						return
					}
					w.flush(msg)
					ReleaseMessage(msg)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) flush(msg *Message) {
	encoded, err := w.enc.Encode(msg)
	if err != nil {
		if w.writeErr == nil {
			w.writeErr = err
		}
		return
	}
	if _, err := w.rw.Write(encoded); err != nil {
		if w.writeErr == nil {
			w.writeErr = err
		}
		return
	}
	w.flusher.Flush()
}

// Send encodes and enqueues an event with a JSON payload. It blocks if the
// internal queue is full, applying backpressure to the caller.
func (w *Writer) Send(event string, data []byte) error {
	select {
	case <-w.closed:
		return ErrWriterClosed
	default:
	}

	msg := GetMessage()
	msg.Event = event
	msg.Data = data

	select {
	case w.queue <- msg:
		return nil
	case <-w.closed:
		ReleaseMessage(msg)
		return ErrWriterClosed
	}
}

// Close signals the flush loop to drain and stop, then waits for it to
// finish. It is safe to call Close more than once.
func (w *Writer) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	<-w.closed
	return w.writeErr
}
