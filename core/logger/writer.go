package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter fans log lines out to every sink from a single goroutine.
type asyncWriter struct {
	queue   chan []byte
	flushes chan chan error
	done    chan struct{}
	once    sync.Once

	mu    sync.Mutex
	sinks []*bufio.Writer
	err   error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		queue:   make(chan []byte, 256),
		flushes: make(chan chan error),
		done:    make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.loop()
	return w
}

func (w *asyncWriter) loop() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				_ = w.flushAll()
				return
			}
			w.writeAll(line)
		case ack := <-w.flushes:
			ack <- w.flushAll()
		}
	}
}

// Write copies p and queues it. It blocks when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.lastErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.queue <- append([]byte(nil), p...)
	return nil
}

// Flush waits until everything queued so far reached the sinks.
func (w *asyncWriter) Flush() error {
	select {
	case <-w.done:
		return w.lastErr()
	default:
	}
	ack := make(chan error, 1)
	w.flushes <- ack
	return errors.Join(<-ack, w.lastErr())
}

// Close drains the queue and stops the loop.
func (w *asyncWriter) Close() error {
	w.once.Do(func() { close(w.queue) })
	<-w.done
	return w.lastErr()
}

func (w *asyncWriter) writeAll(p []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sinks {
		if _, err := s.Write(p); err != nil {
			w.keepErr(err)
			return
		}
		if err := s.Flush(); err != nil {
			w.keepErr(err)
			return
		}
	}
}

func (w *asyncWriter) flushAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, s := range w.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

// keepErr records the first write error. Callers hold mu.
func (w *asyncWriter) keepErr(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *asyncWriter) lastErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
