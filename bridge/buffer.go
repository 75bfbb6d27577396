package bridge

import "context"

// DefaultBufferSize matches the transmission buffer of the original tool.
const DefaultBufferSize = 16 * 1024

type ExactWriter interface {
	WriteExact(ctx context.Context, p []byte) error
	Flush() error
}

// Buffer coalesces small command writes into large transport writes.
// Bytes are forwarded in append order; the pending length never exceeds Cap.
type Buffer struct {
	w       ExactWriter
	pending []byte
}

func NewBuffer(w ExactWriter, capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{
		w:       w,
		pending: make([]byte, 0, capacity),
	}
}

func (b *Buffer) Len() int { return len(b.pending) }
func (b *Buffer) Cap() int { return cap(b.pending) }

// Append queues p, draining the buffer first if p would not fit.
func (b *Buffer) Append(ctx context.Context, p []byte) error {
	if len(p) > cap(b.pending) {
		return ErrChunkTooLarge
	}
	if len(b.pending)+len(p) > cap(b.pending) {
		if err := b.drain(ctx); err != nil {
			return err
		}
	}
	b.pending = append(b.pending, p...)
	return nil
}

// Flush drains the buffer when force is set or when it is full.
// A forced flush also flushes the transport.
func (b *Buffer) Flush(ctx context.Context, force bool) error {
	if !force && len(b.pending) < cap(b.pending) {
		return nil
	}
	if err := b.drain(ctx); err != nil {
		return err
	}
	if force {
		return b.w.Flush()
	}
	return nil
}

func (b *Buffer) drain(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}
	if err := b.w.WriteExact(ctx, b.pending); err != nil {
		return err
	}
	b.pending = b.pending[:0]
	return nil
}
