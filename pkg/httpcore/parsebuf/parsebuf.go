// Package parsebuf implements the append-only, two-cursor byte buffer that
// backs the request parser's speculative, resumable tokenization.
package parsebuf

// Buffer holds a growable byte sequence plus two cursors, head and
// rollback, with the invariant 0 <= rollback <= head <= len(data) held
// after every operation.
//
// The parser advances head speculatively while scanning a token; on success
// it calls Commit to move rollback up to head, and on exhaustion it calls
// Rollback to cheaply retry from the last committed point once more bytes
// arrive.
type Buffer struct {
	data     []byte
	head     int
	rollback int
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Assign replaces the buffer's contents and resets both cursors to 0.
func (b *Buffer) Assign(p []byte) {
	b.data = append(b.data[:0], p...)
	b.head = 0
	b.rollback = 0
}

// Append adds bytes to the end of the buffer without touching the cursors.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// Current returns the byte at head without advancing it. Panics if head is
// at or past len(data); callers must check Next's ok result first.
func (b *Buffer) Current() byte {
	return b.data[b.head]
}

// Next returns the byte at head and advances head by one. The second return
// value is false, and head is left unchanged, when head is already at the
// end of the buffer.
func (b *Buffer) Next() (byte, bool) {
	if b.head >= len(b.data) {
		return 0, false
	}
	c := b.data[b.head]
	b.head++
	return c, true
}

// Rollback resets head to the last committed position, discarding any
// speculative advance made since — the "need more bytes" path.
func (b *Buffer) Rollback() {
	b.head = b.rollback
}

// Commit moves rollback up to head, marking everything consumed so far as a
// durable token boundary.
func (b *Buffer) Commit() {
	b.rollback = b.head
}

// Set moves head to an absolute position. Returns false, leaving head
// unchanged, if pos is out of [0, len(data)].
func (b *Buffer) Set(pos int) bool {
	if pos < 0 || pos > len(b.data) {
		return false
	}
	b.head = pos
	return true
}

// Increment moves head by a relative delta. Returns false, leaving head
// unchanged, if the result would fall outside [0, len(data)].
func (b *Buffer) Increment(delta int) bool {
	return b.Set(b.head + delta)
}

// SizeBeforeCursor returns the number of bytes before head, i.e. the
// bytes consumed so far. The connection's header-block size cap is
// measured against Len instead, since head can roll back.
func (b *Buffer) SizeBeforeCursor() int {
	return b.head
}

// SizeAfterCursor returns the number of unconsumed bytes after head.
func (b *Buffer) SizeAfterCursor() int {
	return len(b.data) - b.head
}

// BytesAfterCursor returns the unconsumed tail of the buffer starting at
// head. The returned slice aliases internal storage and is only valid until
// the next Assign or Append.
func (b *Buffer) BytesAfterCursor() []byte {
	return b.data[b.head:]
}

// Head returns the current head cursor, exposed for callers (the request
// parser) that need to slice committed tokens out of the raw buffer.
func (b *Buffer) Head() int {
	return b.head
}

// Rewind discards the bytes before rollback and re-bases both cursors to 0.
// Used by the connection state machine once a full request line or header
// block has been committed and consumed, so the buffer does not grow
// unbounded across a keep-alive connection's lifetime.
func (b *Buffer) Rewind() {
	if b.rollback == 0 {
		return
	}
	b.data = append(b.data[:0], b.data[b.rollback:]...)
	b.head -= b.rollback
	b.rollback = 0
}

// Len returns the total number of bytes currently stored, before or after
// the cursor.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Slice returns data[from:to], aliasing internal storage.
func (b *Buffer) Slice(from, to int) []byte {
	return b.data[from:to]
}
