package delta

// Buffer accumulates batches of ops that apply one after another (each batch picks up where the previous one stopped) and composes them into a single normalized delta.
// The zero value is ready to use.
type Buffer struct {
	batches []Delta
}

// Push appends a batch. The batch is copied.
func (b *Buffer) Push(batch Delta) {
	b.batches = append(b.batches, batch.Clone())
}

// Compose returns the concatenation of all batches, with adjacent compatible ops merged and zero-length ops dropped. A trailing retain is kept.
func (b *Buffer) Compose() Delta {
	out := Delta{}
	for _, batch := range b.batches {
		for _, op := range batch {
			out.Push(op)
		}
	}
	return out
}
