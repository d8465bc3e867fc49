package dedup

import "sync"

// Keyed is implemented by records that carry an identity within an investigation.
type Keyed interface {
	DedupKey() string
}

type entry[T Keyed] struct {
	seq    int64
	record T
}

// Deduplicator collapses records sharing a key into one.
//
// Policy: the record with the highest capture sequence wins as a whole, and on equal
// sequences the later call wins. Output keeps the order in which each key was first
// added, no matter how often or in which order it was overwritten afterwards.
type Deduplicator[T Keyed] struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*entry[T]
	nextSeq int64
}

func New[T Keyed]() *Deduplicator[T] {
	return &Deduplicator[T]{
		entries: make(map[string]*entry[T]),
	}
}

// Add records rec as captured at seq. It reports whether rec is now the stored record
// for its key.
func (d *Deduplicator[T]) Add(seq int64, rec T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addLocked(seq, rec)
}

func (d *Deduplicator[T]) addLocked(seq int64, rec T) bool {
	key := rec.DedupKey()
	if seq >= d.nextSeq {
		d.nextSeq = seq + 1
	}

	existing, ok := d.entries[key]
	if !ok {
		d.entries[key] = &entry[T]{seq: seq, record: rec}
		d.order = append(d.order, key)
		return true
	}
	if seq < existing.seq {
		return false
	}
	existing.seq = seq
	existing.record = rec
	return true
}

// Push adds rec with the next sequence number, so later pushes win.
func (d *Deduplicator[T]) Push(rec T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addLocked(d.nextSeq, rec)
}

// PushAll pushes every record in order.
func (d *Deduplicator[T]) PushAll(recs []T) {
	for _, rec := range recs {
		d.Push(rec)
	}
}

func (d *Deduplicator[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

// Items returns the surviving records in first-seen order.
func (d *Deduplicator[T]) Items() []T {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]T, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.entries[key].record)
	}
	return out
}

// Collapse deduplicates recs in arrival order.
func Collapse[T Keyed](recs []T) []T {
	d := New[T]()
	d.PushAll(recs)
	return d.Items()
}
