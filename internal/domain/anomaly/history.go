package anomaly

import "github.com/okian/emochain/internal/domain/model"

const defaultHistorySize = 20

// History is a bounded FIFO of prior normalized snapshots for one subject.
// It is not safe for concurrent use; callers serialize access per subject.
type History struct {
	items []model.NormalizedSnapshot
	size  int
}

// NewHistory creates a history holding at most size snapshots.
func NewHistory(size int) *History {
	if size < 1 {
		size = defaultHistorySize
	}
	return &History{items: make([]model.NormalizedSnapshot, 0, size), size: size}
}

// Append records n, evicting the oldest entry when full.
func (h *History) Append(n model.NormalizedSnapshot) {
	if len(h.items) == h.size {
		copy(h.items, h.items[1:])
		h.items = h.items[:len(h.items)-1]
	}
	h.items = append(h.items, n)
}

// Snapshots returns a copy of the stored snapshots, oldest first.
func (h *History) Snapshots() []model.NormalizedSnapshot {
	out := make([]model.NormalizedSnapshot, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.items) }

// Cap returns the history capacity.
func (h *History) Cap() int { return h.size }
