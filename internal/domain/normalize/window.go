package normalize

// HRWindow is a bounded FIFO of recent heart-rate values used for smoothing.
// It is not safe for concurrent use on its own; Normalizer guards it.
type HRWindow struct {
	values []float64
	size   int
}

// NewHRWindow creates an empty window holding at most size values.
func NewHRWindow(size int) *HRWindow {
	if size < 1 {
		size = defaultWindowSize
	}
	return &HRWindow{
		values: make([]float64, 0, size),
		size:   size,
	}
}

// Push appends v, evicting the oldest value when over capacity, and returns
// the mean of the current contents.
func (w *HRWindow) Push(v float64) float64 {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values = w.values[:len(w.values)-1]
	}
	w.values = append(w.values, v)
	return w.Mean()
}

// Mean returns the arithmetic mean of the window, or 0 when empty.
func (w *HRWindow) Mean() float64 {
	if len(w.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range w.values {
		sum += v
	}
	return sum / float64(len(w.values))
}

// Len returns the number of values held.
func (w *HRWindow) Len() int { return len(w.values) }

// Cap returns the window capacity.
func (w *HRWindow) Cap() int { return w.size }

// Values returns a copy of the window contents, oldest first.
func (w *HRWindow) Values() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}
