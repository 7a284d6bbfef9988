package sim

// Odometer totals the ground actually covered. It only advances during
// normal play, so a death rewind neither refunds nor double-counts.
type Odometer struct {
	total float64
	best  float64
}

// Add records a scroll delta in pixels.
func (o *Odometer) Add(delta float64) {
	if delta <= 0 {
		return
	}
	o.total += delta
	if o.total > o.best {
		o.best = o.total
	}
}

// Distance returns the distance covered this run, in pixels.
func (o *Odometer) Distance() float64 { return o.total }

// Best returns the highest distance reached.
func (o *Odometer) Best() float64 { return o.best }

// Reset zeroes the run counter but keeps the best mark.
func (o *Odometer) Reset() { o.total = 0 }
