package client

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a search value is derived.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer echoes every keystroke immediately and derives the search value
// once input has been quiet for the delay. Clearing the input derives the
// empty value at once.
type Debouncer struct {
	delay time.Duration
	fire  func(string)

	// delivering serializes calls to fire so a stale value cannot land
	// after a newer one.
	delivering sync.Mutex

	mu    sync.Mutex
	value string
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a Debouncer that calls fire with each derived value.
// Calls to fire never overlap and fire must not call back into the
// Debouncer. A non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration, fire func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fire: fire}
}

// Input records a keystroke.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	d.value = value
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if value == "" {
		d.mu.Unlock()
		d.deliver(gen)
		return
	}
	d.timer = time.AfterFunc(d.delay, func() { d.deliver(gen) })
	d.mu.Unlock()
}

// deliver fires the current value if no newer input or Stop came after gen.
func (d *Debouncer) deliver(gen uint64) {
	d.delivering.Lock()
	defer d.delivering.Unlock()

	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v := d.value
	d.mu.Unlock()
	d.fire(v)
}

// Value returns the echoed input.
func (d *Debouncer) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Stop drops any pending derivation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
