package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// DefaultDealerDelay is the pause between dealer draws
const DefaultDealerDelay = time.Second

// Pacer calls a step function once per delay until it reports it is done.
// It is the scheduler behind the dealer's turn: each tick runs one
// AdvanceDealer so every card can be shown before the next is drawn.
type Pacer struct {
	clock quartz.Clock
	delay time.Duration

	mu       sync.Mutex
	timer    *quartz.Timer
	running  bool
	stepping bool
	gen      int // bumped per schedule; stale callbacks do not reschedule
	restart  func() bool // Start called while a step was in flight
}

// NewPacer creates a pacer. A non-positive delay uses DefaultDealerDelay.
func NewPacer(clock quartz.Clock, delay time.Duration) *Pacer {
	if delay <= 0 {
		delay = DefaultDealerDelay
	}
	return &Pacer{clock: clock, delay: delay}
}

// Delay returns the pause between steps
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Start schedules step to run after each delay while it returns true. A
// pacer with a step pending ignores Start. If a step is executing, the
// pacer keeps going after it even when that step reports done.
func (p *Pacer) Start(step func() bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		if p.stepping {
			p.restart = step
		}
		return
	}
	p.running = true
	p.schedule(step)
}

// Stop cancels any pending step
func (p *Pacer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.restart = nil
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Running reports whether a step is pending
func (p *Pacer) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// schedule must be called with p.mu held
func (p *Pacer) schedule(step func() bool) {
	p.gen++
	gen := p.gen
	p.timer = p.clock.AfterFunc(p.delay, func() {
		p.mu.Lock()
		p.stepping = true
		p.mu.Unlock()

		more := step()

		p.mu.Lock()
		defer p.mu.Unlock()
		p.stepping = false
		restart := p.restart
		p.restart = nil
		if !p.running || p.gen != gen {
			return
		}
		switch {
		case more:
			p.schedule(step)
		case restart != nil:
			p.schedule(restart)
		default:
			p.running = false
			p.timer = nil
		}
	}, "pacer", "step")
}
