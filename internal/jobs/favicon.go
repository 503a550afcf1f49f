package jobs

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Phase is the enforcement state for the currently desired icon.
type Phase string

const (
	// PhaseIdle means no icon is configured; the enforcer does nothing.
	PhaseIdle Phase = "idle"
	// PhaseAsserting means the icon recently changed and is being re-applied
	// on a short interval to win over late overwrites.
	PhaseAsserting Phase = "asserting"
	// PhaseSettled means the assertion window has passed.
	PhaseSettled Phase = "settled"
)

// IconSink receives icon assertions.
type IconSink interface {
	SetIcon(url string) error
}

// FaviconEnforcer re-applies the configured site icon for a bounded window
// after every change. Third-party embeds can swap the icon out after load;
// repeating the assertion for a while wins without polling forever.
type FaviconEnforcer struct {
	sink       IconSink
	interval   time.Duration
	maxAsserts int
	done       chan struct{}

	mu        sync.Mutex
	desired   string
	phase     Phase
	remaining int
}

func NewFaviconEnforcer(sink IconSink, interval time.Duration, maxAsserts int) *FaviconEnforcer {
	return &FaviconEnforcer{
		sink:       sink,
		interval:   interval,
		maxAsserts: maxAsserts,
		done:       make(chan struct{}),
		phase:      PhaseIdle,
	}
}

func (e *FaviconEnforcer) Start() {
	go e.run()
	log.Info().Dur("interval", e.interval).Msg("favicon enforcer started")
}

func (e *FaviconEnforcer) Stop() {
	close(e.done)
	log.Info().Msg("favicon enforcer stopped")
}

// SetDesired records the icon that should win. An empty URL parks the
// enforcer in idle; an unchanged URL is a no-op; a new URL asserts
// immediately and re-arms the assertion window.
func (e *FaviconEnforcer) SetDesired(url string) {
	e.mu.Lock()
	if url == e.desired {
		e.mu.Unlock()
		return
	}
	e.desired = url
	if url == "" {
		e.phase = PhaseIdle
		e.remaining = 0
		e.mu.Unlock()
		return
	}
	e.phase = PhaseAsserting
	e.remaining = e.maxAsserts
	e.mu.Unlock()

	e.assert()
}

// Phase reports the current enforcement state.
func (e *FaviconEnforcer) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *FaviconEnforcer) run() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *FaviconEnforcer) tick() {
	e.mu.Lock()
	if e.phase != PhaseAsserting {
		e.mu.Unlock()
		return
	}
	e.remaining--
	if e.remaining <= 0 {
		e.phase = PhaseSettled
	}
	e.mu.Unlock()

	e.assert()
}

func (e *FaviconEnforcer) assert() {
	e.mu.Lock()
	url := e.desired
	e.mu.Unlock()
	if url == "" {
		return
	}
	if err := e.sink.SetIcon(url); err != nil {
		log.Error().Err(err).Msg("failed to assert site icon")
	}
}
