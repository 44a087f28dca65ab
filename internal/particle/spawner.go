// Package particle implements the decorative particle field as a
// bounded-lifetime spawner: one particle per interval, each removed once
// its fixed TTL elapses, so the live population never exceeds
// ceil(TTL/interval).
package particle

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Particle colors.
const (
	PrimaryColor = "#39FF14"
	AccentColor  = "#552583"
)

// Animation ranges.
const (
	maxDelay     = 4 * time.Second
	minDuration  = 4 * time.Second
	durationSpan = 3 * time.Second
)

// Config controls spawning.
type Config struct {
	Interval    time.Duration
	TTL         time.Duration
	Width       float64 // horizontal extent particles are placed within
	AccentRatio float64 // probability of the accent color
}

// DefaultConfig spawns every 300ms with a 7s lifetime; one in five
// particles uses the accent color.
func DefaultConfig() Config {
	return Config{
		Interval:    300 * time.Millisecond,
		TTL:         7 * time.Second,
		Width:       1920,
		AccentRatio: 0.2,
	}
}

// Particle is one live visual element.
type Particle struct {
	ID       uint64        `json:"id"`
	Left     float64       `json:"left"`
	Delay    time.Duration `json:"delay"`
	Duration time.Duration `json:"duration"`
	Color    string        `json:"color"`
	Born     time.Time     `json:"born"`
	Expires  time.Time     `json:"expires"`
}

// Stats counts spawner activity since creation.
type Stats struct {
	Live    int    `json:"live"`
	Max     int    `json:"max"`
	Spawned uint64 `json:"spawned"`
	Expired uint64 `json:"expired"`
}

// Spawner is safe for concurrent use.
type Spawner struct {
	cfg Config

	mu      sync.Mutex
	rnd     *rand.Rand
	live    []Particle // birth order, so expiry trims from the front
	nextID  uint64
	spawned uint64
	expired uint64
}

// New creates a Spawner. The seed makes particle placement reproducible.
func New(cfg Config, seed int64) *Spawner {
	return &Spawner{
		cfg: cfg,
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// MaxPopulation is the bound on live particles under ticks no closer
// than the interval.
func (s *Spawner) MaxPopulation() int {
	if s.cfg.Interval <= 0 {
		return 0
	}
	n := s.cfg.TTL / s.cfg.Interval
	if s.cfg.TTL%s.cfg.Interval != 0 {
		n++
	}
	return int(n)
}

// Tick removes expired particles and spawns a new one born at now.
func (s *Spawner) Tick(now time.Time) Particle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	return s.spawnLocked(now)
}

// Expire removes every particle whose TTL has elapsed at now and returns
// how many were removed.
func (s *Spawner) Expire(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireLocked(now)
}

func (s *Spawner) expireLocked(now time.Time) int {
	n := 0
	for n < len(s.live) && !now.Before(s.live[n].Expires) {
		n++
	}
	if n > 0 {
		s.live = append(s.live[:0], s.live[n:]...)
		s.expired += uint64(n)
	}
	return n
}

func (s *Spawner) spawnLocked(now time.Time) Particle {
	s.nextID++
	p := Particle{
		ID:       s.nextID,
		Left:     s.rnd.Float64() * s.cfg.Width,
		Delay:    time.Duration(s.rnd.Float64() * float64(maxDelay)),
		Duration: minDuration + time.Duration(s.rnd.Float64()*float64(durationSpan)),
		Color:    PrimaryColor,
		Born:     now,
		Expires:  now.Add(s.cfg.TTL),
	}
	if s.rnd.Float64() < s.cfg.AccentRatio {
		p.Color = AccentColor
	}
	s.live = append(s.live, p)
	s.spawned++
	return p
}

// Live returns a copy of the live particles, oldest first.
func (s *Spawner) Live() []Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Particle, len(s.live))
	copy(out, s.live)
	return out
}

// Len returns the number of live particles.
func (s *Spawner) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Stats returns activity counters.
func (s *Spawner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Live:    len(s.live),
		Max:     s.MaxPopulation(),
		Spawned: s.spawned,
		Expired: s.expired,
	}
}

// Run ticks on the configured interval until ctx is done.
func (s *Spawner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}
