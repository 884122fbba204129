package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter replica el algoritmo fixed-window del RedisLimiter sin
// dependencia externa. Pensado para el driver memory y para tests; no
// comparte estado entre procesos.
type MemoryLimiter struct {
	mu        sync.Mutex
	hits      map[string]*window
	lastSweep time.Time
	Max       int64
	Window    time.Duration
}

type window struct {
	start time.Time
	count int64
}

func NewMemoryLimiter(max int, win time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string]*window),
		Max:    int64(max),
		Window: win,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// barrido de ventanas vencidas, como mucho una vez por ventana; sin
	// esto el mapa crece sin tope con claves IP|ruta distintas
	if now.Sub(l.lastSweep) >= l.Window {
		for k, w := range l.hits {
			if w.start.Before(winStart) {
				delete(l.hits, k)
			}
		}
		l.lastSweep = now
	}

	w := l.hits[key]
	if w == nil || w.start.Before(winStart) {
		w = &window{start: winStart}
		l.hits[key] = w
	}
	w.count++

	remaining := l.Max - w.count
	if remaining < 0 {
		remaining = 0
	}
	ttl := winStart.Add(l.Window).Sub(now)
	res := Result{
		Allowed:     w.count <= l.Max,
		Remaining:   remaining,
		CurrentHits: w.count,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res, nil
}
