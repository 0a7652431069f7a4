// Package ratelimit implementa el throttle global de peticiones salientes.
package ratelimit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMinDelay es el espaciado mínimo entre inicios de peticiones.
const DefaultMinDelay = time.Second

// Limiter enforces a minimum delay between the starts of successive calls,
// shared across every session in the process. It is a fixed-interval
// throttle, not a token bucket: it guarantees spacing, not fairness.
//
// El check-and-reserve es atómico: cada caller reserva su slot bajo el lock
// y duerme fuera de él, así dos llamadas concurrentes nunca pueden observar
// el mismo timestamp y sub-throttlear.
type Limiter struct {
	minDelay time.Duration
	slots    chan struct{} // capacidad 1, serializa la reserva
	nextSlot time.Time
}

// New creates a limiter with the given minimum delay between calls.
// A non-positive delay falls back to DefaultMinDelay.
func New(minDelay time.Duration) *Limiter {
	if minDelay <= 0 {
		minDelay = DefaultMinDelay
	}
	l := &Limiter{
		minDelay: minDelay,
		slots:    make(chan struct{}, 1),
	}
	l.slots <- struct{}{}
	return l
}

// Wait blocks until the caller's reserved slot arrives or ctx is cancelled.
// Two sequential Wait calls always complete at least minDelay apart.
func (l *Limiter) Wait(ctx context.Context) error {
	select {
	case <-l.slots:
	case <-ctx.Done():
		return ctx.Err()
	}

	now := time.Now()
	wait := l.nextSlot.Sub(now)
	if wait < 0 {
		wait = 0
	}
	// Reservar el siguiente slot antes de dormir: la reserva es el paso atómico.
	l.nextSlot = now.Add(wait).Add(l.minDelay)
	l.slots <- struct{}{}

	if wait == 0 {
		return nil
	}

	logrus.WithField("wait", wait.String()).Debug("[LIMITER] throttling outbound request")

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
