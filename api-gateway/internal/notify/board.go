// Package notify keeps the transient toast messages shown to users.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL is how long a toast stays visible
const DefaultTTL = 3 * time.Second

// Board holds the active toasts and dismisses each one when its TTL runs out
type Board struct {
	mu        sync.Mutex
	toasts    map[string]*entry
	seq       uint64
	listeners []func(models.Toast)
	closed    bool

	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

type entry struct {
	toast models.Toast
	seq   uint64
	timer *time.Timer
}

// NewBoard creates a toast board. A non-positive ttl uses DefaultTTL.
func NewBoard(ttl time.Duration, logger *zap.Logger) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{
		toasts: make(map[string]*entry),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// OnShow registers fn to be called with every new toast
func (b *Board) OnShow(fn func(models.Toast)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Success shows a success toast
func (b *Board) Success(message string) models.Toast {
	return b.Show(models.ToastSuccess, message)
}

// Error shows an error toast
func (b *Board) Error(message string) models.Toast {
	return b.Show(models.ToastError, message)
}

// Show adds a toast that is dismissed automatically after the board's TTL
func (b *Board) Show(kind, message string) models.Toast {
	now := b.now()
	t := models.Toast{
		ID:        uuid.New().String(),
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return t
	}
	b.seq++
	e := &entry{toast: t, seq: b.seq}
	e.timer = time.AfterFunc(b.ttl, func() { b.Dismiss(t.ID) })
	b.toasts[t.ID] = e
	listeners := slices.Clone(b.listeners)
	b.mu.Unlock()

	b.logger.Info("toast", zap.String("kind", kind), zap.String("message", message))
	for _, fn := range listeners {
		fn(t)
	}
	return t
}

// Dismiss removes a toast before it expires. It reports whether the toast was active.
func (b *Board) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.toasts[id]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(b.toasts, id)
	return true
}

// Active returns the toasts that have not been dismissed, oldest first
func (b *Board) Active() []models.Toast {
	b.mu.Lock()
	entries := make([]*entry, 0, len(b.toasts))
	for _, e := range b.toasts {
		entries = append(entries, e)
	}
	b.mu.Unlock()

	slices.SortFunc(entries, func(a, c *entry) int {
		switch {
		case a.seq < c.seq:
			return -1
		case a.seq > c.seq:
			return 1
		}
		return 0
	})

	out := make([]models.Toast, len(entries))
	for i, e := range entries {
		out[i] = e.toast
	}
	return out
}

// Close stops every pending dismissal timer and drops all toasts
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, e := range b.toasts {
		e.timer.Stop()
		delete(b.toasts, id)
	}
	b.closed = true
}
