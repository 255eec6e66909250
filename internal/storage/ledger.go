// Package storage provides the in-memory grocery ledger.
package storage

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Tolerance is the smallest quantity the ledger distinguishes from zero.
// Remaining amounts at or below it count as fully removed.
const Tolerance = 0.001

// ErrReadOnly is returned when a View transaction tries to mutate.
var ErrReadOnly = errors.New("read-only transaction")

// Compile-time interface checks.
var (
	_ domain.Inventory = (*Ledger)(nil)
	_ domain.Pantry    = (*Ledger)(nil)
)

// Ledger maps grocery names to their batches. Every name present has at
// least one batch. Safe for concurrent access.
type Ledger struct {
	mu      sync.RWMutex
	batches map[string][]*domain.Batch
	log     *logger.Logger
}

// NewLedger creates an empty ledger.
func NewLedger(log *logger.Logger) *Ledger {
	return &Ledger{
		batches: make(map[string][]*domain.Batch),
		log:     log,
	}
}

// Add stores a batch under its name. Expired batches are accepted.
func (l *Ledger) Add(b *domain.Batch) error {
	if b == nil {
		return fmt.Errorf("%w: batch is nil", domain.ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.batches[b.Name()] = append(l.batches[b.Name()], b)
	l.log.Debug("added %s (batch=%s)", b, b.ID())
	return nil
}

// TotalQuantity sums every batch stored under name. Unknown names have a
// total of zero.
func (l *Ledger) TotalQuantity(name string) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalQuantity(name)
}

// RemoveQuantity takes amount away from name, consuming the batch with the
// earliest expiry first. Batches that run out are dropped, and so is the
// name once its last batch is gone.
func (l *Ledger) RemoveQuantity(name string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeQuantity(name, amount)
}

// View runs fn with read access to the ledger. The ledger cannot change
// while fn runs.
func (l *Ledger) View(fn func(inv domain.Inventory) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(&txn{l: l, readOnly: true})
}

// Update runs fn with exclusive access. Checks made inside fn stay true
// for the rest of fn.
func (l *Ledger) Update(fn func(inv domain.Inventory) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(&txn{l: l})
}

// ExpiredBefore lists every batch expiring on a day strictly before date,
// ordered by name then expiry. The ledger is not modified.
func (l *Ledger) ExpiredBefore(date time.Time) []*domain.Batch {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*domain.Batch
	for _, name := range l.names() {
		for _, b := range l.sorted(name) {
			if b.ExpiredBefore(date) {
				out = append(out, b)
			}
		}
	}
	return out
}

// PurgeExpired removes every batch expiring before now's day and returns
// what was removed.
func (l *Ledger) PurgeExpired(now time.Time) []*domain.Batch {
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed []*domain.Batch
	for _, name := range l.names() {
		var kept []*domain.Batch
		for _, b := range l.sorted(name) {
			if b.ExpiredBefore(now) {
				removed = append(removed, b)
				continue
			}
			kept = append(kept, b)
		}
		l.store(name, kept)
	}

	l.log.Info("purged %d expired batches", len(removed))
	return removed
}

// ExpiredValue is the summed total price of every batch expiring before
// date.
func (l *Ledger) ExpiredValue(date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.ExpiredBefore(date) {
		total = total.Add(b.TotalPrice())
	}
	return total
}

// ExpiringWithin counts batches that are still good at now but expire
// before now+window.
func (l *Ledger) ExpiringWithin(now time.Time, window time.Duration) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	limit := now.Add(window)
	n := 0
	for _, bucket := range l.batches {
		for _, b := range bucket {
			if !b.ExpiredBefore(now) && b.ExpiredBefore(limit) {
				n++
			}
		}
	}
	return n
}

// Names returns every stored grocery name, sorted.
func (l *Ledger) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.names()
}

// Describe renders every batch stored under name, earliest expiry first.
func (l *Ledger) Describe(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: grocery name is empty", domain.ErrInvalidArgument)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.batches[name]; !ok {
		return "", fmt.Errorf("%w: %w: no grocery named %q", domain.ErrInvalidArgument, domain.ErrNotFound, name)
	}

	var b strings.Builder
	for _, batch := range l.sorted(name) {
		b.WriteString(batch.String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ListAll renders every grocery name followed by its batches.
func (l *Ledger) ListAll() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.batches) == 0 {
		return "No groceries found\n"
	}

	var b strings.Builder
	for _, name := range l.names() {
		b.WriteString(name)
		b.WriteString(":\n")
		for _, batch := range l.sorted(name) {
			b.WriteString("  ")
			b.WriteString(batch.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ── Unlocked helpers; callers hold l.mu ─────────────────────────

func (l *Ledger) totalQuantity(name string) (float64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: grocery name is empty", domain.ErrInvalidArgument)
	}
	var total float64
	for _, b := range l.batches[name] {
		total += b.Quantity()
	}
	return total, nil
}

func (l *Ledger) removeQuantity(name string, amount float64) error {
	total, err := l.totalQuantity(name)
	if err != nil {
		return err
	}
	if _, ok := l.batches[name]; !ok {
		return fmt.Errorf("%w: %w: no grocery named %q", domain.ErrInvalidArgument, domain.ErrNotFound, name)
	}
	if amount < 0 || math.IsNaN(amount) {
		return fmt.Errorf("%w: cannot remove %g of %s", domain.ErrInvalidArgument, amount, name)
	}
	if amount > total+Tolerance {
		return fmt.Errorf("%w: cannot remove %g of %s, only %g available", domain.ErrInvalidArgument, amount, name, total)
	}

	remaining := amount
	bucket := l.sorted(name)
	for remaining > Tolerance && len(bucket) > 0 {
		first := bucket[0]
		if first.Quantity() > remaining {
			// Cannot fail: the result is positive.
			_ = first.SetQuantity(first.Quantity() - remaining)
			remaining = 0
			if first.Quantity() <= Tolerance {
				bucket = bucket[1:]
			}
			break
		}
		remaining -= first.Quantity()
		bucket = bucket[1:]
	}
	l.store(name, bucket)

	l.log.Debug("removed %g of %s, %d batches left", amount, name, len(bucket))
	return nil
}

// sorted returns a copy of name's bucket ordered by expiry. The stored
// slice keeps its order.
func (l *Ledger) sorted(name string) []*domain.Batch {
	bucket := append([]*domain.Batch(nil), l.batches[name]...)
	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].Expiry().Before(bucket[j].Expiry())
	})
	return bucket
}

// store replaces name's bucket, dropping the name when nothing is left.
func (l *Ledger) store(name string, bucket []*domain.Batch) {
	if len(bucket) == 0 {
		delete(l.batches, name)
		return
	}
	l.batches[name] = bucket
}

func (l *Ledger) names() []string {
	out := make([]string, 0, len(l.batches))
	for name := range l.batches {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// txn is the Inventory handed to View and Update callbacks. It calls the
// unlocked helpers because the lock is already held.
type txn struct {
	l        *Ledger
	readOnly bool
}

func (t *txn) TotalQuantity(name string) (float64, error) {
	return t.l.totalQuantity(name)
}

func (t *txn) RemoveQuantity(name string, amount float64) error {
	if t.readOnly {
		return ErrReadOnly
	}
	return t.l.removeQuantity(name, amount)
}
