package order

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotItem is a line item frozen at submission time. UnitPrice is
// recorded from the catalog so later menu changes cannot alter a
// submitted order.
type SnapshotItem struct {
	Item      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Entry is a finalized, submitted order awaiting or having received
// admin confirmation.
type Entry struct {
	UserID      int64
	Items       []SnapshotItem
	Address     string
	Total       decimal.Decimal
	Receipt     ReceiptRef
	SubmittedAt time.Time
	ConfirmedAt *time.Time
}

// Confirmed reports whether the entry has been confirmed by the admin.
func (e Entry) Confirmed() bool {
	return e.ConfirmedAt != nil
}

// Ledger is the process-wide table of submitted orders keyed by user id.
// It is the only structure shared between the per-user conversation flow
// and the admin confirmation command; all access is serialized by a single
// mutex, which is sufficient for the expected load. Entries live in memory
// only and are lost on restart.
type Ledger struct {
	mu      sync.Mutex
	entries map[int64]*Entry
	now     func() time.Time
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[int64]*Entry),
		now:     time.Now,
	}
}

// Submit freezes a completed draft into a ledger entry, recording unit
// prices from the catalog at this moment. A previous entry for the same
// user is overwritten; replaced reports whether an unconfirmed entry was
// lost that way, so callers can surface it.
func (l *Ledger) Submit(d *Draft, prices PriceSource) (Entry, bool, error) {
	if d == nil || len(d.Items) == 0 {
		return Entry{}, false, ErrEmptyDraft
	}

	items := make([]SnapshotItem, 0, len(d.Items))
	total := decimal.Zero
	for _, li := range d.Items {
		unit, ok := prices.Price(li.Item)
		if !ok {
			return Entry{}, false, ErrUnknownItem
		}
		items = append(items, SnapshotItem{Item: li.Item, Quantity: li.Quantity, UnitPrice: unit})
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev, existed := l.entries[d.UserID]
	replaced := existed && prev.ConfirmedAt == nil

	entry := &Entry{
		UserID:      d.UserID,
		Items:       items,
		Address:     d.Address,
		Total:       total,
		Receipt:     d.Receipt,
		SubmittedAt: l.now(),
	}
	l.entries[d.UserID] = entry
	return copyEntry(entry), replaced, nil
}

// Confirm stamps the entry for userID with a confirmation timestamp and
// returns the frozen snapshot. Repeat confirmation re-stamps the entry.
func (l *Ledger) Confirm(userID int64) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[userID]
	if !ok {
		return Entry{}, false
	}
	ts := l.now()
	entry.ConfirmedAt = &ts
	return copyEntry(entry), true
}

// Get returns a copy of the entry for userID, if any.
func (l *Ledger) Get(userID int64) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[userID]
	if !ok {
		return Entry{}, false
	}
	return copyEntry(entry), true
}

// Pending returns the number of entries awaiting confirmation. Entries are
// never evicted, so this doubles as a memory growth signal in logs.
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.entries {
		if e.ConfirmedAt == nil {
			n++
		}
	}
	return n
}

func copyEntry(e *Entry) Entry {
	out := *e
	out.Items = make([]SnapshotItem, len(e.Items))
	copy(out.Items, e.Items)
	if e.ConfirmedAt != nil {
		ts := *e.ConfirmedAt
		out.ConfirmedAt = &ts
	}
	return out
}
