package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyDraft is returned when an operation needs at least one line item.
	ErrEmptyDraft = errors.New("order: draft has no line items")
	// ErrUnknownItem is returned when a line item is missing from the catalog.
	ErrUnknownItem = errors.New("order: item not in catalog")
)

// PriceSource resolves an exact item name to its unit price.
// *menu.Catalog satisfies it.
type PriceSource interface {
	Price(name string) (decimal.Decimal, bool)
}

// LineItem is one catalog item plus its requested quantity within a draft.
// Quantity is zero between item selection and quantity entry.
type LineItem struct {
	Item     string
	Quantity int
}

// ReceiptRef is an opaque reference to an uploaded payment receipt,
// relayed to the admin unchanged.
type ReceiptRef struct {
	FileID string
	Photo  bool
}

// IsZero reports whether no receipt has been attached.
func (r ReceiptRef) IsZero() bool {
	return r.FileID == ""
}

// Draft is an in-progress, unsubmitted order owned by exactly one
// user's active conversation.
type Draft struct {
	UserID    int64
	Items     []LineItem
	Address   string
	Receipt   ReceiptRef
	CreatedAt time.Time
}

// NewDraft starts an empty draft for a user, stamping the creation time.
func NewDraft(userID int64, now time.Time) *Draft {
	return &Draft{UserID: userID, CreatedAt: now}
}

// AddItem appends a new line item with the quantity still unset.
func (d *Draft) AddItem(name string) {
	d.Items = append(d.Items, LineItem{Item: name})
}

// SetQuantity attaches a quantity to the most recently appended line item.
func (d *Draft) SetQuantity(qty int) error {
	if len(d.Items) == 0 {
		return ErrEmptyDraft
	}
	d.Items[len(d.Items)-1].Quantity = qty
	return nil
}

// Total recomputes the draft total from current catalog prices and
// recorded quantities. It is never cached on the draft.
func (d *Draft) Total(prices PriceSource) (decimal.Decimal, error) {
	if len(d.Items) == 0 {
		return decimal.Zero, ErrEmptyDraft
	}
	total := decimal.Zero
	for _, li := range d.Items {
		unit, ok := prices.Price(li.Item)
		if !ok {
			return decimal.Zero, ErrUnknownItem
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total, nil
}
