package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPrices map[string]string

func (p staticPrices) Price(name string) (decimal.Decimal, bool) {
	raw, ok := p[name]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.RequireFromString(raw), true
}

var testPrices = staticPrices{
	"Pizza":  "10.99",
	"Burger": "7.99",
}

func testDraft(userID int64) *Draft {
	d := NewDraft(userID, time.Unix(1700000000, 0))
	d.AddItem("Pizza")
	_ = d.SetQuantity(2)
	d.Address = "221B Baker St"
	d.Receipt = ReceiptRef{FileID: "photo-1", Photo: true}
	return d
}

func frozenLedger(ts ...time.Time) *Ledger {
	l := NewLedger()
	i := 0
	l.now = func() time.Time {
		t := ts[i%len(ts)]
		i++
		return t
	}
	return l
}

func TestSubmitFreezesSnapshot(t *testing.T) {
	submitted := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := frozenLedger(submitted)

	entry, replaced, err := l.Submit(testDraft(42), testPrices)
	require.NoError(t, err)
	assert.False(t, replaced)

	assert.Equal(t, int64(42), entry.UserID)
	assert.Equal(t, "221B Baker St", entry.Address)
	assert.Equal(t, submitted, entry.SubmittedAt)
	assert.False(t, entry.Confirmed())
	require.Len(t, entry.Items, 1)
	assert.Equal(t, "Pizza", entry.Items[0].Item)
	assert.Equal(t, 2, entry.Items[0].Quantity)
	assert.Equal(t, "10.99", entry.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "21.98", entry.Total.StringFixed(2))
	assert.Equal(t, ReceiptRef{FileID: "photo-1", Photo: true}, entry.Receipt)
}

func TestSubmitPricesAreFrozenAtSubmission(t *testing.T) {
	l := NewLedger()
	prices := staticPrices{"Pizza": "10.99"}

	_, _, err := l.Submit(testDraft(42), prices)
	require.NoError(t, err)

	// A later menu change must not leak into the stored entry.
	prices["Pizza"] = "99.99"
	entry, ok := l.Get(42)
	require.True(t, ok)
	assert.Equal(t, "10.99", entry.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "21.98", entry.Total.StringFixed(2))
}

func TestSubmitRejectsEmptyOrUnknown(t *testing.T) {
	l := NewLedger()

	_, _, err := l.Submit(nil, testPrices)
	assert.ErrorIs(t, err, ErrEmptyDraft)

	empty := NewDraft(42, time.Unix(1700000000, 0))
	_, _, err = l.Submit(empty, testPrices)
	assert.ErrorIs(t, err, ErrEmptyDraft)

	d := testDraft(42)
	d.AddItem("Sushi")
	_ = d.SetQuantity(1)
	_, _, err = l.Submit(d, testPrices)
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, ok := l.Get(42)
	assert.False(t, ok)
}

func TestSubmitOverwritesPreviousEntry(t *testing.T) {
	l := NewLedger()

	_, replaced, err := l.Submit(testDraft(42), testPrices)
	require.NoError(t, err)
	assert.False(t, replaced)

	second := NewDraft(42, time.Unix(1700000100, 0))
	second.AddItem("Burger")
	_ = second.SetQuantity(1)
	second.Address = "5th Avenue 10"

	entry, replaced, err := l.Submit(second, testPrices)
	require.NoError(t, err)
	assert.True(t, replaced, "overwriting an unconfirmed order must be reported")
	assert.Equal(t, "7.99", entry.Total.StringFixed(2))

	stored, ok := l.Get(42)
	require.True(t, ok)
	assert.Equal(t, "5th Avenue 10", stored.Address)
	assert.Equal(t, 1, l.Pending())
}

func TestSubmitAfterConfirmIsNotAReplacement(t *testing.T) {
	l := NewLedger()
	_, _, err := l.Submit(testDraft(42), testPrices)
	require.NoError(t, err)
	_, ok := l.Confirm(42)
	require.True(t, ok)

	_, replaced, err := l.Submit(testDraft(42), testPrices)
	require.NoError(t, err)
	assert.False(t, replaced)
}

func TestConfirmStampsAndRestamps(t *testing.T) {
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	l := frozenLedger(first, first, second)

	_, _, err := l.Submit(testDraft(42), testPrices)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Pending())

	entry, ok := l.Confirm(42)
	require.True(t, ok)
	require.NotNil(t, entry.ConfirmedAt)
	assert.Equal(t, first, *entry.ConfirmedAt)
	assert.True(t, entry.Confirmed())
	assert.Equal(t, 0, l.Pending())

	// Repeat confirmation re-stamps rather than failing.
	entry, ok = l.Confirm(42)
	require.True(t, ok)
	assert.Equal(t, second, *entry.ConfirmedAt)
}

func TestConfirmUnknownUser(t *testing.T) {
	l := NewLedger()
	_, ok := l.Confirm(99)
	assert.False(t, ok)
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	l := NewLedger()
	_, _, err := l.Submit(testDraft(42), testPrices)
	require.NoError(t, err)

	entry, ok := l.Get(42)
	require.True(t, ok)
	entry.Items[0].Quantity = 99
	entry.Address = "mutated"

	fresh, ok := l.Get(42)
	require.True(t, ok)
	assert.Equal(t, 2, fresh.Items[0].Quantity)
	assert.Equal(t, "221B Baker St", fresh.Address)
}

func TestPendingCountsOnlyUnconfirmed(t *testing.T) {
	l := NewLedger()
	for _, id := range []int64{1, 2, 3} {
		_, _, err := l.Submit(testDraft(id), testPrices)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, l.Pending())

	_, ok := l.Confirm(2)
	require.True(t, ok)
	assert.Equal(t, 2, l.Pending())
}
