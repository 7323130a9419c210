package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftTotalRecomputes(t *testing.T) {
	d := NewDraft(7, time.Unix(1700000000, 0))
	d.AddItem("Pizza")
	require.NoError(t, d.SetQuantity(2))
	d.AddItem("Burger")
	require.NoError(t, d.SetQuantity(3))

	total, err := d.Total(testPrices)
	require.NoError(t, err)
	assert.Equal(t, "45.95", total.StringFixed(2))

	// Totals follow the price source, nothing is cached on the draft.
	bumped := staticPrices{"Pizza": "20.00", "Burger": "10.00"}
	total, err = d.Total(bumped)
	require.NoError(t, err)
	assert.Equal(t, "70.00", total.StringFixed(2))
}

func TestDraftTotalErrors(t *testing.T) {
	d := NewDraft(7, time.Unix(1700000000, 0))
	_, err := d.Total(testPrices)
	assert.ErrorIs(t, err, ErrEmptyDraft)

	d.AddItem("Sushi")
	require.NoError(t, d.SetQuantity(1))
	_, err = d.Total(testPrices)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestSetQuantityNeedsLineItem(t *testing.T) {
	d := NewDraft(7, time.Unix(1700000000, 0))
	assert.ErrorIs(t, d.SetQuantity(2), ErrEmptyDraft)
}

func TestReceiptRefIsZero(t *testing.T) {
	assert.True(t, ReceiptRef{}.IsZero())
	assert.False(t, ReceiptRef{FileID: "doc-1"}.IsZero())
}
