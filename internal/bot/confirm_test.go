package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbot/internal/order"
)

const (
	testAdminID  = int64(1000)
	testClientID = int64(42)
)

func submittedLedger(t *testing.T) *order.Ledger {
	t.Helper()
	l := order.NewLedger()
	d := order.NewDraft(testClientID, time.Unix(1700000000, 0))
	d.AddItem("Pizza")
	require.NoError(t, d.SetQuantity(2))
	d.Address = "221B Baker St"
	d.Receipt = order.ReceiptRef{FileID: "photo-1", Photo: true}
	_, _, err := l.Submit(d, testCatalog())
	require.NoError(t, err)
	return l
}

func TestResolveConfirmRejectsNonAdmin(t *testing.T) {
	l := submittedLedger(t)

	res := resolveConfirm(l, testClientID, testAdminID, []string{"42"})
	assert.Equal(t, msgAdminOnly, res.reply)
	assert.False(t, res.confirmed)

	// The denial path must not touch the ledger.
	entry, ok := l.Get(testClientID)
	require.True(t, ok)
	assert.False(t, entry.Confirmed())
}

func TestResolveConfirmUsage(t *testing.T) {
	l := submittedLedger(t)

	res := resolveConfirm(l, testAdminID, testAdminID, nil)
	assert.Contains(t, res.reply, "Usage")
	assert.False(t, res.confirmed)

	res = resolveConfirm(l, testAdminID, testAdminID, []string{"42", "extra"})
	assert.Contains(t, res.reply, "Usage")

	res = resolveConfirm(l, testAdminID, testAdminID, []string{"notanumber"})
	assert.Contains(t, res.reply, "Invalid user ID")
	assert.False(t, res.confirmed)
}

func TestResolveConfirmNotFound(t *testing.T) {
	l := submittedLedger(t)

	res := resolveConfirm(l, testAdminID, testAdminID, []string{"99"})
	assert.Contains(t, res.reply, "No order found for user 99")
	assert.False(t, res.confirmed)
}

func TestResolveConfirmSuccess(t *testing.T) {
	l := submittedLedger(t)

	res := resolveConfirm(l, testAdminID, testAdminID, []string{"42"})
	assert.True(t, res.confirmed)
	assert.Contains(t, res.reply, "confirmed successfully")
	assert.Equal(t, testClientID, res.entry.UserID)
	require.NotNil(t, res.entry.ConfirmedAt)

	entry, ok := l.Get(testClientID)
	require.True(t, ok)
	assert.True(t, entry.Confirmed())
	assert.Equal(t, 0, l.Pending())
}

func TestResolveConfirmRepeatRestamps(t *testing.T) {
	l := submittedLedger(t)

	first := resolveConfirm(l, testAdminID, testAdminID, []string{"42"})
	require.True(t, first.confirmed)

	second := resolveConfirm(l, testAdminID, testAdminID, []string{"42"})
	require.True(t, second.confirmed)
	assert.False(t, second.entry.ConfirmedAt.Before(*first.entry.ConfirmedAt))
}
