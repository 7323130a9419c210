package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbot/internal/menu"
	"orderbot/internal/order"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	return NewMachine(menu.Default())
}

func apply(m *Machine, sess *Session, ev Event) []Effect {
	return m.Apply(sess, 42, ev, time.Unix(1700000000, 0))
}

// advance walks a fresh session to the requested state using valid inputs.
func advance(t *testing.T, m *Machine, target State) *Session {
	t.Helper()
	sess := &Session{State: StateIdle}
	steps := []struct {
		at State
		ev Event
	}{
		{StateIdle, Event{Kind: EventStart}},
		{StateSelectingItem, Event{Kind: EventPickItem, Item: "Pizza"}},
		{StateEnteringQuantity, Event{Kind: EventText, Text: "2"}},
		{StateAskingMoreItems, Event{Kind: EventMoreChoice, More: false}},
		{StateEnteringAddress, Event{Kind: EventText, Text: "221B Baker St"}},
	}
	for _, step := range steps {
		if sess.State == target {
			return sess
		}
		require.Equal(t, step.at, sess.State)
		apply(m, sess, step.ev)
	}
	require.Equal(t, target, sess.State)
	return sess
}

func TestFullOrderFlow(t *testing.T) {
	m := newTestMachine(t)
	sess := &Session{State: StateIdle}

	effects := apply(m, sess, Event{Kind: EventStart})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectShowMenu, effects[0].Kind)
	assert.Equal(t, StateSelectingItem, sess.State)
	require.NotNil(t, sess.Draft)
	assert.Equal(t, int64(42), sess.Draft.UserID)

	effects = apply(m, sess, Event{Kind: EventPickItem, Item: "Pizza"})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectPromptQuantity, effects[0].Kind)
	assert.Equal(t, "Pizza", effects[0].Item)
	assert.Equal(t, StateEnteringQuantity, sess.State)

	effects = apply(m, sess, Event{Kind: EventText, Text: "2"})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectAskMoreItems, effects[0].Kind)
	assert.Equal(t, StateAskingMoreItems, sess.State)

	effects = apply(m, sess, Event{Kind: EventMoreChoice, More: false})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectPromptAddress, effects[0].Kind)
	assert.Equal(t, StateEnteringAddress, sess.State)

	effects = apply(m, sess, Event{Kind: EventText, Text: "221B Baker St"})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectOrderSummary, effects[0].Kind)
	assert.Equal(t, "21.98", effects[0].Total.StringFixed(2))
	assert.Equal(t, StateAwaitingReceipt, sess.State)

	receipt := order.ReceiptRef{FileID: "photo-1", Photo: true}
	effects = apply(m, sess, Event{Kind: EventReceipt, Receipt: receipt})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectSubmit, effects[0].Kind)
	require.NotNil(t, effects[0].Draft)
	assert.Equal(t, receipt, effects[0].Draft.Receipt)
	assert.Equal(t, "221B Baker St", effects[0].Draft.Address)
	require.Len(t, effects[0].Draft.Items, 1)
	assert.Equal(t, order.LineItem{Item: "Pizza", Quantity: 2}, effects[0].Draft.Items[0])

	// The draft is handed over and the session is reusable immediately.
	assert.Equal(t, StateIdle, sess.State)
	assert.Nil(t, sess.Draft)
}

func TestQuantityValidation(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"letters", "abc"},
		{"zero", "0"},
		{"negative", "-3"},
		{"empty", ""},
		{"spaces", "   "},
		{"fraction", "2.5"},
		{"trailing garbage", "2x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMachine(t)
			sess := advance(t, m, StateEnteringQuantity)

			effects := apply(m, sess, Event{Kind: EventText, Text: tc.text})
			require.Len(t, effects, 1)
			assert.Equal(t, EffectInvalidQuantity, effects[0].Kind)
			assert.Equal(t, StateEnteringQuantity, sess.State)

			// A valid quantity is still accepted after any number of rejects.
			effects = apply(m, sess, Event{Kind: EventText, Text: "3"})
			require.Len(t, effects, 1)
			assert.Equal(t, EffectAskMoreItems, effects[0].Kind)
			assert.Equal(t, 3, sess.Draft.Items[0].Quantity)
		})
	}
}

func TestQuantityAcceptsSurroundingWhitespace(t *testing.T) {
	m := newTestMachine(t)
	sess := advance(t, m, StateEnteringQuantity)

	effects := apply(m, sess, Event{Kind: EventText, Text: " 4 "})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectAskMoreItems, effects[0].Kind)
	assert.Equal(t, 4, sess.Draft.Items[0].Quantity)
}

func TestMultipleItemsLoop(t *testing.T) {
	m := newTestMachine(t)
	sess := &Session{State: StateIdle}

	apply(m, sess, Event{Kind: EventStart})
	apply(m, sess, Event{Kind: EventPickItem, Item: "Pizza"})
	apply(m, sess, Event{Kind: EventText, Text: "2"})

	effects := apply(m, sess, Event{Kind: EventMoreChoice, More: true})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectShowMenu, effects[0].Kind)
	assert.Equal(t, StateSelectingItem, sess.State)

	apply(m, sess, Event{Kind: EventPickItem, Item: "Burger"})
	apply(m, sess, Event{Kind: EventText, Text: "1"})
	apply(m, sess, Event{Kind: EventMoreChoice, More: false})

	effects = apply(m, sess, Event{Kind: EventText, Text: "5th Avenue 10"})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectOrderSummary, effects[0].Kind)
	// 2 * 10.99 + 1 * 7.99
	assert.Equal(t, "29.97", effects[0].Total.StringFixed(2))
	require.Len(t, sess.Draft.Items, 2)
	assert.Equal(t, "Pizza", sess.Draft.Items[0].Item)
	assert.Equal(t, "Burger", sess.Draft.Items[1].Item)
}

func TestCancelFromEveryActiveState(t *testing.T) {
	states := []State{
		StateSelectingItem,
		StateEnteringQuantity,
		StateAskingMoreItems,
		StateEnteringAddress,
		StateAwaitingReceipt,
	}
	for _, st := range states {
		t.Run(string(st), func(t *testing.T) {
			m := newTestMachine(t)
			sess := advance(t, m, st)

			effects := apply(m, sess, Event{Kind: EventCancel})
			require.Len(t, effects, 1)
			assert.Equal(t, EffectCancelled, effects[0].Kind)
			assert.Equal(t, StateIdle, sess.State)
			assert.Nil(t, sess.Draft)

			// A fresh order starts cleanly after cancellation.
			effects = apply(m, sess, Event{Kind: EventStart})
			require.Len(t, effects, 1)
			assert.Equal(t, EffectShowMenu, effects[0].Kind)
			assert.Empty(t, sess.Draft.Items)
		})
	}
}

func TestCancelWhileIdleIsSilent(t *testing.T) {
	m := newTestMachine(t)
	sess := &Session{State: StateIdle}
	assert.Nil(t, apply(m, sess, Event{Kind: EventCancel}))
	assert.Equal(t, StateIdle, sess.State)
}

func TestStartDiscardsStaleDraft(t *testing.T) {
	m := newTestMachine(t)
	sess := advance(t, m, StateAskingMoreItems)
	require.NotEmpty(t, sess.Draft.Items)

	effects := apply(m, sess, Event{Kind: EventStart})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectShowMenu, effects[0].Kind)
	assert.Equal(t, StateSelectingItem, sess.State)
	assert.Empty(t, sess.Draft.Items)
}

func TestUnknownItemRepresentsMenu(t *testing.T) {
	m := newTestMachine(t)
	sess := advance(t, m, StateSelectingItem)

	effects := apply(m, sess, Event{Kind: EventPickItem, Item: "Sushi"})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectShowMenu, effects[0].Kind)
	assert.Equal(t, StateSelectingItem, sess.State)
	assert.Empty(t, sess.Draft.Items)
}

func TestEmptyAddressReprompts(t *testing.T) {
	m := newTestMachine(t)
	sess := advance(t, m, StateEnteringAddress)

	effects := apply(m, sess, Event{Kind: EventText, Text: "   "})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectPromptAddress, effects[0].Kind)
	assert.Equal(t, StateEnteringAddress, sess.State)
}

func TestAwaitingReceiptRejectsText(t *testing.T) {
	m := newTestMachine(t)
	sess := advance(t, m, StateAwaitingReceipt)

	effects := apply(m, sess, Event{Kind: EventText, Text: "here you go"})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectInvalidReceipt, effects[0].Kind)
	assert.Equal(t, StateAwaitingReceipt, sess.State)

	effects = apply(m, sess, Event{Kind: EventReceipt, Receipt: order.ReceiptRef{FileID: "doc-1"}})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectSubmit, effects[0].Kind)
}

func TestMismatchedEventsAreIgnored(t *testing.T) {
	m := newTestMachine(t)

	sess := advance(t, m, StateSelectingItem)
	assert.Nil(t, apply(m, sess, Event{Kind: EventMoreChoice, More: true}))
	assert.Equal(t, StateSelectingItem, sess.State)

	sess = advance(t, m, StateEnteringQuantity)
	assert.Nil(t, apply(m, sess, Event{Kind: EventPickItem, Item: "Pizza"}))
	assert.Equal(t, StateEnteringQuantity, sess.State)

	sess = advance(t, m, StateAskingMoreItems)
	assert.Nil(t, apply(m, sess, Event{Kind: EventText, Text: "yes"}))
	assert.Equal(t, StateAskingMoreItems, sess.State)
}
