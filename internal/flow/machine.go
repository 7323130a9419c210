// Package flow implements the ordering conversation as an explicit state
// machine: a tagged state enum plus a transition function over (state, event)
// pairs that yields the next state and a list of side effects. The machine
// never talks to the transport; rendering effects into Telegram messages is
// the bot layer's job, which keeps every transition testable in isolation.
package flow

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderbot/internal/menu"
	"orderbot/internal/order"
)

// State identifies a step of the ordering conversation.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateSelectingItem waits for a menu button press.
	StateSelectingItem State = "selecting_item"
	// StateEnteringQuantity waits for a positive integer.
	StateEnteringQuantity State = "entering_quantity"
	// StateAskingMoreItems waits for the yes/no add-another-item choice.
	StateAskingMoreItems State = "asking_more_items"
	// StateEnteringAddress waits for a free-text delivery address.
	StateEnteringAddress State = "entering_address"
	// StateAwaitingReceipt waits for a photo or PDF payment receipt.
	StateAwaitingReceipt State = "awaiting_receipt"
)

// EventKind enumerates conversation inputs.
type EventKind int

const (
	// EventStart begins a fresh order, discarding any stale draft.
	EventStart EventKind = iota
	// EventPickItem carries a catalog key chosen from the inline menu.
	EventPickItem
	// EventText carries free text typed by the user.
	EventText
	// EventMoreChoice carries the yes/no answer to "add another item?".
	EventMoreChoice
	// EventReceipt carries a valid receipt attachment (photo or PDF).
	EventReceipt
	// EventCancel aborts the conversation from any active state.
	EventCancel
)

// Event is one inbound conversation input.
type Event struct {
	Kind    EventKind
	Item    string
	Text    string
	More    bool
	Receipt order.ReceiptRef
}

// EffectKind enumerates side effects the bot layer must render.
type EffectKind int

const (
	// EffectShowMenu presents the inline item keyboard.
	EffectShowMenu EffectKind = iota
	// EffectPromptQuantity asks for the quantity of Effect.Item.
	EffectPromptQuantity
	// EffectInvalidQuantity re-prompts after a rejected quantity.
	EffectInvalidQuantity
	// EffectAskMoreItems presents the yes/no choice.
	EffectAskMoreItems
	// EffectPromptAddress asks for the delivery address.
	EffectPromptAddress
	// EffectOrderSummary echoes the draft and Effect.Total, then asks for the receipt.
	EffectOrderSummary
	// EffectInvalidReceipt re-prompts for a photo or PDF attachment.
	EffectInvalidReceipt
	// EffectSubmit commits Effect.Draft: ledger write plus user and admin notifications.
	EffectSubmit
	// EffectCancelled acknowledges a cancelled order.
	EffectCancelled
)

// Effect is a side effect produced by a transition, as data.
type Effect struct {
	Kind  EffectKind
	Item  string
	Total decimal.Decimal
	Draft *order.Draft
}

// Session holds one user's conversation position and draft. At most one
// session exists per user; a nil draft is only valid in the idle state.
type Session struct {
	State State
	Draft *order.Draft
}

// Machine drives the ordering conversation against a fixed catalog.
type Machine struct {
	catalog *menu.Catalog
}

// NewMachine creates a Machine over the given catalog.
func NewMachine(catalog *menu.Catalog) *Machine {
	return &Machine{catalog: catalog}
}

// Apply advances the session by one event and returns the effects to render.
// Invalid input never changes state: the same prompt is repeated without any
// retry limit. Events that make no sense in the current state produce no
// effects and leave the session untouched.
func (m *Machine) Apply(sess *Session, userID int64, ev Event, now time.Time) []Effect {
	if sess.State == "" {
		sess.State = StateIdle
	}

	switch ev.Kind {
	case EventStart:
		// Starting fresh discards any stale draft.
		sess.Draft = order.NewDraft(userID, now)
		sess.State = StateSelectingItem
		return []Effect{{Kind: EffectShowMenu}}

	case EventCancel:
		if sess.State == StateIdle {
			return nil
		}
		sess.Draft = nil
		sess.State = StateIdle
		return []Effect{{Kind: EffectCancelled}}
	}

	switch sess.State {
	case StateSelectingItem:
		if ev.Kind != EventPickItem {
			return nil
		}
		// Buttons are built from the catalog, so membership holds by
		// construction; an unknown key means a stale keyboard.
		if !m.catalog.Has(ev.Item) {
			return []Effect{{Kind: EffectShowMenu}}
		}
		sess.Draft.AddItem(ev.Item)
		sess.State = StateEnteringQuantity
		return []Effect{{Kind: EffectPromptQuantity, Item: ev.Item}}

	case StateEnteringQuantity:
		if ev.Kind != EventText {
			return nil
		}
		qty, err := strconv.Atoi(strings.TrimSpace(ev.Text))
		if err != nil || qty <= 0 {
			return []Effect{{Kind: EffectInvalidQuantity}}
		}
		if err := sess.Draft.SetQuantity(qty); err != nil {
			return []Effect{{Kind: EffectShowMenu}}
		}
		sess.State = StateAskingMoreItems
		return []Effect{{Kind: EffectAskMoreItems}}

	case StateAskingMoreItems:
		if ev.Kind != EventMoreChoice {
			return nil
		}
		if ev.More {
			sess.State = StateSelectingItem
			return []Effect{{Kind: EffectShowMenu}}
		}
		sess.State = StateEnteringAddress
		return []Effect{{Kind: EffectPromptAddress}}

	case StateEnteringAddress:
		if ev.Kind != EventText {
			return nil
		}
		address := strings.TrimSpace(ev.Text)
		if address == "" {
			return []Effect{{Kind: EffectPromptAddress}}
		}
		sess.Draft.Address = address
		total, err := sess.Draft.Total(m.catalog)
		if err != nil {
			// Catalog is immutable, so this cannot happen after AddItem
			// validated membership; bail out to a fresh menu if it does.
			sess.State = StateSelectingItem
			return []Effect{{Kind: EffectShowMenu}}
		}
		sess.State = StateAwaitingReceipt
		return []Effect{{Kind: EffectOrderSummary, Total: total, Draft: sess.Draft}}

	case StateAwaitingReceipt:
		if ev.Kind != EventReceipt {
			return []Effect{{Kind: EffectInvalidReceipt}}
		}
		draft := sess.Draft
		draft.Receipt = ev.Receipt
		// Single commit point: the session returns to idle in the same
		// transition that hands the draft over for submission.
		sess.Draft = nil
		sess.State = StateIdle
		return []Effect{{Kind: EffectSubmit, Draft: draft}}
	}

	return nil
}
