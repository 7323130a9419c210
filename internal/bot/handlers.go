package bot

import (
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"orderbot/core/logger"
	"orderbot/core/telegram/callbacks"
	"orderbot/core/telegram/helpers"
	"orderbot/internal/flow"
	"orderbot/internal/order"
)

const (
	cbOrderItem = "order_item"
	cbOrderMore = "order_more"
)

func (a *App) handleStart(c tele.Context) error {
	return helpers.SendText(c, msgWelcome, &tele.SendOptions{ReplyMarkup: persistentKeyboard()})
}

func (a *App) handleMenu(c tele.Context) error {
	_, err := a.dispatch(c, flow.Event{Kind: flow.EventStart})
	return err
}

func (a *App) handleCancel(c tele.Context) error {
	effects, err := a.dispatch(c, flow.Event{Kind: flow.EventCancel})
	if err != nil {
		return err
	}
	// Cancel outside a conversation still gets an acknowledgement.
	if len(effects) == 0 {
		return helpers.SendText(c, msgCancelled, &tele.SendOptions{ReplyMarkup: persistentKeyboard()})
	}
	return nil
}

func (a *App) handleItemCallback(c tele.Context) error {
	item := callbacks.CallbackPayload(c)
	_, err := a.dispatch(c, flow.Event{Kind: flow.EventPickItem, Item: item})
	return err
}

func (a *App) handleMoreCallback(c tele.Context) error {
	choice := callbacks.CallbackPayload(c)
	_, err := a.dispatch(c, flow.Event{Kind: flow.EventMoreChoice, More: choice == "yes"})
	return err
}

// ManagerHandler feeds free-form messages (text, photos, documents) into the
// active conversation. Part of the router.FSM contract.
func (a *App) ManagerHandler(c tele.Context) error {
	_, err := a.dispatch(c, eventFromMessage(c.Message()))
	return err
}

// eventFromMessage maps an inbound message onto a flow event. Photos and PDF
// documents become receipt events; everything else is plain text, which the
// machine rejects or interprets depending on the current state.
func eventFromMessage(msg *tele.Message) flow.Event {
	if msg == nil {
		return flow.Event{Kind: flow.EventText}
	}
	if msg.Photo != nil {
		return flow.Event{Kind: flow.EventReceipt, Receipt: order.ReceiptRef{
			FileID: msg.Photo.FileID,
			Photo:  true,
		}}
	}
	if msg.Document != nil && strings.EqualFold(msg.Document.MIME, "application/pdf") {
		return flow.Event{Kind: flow.EventReceipt, Receipt: order.ReceiptRef{
			FileID: msg.Document.FileID,
		}}
	}
	return flow.Event{Kind: flow.EventText, Text: msg.Text}
}

// dispatch runs one event through the state machine under the session lock
// and renders the resulting effects.
func (a *App) dispatch(c tele.Context, ev flow.Event) ([]flow.Effect, error) {
	sender := c.Sender()
	if sender == nil {
		return nil, nil
	}
	userID := sender.ID

	var (
		effects []flow.Effect
		from    flow.State
		to      flow.State
	)
	a.sessions.Dispatch(userID, func(sess *flow.Session) {
		from = sess.State
		effects = a.machine.Apply(sess, userID, ev, time.Now())
		to = sess.State
	})

	ctx := helpers.BuildContext(c)
	if from != to && logger.ShouldSampleDebug() {
		logger.LogEvent(ctx, logger.FLOW, slog.LevelDebug, "flow.transition",
			slog.String("state", string(to)),
			slog.String("from", string(from)),
		)
	}

	return effects, a.render(c, userID, effects)
}
