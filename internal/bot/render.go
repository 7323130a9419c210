package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"orderbot/core/logger"
	"orderbot/core/telegram/format"
	"orderbot/core/telegram/helpers"
	"orderbot/core/telegram/keyboard"
	"orderbot/internal/flow"
	"orderbot/internal/order"
)

const (
	msgWelcome = "Welcome to the Order Bot! 🍔\n" +
		"Tap Menu below or send /menu to start an order."
	msgHint            = "Use /menu to place an order."
	msgSelectItem      = "Select an item from the menu:"
	msgQuantityFmt     = "Selected *%s*. Enter the quantity:"
	msgInvalidQuantity = "Please enter a valid positive number for the quantity:"
	msgAddAnother      = "Add another item?"
	msgEnterAddress    = "Enter your delivery address:"
	msgInvalidReceipt  = "Please upload your payment receipt as a photo or PDF document."
	msgSubmitted       = "Your order has been sent to the admin for confirmation! 🎉"
	msgSubmitFailed    = "Something went wrong with your order. Please try again with /menu."
	msgCancelled       = "Order cancelled. Use /menu to start again."
	msgAdminOnly       = "❌ Only the admin can confirm orders."
)

func persistentKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{"Start", "Menu", "Cancel"})
}

func (a *App) menuKeyboard() *tele.ReplyMarkup {
	items := a.catalog.Items()
	buttons := make([]keyboard.InlineBtn, 0, len(items))
	for _, it := range items {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s (%s)", it.Name, a.price(it.Price)),
			Unique: cbOrderItem,
			Data:   it.Name,
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

func moreItemsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "Yes", Unique: cbOrderMore, Data: "yes"}},
		[]keyboard.InlineBtn{{Text: "No", Unique: cbOrderMore, Data: "no"}},
	)
}

func (a *App) render(c tele.Context, userID int64, effects []flow.Effect) error {
	for _, eff := range effects {
		if err := a.renderEffect(c, userID, eff); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) renderEffect(c tele.Context, userID int64, eff flow.Effect) error {
	switch eff.Kind {
	case flow.EffectShowMenu:
		return helpers.EditOrSendMD(c, msgSelectItem, a.menuKeyboard())
	case flow.EffectPromptQuantity:
		return helpers.EditOrSendMD(c, fmt.Sprintf(msgQuantityFmt, eff.Item))
	case flow.EffectInvalidQuantity:
		return helpers.SendText(c, msgInvalidQuantity)
	case flow.EffectAskMoreItems:
		return helpers.SendText(c, msgAddAnother, &tele.SendOptions{ReplyMarkup: moreItemsKeyboard()})
	case flow.EffectPromptAddress:
		return helpers.SendText(c, msgEnterAddress, &tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
	case flow.EffectOrderSummary:
		return helpers.SendMD(c, a.summaryText(eff.Draft, eff.Total))
	case flow.EffectInvalidReceipt:
		return helpers.SendText(c, msgInvalidReceipt)
	case flow.EffectSubmit:
		return a.submit(c, eff.Draft)
	case flow.EffectCancelled:
		return helpers.SendText(c, msgCancelled, &tele.SendOptions{ReplyMarkup: persistentKeyboard()})
	}
	return nil
}

func (a *App) summaryText(d *order.Draft, total decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("🧾 *Order Summary*\n\n")
	for _, li := range d.Items {
		fmt.Fprintf(&b, "• %s x %d\n", li.Item, li.Quantity)
	}
	addr, _ := format.EscapeMarkdown(d.Address, format.MarkdownV1, "")
	fmt.Fprintf(&b, "Address: %s\n", addr)
	fmt.Fprintf(&b, "Total: %s\n\n", a.price(total))
	b.WriteString("Please upload your payment receipt (photo or PDF).")
	return b.String()
}

func (a *App) submit(c tele.Context, d *order.Draft) error {
	ctx := helpers.BuildContext(c)

	entry, replaced, err := a.ledger.Submit(d, a.catalog)
	if err != nil {
		logger.LogEvent(ctx, logger.LEDGER, slog.LevelError, "order.submit_failed",
			slog.String("err", err.Error()),
		)
		return helpers.SendText(c, msgSubmitFailed, &tele.SendOptions{ReplyMarkup: persistentKeyboard()})
	}
	if replaced {
		logger.LogEvent(ctx, logger.LEDGER, slog.LevelWarn, "order.replaced",
			slog.Int64("user_id", entry.UserID),
		)
	}
	logger.LogEvent(ctx, logger.LEDGER, slog.LevelInfo, "order.submitted",
		slog.Int("items", len(entry.Items)),
		slog.String("total", entry.Total.StringFixed(2)),
		slog.Int("pending_count", a.ledger.Pending()),
	)

	a.notifyAdmin(c, entry)

	return helpers.SendText(c, msgSubmitted, &tele.SendOptions{ReplyMarkup: persistentKeyboard()})
}

func (a *App) price(v decimal.Decimal) string {
	return a.cfg.Orders.Currency + v.StringFixed(2)
}
