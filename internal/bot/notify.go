package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"orderbot/core/logger"
	"orderbot/core/telegram/format"
	"orderbot/core/telegram/helpers"
	"orderbot/internal/order"
)

// enqueue pushes an outbound call through the async dispatcher, falling back
// to a direct send when the dispatcher is unavailable or saturated.
func (a *App) enqueue(c tele.Context, action, endpoint string, run func() error) {
	ctx := helpers.BuildContext(c)
	if d := a.dispatcher.Load(); d != nil {
		if err := d.Enqueue(ctx, action, endpoint, run); err == nil {
			return
		}
	}
	if err := run(); err != nil {
		logger.Error(ctx, "tg", "notify.failed",
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
	}
}

// notifyAdmin sends the order card to the admin chat, followed by the
// uploaded receipt relayed by file ID.
func (a *App) notifyAdmin(c tele.Context, entry order.Entry) {
	admin := tele.ChatID(a.cfg.Telegram.AdminID)

	text := a.adminOrderText(entry)
	a.enqueue(c, "notify.admin.order", "sendMessage", func() error {
		_, err := c.Bot().Send(admin, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		return err
	})

	receipt := entry.Receipt
	if receipt.IsZero() {
		return
	}
	endpoint := "sendDocument"
	if receipt.Photo {
		endpoint = "sendPhoto"
	}
	a.enqueue(c, "notify.admin.receipt", endpoint, func() error {
		var what interface{}
		if receipt.Photo {
			what = &tele.Photo{File: tele.File{FileID: receipt.FileID}}
		} else {
			what = &tele.Document{File: tele.File{FileID: receipt.FileID}}
		}
		_, err := c.Bot().Send(admin, what)
		return err
	})
}

func (a *App) adminOrderText(entry order.Entry) string {
	var b strings.Builder
	b.WriteString("🚨 *New Order Received* 🚨\n\n")
	fmt.Fprintf(&b, "User ID: %d\n", entry.UserID)
	b.WriteString("Items:\n")
	for _, it := range entry.Items {
		fmt.Fprintf(&b, "• %s x %d (%s each)\n", it.Item, it.Quantity, a.price(it.UnitPrice))
	}
	addr, _ := format.EscapeMarkdown(entry.Address, format.MarkdownV1, "")
	fmt.Fprintf(&b, "Address: %s\n", addr)
	fmt.Fprintf(&b, "Total Price: %s\n", a.price(entry.Total))
	fmt.Fprintf(&b, "Time Ordered: %s\n\n", entry.SubmittedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Confirm with `/confirm %d`.", entry.UserID)
	return b.String()
}

func (a *App) userConfirmedText(entry order.Entry) string {
	var b strings.Builder
	b.WriteString("✅ *Your order has been confirmed!*\n\n")
	for _, it := range entry.Items {
		fmt.Fprintf(&b, "• %s x %d\n", it.Item, it.Quantity)
	}
	fmt.Fprintf(&b, "Total: %s\n", a.price(entry.Total))
	b.WriteString("It will be delivered to your address soon. 🚚")
	return b.String()
}

func (a *App) notifyUserConfirmed(c tele.Context, entry order.Entry) {
	text := a.userConfirmedText(entry)
	user := tele.ChatID(entry.UserID)
	a.enqueue(c, "notify.user.confirmed", "sendMessage", func() error {
		_, err := c.Bot().Send(user, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		return err
	})
}
