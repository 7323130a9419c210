package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"orderbot/core/logger"
	"orderbot/core/telegram/helpers"
	"orderbot/internal/order"
)

type confirmResult struct {
	reply     string
	entry     order.Entry
	confirmed bool
}

// resolveConfirm applies the /confirm command against the ledger. The caller
// check runs first so a non-admin never mutates state, even though the route
// is already behind the admin middleware.
func resolveConfirm(ledger *order.Ledger, callerID, adminID int64, args []string) confirmResult {
	if callerID != adminID {
		return confirmResult{reply: msgAdminOnly}
	}
	if len(args) != 1 {
		return confirmResult{reply: "Usage: `/confirm <user_id>`"}
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return confirmResult{reply: fmt.Sprintf("Invalid user ID: `%s`", args[0])}
	}
	entry, ok := ledger.Confirm(userID)
	if !ok {
		return confirmResult{reply: fmt.Sprintf("No order found for user %d.", userID)}
	}
	return confirmResult{
		reply:     fmt.Sprintf("✅ Order for user %d has been confirmed successfully.", userID),
		entry:     entry,
		confirmed: true,
	}
}

func (a *App) handleConfirm(c tele.Context) error {
	res := resolveConfirm(a.ledger, c.Sender().ID, a.cfg.Telegram.AdminID, c.Args())
	if res.confirmed {
		ctx := helpers.BuildContext(c)
		logger.LogEvent(ctx, logger.LEDGER, slog.LevelInfo, "order.confirmed",
			slog.Int64("user_id", res.entry.UserID),
			slog.String("total", res.entry.Total.StringFixed(2)),
			slog.Int("pending_count", a.ledger.Pending()),
		)
		a.notifyUserConfirmed(c, res.entry)
	}
	return helpers.SendMD(c, res.reply)
}
