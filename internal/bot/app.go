// Package bot wires the ordering conversation to Telegram: it translates
// inbound updates into flow events, renders flow effects into messages and
// keyboards, and owns the admin confirmation command.
package bot

import (
	"context"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	coreconfig "orderbot/core/config"
	coretelegram "orderbot/core/telegram"
	"orderbot/core/telegram/commands"
	"orderbot/core/telegram/helpers"
	"orderbot/core/telegram/router"
	"orderbot/core/telegram/sender"
	"orderbot/internal/flow"
	"orderbot/internal/menu"
	"orderbot/internal/order"
)

// App is the assembled ordering bot.
type App struct {
	cfg      *coreconfig.Config
	catalog  *menu.Catalog
	ledger   *order.Ledger
	sessions *flow.Store
	machine  *flow.Machine

	dispatcher atomic.Pointer[sender.Dispatcher]
}

// New assembles the bot from configuration and a loaded catalog.
func New(cfg *coreconfig.Config, catalog *menu.Catalog) *App {
	return &App{
		cfg:      cfg,
		catalog:  catalog,
		ledger:   order.NewLedger(),
		sessions: flow.NewStore(),
		machine:  flow.NewMachine(catalog),
	}
}

// CoreConfig exposes the underlying configuration.
func (a *App) CoreConfig() *coreconfig.Config {
	return a.cfg
}

// InProgress reports whether the user has an active order conversation.
// Part of the router.FSM contract.
func (a *App) InProgress(userID int64) bool {
	return a.sessions.InProgress(userID)
}

// TelegramRunOptions builds the registry, routes, and middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Show the welcome message",
		Aliases:     []string{"Start"},
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     a.handleMenu,
		Description: "Browse the menu and place an order",
		Aliases:     []string{"Menu"},
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Cancel the current order",
		Aliases:     []string{"Cancel"},
	})
	reg.RegisterCommand("/confirm", commands.Command{
		Handler:     a.handleConfirm,
		Description: "Confirm a submitted order",
		AdminOnly:   true,
		Hidden:      true,
	})

	if err := reg.RegisterCallback(cbOrderItem, a.handleItemCallback); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(cbOrderMore, a.handleMoreCallback); err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
		OnAdminReject: func(c tele.Context) error {
			return helpers.SendText(c, msgAdminOnly)
		},
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{
		UnknownText: func(c tele.Context) error {
			return helpers.SendText(c, msgHint, &tele.SendOptions{ReplyMarkup: persistentKeyboard()})
		},
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.dispatcher.Store(rt.Dispatcher)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.dispatcher.Store(nil)
			return nil
		},
	}, nil
}
