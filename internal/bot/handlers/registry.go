package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/gatebot/internal/render"
	"github.com/edgard/gatebot/internal/telegram"
)

// RegisterAllCommands initializes and returns a map of all available bot handlers.
// Every handler is wrapped in Recover; admin commands additionally in AdminOnly.
func RegisterAllCommands(deps HandlerDeps) map[string]telegram.RegisteredHandler {
	handlers := make(map[string]telegram.RegisteredHandler)
	recoverMiddleware := []tgbot.Middleware{Recover(deps)}

	handlers["/start"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  recoverMiddleware,
	}
	handlers["/site"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "site",
		Handler:     NewSiteHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  recoverMiddleware,
	}
	handlers[render.CheckCallbackData] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     render.CheckCallbackData,
		Handler:     NewCheckHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  recoverMiddleware,
	}

	handlers["/stats"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "stats",
		Handler:     NewStatsHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  []tgbot.Middleware{Recover(deps), AdminOnly(deps)},
	}

	return handlers
}
