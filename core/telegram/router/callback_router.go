package router

import (
	"time"

	"github.com/lastsymphony/kuotabot/core/logger"
	tg "github.com/lastsymphony/kuotabot/core/telegram"
	"github.com/lastsymphony/kuotabot/core/telegram/callbacks"
	"github.com/lastsymphony/kuotabot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// ActionHandler consumes decoded callback actions. It is responsible
// for answering the callback exactly once per invocation.
type ActionHandler interface {
	HandleAction(c tele.Context, act callbacks.Action) error
}

// CallbackRoute returns the single OnCallback route. Raw callback data
// is decoded here once; handlers never see the wire strings.
func CallbackRoute(reg *tg.Registry, actions ActionHandler) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		key := callbacks.Key(cb.Data)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{
			slog.String("cb_key", logger.SanitizeLimit(key, 128)),
		}

		act, ok := callbacks.Parse(cb.Data)
		if !ok || actions == nil {
			fallback := reg.CallbackNotFound()
			extras = append(extras, slog.String("reason", "unparsed"))
			return handleWithSummary(c, name, start, "", "", func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, "", "", func() error {
			return actions.HandleAction(c, act)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
