package middleware

import (
	"context"
	"runtime/debug"

	"github.com/lastsymphony/kuotabot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware catches panics in handlers and prevents the bot
// from crashing. The user gets a best-effort error notice; for
// callback updates it doubles as the callback answer so the button
// spinner does not hang.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.LogEvent(context.Background(), logger.TG, slog.LevelError, "tg.panic",
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				if c.Callback() != nil {
					_ = c.Respond(&tele.CallbackResponse{Text: "❌ Terjadi kesalahan."})
				} else {
					_ = c.Send("❌ Terjadi kesalahan. Coba lagi nanti.")
				}
			}
		}()
		return next(c)
	}
}
