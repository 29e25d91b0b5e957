package app

import (
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/lastsymphony/kuotabot/core/logger"
	"github.com/lastsymphony/kuotabot/core/telegram/callbacks"
	"github.com/lastsymphony/kuotabot/core/telegram/helpers"
	"github.com/lastsymphony/kuotabot/core/telegram/keyboard"
	"github.com/lastsymphony/kuotabot/internal/quota"

	tele "gopkg.in/telebot.v4"
)

const lookupFailedText = "❌ Gagal cek kuota atau nomor tidak ditemukan."

func retryMarkup(number string) *tele.ReplyMarkup {
	return keyboard.SingleInline("🔄 Cek ulang", callbacks.RetryData(number))
}

// lookupQuota runs the guarded lookup flow for a normalized number:
// in-flight lock, duplicate debounce, per-user rate window, then a
// loading message edited into the report or the failure text.
func (a *App) lookupQuota(c tele.Context, number string) error {
	chatID := c.Chat().ID
	userID := chatID
	if s := c.Sender(); s != nil {
		userID = s.ID
	}
	key := fmt.Sprintf("%d:%s", chatID, number)
	ctx := helpers.BuildContext(c)

	release, ok := a.guard.Acquire(key)
	if !ok {
		logger.LogEvent(ctx, logger.Guard, slog.LevelInfo, "guard.in_flight",
			slog.String("msisdn", number),
		)
		text := fmt.Sprintf("⏳ Permintaan untuk <code>%s</code> sedang diproses...", number)
		return helpers.ReplyText(c, text, &tele.SendOptions{ParseMode: tele.ModeHTML})
	}
	defer release()

	if !a.guard.CheckDuplicate(key) {
		logger.LogEvent(ctx, logger.Guard, slog.LevelDebug, "guard.duplicate",
			slog.String("msisdn", number),
		)
		return nil
	}

	if wait, ok := a.guard.CheckRate(userID); !ok {
		logger.LogEvent(ctx, logger.Guard, slog.LevelInfo, "guard.rate_limited",
			slog.Int("wait_seconds", wait),
		)
		return helpers.ReplyText(c, fmt.Sprintf("⏳ Tunggu %d detik sebelum cek lagi.", wait))
	}

	loading, err := c.Bot().Send(c.Recipient(),
		fmt.Sprintf("🔍 Mengecek kuota <code>%s</code> ...", number),
		&tele.SendOptions{ParseMode: tele.ModeHTML, ReplyTo: c.Message()},
	)
	if err != nil {
		return err
	}

	text, opts := a.runLookup(c, number)
	_, err = c.Bot().Edit(loading, text, opts...)
	return err
}

// retryQuota re-runs the lookup in place of an existing report after a
// retry button press. It answers the callback itself.
func (a *App) retryQuota(c tele.Context, number string) error {
	chatID := c.Chat().ID
	key := fmt.Sprintf("%d:%s", chatID, number)

	release, ok := a.guard.Acquire(key)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "⏳ Sedang diproses..."})
	}
	defer release()

	if err := c.Edit("🔍 Mengecek kuota lagi..."); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: "❌ Terjadi kesalahan."})
		return err
	}

	text, opts := a.runLookup(c, number)
	if err := c.Edit(text, opts...); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: "❌ Terjadi kesalahan."})
		return err
	}
	return c.Respond(&tele.CallbackResponse{Text: "✅ Kuota berhasil dicek ulang!"})
}

// runLookup performs the provider chain call and maps the outcome to
// message text and send options (parse mode plus retry markup on
// success).
func (a *App) runLookup(c tele.Context, number string) (string, []interface{}) {
	ctx := helpers.WithHandler(c, "quota.lookup")

	start := time.Now()
	report, err := a.quota.Lookup(ctx, number)
	took := time.Since(start)

	switch {
	case err == nil:
		logger.LogEvent(ctx, logger.Quota, slog.LevelInfo, "quota.result",
			slog.String("msisdn", number),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return report, []interface{}{
			&tele.SendOptions{ParseMode: tele.ModeHTML},
			retryMarkup(number),
		}
	case errors.Is(err, quota.ErrNotFound):
		logger.LogEvent(ctx, logger.Quota, slog.LevelInfo, "quota.not_found",
			slog.String("msisdn", number),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return lookupFailedText, nil
	default:
		logger.LogEvent(ctx, logger.Quota, slog.LevelWarn, "quota.failed",
			slog.String("msisdn", number),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return fmt.Sprintf("❌ Error: %s", err), nil
	}
}
