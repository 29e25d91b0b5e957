package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/lastsymphony/kuotabot/core/logger"
	"github.com/lastsymphony/kuotabot/core/telegram/helpers"
	"github.com/lastsymphony/kuotabot/core/telegram/keyboard"
	"github.com/lastsymphony/kuotabot/internal/msisdn"

	tele "gopkg.in/telebot.v4"
)

const startText = "Halo 👋\n\n" +
	"Gunakan perintah berikut:\n" +
	"/cek <nomor> - Cek kuota nomor telepon\n" +
	"/kuota <nomor> - Cek kuota nomor telepon\n" +
	"/cekkuota <nomor> - Cek kuota nomor telepon\n\n" +
	"Contoh: /cek 081234567890"

const cekUsageText = "📋 <b>Cara Menggunakan Cek Kuota:</b>\n\n" +
	"<code>/cek &lt;nomor&gt;</code>\n" +
	"<code>/kuota &lt;nomor&gt;</code>\n" +
	"<code>/cekkuota &lt;nomor&gt;</code>"

const invalidNumberText = "❌ Nomor tidak valid.\n\n" +
	"<b>Contoh:</b>\n<code>/cek 081234567890</code>"

// sessions older than this are dropped on /reload
const sessionTTL = time.Hour

// commandArg returns the text after the command. Telebot fills
// Payload for real commands; texts routed through the fallback carry
// the argument inline.
func commandArg(c tele.Context) string {
	if m := c.Message(); m != nil && m.Payload != "" {
		return strings.TrimSpace(m.Payload)
	}
	text := strings.TrimSpace(c.Text())
	if idx := strings.IndexByte(text, ' '); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return ""
}

func (a *App) handleStart(c tele.Context) error {
	return helpers.SendText(c, startText)
}

// handleMenu resets the chat to page 1 and sends the product list with
// the persistent reply keyboard.
func (a *App) handleMenu(c tele.Context) error {
	a.setPage(c.Chat().ID, 1)
	return a.sendProductList(c, 1)
}

func (a *App) sendProductList(c tele.Context, page int) error {
	cat := a.catalog.Snapshot()
	if cat.Len() == 0 {
		return helpers.SendText(c, "Daftar produk kosong.")
	}

	pageSize := a.cfg.Catalog.PageSize
	text := cat.BuildListText(page, pageSize, time.Now())
	markup := keyboard.ReplyButtons(cat.BuildKeyboard(page, pageSize))
	return helpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: markup})
}

// handleCek serves /cek, /kuota and /cekkuota. The bare command prints
// usage; an argument is normalized and looked up.
func (a *App) handleCek(c tele.Context) error {
	arg := commandArg(c)
	if arg == "" {
		return helpers.ReplyText(c, cekUsageText, &tele.SendOptions{ParseMode: tele.ModeHTML})
	}

	number, ok := msisdn.Normalize(arg)
	if !ok {
		return helpers.ReplyText(c, invalidNumberText, &tele.SendOptions{ParseMode: tele.ModeHTML})
	}
	return a.lookupQuota(c, number)
}

// handleAI forwards the question to the assistant, editing a loading
// message into the answer.
func (a *App) handleAI(c tele.Context) error {
	question := commandArg(c)
	if question == "" {
		return helpers.SendText(c, "Contoh: /ai apa itu kuota multimedia?")
	}

	loading, err := c.Bot().Send(c.Recipient(), "🤖 Gemini sedang berpikir...")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(helpers.BuildContext(c), 60*time.Second)
	defer cancel()

	answer, err := a.assist.Ask(ctx, question)
	if err != nil {
		logger.LogEvent(ctx, logger.Assistant, slog.LevelWarn, "assistant.failed",
			slog.String("err", err.Error()),
		)
		_, editErr := c.Bot().Edit(loading, "⚠️ Terjadi error saat menghubungi Gemini.")
		return editErr
	}

	_, err = c.Bot().Edit(loading, "✨ Gemini\n\n"+answer)
	return err
}

// handleReload refreshes the catalog snapshot and drops stale purchase
// sessions. Admin only.
func (a *App) handleReload(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	if err := a.catalog.Load(ctx); err != nil {
		logger.LogEvent(ctx, logger.Catalog, slog.LevelError, "catalog.reload_failed",
			slog.String("err", err.Error()),
		)
		return helpers.SendText(c, fmt.Sprintf("❌ Gagal memuat ulang katalog: %s", err))
	}

	purged := a.sessions.PurgeOlderThan(time.Now().Add(-sessionTTL))
	if purged > 0 {
		logger.LogEvent(ctx, logger.Order, slog.LevelInfo, "sessions.purged",
			slog.Int("count", purged),
		)
	}

	cat := a.catalog.Snapshot()
	return helpers.SendText(c, fmt.Sprintf("✅ Katalog dimuat ulang: %d produk (versi %d).", cat.Len(), cat.Version))
}
