package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"log/slog"

	"github.com/lastsymphony/kuotabot/core/logger"
	"github.com/lastsymphony/kuotabot/core/telegram/helpers"
	"github.com/lastsymphony/kuotabot/core/telegram/keyboard"
	"github.com/lastsymphony/kuotabot/internal/catalog"
	"github.com/lastsymphony/kuotabot/internal/msisdn"
	"github.com/lastsymphony/kuotabot/internal/order"

	tele "gopkg.in/telebot.v4"
)

const caraOrderText = "Cara Order:\n" +
	"1. Pilih produk\n" +
	"2. Kirim nomor tujuan\n" +
	"3. Lakukan pembayaran\n\n" +
	"Contoh: pilih nomor produk lalu ikuti instruksi."

const informationText = "Information:\n" +
	"- Jam layanan 08:00-22:00\n" +
	"- Owner: Katheryne\n" +
	"- Support: reply here."

const depositText = "Deposit:\n" +
	"Transfer ke rekening 123456789 a.n. TOKO\n" +
	"Setelah transfer, kirim bukti atau hubungi admin."

// the numeric-selection shortcut only covers small menu numbers;
// anything longer is a candidate phone number
const maxMenuNumber = 30

// handleText is the registry text fallback: reply-keyboard labels,
// pagination, numeric product selection, order destination capture and
// phone-number auto-detection, in that order.
func (a *App) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}
	chatID := c.Chat().ID
	cat := a.catalog.Snapshot()

	switch {
	case matchesLabel(text, catalog.LabelListProduk, "list produk"):
		return a.sendProductList(c, a.page(chatID))
	case matchesLabel(text, catalog.LabelCaraOrder, "cara order"):
		return helpers.SendText(c, caraOrderText)
	case matchesLabel(text, catalog.LabelInformation, "information", "info"):
		return helpers.SendText(c, informationText)
	case matchesLabel(text, catalog.LabelDeposit, "deposit"):
		return helpers.SendText(c, depositText)
	case matchesLabel(text, catalog.LabelLaporanStok, "laporan stok"):
		return helpers.SendText(c, stockReport(cat))
	case text == catalog.LabelPrev:
		return a.turnPage(c, -1)
	case text == catalog.LabelNext:
		return a.turnPage(c, +1)
	case strings.HasPrefix(text, "📄 Halaman"):
		return a.sendProductList(c, a.page(chatID))
	}

	if num, err := strconv.Atoi(text); err == nil && num >= 1 && num <= maxMenuNumber {
		return a.handleProductNumber(c, cat, num)
	}

	if number, ok := msisdn.Normalize(text); ok {
		if a.engine.AwaitingDestination(cat, chatID) {
			return a.completeOrder(c, cat, number)
		}
		return a.lookupQuota(c, number)
	}

	markup := keyboard.ReplyButtons(cat.BuildKeyboard(a.page(chatID), a.cfg.Catalog.PageSize))
	reply := fmt.Sprintf("Maaf, aku nggak mengerti \"%s\". Ketik /menu untuk melihat daftar.", text)
	return helpers.SendText(c, reply, &tele.SendOptions{ReplyMarkup: markup})
}

// matchesLabel accepts the exact keyboard label or a bare typed
// variant without the emoji.
func matchesLabel(text, label string, plain ...string) bool {
	if text == label {
		return true
	}
	lower := strings.ToLower(text)
	for _, p := range plain {
		if lower == p {
			return true
		}
	}
	return false
}

func (a *App) turnPage(c tele.Context, delta int) error {
	chatID := c.Chat().ID
	cat := a.catalog.Snapshot()
	pageSize := a.cfg.Catalog.PageSize

	page := catalog.ClampPage(a.page(chatID)+delta, cat.Len(), pageSize)
	a.setPage(chatID, page)
	return a.sendProductList(c, page)
}

// handleProductNumber sends the product summary with the detail/buy
// inline buttons.
func (a *App) handleProductNumber(c tele.Context, cat *catalog.Catalog, num int) error {
	p, ok := cat.Product(num)
	if !ok {
		if cat.Len() == 0 {
			return helpers.SendText(c, "Daftar produk kosong.")
		}
		return helpers.SendText(c, fmt.Sprintf("Nomor produk tidak valid. Pilih 1..%d", cat.Len()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ *%s*\n", p.Nama)
	if p.Deskripsi != "" {
		b.WriteString(p.Deskripsi + "\n")
	}
	fmt.Fprintf(&b, "ID Produk: %d", p.ID)

	markup := keyboard.InlineRows([]keyboard.InlineBtn{
		{Text: "Detail", Data: fmt.Sprintf("detail:%d", num)},
		// legacy wire kept for old messages; decodes as a detail press
		{Text: "Beli", Data: fmt.Sprintf("buy:%d", num)},
	})
	return helpers.SendMD(c, b.String(), markup)
}

// completeOrder treats the number as the destination of the armed
// purchase session and sends the receipt.
func (a *App) completeOrder(c tele.Context, cat *catalog.Catalog, number string) error {
	chatID := c.Chat().ID
	view, ref, err := a.engine.CompleteOrder(cat, chatID, number)
	if err != nil {
		if errors.Is(err, order.ErrProductNotFound) || errors.Is(err, order.ErrVariationNotFound) {
			return helpers.SendText(c, "❌ Produk sudah tidak tersedia, pesanan dibatalkan.")
		}
		return err
	}

	logger.LogEvent(helpers.BuildContext(c), logger.Order, slog.LevelInfo, "order.completed",
		slog.String("ref", ref),
		slog.String("msisdn", number),
	)
	return helpers.SendText(c, view.Text)
}

// stockReport lists remaining stock per variation from the current
// snapshot.
func stockReport(cat *catalog.Catalog) string {
	if cat.Len() == 0 {
		return "Daftar produk kosong."
	}

	var b strings.Builder
	b.WriteString("📄 Laporan Stok\n")
	for _, p := range cat.Products {
		fmt.Fprintf(&b, "\n%s\n", p.Nama)
		for _, v := range p.Variasi {
			fmt.Fprintf(&b, "  • %s: %d\n", v.Nama, v.Stok)
		}
	}
	return b.String()
}
