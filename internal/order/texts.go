package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/lastsymphony/kuotabot/internal/catalog"
)

const orderTimeLayout = "2006-01-02 15:04:05"

// FormatRupiah renders a price with Indonesian thousands separators,
// e.g. 1250000 -> "1.250.000".
func FormatRupiah(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// detailText renders the boxed variation detail shown with the qty
// controls and again as the purchase summary.
func detailText(p *catalog.Product, v *catalog.Variation, qty int, now time.Time) string {
	total := v.Harga * int64(qty)

	var b strings.Builder
	b.WriteString("tambahkan jumlah pembelian:\n")
	b.WriteString("╭───────────────\n")
	fmt.Fprintf(&b, "┊・Produk : %s\n", p.Nama)
	fmt.Fprintf(&b, "┊・Variasi : %s\n", v.Nama)
	fmt.Fprintf(&b, "┊・Kode : %s\n", v.Kode)
	fmt.Fprintf(&b, "┊・Sisa Produk : %d\n", v.Stok)
	if p.Deskripsi != "" {
		fmt.Fprintf(&b, "┊・Desk : %s\n", p.Deskripsi)
	}
	b.WriteString("╰───────────────\n")
	b.WriteString("╭───────────────\n")
	fmt.Fprintf(&b, "┊・Jumlah : %d\n", qty)
	fmt.Fprintf(&b, "┊・Harga : Rp %s\n", FormatRupiah(v.Harga))
	fmt.Fprintf(&b, "┊・Total Harga : Rp %s\n", FormatRupiah(total))
	b.WriteString("╰───────────────\n")
	fmt.Fprintf(&b, "\nCurrent Date: %s", now.Format(orderTimeLayout))
	return b.String()
}

// receiptText renders the final order confirmation once a destination
// number arrived.
func receiptText(ref string, p *catalog.Product, v *catalog.Variation, qty int, msisdn string, now time.Time) string {
	total := v.Harga * int64(qty)

	var b strings.Builder
	b.WriteString("✅ Pesanan dibuat!\n")
	b.WriteString("╭───────────────\n")
	fmt.Fprintf(&b, "┊・Ref : %s\n", ref)
	fmt.Fprintf(&b, "┊・Produk : %s\n", p.Nama)
	fmt.Fprintf(&b, "┊・Variasi : %s\n", v.Nama)
	fmt.Fprintf(&b, "┊・Kode : %s\n", v.Kode)
	fmt.Fprintf(&b, "┊・Jumlah : %d\n", qty)
	fmt.Fprintf(&b, "┊・Total : Rp %s\n", FormatRupiah(total))
	fmt.Fprintf(&b, "┊・Tujuan : %s\n", msisdn)
	b.WriteString("╰───────────────\n")
	b.WriteString("\nAdmin akan segera memproses pesananmu.\n")
	fmt.Fprintf(&b, "Current Date: %s", now.Format(orderTimeLayout))
	return b.String()
}

// truncateLabel shortens long variation names for inline buttons.
func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
