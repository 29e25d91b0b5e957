package catalog

import "fmt"

// Reply keyboard labels. The text router matches on these exact
// strings, so they live next to the keyboard builder.
const (
	LabelListProduk  = "🏷 List Produk"
	LabelCaraOrder   = "❓ Cara Order"
	LabelInformation = "⚠️ Information"
	LabelDeposit     = "💰 Deposit"
	LabelLaporanStok = "📄 Laporan Stok"
	LabelPrev        = "◀️ Prev"
	LabelNext        = "Next ▶️"
)

const numbersPerRow = 5

// PageLabel renders the "📄 Halaman p / t" keyboard button for a page.
func PageLabel(page, pages int) string {
	return fmt.Sprintf("📄 Halaman %d / %d", page, pages)
}

// BuildKeyboard lays out the persistent reply keyboard for a page:
// a static top row, the page's product numbers five per row, a nav
// row, and the deposit/stock row. Page is clamped into range.
func (c *Catalog) BuildKeyboard(page, pageSize int) [][]string {
	pages := Pages(c.Len(), pageSize)
	page = ClampPage(page, c.Len(), pageSize)
	items, start := c.pageSlice(page, pageSize)

	rows := [][]string{
		{LabelListProduk, LabelCaraOrder, LabelInformation},
	}

	var row []string
	for i := range items {
		row = append(row, fmt.Sprintf("%d", start+i+1))
		if len(row) == numbersPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []string
	if page > 1 {
		nav = append(nav, LabelPrev)
	}
	nav = append(nav, PageLabel(page, pages))
	if page < pages {
		nav = append(nav, LabelNext)
	}
	rows = append(rows, nav)

	rows = append(rows, []string{LabelDeposit, LabelLaporanStok})
	return rows
}
