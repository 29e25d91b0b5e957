package catalog

import (
	"fmt"
	"strings"
	"time"
)

const listTimeLayout = "2006-01-02 15:04:05"

// BuildListText renders the numbered product list for a page, with
// sold counts and a timestamp footer. Page is clamped into range.
func (c *Catalog) BuildListText(page, pageSize int, now time.Time) string {
	pages := Pages(c.Len(), pageSize)
	page = ClampPage(page, c.Len(), pageSize)
	items, start := c.pageSlice(page, pageSize)

	var b strings.Builder
	b.WriteString("Daftar Produk\n\n")
	for i, p := range items {
		fmt.Fprintf(&b, "[%d]. %s ( %d )\n", start+i+1, p.Nama, p.Terjual)
	}
	fmt.Fprintf(&b, "\n📄 Halaman %d / %d\n", page, pages)
	fmt.Fprintf(&b, "📆 %s\n", now.Format(listTimeLayout))
	return b.String()
}
