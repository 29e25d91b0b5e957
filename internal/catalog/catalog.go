// Package catalog holds the product list the purchase flow sells:
// loading it from a JSON file or Postgres, paginating it into the
// persistent reply keyboard, and stamping each load with a version so
// stale purchase sessions can be detected after a reload.
package catalog

import "context"

// Variation is a sellable denomination of a product.
type Variation struct {
	Nama  string `json:"nama" db:"nama"`
	Kode  string `json:"kode" db:"kode"`
	Harga int64  `json:"harga" db:"harga"`
	Stok  int    `json:"stok" db:"stok"`
}

// Product groups variations under one listing.
type Product struct {
	ID        int         `json:"id"`
	Nama      string      `json:"nama"`
	Deskripsi string      `json:"deskripsi"`
	Terjual   int         `json:"terjual"`
	Variasi   []Variation `json:"variasi"`
}

// Source loads the product list from wherever it lives.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// Catalog is an immutable snapshot of the product list. Version
// changes on every reload; sessions created against an older version
// are void.
type Catalog struct {
	Products []Product
	Version  int64
}

// Product resolves a 1-based product number, the same numbering shown
// on the reply keyboard.
func (c *Catalog) Product(num int) (*Product, bool) {
	if num < 1 || num > len(c.Products) {
		return nil, false
	}
	return &c.Products[num-1], true
}

// Variation resolves a 1-based variation number within a product.
func (c *Catalog) Variation(prodNum, varNum int) (*Product, *Variation, bool) {
	p, ok := c.Product(prodNum)
	if !ok {
		return nil, nil, false
	}
	if varNum < 1 || varNum > len(p.Variasi) {
		return nil, nil, false
	}
	return p, &p.Variasi[varNum-1], true
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.Products) }

// Pages returns the page count for the given page size, never less
// than one so an empty catalog still renders "Halaman 1 / 1".
func Pages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage forces page into [1, Pages(total, pageSize)].
func ClampPage(page, total, pageSize int) int {
	pages := Pages(total, pageSize)
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

// pageSlice returns the products visible on a page plus the global
// index of its first item.
func (c *Catalog) pageSlice(page, pageSize int) ([]Product, int) {
	page = ClampPage(page, c.Len(), pageSize)
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > c.Len() {
		end = c.Len()
	}
	return c.Products[start:end], start
}
