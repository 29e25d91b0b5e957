package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLSource reads the product list from Postgres. Deployments that
// manage the catalog outside the repo point the bot at the database
// instead of shipping a JSON file.
type SQLSource struct {
	db *sqlx.DB
}

// NewSQLSource builds a source over an open connection pool.
func NewSQLSource(db *sqlx.DB) *SQLSource {
	return &SQLSource{db: db}
}

type productRow struct {
	ID        int    `db:"id"`
	Nama      string `db:"nama"`
	Deskripsi string `db:"deskripsi"`
	Terjual   int    `db:"terjual"`
}

type variationRow struct {
	ProductID int    `db:"product_id"`
	Position  int    `db:"position"`
	Nama      string `db:"nama"`
	Kode      string `db:"kode"`
	Harga     int64  `db:"harga"`
	Stok      int    `db:"stok"`
}

// Load fetches products with their variations ordered by id and
// position, so keyboard numbering is stable across reloads.
func (s *SQLSource) Load(ctx context.Context) ([]Product, error) {
	var prodRows []productRow
	if err := s.db.SelectContext(ctx, &prodRows,
		`SELECT id, nama, deskripsi, terjual FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	var varRows []variationRow
	if err := s.db.SelectContext(ctx, &varRows,
		`SELECT product_id, position, nama, kode, harga, stok
		 FROM variations ORDER BY product_id, position`); err != nil {
		return nil, fmt.Errorf("select variations: %w", err)
	}

	byProduct := make(map[int][]Variation, len(prodRows))
	for _, v := range varRows {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], Variation{
			Nama:  v.Nama,
			Kode:  v.Kode,
			Harga: v.Harga,
			Stok:  v.Stok,
		})
	}

	products := make([]Product, 0, len(prodRows))
	for _, p := range prodRows {
		products = append(products, Product{
			ID:        p.ID,
			Nama:      p.Nama,
			Deskripsi: p.Deskripsi,
			Terjual:   p.Terjual,
			Variasi:   byProduct[p.ID],
		})
	}
	return products, nil
}
