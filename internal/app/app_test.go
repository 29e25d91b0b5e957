package app

import (
	"strings"
	"testing"

	"github.com/lastsymphony/kuotabot/internal/catalog"
	"github.com/lastsymphony/kuotabot/internal/order"
)

func TestMatchesLabel(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{catalog.LabelListProduk, true},
		{"list produk", true},
		{"LIST PRODUK", true},
		{"List Produk extra", false},
		{"produk", false},
	}
	for _, tc := range cases {
		if got := matchesLabel(tc.text, catalog.LabelListProduk, "list produk"); got != tc.want {
			t.Errorf("matchesLabel(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestStockReport(t *testing.T) {
	cat := &catalog.Catalog{Products: []catalog.Product{
		{
			Nama: "Paket Data XL",
			Variasi: []catalog.Variation{
				{Nama: "XL 1GB", Kode: "XL1", Stok: 25},
				{Nama: "XL 5GB", Kode: "XL5", Stok: 0},
			},
		},
	}}

	got := stockReport(cat)
	for _, want := range []string{
		"📄 Laporan Stok",
		"Paket Data XL",
		"• XL 1GB: 25",
		"• XL 5GB: 0",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stockReport missing %q in:\n%s", want, got)
		}
	}
}

func TestStockReportEmpty(t *testing.T) {
	if got := stockReport(&catalog.Catalog{}); got != "Daftar produk kosong." {
		t.Fatalf("empty catalog report = %q", got)
	}
}

func TestErrToast(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{order.ErrProductNotFound, "Produk tidak ditemukan."},
		{order.ErrVariationNotFound, "Variasi tidak ditemukan."},
		{order.ErrNoPendingOrder, "Data tidak valid."},
	}
	for _, tc := range cases {
		if got := errToast(tc.err); got != tc.want {
			t.Errorf("errToast(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestViewMarkup(t *testing.T) {
	view := order.View{Buttons: [][]order.Button{
		{{Text: "➖", Data: "qty:1:1:minus"}, {Text: "➕", Data: "qty:1:1:plus"}},
		{{Text: "🛒 Beli", Data: "buy:1:1"}},
	}}

	markup := viewMarkup(view)
	if markup == nil {
		t.Fatal("expected markup")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][0].Data; got != "qty:1:1:minus" {
		t.Errorf("first button data = %q", got)
	}
	if got := markup.InlineKeyboard[1][0].Text; got != "🛒 Beli" {
		t.Errorf("buy button text = %q", got)
	}

	if viewMarkup(order.View{}) != nil {
		t.Error("view without buttons should yield nil markup")
	}
}
