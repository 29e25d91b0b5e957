package order

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lastsymphony/kuotabot/core/telegram/callbacks"
	"github.com/lastsymphony/kuotabot/internal/catalog"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	e := NewEngine(NewMemoryStore())
	e.now = func() time.Time { return testNow }
	e.newRef = func() string { return "AB12CD34" }
	return e
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Version: 1,
		Products: []catalog.Product{
			{
				ID:        1,
				Nama:      "Paket Data XL",
				Deskripsi: "Kuota nasional",
				Variasi: []catalog.Variation{
					{Nama: "1GB / 30 hari", Kode: "XL1", Harga: 12000, Stok: 5},
					{Nama: "5GB / 30 hari", Kode: "XL5", Harga: 45000, Stok: 3},
				},
			},
			{
				ID:      2,
				Nama:    "Pulsa",
				Variasi: []catalog.Variation{{Nama: "10k", Kode: "PLS10", Harga: 11000, Stok: 0}},
			},
		},
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{45000, "45.000"},
		{1250000, "1.250.000"},
		{-45000, "-45.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(tc.in); got != tc.want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSelectVariation(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	view, err := e.SelectVariation(cat, 7, 1, 2)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, want := range []string{
		"┊・Produk : Paket Data XL",
		"┊・Variasi : 5GB / 30 hari",
		"┊・Kode : XL5",
		"┊・Sisa Produk : 3",
		"┊・Desk : Kuota nasional",
		"┊・Jumlah : 1",
		"┊・Harga : Rp 45.000",
		"┊・Total Harga : Rp 45.000",
		"Current Date: 2026-08-30 12:00:00",
	} {
		if !strings.Contains(view.Text, want) {
			t.Fatalf("detail missing %q:\n%s", want, view.Text)
		}
	}
	if len(view.Buttons) != 3 {
		t.Fatalf("button rows = %d", len(view.Buttons))
	}
	if view.Buttons[0][2].Data != "qty:1:2:plus" {
		t.Fatalf("plus data = %q", view.Buttons[0][2].Data)
	}
	if view.Buttons[1][1].Data != "buy:1:2" {
		t.Fatalf("buy data = %q", view.Buttons[1][1].Data)
	}
	if view.Buttons[2][0].Data != "back:var:1" {
		t.Fatalf("back data = %q", view.Buttons[2][0].Data)
	}
}

func TestSelectVariationErrors(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	if _, err := e.SelectVariation(cat, 7, 9, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.SelectVariation(cat, 7, 1, 9); !errors.Is(err, ErrVariationNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestAdjustQtyClampsToStock(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	if _, err := e.SelectVariation(cat, 7, 1, 2); err != nil {
		t.Fatal(err)
	}

	// stok is 3: three plus presses stop at 3
	var view View
	var err error
	for i := 0; i < 3; i++ {
		view, err = e.AdjustQty(cat, 7, 1, 2, callbacks.QtyPlus)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(view.Text, "┊・Jumlah : 3") {
		t.Fatalf("qty should clamp at stock:\n%s", view.Text)
	}

	// minus floors at 1
	for i := 0; i < 5; i++ {
		view, err = e.AdjustQty(cat, 7, 1, 2, callbacks.QtyMinus)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(view.Text, "┊・Jumlah : 1") {
		t.Fatalf("qty should floor at 1:\n%s", view.Text)
	}
}

func TestAdjustQtyZeroStockNeverIncrements(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	view, err := e.AdjustQty(cat, 7, 2, 1, callbacks.QtyPlus)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(view.Text, "┊・Jumlah : 1") {
		t.Fatalf("zero stock must stay at qty 1:\n%s", view.Text)
	}
}

func TestAdjustQtySwitchingVariationResets(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	if _, err := e.SelectVariation(cat, 7, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AdjustQty(cat, 7, 1, 2, callbacks.QtyPlus); err != nil {
		t.Fatal(err)
	}

	// pressing qty on a different variation restarts at 1
	view, err := e.AdjustQty(cat, 7, 1, 1, callbacks.QtyRefresh)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(view.Text, "┊・Jumlah : 1") {
		t.Fatalf("switching variation must reset qty:\n%s", view.Text)
	}
}

func TestBuyUsesSessionQty(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	if _, err := e.SelectVariation(cat, 7, 1, 2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := e.AdjustQty(cat, 7, 1, 2, callbacks.QtyPlus); err != nil {
			t.Fatal(err)
		}
	}

	view, err := e.Buy(cat, 7, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(view.Text, "┊・Jumlah : 3") {
		t.Fatalf("buy must use session qty:\n%s", view.Text)
	}
	if !strings.Contains(view.Text, "┊・Total Harga : Rp 135.000") {
		t.Fatalf("total = harga * qty:\n%s", view.Text)
	}
	if view.Buttons[0][0].Data != "confirm:1:2" {
		t.Fatalf("confirm data = %q", view.Buttons[0][0].Data)
	}
}

func TestBuyWithoutSessionDefaultsToOne(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	view, err := e.Buy(cat, 7, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(view.Text, "┊・Jumlah : 1") {
		t.Fatalf("no session must default qty to 1:\n%s", view.Text)
	}
}

func TestConfirmAndCompleteOrder(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	if _, err := e.SelectVariation(cat, 7, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AdjustQty(cat, 7, 1, 2, callbacks.QtyPlus); err != nil {
		t.Fatal(err)
	}

	view, err := e.Confirm(cat, 7, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(view.Text, "Kirim nomor tujuan sekarang") {
		t.Fatalf("confirm text:\n%s", view.Text)
	}
	if !e.AwaitingDestination(cat, 7) {
		t.Fatal("confirm must arm the destination prompt")
	}

	receipt, ref, err := e.CompleteOrder(cat, 7, "628123456789")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ref != "AB12CD34" {
		t.Fatalf("ref = %q", ref)
	}
	for _, want := range []string{
		"✅ Pesanan dibuat!",
		"┊・Ref : AB12CD34",
		"┊・Jumlah : 2",
		"┊・Total : Rp 90.000",
		"┊・Tujuan : 628123456789",
	} {
		if !strings.Contains(receipt.Text, want) {
			t.Fatalf("receipt missing %q:\n%s", want, receipt.Text)
		}
	}

	// session is consumed
	if e.AwaitingDestination(cat, 7) {
		t.Fatal("completed order must clear the session")
	}
	if _, _, err := e.CompleteOrder(cat, 7, "628123456789"); !errors.Is(err, ErrNoPendingOrder) {
		t.Fatalf("second complete err = %v", err)
	}
}

func TestCatalogReloadVoidsSession(t *testing.T) {
	e := testEngine()
	cat := testCatalog()

	if _, err := e.SelectVariation(cat, 7, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Confirm(cat, 7, 1, 2); err != nil {
		t.Fatal(err)
	}

	reloaded := testCatalog()
	reloaded.Version = 2

	if e.AwaitingDestination(reloaded, 7) {
		t.Fatal("session from the old snapshot must be void")
	}
	if _, _, err := e.CompleteOrder(reloaded, 7, "628123456789"); !errors.Is(err, ErrNoPendingOrder) {
		t.Fatalf("err = %v", err)
	}
}

func TestVariationPicker(t *testing.T) {
	e := testEngine()
	cat := testCatalog()
	cat.Products[0].Variasi[0].Nama = strings.Repeat("x", 40)

	view, err := e.VariationPicker(cat, 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.Text != "Pilih variasi untuk *Paket Data XL*" {
		t.Fatalf("text = %q", view.Text)
	}
	if !view.Markdown {
		t.Fatal("picker renders in Markdown")
	}
	if len(view.Buttons) != 3 {
		t.Fatalf("rows = %d, want one per variation plus back", len(view.Buttons))
	}
	if got := view.Buttons[0][0].Text; got != strings.Repeat("x", 27)+"..." {
		t.Fatalf("long labels must be truncated, got %q", got)
	}
	if view.Buttons[0][0].Data != "var:1:1" {
		t.Fatalf("data = %q", view.Buttons[0][0].Data)
	}
	if view.Buttons[2][0].Data != "back:list" {
		t.Fatalf("back data = %q", view.Buttons[2][0].Data)
	}
}

func TestMemoryStorePurge(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Put(1, Session{Product: 1})
	now = now.Add(time.Hour)
	s.Put(2, Session{Product: 2})

	removed := s.PurgeOlderThan(now.Add(-30 * time.Minute))
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	if _, ok := s.Get(1); ok {
		t.Fatal("stale session should be gone")
	}
	if _, ok := s.Get(2); !ok {
		t.Fatal("fresh session should remain")
	}
}
