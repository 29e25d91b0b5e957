package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lastsymphony/kuotabot/core/telegram/callbacks"
	"github.com/lastsymphony/kuotabot/internal/catalog"
)

// Engine failures the transport maps onto callback toasts.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariationNotFound = errors.New("variation not found")
	ErrNoPendingOrder    = errors.New("no pending order")
)

// Button is one inline button of a rendered view.
type Button struct {
	Text string
	Data string
}

// View is a transport-neutral message: text, optional Markdown parse
// mode, and inline button rows. The Telegram layer turns it into an
// edit or a send.
type View struct {
	Text     string
	Markdown bool
	Buttons  [][]Button
}

const maxButtonLabel = 30

// Engine owns the purchase flow state transitions. All methods take
// the catalog snapshot the triggering update was served against.
type Engine struct {
	store Store

	now    func() time.Time
	newRef func() string
}

// NewEngine builds an engine over a session store.
func NewEngine(store Store) *Engine {
	return &Engine{
		store:  store,
		now:    time.Now,
		newRef: newOrderRef,
	}
}

func newOrderRef() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// session returns the chat's session if it matches the catalog
// snapshot. Sessions created against an older snapshot are dropped.
func (e *Engine) session(cat *catalog.Catalog, chatID int64) (Session, bool) {
	s, ok := e.store.Get(chatID)
	if !ok {
		return Session{}, false
	}
	if s.CatalogVersion != cat.Version {
		e.store.Delete(chatID)
		return Session{}, false
	}
	return s, true
}

// SelectVariation opens the qty UI for a variation with quantity 1.
func (e *Engine) SelectVariation(cat *catalog.Catalog, chatID int64, prodNum, varNum int) (View, error) {
	p, v, err := resolve(cat, prodNum, varNum)
	if err != nil {
		return View{}, err
	}

	e.store.Put(chatID, Session{
		Product:        prodNum,
		Variation:      varNum,
		Qty:            1,
		CatalogVersion: cat.Version,
	})
	return e.qtyView(p, v, prodNum, varNum, 1), nil
}

// AdjustQty applies a plus/minus/refresh press. The quantity is
// clamped to [1, stok]; a session for a different variation or a stale
// snapshot restarts at 1.
func (e *Engine) AdjustQty(cat *catalog.Catalog, chatID int64, prodNum, varNum int, op callbacks.QtyOp) (View, error) {
	p, v, err := resolve(cat, prodNum, varNum)
	if err != nil {
		return View{}, err
	}

	s, ok := e.session(cat, chatID)
	if !ok || s.Product != prodNum || s.Variation != varNum {
		s = Session{Product: prodNum, Variation: varNum, Qty: 1, CatalogVersion: cat.Version}
	}

	switch op {
	case callbacks.QtyPlus:
		if s.Qty < v.Stok {
			s.Qty++
		}
	case callbacks.QtyMinus:
		if s.Qty > 1 {
			s.Qty--
		}
	case callbacks.QtyRefresh:
		// re-render only
	}
	s.AwaitingDest = false
	e.store.Put(chatID, s)
	return e.qtyView(p, v, prodNum, varNum, s.Qty), nil
}

// Buy renders the purchase summary for the session's quantity.
func (e *Engine) Buy(cat *catalog.Catalog, chatID int64, prodNum, varNum int) (View, error) {
	p, v, err := resolve(cat, prodNum, varNum)
	if err != nil {
		return View{}, err
	}

	qty := 1
	if s, ok := e.session(cat, chatID); ok && s.Product == prodNum && s.Variation == varNum {
		qty = s.Qty
	}

	return View{
		Text: detailText(p, v, qty, e.now()),
		Buttons: [][]Button{
			{{Text: "✅ Konfirmasi & Kirim Nomor", Data: callbacks.ConfirmData(prodNum, varNum)}},
			{{Text: "◀️ Kembali", Data: callbacks.BackVarData(prodNum)}},
		},
	}, nil
}

// Confirm arms the session to treat the chat's next phone number as
// the order destination.
func (e *Engine) Confirm(cat *catalog.Catalog, chatID int64, prodNum, varNum int) (View, error) {
	p, v, err := resolve(cat, prodNum, varNum)
	if err != nil {
		return View{}, err
	}

	s, ok := e.session(cat, chatID)
	if !ok || s.Product != prodNum || s.Variation != varNum {
		s = Session{Product: prodNum, Variation: varNum, Qty: 1, CatalogVersion: cat.Version}
	}
	s.AwaitingDest = true
	e.store.Put(chatID, s)

	text := fmt.Sprintf("Kamu akan membeli:\n- %s\n- %s\nJumlah: %d\n\nKirim nomor tujuan sekarang (contoh: 0812xxxxxxxx).",
		p.Nama, v.Nama, s.Qty)
	return View{Text: text}, nil
}

// VariationPicker lists a product's variations, one button per row.
// It backs both the "back to variations" action and the legacy detail
// button.
func (e *Engine) VariationPicker(cat *catalog.Catalog, prodNum int) (View, error) {
	p, ok := cat.Product(prodNum)
	if !ok {
		return View{}, ErrProductNotFound
	}

	rows := make([][]Button, 0, len(p.Variasi)+1)
	for i, v := range p.Variasi {
		rows = append(rows, []Button{{
			Text: truncateLabel(v.Nama, maxButtonLabel),
			Data: callbacks.VarData(prodNum, i+1),
		}})
	}
	rows = append(rows, []Button{{Text: "◀️ Kembali", Data: callbacks.BackListData()}})

	return View{
		Text:     fmt.Sprintf("Pilih variasi untuk *%s*", p.Nama),
		Markdown: true,
		Buttons:  rows,
	}, nil
}

// AwaitingDestination reports whether the chat's next message should
// be read as an order destination number.
func (e *Engine) AwaitingDestination(cat *catalog.Catalog, chatID int64) bool {
	s, ok := e.session(cat, chatID)
	return ok && s.AwaitingDest
}

// CompleteOrder finalizes the armed session with the destination
// number, clears it and returns the receipt.
func (e *Engine) CompleteOrder(cat *catalog.Catalog, chatID int64, msisdn string) (View, string, error) {
	s, ok := e.session(cat, chatID)
	if !ok || !s.AwaitingDest {
		return View{}, "", ErrNoPendingOrder
	}
	p, v, err := resolve(cat, s.Product, s.Variation)
	if err != nil {
		e.store.Delete(chatID)
		return View{}, "", err
	}

	ref := e.newRef()
	e.store.Delete(chatID)
	return View{Text: receiptText(ref, p, v, s.Qty, msisdn, e.now())}, ref, nil
}

// Abandon drops the chat's session, used when the user leaves the flow.
func (e *Engine) Abandon(chatID int64) {
	e.store.Delete(chatID)
}

func (e *Engine) qtyView(p *catalog.Product, v *catalog.Variation, prodNum, varNum, qty int) View {
	return View{
		Text:     detailText(p, v, qty, e.now()),
		Markdown: true,
		Buttons: [][]Button{
			{
				{Text: "➖", Data: callbacks.QtyData(prodNum, varNum, callbacks.QtyMinus)},
				{Text: fmt.Sprintf("Jumlah: %d", qty), Data: callbacks.QtyData(prodNum, varNum, callbacks.QtyRefresh)},
				{Text: "➕", Data: callbacks.QtyData(prodNum, varNum, callbacks.QtyPlus)},
			},
			{
				{Text: "🔄 Refresh", Data: callbacks.QtyData(prodNum, varNum, callbacks.QtyRefresh)},
				{Text: "🛒 Beli", Data: callbacks.BuyData(prodNum, varNum)},
			},
			{
				{Text: "◀️ Kembali", Data: callbacks.BackVarData(prodNum)},
			},
		},
	}
}

func resolve(cat *catalog.Catalog, prodNum, varNum int) (*catalog.Product, *catalog.Variation, error) {
	if _, ok := cat.Product(prodNum); !ok {
		return nil, nil, ErrProductNotFound
	}
	p, v, ok := cat.Variation(prodNum, varNum)
	if !ok {
		return nil, nil, ErrVariationNotFound
	}
	return p, v, nil
}
