package app

import (
	"errors"
	"strings"

	"github.com/lastsymphony/kuotabot/core/telegram/callbacks"
	"github.com/lastsymphony/kuotabot/core/telegram/helpers"
	"github.com/lastsymphony/kuotabot/core/telegram/keyboard"
	"github.com/lastsymphony/kuotabot/internal/order"

	tele "gopkg.in/telebot.v4"
)

const backToListText = "Kembali ke daftar produk. Ketik /menu atau tekan List Produk."

// HandleAction dispatches one decoded callback press. Every branch
// answers the callback exactly once: a toast on domain errors, a bare
// ack before rendering otherwise.
func (a *App) HandleAction(c tele.Context, act callbacks.Action) error {
	chatID := c.Chat().ID
	cat := a.catalog.Snapshot()

	switch act.Kind {
	case callbacks.KindSelectVariation:
		view, err := a.engine.SelectVariation(cat, chatID, act.Product, act.Variation)
		if err != nil {
			return a.toast(c, errToast(err))
		}
		return a.renderEdit(c, view)

	case callbacks.KindQty:
		view, err := a.engine.AdjustQty(cat, chatID, act.Product, act.Variation, act.Op)
		if err != nil {
			return a.toast(c, errToast(err))
		}
		return a.renderEdit(c, view)

	case callbacks.KindBuy:
		view, err := a.engine.Buy(cat, chatID, act.Product, act.Variation)
		if err != nil {
			return a.toast(c, errToast(err))
		}
		return a.renderSend(c, view)

	case callbacks.KindConfirm:
		view, err := a.engine.Confirm(cat, chatID, act.Product, act.Variation)
		if err != nil {
			return a.toast(c, errToast(err))
		}
		return a.renderSend(c, view)

	case callbacks.KindBackList:
		a.engine.Abandon(chatID)
		if err := c.Respond(&tele.CallbackResponse{}); err != nil {
			return err
		}
		return helpers.SendText(c, backToListText)

	case callbacks.KindBackVariations:
		view, err := a.engine.VariationPicker(cat, act.Product)
		if err != nil {
			return a.toast(c, errToast(err))
		}
		return a.renderEdit(c, view)

	case callbacks.KindDetail:
		// legacy detail/buy buttons from the product summary open the
		// variation picker
		view, err := a.engine.VariationPicker(cat, act.Product)
		if err != nil {
			return a.toast(c, errToast(err))
		}
		return a.renderEdit(c, view)

	case callbacks.KindRetryQuota:
		return a.retryQuota(c, act.MSISDN)
	}

	return a.toast(c, "Action tidak dikenali.")
}

func (a *App) toast(c tele.Context, text string) error {
	return c.Respond(&tele.CallbackResponse{Text: text})
}

func errToast(err error) string {
	switch {
	case errors.Is(err, order.ErrProductNotFound):
		return "Produk tidak ditemukan."
	case errors.Is(err, order.ErrVariationNotFound):
		return "Variasi tidak ditemukan."
	default:
		return "Data tidak valid."
	}
}

// renderEdit acks the callback and edits the pressed message in place,
// falling back to a fresh send when the message is gone.
func (a *App) renderEdit(c tele.Context, view order.View) error {
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}

	markup := viewMarkup(view)
	var err error
	if view.Markdown {
		err = helpers.EditOrSendMD(c, view.Text, markup)
	} else {
		err = helpers.EditOrSendText(c, view.Text, markup)
	}
	// a refresh press re-renders identical content
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

// renderSend acks the callback and sends the view as a new message,
// leaving the pressed one intact.
func (a *App) renderSend(c tele.Context, view order.View) error {
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}

	markup := viewMarkup(view)
	if view.Markdown {
		if markup != nil {
			return helpers.SendMD(c, view.Text, markup)
		}
		return helpers.SendMD(c, view.Text)
	}
	if markup != nil {
		return helpers.SendText(c, view.Text, &tele.SendOptions{ReplyMarkup: markup})
	}
	return helpers.SendText(c, view.Text)
}

func viewMarkup(view order.View) *tele.ReplyMarkup {
	if len(view.Buttons) == 0 {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, len(view.Buttons))
	for i, row := range view.Buttons {
		btns := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			btns[j] = keyboard.InlineBtn{Text: b.Text, Data: b.Data}
		}
		rows[i] = btns
	}
	return keyboard.InlineRows(rows...)
}
