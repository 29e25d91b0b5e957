// Package keyboard builds tele.ReplyMarkup values from plain data.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn is one inline button carrying raw callback data. The data
// string goes on the wire verbatim, so buttons on old messages keep
// resolving after restarts.
type InlineBtn struct {
	Text string
	Data string
}

// ReplyButtons builds a resizing reply keyboard from rows of text.
func ReplyButtons(rows [][]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// InlineRows builds an inline keyboard from rows of InlineBtn.
func InlineRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Data}
		}
		inline[i] = r
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// SingleInline builds a one-button inline keyboard.
func SingleInline(text, data string) *tele.ReplyMarkup {
	return InlineRows([]InlineBtn{{Text: text, Data: data}})
}
