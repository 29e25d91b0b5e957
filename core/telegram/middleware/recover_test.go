package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type panicContext struct {
	tele.Context

	callback *tele.Callback
	sent     []string
	responds []*tele.CallbackResponse
}

func (c *panicContext) Callback() *tele.Callback { return c.callback }

func (c *panicContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *panicContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	c.responds = append(c.responds, resp[0])
	return nil
}

func TestRecoverNotifiesOnMessagePanic(t *testing.T) {
	c := &panicContext{}
	h := RecoverMiddleware(func(tele.Context) error {
		panic("boom")
	})

	if err := h(c); err != nil {
		t.Fatalf("recovered handler returned %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != "❌ Terjadi kesalahan. Coba lagi nanti." {
		t.Fatalf("sent = %+v, want a single error notice", c.sent)
	}
	if len(c.responds) != 0 {
		t.Fatalf("responds = %d, want none for plain messages", len(c.responds))
	}
}

func TestRecoverAnswersCallbackPanic(t *testing.T) {
	c := &panicContext{callback: &tele.Callback{ID: "cb1"}}
	h := RecoverMiddleware(func(tele.Context) error {
		panic("boom")
	})

	if err := h(c); err != nil {
		t.Fatalf("recovered handler returned %v", err)
	}
	if len(c.responds) != 1 || c.responds[0].Text != "❌ Terjadi kesalahan." {
		t.Fatalf("responds = %+v, want a single callback answer", c.responds)
	}
	if len(c.sent) != 0 {
		t.Fatalf("sent = %+v, want no separate message for callbacks", c.sent)
	}
}

func TestRecoverPassesThrough(t *testing.T) {
	c := &panicContext{}
	called := false
	h := RecoverMiddleware(func(tele.Context) error {
		called = true
		return nil
	})

	if err := h(c); err != nil {
		t.Fatalf("handler returned %v", err)
	}
	if !called {
		t.Fatal("next handler not invoked")
	}
	if len(c.sent) != 0 || len(c.responds) != 0 {
		t.Fatal("no notice expected without a panic")
	}
}
