package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lastsymphony/kuotabot/core/telegram/callbacks"
	"github.com/lastsymphony/kuotabot/internal/catalog"
	"github.com/lastsymphony/kuotabot/internal/guard"
	"github.com/lastsymphony/kuotabot/internal/quota"

	tele "gopkg.in/telebot.v4"
)

// actionContext fakes the handful of tele.Context methods the retry
// flow touches. Untouched methods panic via the embedded nil interface.
type actionContext struct {
	tele.Context

	chat     *tele.Chat
	store    map[string]interface{}
	editErr  error
	edits    []string
	responds []*tele.CallbackResponse
}

func newActionContext() *actionContext {
	return &actionContext{
		chat:  &tele.Chat{ID: 7},
		store: map[string]interface{}{},
	}
}

func (c *actionContext) Chat() *tele.Chat                { return c.chat }
func (c *actionContext) Sender() *tele.User              { return &tele.User{ID: 7} }
func (c *actionContext) Update() tele.Update             { return tele.Update{ID: 1} }
func (c *actionContext) Get(key string) interface{}      { return c.store[key] }
func (c *actionContext) Set(key string, val interface{}) { c.store[key] = val }

func (c *actionContext) Edit(what interface{}, _ ...interface{}) error {
	if c.editErr != nil {
		return c.editErr
	}
	if s, ok := what.(string); ok {
		c.edits = append(c.edits, s)
	}
	return nil
}

func (c *actionContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	c.responds = append(c.responds, resp[0])
	return nil
}

type staticProvider struct {
	report string
	err    error
}

func (p staticProvider) Name() string { return "static" }

func (p staticProvider) Lookup(context.Context, string) (string, error) {
	return p.report, p.err
}

func newQuotaApp(p quota.Provider) *App {
	return New(Options{
		Catalog: catalog.NewManager(nil),
		Quota:   quota.NewClient(p),
		Guard:   guard.New(time.Second, time.Second),
	})
}

func retryAction(number string) callbacks.Action {
	return callbacks.Action{Kind: callbacks.KindRetryQuota, MSISDN: number}
}

func TestRetryAnswersCallbackWhenEditFails(t *testing.T) {
	a := newQuotaApp(staticProvider{report: "ok"})
	c := newActionContext()
	c.editErr = errors.New("message to edit not found")

	err := a.HandleAction(c, retryAction("628123456789"))
	if err == nil {
		t.Fatal("expected the edit error to propagate")
	}
	if len(c.responds) != 1 {
		t.Fatalf("callback answered %d times, want 1", len(c.responds))
	}
	if got := c.responds[0].Text; got != "❌ Terjadi kesalahan." {
		t.Errorf("toast = %q", got)
	}
}

func TestRetrySuccessAnswersOnce(t *testing.T) {
	a := newQuotaApp(staticProvider{report: "<b>laporan</b>"})
	c := newActionContext()

	if err := a.HandleAction(c, retryAction("628123456789")); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(c.responds) != 1 {
		t.Fatalf("callback answered %d times, want 1", len(c.responds))
	}
	if got := c.responds[0].Text; got != "✅ Kuota berhasil dicek ulang!" {
		t.Errorf("toast = %q", got)
	}
	if len(c.edits) != 2 {
		t.Fatalf("edits = %d, want loading then report", len(c.edits))
	}
	if c.edits[1] != "<b>laporan</b>" {
		t.Errorf("final edit = %q", c.edits[1])
	}
}

func TestRetryWhileInFlight(t *testing.T) {
	a := newQuotaApp(staticProvider{report: "ok"})
	release, ok := a.guard.Acquire("7:628123456789")
	if !ok {
		t.Fatal("could not hold the in-flight slot")
	}
	defer release()

	c := newActionContext()
	if err := a.HandleAction(c, retryAction("628123456789")); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(c.edits) != 0 {
		t.Fatalf("edits = %d, want none while in flight", len(c.edits))
	}
	if len(c.responds) != 1 || c.responds[0].Text != "⏳ Sedang diproses..." {
		t.Fatalf("responds = %+v, want a single busy toast", c.responds)
	}
}
