// Package app wires the domain packages into Telegram handlers: the
// command set, the reply-menu text router and the callback action
// switch. Everything stateful lives behind the injected components;
// the handlers here only translate updates into domain calls and
// domain views into messages.
package app

import (
	"sync"

	"github.com/lastsymphony/kuotabot/core/config"
	tg "github.com/lastsymphony/kuotabot/core/telegram"
	"github.com/lastsymphony/kuotabot/core/telegram/commands"
	"github.com/lastsymphony/kuotabot/internal/assistant"
	"github.com/lastsymphony/kuotabot/internal/catalog"
	"github.com/lastsymphony/kuotabot/internal/guard"
	"github.com/lastsymphony/kuotabot/internal/order"
	"github.com/lastsymphony/kuotabot/internal/quota"
)

// App owns the handler set. It implements router.ActionHandler for
// callback updates and registers its commands and the text fallback
// on a Registry.
type App struct {
	cfg      *config.Config
	catalog  *catalog.Manager
	engine   *order.Engine
	sessions order.Store
	quota    *quota.Client
	guard    *guard.Guard
	assist   *assistant.Assistant // nil when no API key is configured

	mu    sync.Mutex
	pages map[int64]int // reply-keyboard page per chat
}

// Options carries the components the App needs.
type Options struct {
	Config    *config.Config
	Catalog   *catalog.Manager
	Engine    *order.Engine
	Sessions  order.Store
	Quota     *quota.Client
	Guard     *guard.Guard
	Assistant *assistant.Assistant
}

// New builds the App.
func New(opts Options) *App {
	return &App{
		cfg:      opts.Config,
		catalog:  opts.Catalog,
		engine:   opts.Engine,
		sessions: opts.Sessions,
		quota:    opts.Quota,
		guard:    opts.Guard,
		assist:   opts.Assistant,
		pages:    make(map[int64]int),
	}
}

// Register adds the command set and the text fallback to the registry.
// The /ai command only exists when an assistant is configured.
func (a *App) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Mulai bot dan lihat perintah",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     a.handleMenu,
		Description: "Tampilkan daftar produk",
	})
	reg.RegisterCommand("/cek", commands.Command{
		Handler:     a.handleCek,
		Description: "Cek kuota nomor telepon",
		Aliases:     []string{"kuota", "cekkuota"},
	})
	if a.assist != nil {
		reg.RegisterCommand("/ai", commands.Command{
			Handler:     a.handleAI,
			Description: "Tanya asisten AI",
		})
	}
	reg.RegisterCommand("/reload", commands.Command{
		Handler:     a.handleReload,
		Description: "Muat ulang katalog produk",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.SetTextFallback(a.handleText)
}

// page returns the chat's current keyboard page, defaulting to 1.
func (a *App) page(chatID int64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.pages[chatID]; ok {
		return p
	}
	return 1
}

func (a *App) setPage(chatID int64, page int) {
	a.mu.Lock()
	a.pages[chatID] = page
	a.mu.Unlock()
}
