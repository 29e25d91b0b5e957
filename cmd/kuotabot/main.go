package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/lastsymphony/kuotabot/core/bootstrap"
	"github.com/lastsymphony/kuotabot/core/cmd"
	coreconfig "github.com/lastsymphony/kuotabot/core/config"
	coretelegram "github.com/lastsymphony/kuotabot/core/telegram"
	"github.com/lastsymphony/kuotabot/core/telegram/router"
)

func main() {
	// optional; real env wins over .env values
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        coreconfig.Load,
		Bootstrap:         buildApp,
	})
	if err != nil {
		log.Fatalf("kuotabot: %v", err)
	}
}

func buildApp(ctx context.Context, cfg *coreconfig.Config) (coretelegram.RunOptions, func(), error) {
	res, err := bootstrap.Run(ctx, cfg)
	if err != nil {
		return coretelegram.RunOptions{}, nil, err
	}

	routes := router.CommandRoutes(res.Registry, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})
	routes = append(routes,
		router.TextRoute(res.Registry, router.TextOptions{}),
		router.CallbackRoute(res.Registry, res.App),
	)

	opts := coretelegram.RunOptions{
		Config:      cfg,
		Registry:    res.Registry,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
	}
	return opts, res.Close, nil
}
