package main

import (
	"context"
	"log"

	corecmd "github.com/m3rciful/gymbot/core/cmd"
	"github.com/m3rciful/gymbot/internal/bot"
	"github.com/m3rciful/gymbot/internal/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.New(ctx, cfg.(*config.Config))
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
