package main

import (
	"log"

	"orderbot/core/bootstrap"
	corecmd "orderbot/core/cmd"
	coreconfig "orderbot/core/config"
	"orderbot/internal/bot"
)

type configCarrier struct {
	cfg *coreconfig.Config
}

func (c configCarrier) CoreConfig() *coreconfig.Config { return c.cfg }

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return configCarrier{cfg: cfg}, nil
		},
		Bootstrap: func(cc corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := cc.CoreConfig()
			res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			return bot.New(cfg, res.Catalog), nil
		},
	})
	if err != nil {
		log.Fatalf("orderbot: %v", err)
	}
}
