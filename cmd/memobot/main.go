package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/codewithmemo/memobot/bot"
	"github.com/codewithmemo/memobot/core/buildinfo"
	corecmd "github.com/codewithmemo/memobot/core/cmd"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	log.Printf("memobot %s (%s, built %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date)

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        bot.LoadConfig,
		Bootstrap:         bot.Bootstrap,
	})
	if err != nil {
		log.Fatalf("memobot: %v", err)
	}
}
