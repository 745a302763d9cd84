package main

import (
	stdLog "log"

	"github.com/joho/godotenv"

	"github.com/openshelf/openshelf/app"
	"github.com/openshelf/openshelf/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file; relying on the environment")
	}
	cfg := config.NewConfig()

	app.Run(cfg)
}
