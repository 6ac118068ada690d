package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nellaibill/teachersbank/config"
	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/logger"
	"github.com/nellaibill/teachersbank/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg)

	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	logger.Log.Infof("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		logger.Log.Fatal(err)
	}
}
