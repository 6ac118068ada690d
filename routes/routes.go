package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/nellaibill/teachersbank/config"
	"github.com/nellaibill/teachersbank/handlers"
	"github.com/nellaibill/teachersbank/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	tch := handlers.NewTeacherHandler()
	dsp := handlers.NewDispatchHandler()
	fup := handlers.NewFollowupHandler()
	rpt := handlers.NewReportHandler()
	usr := handlers.NewUserHandler()

	e.GET("/health", handlers.Health)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	adminMW := middlewares.RequireRole("admin")

	api := e.Group("/api")

	// ===== Auth =====
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", auth.Logout)
	api.GET("/auth/me", auth.Me, authMW)

	// ===== Teachers =====
	api.GET("/teachers", tch.List)
	api.POST("/teachers", tch.Create)
	api.GET("/teachers/:id", tch.Get)
	api.PUT("/teachers/:id", tch.Update)
	api.DELETE("/teachers/:id", tch.Delete)

	// ===== Dispatch (barcode scan + register) =====
	api.POST("/dispatch", dsp.Scan)
	api.GET("/dispatch", dsp.List)
	api.GET("/dispatch/:id", dsp.Get)
	api.PUT("/dispatch/:id", dsp.Update)

	// ===== Followups =====
	api.GET("/followups", fup.List)
	api.GET("/followups/:id", fup.Get)
	api.PUT("/followups/:id", fup.Update)

	// ===== Reports =====
	api.GET("/reports", rpt.Get)

	// ===== Users (admin console) =====
	users := api.Group("/users", authMW)
	users.GET("", usr.List, adminMW)
	users.POST("", usr.Create, adminMW)
	users.GET("/:id", usr.Get) // admin or self, checked in handler
	users.PUT("/:id", usr.Update, adminMW)
	users.DELETE("/:id", usr.Delete, adminMW)
}
