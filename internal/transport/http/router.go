package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Tri-omph/backend/internal/handlers"
	"github.com/Tri-omph/backend/internal/service/token"
)

type Deps struct {
	Tokens       *token.Service
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Admin        *handlers.AdminHandler
	Scan         *handlers.ScanHandler
	Sorting      *handlers.SortingHandler
	Gamification *handlers.GamificationHandler
	History      *handlers.HistoryHandler
	Metrics      *handlers.MetricsHandler
	Warnings     *handlers.WarningHandler
	Items        *handlers.ItemHandler
	Search       *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.Auth.Register)
	v1.POST("/login", d.Auth.Login)
	v1.POST("/logout", d.Auth.LogOut)

	users := v1.Group("/users", d.Tokens.AutoRefresh)
	users.GET("/me", d.Users.Me)
	users.PATCH("/me", d.Users.UpdateMe)

	scan := v1.Group("/scan", d.Tokens.AutoRefresh, token.ForbidRestricted)
	scan.POST("/barcode", d.Scan.ScanBarcode)
	scan.POST("/waste", d.Scan.SubmitWasteInfo)

	v1.POST("/sort", d.Sorting.SortAndReward, d.Tokens.AutoRefresh, token.ForbidRestricted)

	authed := v1.Group("", d.Tokens.AutoRefresh)
	authed.GET("/points", d.Gamification.GetPoints)
	authed.GET("/metrics", d.Metrics.Get)
	authed.GET("/metrics/bins", d.Metrics.GetBins)
	authed.GET("/search", d.Search.Search)
	authed.GET("/history", d.History.GetCurrent)

	v1.POST("/history", d.History.Add, d.Tokens.AutoRefresh, token.ForbidRestricted)

	admin := v1.Group("/admin", d.Tokens.AdminOnly)
	admin.GET("/users", d.Users.Find)
	admin.GET("/users/:id", d.Users.GetByID)
	admin.GET("/users/:id/warnings", d.Warnings.GetForUser)
	admin.GET("/users/:id/history", d.History.GetForUser)
	admin.GET("/users/:id/metrics", d.Metrics.GetForUser)
	admin.GET("/users/:id/metrics/bins", d.Metrics.GetBinsForUser)
	admin.POST("/users/:id/promote", d.Admin.Promote)
	admin.POST("/users/:id/restrict", d.Admin.Restrict)
	admin.POST("/users/:id/free", d.Admin.Free)
	admin.POST("/items", d.Items.Create)
	admin.PATCH("/items/:id", d.Items.Patch)
	admin.DELETE("/items/:id", d.Items.Delete)

	// Demotion stays with the main admin alone.
	v1.POST("/admin/users/:id/demote", d.Admin.Demote, d.Tokens.MainAdminOnly)
}
