package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ftsampaio/sales-import/internal/application/importer"
	httpecho "github.com/ftsampaio/sales-import/internal/interfaces/http/echo"
)

func NewHTTPServer(orchestrator *importer.Orchestrator) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())

	importHandler := httpecho.NewImportHandler(orchestrator)
	httpecho.RegisterRoutes(server, importHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}
