package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler) {
	server.POST("/import/:entityType", importHandler.StartImport)
	server.GET("/import/:entityType/status", importHandler.ImportStatus)
}
