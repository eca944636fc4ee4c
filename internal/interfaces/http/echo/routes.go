package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, ledgerHandler *LedgerHandler) {
	server.POST("/api/v1/imports/batches", importHandler.SubmitBatch)
	server.POST("/api/v1/imports/files", importHandler.ImportFromFile)
	server.GET("/api/v1/imports/batches", ledgerHandler.ListBatches)
	server.GET("/api/v1/imports/batches/:id", ledgerHandler.GetBatch)
	server.POST("/api/v1/imports/batches/:id/rollback", ledgerHandler.RollbackBatch)
}
