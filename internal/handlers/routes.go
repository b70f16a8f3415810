package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the portfolio API and the stock registry on r
func RegisterRoutes(r gin.IRouter, portfolio *PortfolioHandler, txns *TransactionHandler, imports *ImportHandler, stocks *StockHandler) {
	p := r.Group("/portfolio")
	p.GET("", portfolio.GetPortfolio)
	p.GET("/summary", portfolio.GetSummary)
	p.GET("/holdings", portfolio.ListHoldings)
	p.GET("/holdings/:ticker", portfolio.GetHolding)
	p.PATCH("/holdings/:ticker", txns.UpdateNotes)

	p.GET("/transactions", txns.List)
	p.POST("/transactions", txns.Create)
	p.DELETE("/transactions/:id", txns.Delete)
	p.POST("/positions/:ticker/rebuild", txns.Rebuild)

	p.POST("/import", imports.Import)
	p.GET("/import/template", imports.Template)

	s := r.Group("/stocks")
	s.GET("", stocks.List)
	s.POST("", stocks.Create)
	s.GET("/:ticker", stocks.Get)
	s.PATCH("/:ticker", stocks.Update)
	s.DELETE("/:ticker", stocks.Delete)
}
