package router

import (
	"du-console/api/handler"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, duH *handler.DUHandler) {
	r.GET("/health", duH.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/summary", duH.Summary)

		profile := api.Group("/:profile")
		{
			profile.POST("/tokens", duH.Tokens)
			profile.POST("/compile", duH.Compile)
			profile.POST("/search", duH.Search)
			profile.POST("/export", duH.Export)
			profile.GET("/export", duH.ExportLast)
			profile.PUT("/records/:id", duH.Update)
			profile.DELETE("/records/:id", duH.Delete)
		}
	}
}
