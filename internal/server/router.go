package server

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all the routes for the RAG service.
func RegisterRoutes(router *gin.Engine, api *API) {
	router.GET("/healthz", api.HealthHandler)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/upload", api.UploadHandler)
		v1.POST("/upload/stream", api.UploadStreamHandler)
		v1.POST("/chat", api.ChatHandler)
	}
}
