package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", qrHandler)
		api.GET("/templates", h.listTemplates)
		api.GET("/branches", h.listBranches)

		api.POST("/sessions", limitBody(jsonBodyLimit), h.createSession)
		api.GET("/sessions/:id", h.getSession)
		api.PATCH("/sessions/:id", limitBody(jsonBodyLimit), h.patchSession)
		api.DELETE("/sessions/:id", h.deleteSession)
		api.POST("/sessions/:id/photo", limitBody(h.uploadLimit()), h.uploadPhoto)
		api.DELETE("/sessions/:id/photo", h.clearPhoto)
		api.GET("/sessions/:id/preview", h.preview)
		api.POST("/sessions/:id/download", h.download)
		api.POST("/sessions/:id/share", h.share)
	}
}
