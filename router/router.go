package router

import (
	"SwiftShare/internal/handler"
	"SwiftShare/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.GET("/activate", handler.Activate)
		api.POST("/login", handler.Login)

		public := api.Group("/public/files")
		public.Use(utils.OptionalAuthMiddleware())
		{
			public.POST("/upload", handler.Upload)
			public.GET("/download/:uuid", handler.Download)
		}

		// Legacy paths kept for older clients.
		legacy := api.Group("/files")
		legacy.Use(utils.OptionalAuthMiddleware())
		{
			legacy.POST("/upload", handler.Upload)
			legacy.GET("/download/:uuid", handler.Download)
		}

		user := api.Group("/user/files")
		user.Use(utils.AuthMiddleware())
		{
			user.GET("", handler.ListFiles)
			user.POST("/upload", handler.Upload)
			user.GET("/download/:uuid", handler.Download)
			user.DELETE("/:uuid", handler.DeleteFile)
			user.GET("/:uuid/downloads", handler.FileDownloadEvents)
		}
	}
	return r
}
