package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// MountSwagger serves the generated API docs at /swagger. Handlers in auth
// run first; pass none for public docs.
func MountSwagger(engine *gin.Engine, auth ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, auth...), ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET("/swagger/*any", handlers...)
}
