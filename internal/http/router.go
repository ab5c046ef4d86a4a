package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linchh/campus-carpool/internal/http/middleware"
)

func NewRouter(handler *Handler, authMiddleware, optionalAuth gin.HandlerFunc, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(environment))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.Register(router, authMiddleware, optionalAuth)
	return router
}
