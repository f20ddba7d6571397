package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/Plant-GO/biodex/internal/api/middleware"
)

// SetupRoutes configures all REST API routes. Writes require authentication.
func SetupRoutes(router *gin.Engine, handler Handler, auth *middleware.Authenticator) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/pools", handler.ListPools)
		v1.GET("/subjects/:subject/counter", handler.GetCounter)
		v1.GET("/subjects/:subject/ownership/:holder", handler.GetOwnership)
		v1.GET("/issuances", handler.ListIssuances)

		write := v1.Group("", middleware.Auth(auth))
		write.POST("/invocations", handler.SubmitInvocation)
		write.POST("/cards/regular", handler.IssueRegularCard)
		write.POST("/cards/quiz", handler.IssueQuizCard)
		write.POST("/pools", handler.CreateAssetPool)
	}
}
