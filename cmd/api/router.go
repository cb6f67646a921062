package api

import (
	"net/http"

	"github.com/saswatds/moneyy/internal/auth/delivery"
	authUsecase "github.com/saswatds/moneyy/internal/auth/usecase"
	connDelivery "github.com/saswatds/moneyy/internal/connection/delivery"
	connUsecase "github.com/saswatds/moneyy/internal/connection/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, connectionUsecase connUsecase.ConnectionUsecase) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	connectionHandler := connDelivery.NewConnectionHandler(connectionUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// Connection routes (protected)
		connections := api.Group("/connections")
		connections.Use(delivery.AuthMiddleware(authUsecase))
		{
			connections.GET("", connectionHandler.ListConnections)
			connections.POST("", connectionHandler.Connect)
			connections.GET("/:id", connectionHandler.GetConnection)
			connections.PATCH("/:id", connectionHandler.UpdateConnection)
			connections.POST("/:id/sync", connectionHandler.TriggerSync)
			connections.DELETE("/:id", connectionHandler.DeleteConnection)
		}

		// Provider routes (protected) - credential checks and quick reconnect
		providers := api.Group("/providers")
		providers.Use(delivery.AuthMiddleware(authUsecase))
		{
			providers.GET("/:provider/check-credentials", connectionHandler.CheckCredentials)
			providers.POST("/:provider/reconnect", connectionHandler.Reconnect)
		}
	}
}
