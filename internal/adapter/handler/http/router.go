package http

import (
	"strings"

	"github.com/fintrack/user-auth-service/internal/config"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	config *config.HTTP,
	authService ports.AuthService,
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
) (*Router, error) {
	if config.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// CORS
	ginConfig := cors.DefaultConfig()
	ginConfig.AllowOrigins = strings.Split(config.AllowedOrigins, ",")

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), cors.New(ginConfig))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes without auth
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	// Routes with auth
	users := router.Group("/users")
	users.Use(AuthMiddleware(authService))
	{
		users.GET("/me", authHandler.Me)
		users.GET("/me/preferences", profileHandler.GetPreferences)
		users.PUT("/me/preferences", profileHandler.SavePreferences)
		users.GET("/me/transactions", profileHandler.ListTransactions)
		users.POST("/me/transactions", profileHandler.AddTransaction)
		users.PUT("/me/transactions/:id", profileHandler.UpdateTransaction)
		users.DELETE("/me/transactions/:id", profileHandler.RemoveTransaction)
	}

	return &Router{
		Engine: router,
	}, nil
}

// Starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
