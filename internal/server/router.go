package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sakhihealth/sakhi-backend/internal/handlers"
	"github.com/sakhihealth/sakhi-backend/internal/platform/envutil"
)

type RouterConfig struct {
	MealPlanHandler *handlers.MealPlanHandler
	ChatHandler     *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := strings.Split(envutil.String("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/meal-plan", cfg.MealPlanHandler.Generate)
		api.POST("/chat", cfg.ChatHandler.Respond)
	}

	return router
}
