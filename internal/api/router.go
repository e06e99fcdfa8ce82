package api

import (
	"github.com/0xn1k/AIConflux/config"
	_ "github.com/0xn1k/AIConflux/docs"
	"github.com/0xn1k/AIConflux/internal/api/v1/auth"
	chatRoutes "github.com/0xn1k/AIConflux/internal/api/v1/chat"
	purchaseRoutes "github.com/0xn1k/AIConflux/internal/api/v1/purchase"
	userRoutes "github.com/0xn1k/AIConflux/internal/api/v1/user"
	"github.com/0xn1k/AIConflux/internal/database"
	"github.com/0xn1k/AIConflux/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			chatRoutes.RegisterRoutes(authorized)
			purchaseRoutes.RegisterRoutes(authorized)
		}
	}

	return router, nil
}
