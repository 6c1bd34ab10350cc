package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jedrzejbor/osiedlsie/internal/api/handlers"
	"github.com/jedrzejbor/osiedlsie/internal/api/middleware"
	"github.com/jedrzejbor/osiedlsie/internal/config"
	"github.com/jedrzejbor/osiedlsie/internal/services"
	"github.com/jedrzejbor/osiedlsie/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, client *mongo.Client, database *mongo.Database, rdb *redis.Client, store storage.Storage, taskClient handlers.IAsynqClient) *gin.Engine {
	authService := services.NewAuthService(database, cfg)
	imageService := services.NewImageService(client, database, rdb, store)
	listingService := services.NewListingService(client, database, cfg, rdb, store)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService)
	imageHandler := handlers.NewImageHandler(cfg, imageService, store, taskClient)

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Uploaded files are served directly when the local driver is active.
	if cfg.StorageDriver == "local" {
		r.Static(cfg.PublicUploadPath, cfg.UploadDir)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	listings := r.Group("/listings")
	{
		// The catalogue never varies by identity; the detail read carries
		// optional identity so owners see their own drafts.
		listings.GET("", listingHandler.FindAll)
		listings.GET("/:id", middleware.OptionalAuthMiddleware(cfg.JwtSecret), listingHandler.FindOne)

		authRequired := listings.Group("")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.POST("", listingHandler.Create)
			authRequired.GET("/my/all", listingHandler.FindMy)
			authRequired.PUT("/:id", listingHandler.Update)
			authRequired.DELETE("/:id", listingHandler.Remove)
			authRequired.POST("/:id/publish", listingHandler.Publish)
			authRequired.POST("/:id/unpublish", listingHandler.Unpublish)
			authRequired.POST("/:id/archive", listingHandler.Archive)

			authRequired.POST("/images/upload", imageHandler.Upload)
			authRequired.POST("/images/upload-single", imageHandler.UploadSingle)
			authRequired.DELETE("/images/:imageId", imageHandler.Remove)
			authRequired.POST("/:id/images/reorder", imageHandler.Reorder)
		}
	}

	return r
}
