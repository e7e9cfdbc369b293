package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"storage-reservation-backend/config"
	"storage-reservation-backend/internal/mw"
	"storage-reservation-backend/internal/notification"
	"storage-reservation-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, mail *notification.WorkerPool, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, mail, cfg)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authed := mw.Auth(cfg.Auth.JWTSecret)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/account/login", handler.Login)
		api.POST("/account/forgotPassword", handler.ForgotPassword)

		account := api.Group("/account", authed)
		{
			account.GET("/userinfo", handler.GetUserInfo)
			account.PUT("/userinfo", handler.UpdateOwnInfo)
			account.POST("/changePassword", handler.ChangePassword)

			admin := account.Group("/admin", mw.RequireAdmin())
			{
				admin.POST("/users", handler.RegisterUser)
				admin.GET("/users", handler.ListUsers)
				admin.PUT("/users/:id", handler.UpdateUser)
				admin.DELETE("/users/:id", handler.DeleteUser)
			}
		}

		reservations := api.Group("/reservations", authed)
		{
			reservations.GET("", handler.GetOwnReservations)
			reservations.POST("", handler.CreateReservation)
			reservations.PATCH("/:id", handler.PatchOwnReservation)
			reservations.DELETE("/:id", handler.DeleteOwnReservation)

			reservations.GET("/admin", mw.RequireStorageHandler(), handler.GetAllReservations)
			reservations.PATCH("/admin/:id", mw.RequireAdmin(), handler.PatchAnyReservation)
			reservations.DELETE("/admin/:id", mw.RequireAdmin(), handler.DeleteAnyReservation)
		}

		storage := api.Group("/storage", authed)
		{
			storage.GET("", handler.GetStorage)
			storage.GET("/handler", mw.RequireStorageHandler(), handler.GetStorageForHandler)
			storage.POST("/items", mw.RequireStorageHandler(), handler.AddStorageItem)
			storage.POST("/fulfill", mw.RequireStorageHandler(), handler.FulfillReservation)
		}

		api.GET("/shelves", authed, mw.RequireStorageHandler(), handler.GetShelfStatus)

		catalog := api.Group("/catalog", authed)
		{
			// The catalog changes rarely and is identical for every
			// caller, so its listing is served from the response cache.
			catalog.GET("", caching, handler.GetCatalog)

			catalog.POST("/categories", mw.RequireAdmin(), handler.CreateCategory)
			catalog.POST("/items", mw.RequireAdmin(), handler.CreateCatalogItem)
			catalog.DELETE("/items/:name", mw.RequireAdmin(), handler.DeleteCatalogItem)
			catalog.DELETE("/categories/:name", mw.RequireAdmin(), handler.DeleteCategory)
		}
	}

	return r
}
