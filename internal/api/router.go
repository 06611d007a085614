package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"accountability-backend/config"
	"accountability-backend/internal/mw"
	"accountability-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, webpushOptions, cfg.Engine)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheStore := cache.New(cfg.Server.CacheTTL(), 2*cfg.Server.CacheTTL())
	caching := mw.Cache(cacheStore, cfg.Server.CacheTTL())

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Room listing changes rarely; everything else is evaluated
		// fresh so countdowns and streaks stay live.
		api.GET("/rooms", caching, GetRooms(db))

		api.GET("/rooms/:room_id/members/:user_id/status", handler.GetMemberStatus)
		api.PUT("/rooms/:room_id/members/:user_id/records", handler.PutRecord)
		api.POST("/rooms/:room_id/members/:user_id/records/review", handler.ReviewRecord)

		api.GET("/rooms/:room_id/members/:user_id/escalation", handler.GetEscalation)
		api.POST("/rooms/:room_id/members/:user_id/consequences", handler.PostConsequence)
		api.POST("/consequences/:id/resolve", handler.ResolveConsequence)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
