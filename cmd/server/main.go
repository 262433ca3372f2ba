package main

import (
	"log"
	"net/http"

	"memeboard/internal/config"
	"memeboard/internal/db"
	"memeboard/internal/feed"
	"memeboard/internal/handlers"
	"memeboard/internal/middleware"
	"memeboard/internal/router"
	"memeboard/internal/services"
	"memeboard/internal/utils"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// Initialize Database
	conn := db.Init(cfg.DatabaseURL, cfg.LogLevel)

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 365 * 10, // 10 years
		HttpOnly: true,
		Secure:   cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.CookieName, store))

	// Middleware
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.CORS(cfg.CorsOrigin))
	r.Use(middleware.LoadUser())
	r.Use(middleware.Loaders(conn))

	// Services
	assets := services.NewImgurStore(cfg.ImgurClientID, cfg.ImgurAPIURL)
	mailer := services.NewMailService(cfg)
	users := services.NewUserService(conn, utils.GetCache(), mailer, cfg.CorsOrigin)
	posts := services.NewPostService(conn, assets)
	votes := services.NewVoteService(conn)

	router.RegisterRoutes(r, router.Handlers{
		Auth:  handlers.NewAuthHandler(users),
		Post:  handlers.NewPostHandler(posts, feed.NewPaginator(conn)),
		Vote:  handlers.NewVoteHandler(votes),
		Image: handlers.NewImageHandler(assets),
	})

	log.Printf("🚀 memeboard server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
