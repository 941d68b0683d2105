package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/thereayou/inkpost/internal/database"
	"github.com/thereayou/inkpost/internal/feed"
	"github.com/thereayou/inkpost/internal/handlers"
	"github.com/thereayou/inkpost/internal/imagecache"
	"github.com/thereayou/inkpost/internal/middleware"
	"github.com/thereayou/inkpost/pkg/auth"
)

// Токен живет 7 дней; раньше он умирает только при logout или повторном login
const tokenTTL = 7 * 24 * time.Hour

const imageCacheTTL = 24 * time.Hour

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *feed.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(os.Getenv("JWT_SECRET"), tokenTTL)

	images := imagecache.New(rdb, imageCacheTTL)

	hub := feed.NewHub()
	go hub.Run()

	authH := handlers.NewAuthHandler(dbConn, jwtMgr)
	userH := handlers.NewUserHandler(dbConn, images)
	postH := handlers.NewPostHandler(dbConn, hub, images)
	feedH := handlers.NewFeedHandler(hub)

	authMW := middleware.AuthMiddleware(jwtMgr, dbConn)
	wsMW := middleware.WSAuthMiddleware(jwtMgr, dbConn)

	router := gin.Default()
	APIEndpoints(router, authH, userH, postH, feedH, authMW, wsMW)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
