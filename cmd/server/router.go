package main

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/inkpost/internal/handlers"
)

func APIEndpoints(
	r *gin.Engine,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	postH *handlers.PostHandler,
	feedH *handlers.FeedHandler,
	authMW gin.HandlerFunc,
	wsMW gin.HandlerFunc,
) {
	// Auth endpoints
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.GET("/profile/:username", authH.GetProfile)
		auth.GET("/avatar/:id", userH.GetAvatar)

		protected := auth.Group("/", authMW)
		{
			protected.POST("/logout", authH.Logout)
			protected.GET("/me", userH.GetMe)
			protected.PUT("/profile", userH.UpdateMe)
			protected.DELETE("/avatar", userH.DeleteAvatar)
		}
	}

	// Post endpoints
	posts := r.Group("/api/posts")
	{
		posts.GET("", postH.GetPosts)
		posts.GET("/:id", postH.GetPost)
		posts.GET("/:id/image", postH.GetPostImage)

		protected := posts.Group("", authMW)
		{
			protected.POST("", postH.CreatePost)
			protected.PUT("/:id", postH.UpdatePost)
			protected.DELETE("/:id", postH.DeletePost)
			protected.PATCH("/:id/like", postH.ToggleLike)
			protected.POST("/:id/comment", postH.AddComment)
		}
	}

	// Live feed
	r.GET("/api/feed/ws", wsMW, feedH.HandleFeed)
}
