package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/quillhq/quillbackend/controllers"
	"github.com/quillhq/quillbackend/database"
	"github.com/quillhq/quillbackend/middleware"
	"github.com/quillhq/quillbackend/repositories"
	"github.com/quillhq/quillbackend/services"
	"github.com/quillhq/quillbackend/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Println("Error loading .env file")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	ctx := context.Background()
	database.Connect()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}

	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol); err != nil {
		log.WithError(err).Fatal("failed to seed admin user")
	}

	userRepo := repositories.NewMongoUserRepository(usersCol)
	postRepo := repositories.NewMongoPostRepository(database.OpenCollection("posts"))
	commentRepo := repositories.NewMongoCommentRepository(database.OpenCollection("comments"))
	likeRepo := repositories.NewMongoLikeRepository(database.OpenCollection("likes"))
	savedRepo := repositories.NewMongoSavedPostRepository(database.OpenCollection("saved_posts"))

	authService := services.NewAuthService(userRepo, log)
	postService := services.NewPostService(postRepo, commentRepo, likeRepo, savedRepo, log)
	commentService := services.NewCommentService(commentRepo, postRepo, log)
	likeService := services.NewLikeService(likeRepo, postRepo, log)
	userService := services.NewUserService(userRepo, postRepo, savedRepo, log)

	coverValidator := utils.NewImageValidator()

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	{
		authLimiter := middleware.RateLimit(middleware.AuthLimit)
		auth.POST("/register", authLimiter, controllers.Register(authService))
		auth.POST("/login", authLimiter, controllers.Login(authService))
		auth.POST("/refresh-token", controllers.RefreshToken(authService))
		auth.POST("/logout", middleware.AuthMiddleware(), controllers.Logout(authService))
		auth.GET("/me", middleware.AuthMiddleware(), controllers.Me(authService))
		auth.POST("/password", middleware.AuthMiddleware(), controllers.ChangePassword(authService))
	}

	posts := r.Group("/posts")
	{
		postLimiter := middleware.RateLimit(middleware.PostLimit)
		commentLimiter := middleware.RateLimit(middleware.CommentLimit)
		likeLimiter := middleware.RateLimit(middleware.LikeLimit)

		posts.POST("", middleware.AuthMiddleware(), postLimiter, controllers.CreatePost(postService))
		posts.GET("", controllers.GetPosts(postService))
		posts.GET("/:id", controllers.GetPost(postService))
		posts.GET("/slug/:slug", controllers.GetPost(postService))
		posts.PUT("/:id", middleware.AuthMiddleware(), postLimiter, controllers.UpdatePost(postService))
		posts.DELETE("/:id", middleware.AuthMiddleware(), postLimiter, controllers.DeletePost(postService))
		posts.POST("/:id/cover", middleware.AuthMiddleware(), postLimiter, controllers.UploadPostCover(postService, coverValidator))
		posts.POST("/:id/comment", middleware.AuthMiddleware(), commentLimiter, controllers.CreateComment(commentService))
		posts.GET("/:id/comments", controllers.GetComments(commentService))
		posts.POST("/:id/like", middleware.AuthMiddleware(), likeLimiter, controllers.ToggleLike(likeService))
		posts.GET("/:id/likes", controllers.GetLikes(likeService))
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		saveLimiter := middleware.RateLimit(middleware.SaveLimit)
		users.GET("/:id", controllers.GetProfile(userService))
		users.GET("/:id/posts", controllers.GetUserPosts(userService))
		users.GET("/:id/saved-posts", controllers.GetSavedPosts(userService))
		users.POST("/save-post/:postId", saveLimiter, controllers.SavePost(userService))
		users.POST("/unsave-post/:postId", saveLimiter, controllers.UnsavePost(userService))
	}

	// Listens on 0.0.0.0:8080 unless PORT overrides it
	r.Run()
}
