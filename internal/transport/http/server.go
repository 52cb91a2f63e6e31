package http

import (
	"github.com/gin-gonic/gin"

	appsvc "gopherblog/internal/app"
	"gopherblog/internal/bootstrap"
	"gopherblog/internal/cache"
	"gopherblog/internal/platform/rabbitmq"
	"gopherblog/internal/repository"
	"gopherblog/internal/transport/http/handler"
	"gopherblog/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(app.Config.CORS.AllowedOrigins))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	postRepo := repository.NewPostRepository(app.DB)

	var events appsvc.EventPublisher
	if app.MQConn != nil {
		events = rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.AuthEventQueue)
	}
	var postCache appsvc.PostCache
	if app.Redis != nil {
		postCache = cache.NewPostCache(app.Redis, app.Config.PostCacheTTL())
	}

	authService := appsvc.NewAuthService(userRepo, app.Tokens, events)
	postService := appsvc.NewPostService(userRepo, postRepo, postCache)
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)

	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)

	posts := router.Group("/users/:userId/posts")
	posts.Use(middleware.AuthJWT(app.Tokens))
	posts.POST("", postHandler.CreatePost)
	posts.GET("", postHandler.ListPosts)

	return router
}
