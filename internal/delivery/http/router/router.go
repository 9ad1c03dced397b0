// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"strconv"

	"spark/config"
	"spark/internal/delivery/http/middleware"
	"spark/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

// multipartOverhead is headroom for multipart boundaries and headers on top
// of the image size limit.
const multipartOverhead = 64 << 10

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	ProfileHandler  *handler.ProfileHandler
	LocationHandler *handler.LocationHandler
	ImageHandler    *handler.ImageHandler
	SwipeHandler    *handler.SwipeHandler
	ChatHandler     *handler.ChatHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Config          *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	profileHandler  *handler.ProfileHandler
	locationHandler *handler.LocationHandler
	imageHandler    *handler.ImageHandler
	swipeHandler    *handler.SwipeHandler
	chatHandler     *handler.ChatHandler
	authMiddleware  *middleware.AuthMiddleware
	config          *config.Config
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		profileHandler:  params.ProfileHandler,
		locationHandler: params.LocationHandler,
		imageHandler:    params.ImageHandler,
		swipeHandler:    params.SwipeHandler,
		chatHandler:     params.ChatHandler,
		authMiddleware:  params.AuthMiddleware,
		config:          params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	apiV1 := e.Group("/api/v1")

	apiV1.GET("/health", handler.HealthCheck)

	// Public auth routes
	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Everything below requires an access token
	protected := apiV1.Group("")
	protected.Use(r.authMiddleware.Authenticate)

	profilesGroup := protected.Group("/profiles")
	{
		profilesGroup.GET("/me", r.profileHandler.GetMe)
		profilesGroup.GET("/discover", r.profileHandler.Discover)
		profilesGroup.GET("/:id", r.profileHandler.Get)
		profilesGroup.PUT("/:id", r.profileHandler.Update)
	}

	locationsGroup := protected.Group("/locations")
	{
		locationsGroup.GET("/me", r.locationHandler.GetMe)
		locationsGroup.PUT("/:id", r.locationHandler.Update)
	}

	imagesGroup := protected.Group("/images")
	{
		imagesGroup.GET("", r.imageHandler.List)
		imagesGroup.POST("", r.imageHandler.Upload, echomiddleware.BodyLimit(r.uploadLimit()))
		imagesGroup.GET("/:id", r.imageHandler.Download)
	}

	swipesGroup := protected.Group("/swipes")
	{
		swipesGroup.GET("", r.swipeHandler.ListMatches)
		swipesGroup.POST("", r.swipeHandler.Create)
	}

	chatsGroup := protected.Group("/chats")
	{
		chatsGroup.GET("", r.chatHandler.List)
		chatsGroup.POST("/messages", r.chatHandler.PostMessage)
		chatsGroup.GET("/:id/messages", r.chatHandler.ListMessages)
	}
}

func (r *router) uploadLimit() string {
	return strconv.FormatInt(r.config.Images.MaxSize+multipartOverhead, 10) + "B"
}
