package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	userController       *controller.UserController
	tagController        *controller.TagController
	ingredientController *controller.IngredientController
	recipeController     *controller.RecipeController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	tagController *controller.TagController,
	ingredientController *controller.IngredientController,
	recipeController *controller.RecipeController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		userController:       userController,
		tagController:        tagController,
		ingredientController: ingredientController,
		recipeController:     recipeController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	})

	// Images stored on local disk are served by the API itself
	if r.config.Storage.Driver == "local" {
		router.Static(r.config.Storage.LocalURL, r.config.Storage.LocalDir)
	}

	required := r.authMiddleware.Authenticate()
	optional := r.authMiddleware.OptionalAuthenticate()

	api := router.Group("/api")
	{
		auth := api.Group("/auth/token")
		{
			auth.POST("/login/", r.authController.Login)
			auth.POST("/logout/", required, r.authController.Logout)
		}

		users := api.Group("/users")
		{
			users.GET("/", optional, r.userController.ListUsers)
			users.POST("/", r.userController.Register)
			users.GET("/me/", required, r.userController.GetMe)
			users.PUT("/me/avatar/", required, r.userController.SetAvatar)
			users.DELETE("/me/avatar/", required, r.userController.DeleteAvatar)
			users.POST("/set_password/", required, r.userController.SetPassword)
			users.GET("/subscriptions/", required, r.userController.Subscriptions)
			users.GET("/:id/", optional, r.userController.GetUser)
			users.POST("/:id/subscribe/", required, r.userController.Subscribe)
			users.DELETE("/:id/subscribe/", required, r.userController.Unsubscribe)
		}

		tags := api.Group("/tags")
		{
			tags.GET("/", r.tagController.ListTags)
			tags.GET("/:id/", r.tagController.GetTag)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("/", r.ingredientController.ListIngredients)
			ingredients.GET("/:id/", r.ingredientController.GetIngredient)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("/", optional, r.recipeController.ListRecipes)
			recipes.POST("/", required, r.recipeController.CreateRecipe)
			recipes.GET("/download_shopping_cart/", required, r.recipeController.DownloadShoppingCart)
			recipes.GET("/:id/", optional, r.recipeController.GetRecipe)
			recipes.PATCH("/:id/", required, r.recipeController.UpdateRecipe)
			recipes.PUT("/:id/", required, r.recipeController.UpdateRecipe)
			recipes.DELETE("/:id/", required, r.recipeController.DeleteRecipe)
			recipes.GET("/:id/get-link/", r.recipeController.GetLink)
			recipes.POST("/:id/favorite/", required, r.recipeController.AddFavorite)
			recipes.DELETE("/:id/favorite/", required, r.recipeController.RemoveFavorite)
			recipes.POST("/:id/shopping_cart/", required, r.recipeController.AddToCart)
			recipes.DELETE("/:id/shopping_cart/", required, r.recipeController.RemoveFromCart)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
