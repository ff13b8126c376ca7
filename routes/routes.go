package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"storefront/controllers"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

// Register wires every endpoint. Catalog reads are public; cart,
// checkout, purchases and reviews need a user; the back office needs
// the admin role (reviews and tickets also allow moderators).
func Register(
	r *gin.Engine,
	tokens *services.TokenService,
	auth *controllers.AuthController,
	catalog *controllers.CatalogController,
	cart *controllers.CartController,
	checkout *controllers.CheckoutController,
	reviews *controllers.ReviewController,
	tickets *controllers.TicketController,
	admin *controllers.AdminController,
) {
	r.Use(middleware.SecurityHeaders())

	loginLimiter := middleware.NewRateLimiter(rate.Every(time.Second), 5, 10*time.Minute)

	authRoutes := r.Group("/auth")
	authRoutes.POST("/register", loginLimiter.Middleware(), auth.Register)
	authRoutes.POST("/login", loginLimiter.Middleware(), auth.Login)

	account := r.Group("/account")
	account.Use(middleware.AuthRequired(tokens))
	account.GET("/", auth.Profile)
	account.PUT("/", auth.UpdateProfile)

	catalogRoutes := r.Group("/catalog")
	catalogRoutes.GET("/categories", catalog.ListCategories)
	catalogRoutes.GET("/software", catalog.ListSoftware)
	catalogRoutes.GET("/software/:id", catalog.GetSoftware)
	catalogRoutes.GET("/software/:id/reviews", reviews.ForSoftware)
	catalogRoutes.GET("/bestsellers", catalog.Bestsellers)
	catalogRoutes.GET("/top-rated", catalog.TopRated)

	cartRoutes := r.Group("/cart")
	cartRoutes.Use(middleware.AuthRequired(tokens))
	cartRoutes.GET("/", cart.GetCart)
	cartRoutes.POST("/items", cart.AddItem)
	cartRoutes.PUT("/items/:id", cart.SetQuantity)
	cartRoutes.DELETE("/items/:id", cart.RemoveLine)
	cartRoutes.DELETE("/", cart.Clear)

	checkoutRoutes := r.Group("/checkout")
	checkoutRoutes.Use(middleware.AuthRequired(tokens))
	checkoutRoutes.POST("/", checkout.Checkout)

	purchaseRoutes := r.Group("/purchases")
	purchaseRoutes.Use(middleware.AuthRequired(tokens))
	purchaseRoutes.GET("/", checkout.ListPurchases)
	purchaseRoutes.GET("/:id", checkout.GetPurchase)
	purchaseRoutes.GET("/:id/items", checkout.GetPurchaseItems)

	reviewRoutes := r.Group("/software/:id")
	reviewRoutes.Use(middleware.AuthRequired(tokens))
	reviewRoutes.POST("/review", reviews.Submit)
	reviewRoutes.GET("/review/eligibility", reviews.Eligibility)

	r.POST("/support", middleware.OptionalAuth(tokens), tickets.Create)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AuthRequired(tokens), middleware.RequireRole(models.RoleAdmin))
	adminRoutes.POST("/categories", admin.CreateCategory)
	adminRoutes.PUT("/categories/:id", admin.UpdateCategory)
	adminRoutes.DELETE("/categories/:id", admin.DeleteCategory)
	adminRoutes.POST("/software", admin.CreateSoftware)
	adminRoutes.PUT("/software/:id", admin.UpdateSoftware)
	adminRoutes.DELETE("/software/:id", admin.DeleteSoftware)
	adminRoutes.GET("/users", admin.SearchUsers)
	adminRoutes.POST("/users/:id/role", admin.SetUserRole)
	adminRoutes.POST("/users/:id/active", admin.SetUserActive)
	adminRoutes.GET("/purchases", admin.ListAllPurchases)
	adminRoutes.GET("/statistics", admin.Statistics)

	moderRoutes := r.Group("/moderation")
	moderRoutes.Use(middleware.AuthRequired(tokens), middleware.RequireRole(models.RoleModer))
	moderRoutes.GET("/reviews", admin.RecentReviews)
	moderRoutes.PUT("/reviews/:id", admin.UpdateReview)
	moderRoutes.DELETE("/reviews/:id", admin.DeleteReview)
	moderRoutes.GET("/tickets", admin.ListTickets)
	moderRoutes.POST("/tickets/:id/status", admin.SetTicketStatus)
}
