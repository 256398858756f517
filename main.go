package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/notify"
)

func main() {
	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureCouponIndexes(db); err != nil {
		log.Printf("coupon index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	dispatcher := notify.NewDispatcher(64)
	dispatcher.Start()
	defer dispatcher.Close()

	notifier := notify.NewNotifier(
		notify.NewMailer(cfg.SMTP),
		notify.NewSMSClient(cfg.SMS),
		dispatcher,
		cfg.BaseURL,
		cfg.Auth.OTPTTL,
		cfg.Auth.ResetTTL,
	)

	r := gin.Default()
	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup(db))
		auth.POST("/login", handlers.Login(db, cfg.Auth))
		auth.POST("/send-phone-otp", handlers.SendPhoneOTP(db, notifier, cfg.Auth))
		auth.POST("/verify-phone-otp", handlers.VerifyPhoneOTP(db, cfg.Auth))
		auth.POST("/send-email-otp", handlers.SendEmailOTP(db, notifier, cfg.Auth))
		auth.POST("/verify-email-otp", handlers.VerifyEmailOTP(db, cfg.Auth))
		auth.GET("/verify-email/:token", handlers.VerifyEmailLink(db, notifier))
		auth.POST("/resend-verification", handlers.ResendVerification(db, notifier))
		auth.POST("/forgot-password", handlers.ForgotPassword(db, notifier, cfg.Auth))
		auth.POST("/reset-password/:token", handlers.ResetPassword(db, notifier))
	}

	public := api.Group("/public")
	{
		public.GET("/restaurants", handlers.ListRestaurants(db))
		public.GET("/restaurants/:id", handlers.GetRestaurant(db))
		public.GET("/restaurants/:id/menu", handlers.GetRestaurantMenu(db))
		public.GET("/restaurants/:id/reviews", handlers.GetRestaurantReviews(db))
	}

	orders := api.Group("/orders")
	orders.Use(middleware.AuthGuard(cfg.Auth.JWTSecret))
	{
		orders.POST("", handlers.CreateOrder(db))
		orders.GET("", handlers.GetMyOrders(db))
		orders.GET("/:id", handlers.GetOrder(db))
	}

	restaurant := api.Group("/restaurant")
	restaurant.Use(middleware.AuthGuard(cfg.Auth.JWTSecret, models.RoleRestaurant))
	{
		restaurant.GET("/products", handlers.GetRestaurantProducts(db))
		restaurant.POST("/products", handlers.CreateRestaurantProduct(db))
		restaurant.PUT("/products/:id", handlers.UpdateRestaurantProduct(db))
		restaurant.DELETE("/products/:id", handlers.DeleteRestaurantProduct(db))
		restaurant.GET("/orders", handlers.GetRestaurantOrders(db))
		restaurant.PUT("/orders/:id", handlers.UpdateRestaurantOrderStatus(db))
		restaurant.GET("/dashboard", handlers.GetRestaurantDashboard(db))
		restaurant.GET("/analytics", handlers.GetRestaurantAnalytics(db))
		restaurant.PUT("/profile", handlers.UpdateRestaurantProfile(db))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.Auth.JWTSecret))
	{
		admin.GET("/dashboard", handlers.GetAdminDashboard(db))
		admin.GET("/users", handlers.ListUsers(db))
		admin.PUT("/restaurants/:id/approve", handlers.ApproveRestaurant(db))
	}

	coupons := api.Group("/coupons")
	coupons.Use(middleware.AdminAuth(cfg.Auth.JWTSecret))
	{
		coupons.GET("/all", handlers.ListCoupons(db))
		coupons.POST("", handlers.CreateCoupon(db))
		coupons.PUT("/:id", handlers.UpdateCoupon(db))
		coupons.DELETE("/:id", handlers.DeleteCoupon(db))
	}

	r.Run(":" + cfg.Port)
}
