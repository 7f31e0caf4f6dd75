package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/payment"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureReviewIndexes(db); err != nil {
		log.Printf("review index warning: %v", err)
	}

	gateway := payment.NewVNPayClient(
		config.AppEnv.VNPayTmnCode,
		config.AppEnv.VNPayHashSecret,
		config.AppEnv.VNPayPayURL,
		config.AppEnv.VNPayReturnURL,
	)

	r := gin.Default()

	r.POST("/auth/signup", handlers.SignUp(db))
	r.POST("/auth/signin", handlers.SignIn(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	auth := r.Group("/")
	auth.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		auth.POST("/create-order", handlers.CreateOrder(db))
		auth.POST("/create-order-vnpay", handlers.CreateOrderVnpay(db, gateway))
		auth.GET("/orders", handlers.GetOrders(db))
		auth.GET("/orders/:orderId", handlers.GetOrderDetail(db))
		auth.PUT("/orders/:orderId/status", handlers.UpdateOrderStatus(db))
		auth.GET("/orders/:orderId/status-history", handlers.GetOrderStatusHistory(db))

		auth.GET("/cart", handlers.GetCart(db))
		auth.POST("/cart", handlers.AddCartItem(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.POST("/product-details", handlers.CreateProductDetail(db))
		admin.PUT("/product-details/:id/stock", handlers.SetProductDetailStock(db))
		admin.PUT("/product-details/:id/pricing", handlers.UpdateProductDetailPricing(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
