// routes/routes.go
package routes

import (
	"net/http"

	"go-storefront/controllers"
	"go-storefront/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController, couponController *controllers.CouponController) {
	router.Use(middleware.TraceMiddleware)

	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/verify", userController.VerifyEmail).Methods("GET")
	router.HandleFunc("/health", healthCheck).Methods("GET")

	// Catalog browsing
	router.HandleFunc("/categories", productController.GetCategories).Methods("GET")
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/search", productController.SearchProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Customer routes
	customer := router.PathPrefix("/").Subrouter()
	customer.Use(middleware.AuthMiddleware)
	customer.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	customer.HandleFunc("/cart", cartController.GetActiveCart).Methods("GET")
	customer.HandleFunc("/orders", orderController.PlaceOrder).Methods("POST")
	customer.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	customer.HandleFunc("/orders/{id}", orderController.GetOrderByID).Methods("GET")
	customer.HandleFunc("/profile", userController.UpdateProfile).Methods("PATCH")

	// Admin routes
	admin := router.PathPrefix("/").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/import", productController.BulkImportProducts).Methods("POST")
	admin.HandleFunc("/products/{id}", productController.UpdateProduct).Methods("PATCH")
	admin.HandleFunc("/products/{id}", productController.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/coupons", couponController.CreateCoupon).Methods("POST")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
