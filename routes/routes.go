// routes/routes.go
package routes

import (
	"go-grocery/controllers"
	"go-grocery/middleware"
	"go-grocery/models"
	"net/http"

	"github.com/gorilla/mux"
)

// Controllers bundles every controller the router wires up.
type Controllers struct {
	User     *controllers.UserController
	Product  *controllers.ProductController
	Cart     *controllers.CartController
	Order    *controllers.OrderController
	Vendor   *controllers.VendorController
	Customer *controllers.CustomerController
	Report   *controllers.ReportController
	Slot     *controllers.DeliverySlotController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	// Public routes
	router.HandleFunc("/register", c.User.Register).Methods("POST")
	router.HandleFunc("/login", c.User.Login).Methods("POST")

	// Uploaded product images
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))

	// Customer routes. Registered before the shared authenticated routes so
	// /orders/recent is not captured by the /orders/{orderId} pattern.
	customer := router.PathPrefix("/").Subrouter()
	customer.Use(middleware.AuthMiddleware)
	customer.Use(middleware.RequireRole(models.RoleCustomer))
	customer.HandleFunc("/cart", c.Cart.AddToCart).Methods("POST")
	customer.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	customer.HandleFunc("/cart/{id}", c.Cart.RemoveFromCart).Methods("DELETE")
	customer.HandleFunc("/orders", c.Order.PlaceOrder).Methods("POST")
	customer.HandleFunc("/orders/recent", c.Order.GetRecentOrders).Methods("GET")
	customer.HandleFunc("/orders/{orderId}/cancel", c.Order.CancelOrder).Methods("PATCH")
	customer.HandleFunc("/orders/{orderId}/track", c.Order.TrackOrder).Methods("GET")

	// Authenticated routes (any role)
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", c.User.GetProfile).Methods("GET")
	protected.HandleFunc("/products", c.Product.GetProducts).Methods("GET")
	protected.HandleFunc("/products/quick-picks", c.Product.GetQuickPicks).Methods("GET")
	protected.HandleFunc("/products/newly-added", c.Product.GetNewlyAdded).Methods("GET")
	protected.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods("GET")
	protected.HandleFunc("/delivery-slots", c.Slot.GetSlots).Methods("GET")

	// Order views (role-scoped inside the handler)
	protected.HandleFunc("/orders", c.Order.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{orderId}", c.Order.GetOrderByID).Methods("GET")

	// Vendor fulfillment routes
	vendor := router.PathPrefix("/").Subrouter()
	vendor.Use(middleware.AuthMiddleware)
	vendor.Use(middleware.RequireRole(models.RoleVendor, models.RoleAdmin))
	vendor.HandleFunc("/orders/{vendorId}/morning", c.Order.GetVendorOrdersMorning).Methods("GET")
	vendor.HandleFunc("/orders/{vendorId}/evening", c.Order.GetVendorOrdersEvening).Methods("GET")
	vendor.HandleFunc("/orders/{orderId}/status", c.Order.UpdateOrderStatus).Methods("PATCH")
	vendor.HandleFunc("/orders/status/{vendorId}", c.Order.UpdateVendorOrderStatus).Methods("PATCH")
	vendor.HandleFunc("/vendors/stats", c.Vendor.GetOrderStats).Methods("GET")
	vendor.HandleFunc("/vendors/{vendorId}/weekly-report", c.Vendor.GetWeeklyReport).Methods("GET")
	vendor.HandleFunc("/vendors/{vendorId}/weekly-orders", c.Vendor.GetWeeklyOrdersCount).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.HandleFunc("/products", c.Product.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Product.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Product.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id}/image", c.Product.UploadProductImage).Methods("POST")

	admin.HandleFunc("/vendors", c.Vendor.CreateVendor).Methods("POST")
	admin.HandleFunc("/vendors", c.Vendor.GetVendors).Methods("GET")
	admin.HandleFunc("/vendors/{id}", c.Vendor.GetVendorByID).Methods("GET")
	admin.HandleFunc("/vendors/{id}", c.Vendor.UpdateVendor).Methods("PUT")
	admin.HandleFunc("/vendors/{id}", c.Vendor.DeleteVendor).Methods("DELETE")
	admin.HandleFunc("/vendors/{id}/status", c.Vendor.ChangeStatus).Methods("PATCH")
	admin.HandleFunc("/vendors/{id}/documents", c.Vendor.UploadDocuments).Methods("POST")

	admin.HandleFunc("/customers", c.Customer.CreateCustomer).Methods("POST")
	admin.HandleFunc("/customers", c.Customer.GetCustomers).Methods("GET")
	admin.HandleFunc("/customers/{id}", c.Customer.UpdateCustomer).Methods("PUT")
	admin.HandleFunc("/customers/{id}", c.Customer.DeleteCustomer).Methods("DELETE")
	admin.HandleFunc("/customers/{id}/status", c.Customer.UpdateCustomerStatus).Methods("PATCH")

	admin.HandleFunc("/delivery-slots", c.Slot.CreateSlot).Methods("POST")
	admin.HandleFunc("/delivery-slots/{id}", c.Slot.UpdateSlot).Methods("PUT")
	admin.HandleFunc("/delivery-slots/{id}", c.Slot.DeleteSlot).Methods("DELETE")

	admin.HandleFunc("/dashboard", c.Report.GetDashboardSummary).Methods("GET")
	admin.HandleFunc("/charts", c.Report.GetChartsSummary).Methods("GET")
	admin.HandleFunc("/reports", c.Report.GetReport).Methods("GET")
	admin.HandleFunc("/reports/export", c.Report.ExportReport).Methods("GET")
}
