package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-grocery/models"
	"go-grocery/services"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReportController serves the admin dashboard aggregates and the order
// report in JSON and CSV form.
type ReportController struct {
	Service  *services.OrderService
	Orders   *mongo.Collection
	Users    *mongo.Collection
	Vendors  *mongo.Collection
	Products *mongo.Collection
}

// NewReportController creates a new ReportController
func NewReportController(client *mongo.Client, service *services.OrderService) *ReportController {
	db := client.Database("grocery")
	return &ReportController{
		Service:  service,
		Orders:   db.Collection("orders"),
		Users:    db.Collection("users"),
		Vendors:  db.Collection("vendors"),
		Products: db.Collection("products"),
	}
}

func reportFilterFromQuery(r *http.Request) (services.ReportFilter, error) {
	q := r.URL.Query()
	filter := services.ReportFilter{
		StartDate: parseDate(q.Get("startDate")),
		EndDate:   parseDate(q.Get("endDate")),
		Status:    q.Get("status"),
	}
	if product := q.Get("productId"); product != "" {
		id, err := primitive.ObjectIDFromHex(product)
		if err != nil {
			return filter, utils.NewBadRequest("Invalid product id")
		}
		filter.ProductID = &id
	}
	if vendor := q.Get("vendorId"); vendor != "" {
		id, err := primitive.ObjectIDFromHex(vendor)
		if err != nil {
			return filter, utils.NewBadRequest("Invalid vendor id")
		}
		filter.VendorID = &id
	}
	return filter, nil
}

// GetReport returns the order report as JSON: per-order rows plus the
// aggregate summary.
func (rc *ReportController) GetReport(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromQuery(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	report, err := rc.Service.GenerateReport(ctx, filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}

// ExportReport streams the order report as a CSV file download.
func (rc *ReportController) ExportReport(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromQuery(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	csv, err := rc.Service.GenerateReportCSV(ctx, filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=order-report.csv")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, csv)
}

// GetDashboardSummary returns the admin landing-page counters: totals per
// entity plus today's orders and revenue.
func (rc *ReportController) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	totalOrders, err := rc.Orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	totalCustomers, err := rc.Users.CountDocuments(ctx, bson.M{"role": models.RoleCustomer})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	totalVendors, err := rc.Vendors.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	totalProducts, err := rc.Products.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	ordersToday, err := rc.Orders.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": startOfToday}})
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	pipeline := []bson.M{
		{"$match": bson.M{
			"created_at": bson.M{"$gte": startOfToday},
			"status":     bson.M{"$ne": models.StatusCancelled},
		}},
		{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total_price"}}},
	}
	revenueToday := 0.0
	cursor, err := rc.Orders.Aggregate(ctx, pipeline)
	if err == nil {
		var rows []struct {
			Revenue float64 `bson:"revenue"`
		}
		if err := cursor.All(ctx, &rows); err == nil && len(rows) > 0 {
			revenueToday = rows[0].Revenue
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"total_orders":    totalOrders,
		"total_customers": totalCustomers,
		"total_vendors":   totalVendors,
		"total_products":  totalProducts,
		"orders_today":    ordersToday,
		"revenue_today":   revenueToday,
	})
}

// GetChartsSummary returns per-month order counts and revenue for the last
// twelve months, zero-filled so the series shape never depends on data
// sparsity.
func (rc *ReportController) GetChartsSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	pipeline := []bson.M{
		{"$match": bson.M{"created_at": bson.M{"$gte": start}}},
		{"$group": bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$created_at"}},
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_price"},
		}},
	}
	cursor, err := rc.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	var rows []struct {
		ID      string  `bson:"_id"`
		Orders  int     `bson:"orders"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		utils.WriteError(w, err)
		return
	}

	byMonth := make(map[string]struct {
		Orders  int
		Revenue float64
	}, len(rows))
	for _, row := range rows {
		byMonth[row.ID] = struct {
			Orders  int
			Revenue float64
		}{row.Orders, row.Revenue}
	}

	labels := make([]string, 0, 12)
	orders := make([]int, 0, 12)
	revenue := make([]float64, 0, 12)
	for i := 0; i < 12; i++ {
		month := start.AddDate(0, i, 0)
		key := month.Format("2006-01")
		labels = append(labels, month.Format("Jan 2006"))
		orders = append(orders, byMonth[key].Orders)
		revenue = append(revenue, byMonth[key].Revenue)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"labels":  labels,
		"orders":  orders,
		"revenue": revenue,
	})
}
