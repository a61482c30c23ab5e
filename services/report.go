package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-grocery/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// noReportData is returned by the CSV export when no orders match.
const noReportData = "No data available for the selected filters"

// ReportFilter bounds a report to an admin-selected window. Reports are a
// full scan by design; the window is expected to be bounded by the caller.
type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	ProductID *primitive.ObjectID
	VendorID  *primitive.ObjectID
	Status    string
}

// ReportItem is one order line in a report. Total is recomputed from the
// snapshot price captured at placement, never from the current catalog
// price.
type ReportItem struct {
	ProductID   primitive.ObjectID `json:"product_id"`
	ProductName string             `json:"product_name"`
	Quantity    string             `json:"quantity"`
	RawQuantity int                `json:"raw_quantity"`
	Unit        string             `json:"unit"`
	Price       float64            `json:"price"`
	Total       string             `json:"total"`
}

// ReportOrder is one order row of a report. TotalAmount is the stored
// snapshot total; the per-item totals above serve as a cross-check against
// it, not as a replacement.
type ReportOrder struct {
	ID           primitive.ObjectID  `json:"id"`
	OrderID      string              `json:"order_id"`
	Date         string              `json:"date"`
	CustomerName string              `json:"customer_name"`
	VendorName   string              `json:"vendor_name"`
	VendorID     *primitive.ObjectID `json:"vendor_id"`
	Status       string              `json:"status"`
	Batch        string              `json:"batch"`
	Items        []ReportItem        `json:"items"`
	TotalAmount  string              `json:"total_amount"`

	totalAmount float64
}

// QuantityBucket aggregates orders of one exact (product, quantity)
// combination.
type QuantityBucket struct {
	ProductName string  `json:"product_name"`
	Quantity    string  `json:"quantity"`
	RawQuantity int     `json:"raw_quantity"`
	Unit        string  `json:"unit"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// ReportSummary is the aggregate section of a report.
type ReportSummary struct {
	TotalOrders       int                        `json:"total_orders"`
	TotalAmount       string                     `json:"total_amount"`
	AverageOrderValue string                     `json:"average_order_value"`
	StatusBreakdown   map[string]int             `json:"status_breakdown"`
	QuantityBreakdown map[string]*QuantityBucket `json:"quantity_breakdown"`
}

// Report is the full reporting payload: per-order rows plus aggregates.
type Report struct {
	Orders  []ReportOrder `json:"orders"`
	Summary ReportSummary `json:"summary"`
}

// BuildReportQuery composes a ReportFilter into a Mongo query. The end date
// is extended to the end of its calendar day so a same-day range matches.
func BuildReportQuery(filter ReportFilter) bson.M {
	query := bson.M{}

	if filter.StartDate != nil || filter.EndDate != nil {
		createdAt := bson.M{}
		if filter.StartDate != nil {
			createdAt["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			_, end := dayBounds(*filter.EndDate)
			createdAt["$lte"] = end
		}
		query["created_at"] = createdAt
	}
	if filter.ProductID != nil {
		query["items.product_id"] = *filter.ProductID
	}
	if filter.VendorID != nil {
		query["vendor"] = *filter.VendorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

// GenerateReport loads every order matching the filter window and derives
// the per-order rows and aggregate summary.
func (s *OrderService) GenerateReport(ctx context.Context, filter ReportFilter) (*Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.Orders.Find(ctx, BuildReportQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report orders: %w", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode report orders: %w", err)
	}

	customerIDs := make([]primitive.ObjectID, 0, len(orders))
	productIDs := make([]primitive.ObjectID, 0)
	for _, order := range orders {
		customerIDs = append(customerIDs, order.Customer)
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
	}
	customers, err := s.loadUsers(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	products := map[primitive.ObjectID]models.Product{}
	if len(productIDs) > 0 {
		products, err = s.loadProducts(ctx, productIDs)
		if err != nil {
			return nil, err
		}
	}

	// Vendor display names are resolved through the customer's vendor
	// binding, matching the behavior of the rest of the admin reporting
	// surface.
	vendorIDs := make([]primitive.ObjectID, 0, len(customers))
	for _, customer := range customers {
		if customer.VendorID != nil {
			vendorIDs = append(vendorIDs, *customer.VendorID)
		}
	}
	vendorNames, err := s.resolveVendorNames(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]ReportOrder, 0, len(orders))
	for _, order := range orders {
		row := ReportOrder{
			ID:          order.ID,
			OrderID:     order.OrderID,
			Date:        order.CreatedAt.Format("02 Jan 2006"),
			Status:      order.Status,
			Batch:       order.Batch,
			TotalAmount: Money(order.TotalPrice),
			totalAmount: order.TotalPrice,
		}
		vendorID := order.Vendor
		row.VendorID = &vendorID

		row.CustomerName = "Unknown"
		row.VendorName = "Unknown"
		if customer, ok := customers[order.Customer]; ok {
			row.CustomerName = customer.Name
			if customer.VendorID != nil {
				if name, ok := vendorNames[*customer.VendorID]; ok && name != "" {
					row.VendorName = name
				}
			}
		}
		if row.Batch == "" {
			row.Batch = "N/A"
		}

		for _, item := range order.Items {
			product, ok := products[item.ProductID]
			if !ok {
				continue
			}
			total, err := LineCost(product.Unit, item.Price, item.Quantity)
			if err != nil {
				continue
			}
			row.Items = append(row.Items, ReportItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    FormatQuantity(product.Unit, item.Quantity),
				RawQuantity: item.Quantity,
				Unit:        product.Unit,
				Price:       item.Price,
				Total:       Money(total),
			})
		}
		rows = append(rows, row)
	}

	return &Report{
		Orders:  rows,
		Summary: BuildReportSummary(rows),
	}, nil
}

// BuildReportSummary derives the aggregate section from report rows:
// revenue totals, count per status, and count/revenue per exact product and
// quantity combination.
func BuildReportSummary(orders []ReportOrder) ReportSummary {
	summary := ReportSummary{
		TotalOrders:       len(orders),
		StatusBreakdown:   make(map[string]int),
		QuantityBreakdown: make(map[string]*QuantityBucket),
	}

	totalAmount := 0.0
	for _, order := range orders {
		totalAmount += order.totalAmount
		summary.StatusBreakdown[order.Status]++

		for _, item := range order.Items {
			key := fmt.Sprintf("%s - %s", item.ProductName, item.Quantity)
			bucket, ok := summary.QuantityBreakdown[key]
			if !ok {
				bucket = &QuantityBucket{
					ProductName: item.ProductName,
					Quantity:    item.Quantity,
					RawQuantity: item.RawQuantity,
					Unit:        item.Unit,
				}
				summary.QuantityBreakdown[key] = bucket
			}
			bucket.Count++
			bucket.TotalAmount += parseMoney(item.Total)
		}
	}

	summary.TotalAmount = Money(totalAmount)
	if len(orders) > 0 {
		summary.AverageOrderValue = Money(totalAmount / float64(len(orders)))
	} else {
		summary.AverageOrderValue = "0.00"
	}
	return summary
}

// GenerateReportCSV renders the report as a flat comma-delimited table with
// trailing summary sections, suitable for file download.
func (s *OrderService) GenerateReportCSV(ctx context.Context, filter ReportFilter) (string, error) {
	report, err := s.GenerateReport(ctx, filter)
	if err != nil {
		return "", err
	}
	return RenderReportCSV(report, filter.ProductID), nil
}

// RenderReportCSV flattens a report into CSV: one row per (order, item)
// pair, then blank-line-separated summary, status-breakdown and
// quantity-breakdown sections. Fields containing a comma are quoted.
// When a product filter is set, only that product's rows are exported.
func RenderReportCSV(report *Report, productID *primitive.ObjectID) string {
	if len(report.Orders) == 0 {
		return noReportData
	}

	var b strings.Builder
	writeCSVRow(&b, []string{
		"Order ID", "Date", "Customer Name", "Vendor Name",
		"Status", "Product Name", "Quantity", "Total",
	})

	for _, order := range report.Orders {
		for _, item := range order.Items {
			if productID != nil && item.ProductID != *productID {
				continue
			}
			writeCSVRow(&b, []string{
				order.OrderID,
				order.Date,
				order.CustomerName,
				order.VendorName,
				order.Status,
				item.ProductName,
				item.Quantity,
				item.Total,
			})
		}
	}

	writeCSVRow(&b, nil)
	writeCSVRow(&b, []string{"Report Summary"})
	writeCSVRow(&b, []string{"Total Orders", fmt.Sprintf("%d", report.Summary.TotalOrders)})
	writeCSVRow(&b, []string{"Total Amount", report.Summary.TotalAmount})
	writeCSVRow(&b, []string{"Average Order Value", report.Summary.AverageOrderValue})

	writeCSVRow(&b, nil)
	writeCSVRow(&b, []string{"Status Breakdown"})
	for _, status := range sortedKeys(report.Summary.StatusBreakdown) {
		writeCSVRow(&b, []string{status, fmt.Sprintf("%d", report.Summary.StatusBreakdown[status])})
	}

	writeCSVRow(&b, nil)
	writeCSVRow(&b, []string{"Quantity Breakdown"})
	writeCSVRow(&b, []string{"Product & Quantity", "Order Count", "Total Amount"})
	keys := make([]string, 0, len(report.Summary.QuantityBreakdown))
	for key := range report.Summary.QuantityBreakdown {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		bucket := report.Summary.QuantityBreakdown[key]
		writeCSVRow(&b, []string{key, fmt.Sprintf("%d", bucket.Count), Money(bucket.TotalAmount)})
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvField(field))
	}
	b.WriteByte('\n')
}

// csvField quotes a field containing a comma or a quote.
func csvField(field string) string {
	if strings.ContainsAny(field, ",\"") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func parseMoney(s string) float64 {
	var v float64
	fmt.Sscanf(s, "%f", &v)
	return v
}
