package services

import (
	"context"
	"fmt"
	"time"

	"go-grocery/models"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStats is a vendor's same-day dashboard: today's orders bucketed by
// fulfillment stage, plus customer counts.
type OrderStats struct {
	TotalOrders         int   `json:"total_orders"`
	ReadyToDeliver      int   `json:"ready_to_deliver"`
	PendingDelivery     int   `json:"pending_delivery"`
	CompletedOrders     int   `json:"completed_orders"`
	UniqueCustomers     int64 `json:"unique_customers"`
	TotalCustomersToday int   `json:"total_customers_today"`
}

// GetOrderStats computes a vendor's same-day stats. The vendor is resolved
// from the account's user id, matching how vendor sessions identify
// themselves.
func (s *OrderService) GetOrderStats(ctx context.Context, userID primitive.ObjectID) (*OrderStats, error) {
	var vendor models.Vendor
	if err := s.Vendors.FindOne(ctx, bson.M{"user_id": userID}).Decode(&vendor); err != nil {
		return nil, utils.NewNotFound("Vendor not found")
	}

	startOfToday, endOfToday := dayBounds(s.Now())
	cursor, err := s.Orders.Find(ctx, bson.M{
		"vendor":     vendor.ID,
		"created_at": bson.M{"$gte": startOfToday, "$lte": endOfToday},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	stats := &OrderStats{TotalOrders: len(orders)}
	customersToday := make(map[primitive.ObjectID]struct{})
	for _, order := range orders {
		switch order.Status {
		case models.StatusReady:
			stats.ReadyToDeliver++
		case models.StatusDispatch:
			stats.PendingDelivery++
		case models.StatusCompleted:
			stats.CompletedOrders++
		}
		customersToday[order.Customer] = struct{}{}
	}
	stats.TotalCustomersToday = len(customersToday)

	uniqueCustomers, err := s.Users.CountDocuments(ctx, bson.M{
		"role":      models.RoleCustomer,
		"vendor_id": vendor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	stats.UniqueCustomers = uniqueCustomers

	return stats, nil
}

// DailyOrderStat is one day's bucket of a vendor's weekly report.
type DailyOrderStat struct {
	Date        string  `bson:"_id" json:"date"`
	TotalOrders int     `bson:"total_orders" json:"total_orders"`
	TotalAmount float64 `bson:"total_amount" json:"total_amount"`
}

// GetWeeklyReport aggregates a vendor's orders over the last seven days,
// grouped by calendar day.
func (s *OrderService) GetWeeklyReport(ctx context.Context, vendorID primitive.ObjectID) ([]DailyOrderStat, error) {
	start, _ := dayBounds(s.Now().AddDate(0, 0, -6))

	pipeline := []bson.M{
		{"$match": bson.M{
			"vendor":     vendorID,
			"created_at": bson.M{"$gte": start},
		}},
		{"$group": bson.M{
			"_id":          bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"total_orders": bson.M{"$sum": 1},
			"total_amount": bson.M{"$sum": "$total_price"},
		}},
		{"$sort": bson.M{"_id": 1}},
	}
	cursor, err := s.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate weekly report: %w", err)
	}
	var stats []DailyOrderStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode weekly report: %w", err)
	}
	return stats, nil
}

// ISOWeek identifies one ISO week.
type ISOWeek struct {
	Year int
	Week int
}

// WeeklyOrdersCount is a fixed seven-bucket order-count histogram, oldest
// week first.
type WeeklyOrdersCount struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// WeeklySeries builds the fixed-length seven-week series from sparse
// per-week counts: weeks with no aggregation row come out as zero, so the
// output shape never depends on how sparse the data is.
func WeeklySeries(now time.Time, counts map[ISOWeek]int) *WeeklyOrdersCount {
	out := &WeeklyOrdersCount{
		Labels: make([]string, 0, 7),
		Data:   make([]int, 0, 7),
	}
	for i := 6; i >= 0; i-- {
		year, week := now.AddDate(0, 0, -7*i).ISOWeek()
		out.Labels = append(out.Labels, fmt.Sprintf("Week %d", 7-i))
		out.Data = append(out.Data, counts[ISOWeek{Year: year, Week: week}])
	}
	return out
}

// GetWeeklyOrdersCount returns a vendor's rolling seven-week order-count
// histogram keyed by ISO week number.
func (s *OrderService) GetWeeklyOrdersCount(ctx context.Context, vendorID primitive.ObjectID) (*WeeklyOrdersCount, error) {
	now := s.Now()
	start := isoWeekStart(now.AddDate(0, 0, -7*6))

	pipeline := []bson.M{
		{"$match": bson.M{
			"vendor":     vendorID,
			"created_at": bson.M{"$gte": start},
		}},
		{"$project": bson.M{
			"week": bson.M{"$isoWeek": "$created_at"},
			"year": bson.M{"$isoWeekYear": "$created_at"},
		}},
		{"$group": bson.M{
			"_id":   bson.M{"week": "$week", "year": "$year"},
			"count": bson.M{"$sum": 1},
		}},
	}
	cursor, err := s.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate weekly counts: %w", err)
	}
	var rows []struct {
		ID struct {
			Week int `bson:"week"`
			Year int `bson:"year"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode weekly counts: %w", err)
	}

	counts := make(map[ISOWeek]int, len(rows))
	for _, row := range rows {
		counts[ISOWeek{Year: row.ID.Year, Week: row.ID.Week}] = row.Count
	}
	return WeeklySeries(now, counts), nil
}

// dayBounds returns the inclusive [00:00:00, 23:59:59.999...] bounds of
// t's calendar day.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// isoWeekStart returns the Monday 00:00 of t's ISO week.
func isoWeekStart(t time.Time) time.Time {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(start.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return start.AddDate(0, 0, 1-weekday)
}
