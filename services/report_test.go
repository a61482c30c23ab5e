package services

import (
	"strings"
	"testing"
	"time"

	"go-grocery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func reportOrderFixture(orderID, status string, total float64, items ...ReportItem) ReportOrder {
	return ReportOrder{
		ID:           primitive.NewObjectID(),
		OrderID:      orderID,
		Date:         "28 Aug 2026",
		CustomerName: "Asha",
		VendorName:   "Fresh Farms",
		Status:       status,
		Batch:        models.BatchMorning,
		Items:        items,
		TotalAmount:  Money(total),
		totalAmount:  total,
	}
}

func reportItemFixture(name, unit string, rawQuantity int, price, total float64) ReportItem {
	return ReportItem{
		ProductID:   primitive.NewObjectID(),
		ProductName: name,
		Quantity:    FormatQuantity(unit, rawQuantity),
		RawQuantity: rawQuantity,
		Unit:        unit,
		Price:       price,
		Total:       Money(total),
	}
}

func TestBuildReportQuery(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	productID := primitive.NewObjectID()
	vendorID := primitive.NewObjectID()

	query := BuildReportQuery(ReportFilter{
		StartDate: &start,
		EndDate:   &end,
		ProductID: &productID,
		VendorID:  &vendorID,
		Status:    models.StatusDelivered,
	})

	assert.Equal(t, productID, query["items.product_id"])
	assert.Equal(t, vendorID, query["vendor"])
	assert.Equal(t, models.StatusDelivered, query["status"])

	createdAt, ok := query["created_at"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, start, createdAt["$gte"])
	// End date covers the whole calendar day, not just its midnight.
	lte, ok := createdAt["$lte"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, end.Day(), lte.Day())
	assert.Equal(t, 23, lte.Hour())
}

func TestBuildReportQueryEmpty(t *testing.T) {
	assert.Empty(t, BuildReportQuery(ReportFilter{}))
}

func TestBuildReportSummary(t *testing.T) {
	orders := []ReportOrder{
		reportOrderFixture("ORD_00001", models.StatusDelivered, 200,
			reportItemFixture("Rice", models.UnitKg, 2000, 100, 200)),
		reportOrderFixture("ORD_00002", models.StatusDelivered, 248,
			reportItemFixture("Rice", models.UnitKg, 2000, 100, 200),
			reportItemFixture("Eggs", models.UnitPiece, 6, 8, 48)),
		reportOrderFixture("ORD_00003", models.StatusCancelled, 48,
			reportItemFixture("Eggs", models.UnitPiece, 6, 8, 48)),
	}

	summary := BuildReportSummary(orders)

	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, "496.00", summary.TotalAmount)
	assert.Equal(t, Money(496.0/3), summary.AverageOrderValue)

	// Status counts reconcile with the order count.
	statusTotal := 0
	for _, count := range summary.StatusBreakdown {
		statusTotal += count
	}
	assert.Equal(t, summary.TotalOrders, statusTotal)
	assert.Equal(t, 2, summary.StatusBreakdown[models.StatusDelivered])
	assert.Equal(t, 1, summary.StatusBreakdown[models.StatusCancelled])

	// Buckets key on the exact product and quantity combination.
	rice, ok := summary.QuantityBreakdown["Rice - 2 kg"]
	require.True(t, ok)
	assert.Equal(t, 2, rice.Count)
	assert.Equal(t, 400.0, rice.TotalAmount)

	eggs, ok := summary.QuantityBreakdown["Eggs - 6 pcs"]
	require.True(t, ok)
	assert.Equal(t, 2, eggs.Count)
	assert.Equal(t, 96.0, eggs.TotalAmount)
}

func TestBuildReportSummaryEmpty(t *testing.T) {
	summary := BuildReportSummary(nil)
	assert.Equal(t, 0, summary.TotalOrders)
	assert.Equal(t, "0.00", summary.TotalAmount)
	assert.Equal(t, "0.00", summary.AverageOrderValue)
	assert.Empty(t, summary.StatusBreakdown)
	assert.Empty(t, summary.QuantityBreakdown)
}

func TestRenderReportCSVEmpty(t *testing.T) {
	report := &Report{Summary: BuildReportSummary(nil)}
	assert.Equal(t, "No data available for the selected filters", RenderReportCSV(report, nil))
}

func TestRenderReportCSV(t *testing.T) {
	orders := []ReportOrder{
		reportOrderFixture("ORD_00001", models.StatusDelivered, 200,
			reportItemFixture("Rice", models.UnitKg, 2000, 100, 200)),
	}
	report := &Report{Orders: orders, Summary: BuildReportSummary(orders)}

	csv := RenderReportCSV(report, nil)
	lines := strings.Split(csv, "\n")

	assert.Equal(t, "Order ID,Date,Customer Name,Vendor Name,Status,Product Name,Quantity,Total", lines[0])
	assert.Equal(t, "ORD_00001,28 Aug 2026,Asha,Fresh Farms,delivered,Rice,2 kg,200.00", lines[1])

	// Blank-line-separated summary sections follow the rows.
	assert.Contains(t, lines, "")
	assert.Contains(t, csv, "Report Summary\nTotal Orders,1\nTotal Amount,200.00\nAverage Order Value,200.00")
	assert.Contains(t, csv, "Status Breakdown\ndelivered,1")
	assert.Contains(t, csv, "Quantity Breakdown\nProduct & Quantity,Order Count,Total Amount\nRice - 2 kg,1,200.00")
	assert.False(t, strings.HasSuffix(csv, "\n"))
}

func TestRenderReportCSVQuotesFields(t *testing.T) {
	orders := []ReportOrder{
		reportOrderFixture("ORD_00001", models.StatusPlaced, 50,
			reportItemFixture("Beans, Green", models.UnitKg, 500, 100, 50)),
	}
	report := &Report{Orders: orders, Summary: BuildReportSummary(orders)}

	csv := RenderReportCSV(report, nil)
	assert.Contains(t, csv, `"Beans, Green"`)
}

func TestRenderReportCSVProductFilter(t *testing.T) {
	rice := reportItemFixture("Rice", models.UnitKg, 2000, 100, 200)
	eggs := reportItemFixture("Eggs", models.UnitPiece, 6, 8, 48)
	orders := []ReportOrder{
		reportOrderFixture("ORD_00001", models.StatusDelivered, 248, rice, eggs),
	}
	report := &Report{Orders: orders, Summary: BuildReportSummary(orders)}

	csv := RenderReportCSV(report, &rice.ProductID)
	assert.Contains(t, csv, "Rice")
	assert.NotContains(t, strings.SplitN(csv, "Report Summary", 2)[0], "Eggs")
}

func TestCSVField(t *testing.T) {
	assert.Equal(t, "plain", csvField("plain"))
	assert.Equal(t, `"a,b"`, csvField("a,b"))
	assert.Equal(t, `"say ""hi"""`, csvField(`say "hi"`))
}

func TestParseMoney(t *testing.T) {
	assert.Equal(t, 200.0, parseMoney("200.00"))
	assert.Equal(t, 19.99, parseMoney("19.99"))
}
