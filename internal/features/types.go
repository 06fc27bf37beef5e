package features

import "database/sql"

// WaitTime holds the delivery durations of one order, in fractional days
type WaitTime struct {
	OrderID          string
	Status           string
	WaitTime         float64
	ExpectedWaitTime float64
	DelayVsExpected  float64
}

// ReviewScore holds the review sentiment flags of one order
type ReviewScore struct {
	OrderID    string
	IsFiveStar bool
	IsOneStar  bool
	Score      sql.NullInt64
}

// ProductCount is the number of distinct products in one order
type ProductCount struct {
	OrderID          string
	NumberOfProducts int
}

// SellerCount is the number of distinct sellers in one order
type SellerCount struct {
	OrderID         string
	NumberOfSellers int
}

// PriceFreight holds the item price and freight totals of one order
type PriceFreight struct {
	OrderID      string
	Price        float64
	FreightValue float64
}

// Distance is the mean seller to customer distance of one order, in km
type Distance struct {
	OrderID                string
	DistanceSellerCustomer float64
}

// TrainingRow is one fully populated row of the training table
type TrainingRow struct {
	OrderID                string
	WaitTime               float64
	ExpectedWaitTime       float64
	DelayVsExpected        float64
	OrderStatus            string
	DimIsFiveStar          bool
	DimIsOneStar           bool
	ReviewScore            int64
	NumberOfProducts       int
	NumberOfSellers        int
	Price                  float64
	FreightValue           float64
	DistanceSellerCustomer float64
}

var trainingColumns = []string{
	"order_id",
	"wait_time",
	"expected_wait_time",
	"delay_vs_expected",
	"order_status",
	"dim_is_five_star",
	"dim_is_one_star",
	"review_score",
	"number_of_products",
	"number_of_sellers",
	"price",
	"freight_value",
}

// ColumnDistance is the optional last column of the training table
const ColumnDistance = "distance_seller_customer"

// TrainingTable is the joined per-order feature table
type TrainingTable struct {
	WithDistance bool
	Rows         []TrainingRow
}

// Len returns the number of rows
func (t *TrainingTable) Len() int { return len(t.Rows) }

// Columns returns the column names in output order
func (t *TrainingTable) Columns() []string {
	cols := append([]string(nil), trainingColumns...)
	if t.WithDistance {
		cols = append(cols, ColumnDistance)
	}
	return cols
}

// Values returns row i in column order. Flags are rendered as 1 or 0.
func (t *TrainingTable) Values(i int) []any {
	r := t.Rows[i]
	vals := []any{
		r.OrderID,
		r.WaitTime,
		r.ExpectedWaitTime,
		r.DelayVsExpected,
		r.OrderStatus,
		flag(r.DimIsFiveStar),
		flag(r.DimIsOneStar),
		r.ReviewScore,
		r.NumberOfProducts,
		r.NumberOfSellers,
		r.Price,
		r.FreightValue,
	}
	if t.WithDistance {
		vals = append(vals, r.DistanceSellerCustomer)
	}
	return vals
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
