package dataset

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "olistcli/internal/errors"
)

// Logical names of the tables the feature builder reads
const (
	TableOrders      = "orders"
	TableOrderItems  = "order_items"
	TableReviews     = "order_reviews"
	TableSellers     = "sellers"
	TableCustomers   = "customers"
	TableGeolocation = "geolocation"
)

// OrderStatusDelivered is the status of orders that reached the customer
const OrderStatusDelivered = "delivered"

var validate = validator.New()

// Order is one row of the orders table
type Order struct {
	OrderID             string `validate:"required"`
	CustomerID          string
	Status              string
	PurchasedAt         Timestamp
	ApprovedAt          Timestamp
	DeliveredCarrierAt  Timestamp
	DeliveredCustomerAt Timestamp
	EstimatedDeliveryAt Timestamp
}

// OrderItem is one row of the order_items table
type OrderItem struct {
	OrderID      string `validate:"required"`
	ItemID       string
	ProductID    string
	SellerID     string
	Price        decimal.NullDecimal
	FreightValue decimal.NullDecimal
}

// Review is one row of the order_reviews table
type Review struct {
	ReviewID string
	OrderID  string `validate:"required"`
	Score    sql.NullInt64
}

// Seller is one row of the sellers table
type Seller struct {
	SellerID      string `validate:"required"`
	ZipCodePrefix string
}

// Customer is one row of the customers table
type Customer struct {
	CustomerID    string `validate:"required"`
	ZipCodePrefix string
}

// Geolocation is one row of the geolocation table. A zip prefix usually
// appears on many rows.
type Geolocation struct {
	ZipCodePrefix string
	Lat           sql.NullFloat64
	Lng           sql.NullFloat64
}

// columns resolves column names of a table to indexes; absent optional columns map to -1
type columns struct {
	table *Table
	index map[string]int
}

func resolveColumns(t *Table, required, optional []string) (columns, error) {
	cols := columns{table: t, index: make(map[string]int, len(required)+len(optional))}
	var missing []string
	for _, name := range required {
		i, ok := t.Column(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols.index[name] = i
	}
	if len(missing) > 0 {
		return cols, apperrors.NewParsingError(
			fmt.Sprintf("table %s is missing required columns: %s", t.Name(), strings.Join(missing, ", ")), nil).
			WithContext("table", t.Name()).
			WithContext("columns", missing)
	}
	for _, name := range optional {
		i, ok := t.Column(name)
		if !ok {
			i = -1
		}
		cols.index[name] = i
	}
	return cols, nil
}

// get returns the trimmed cell of row i in the named column
func (c columns) get(i int, name string) string {
	return strings.TrimSpace(c.table.value(i, c.index[name]))
}

// lineOf maps a data row index to its line in the file (header is line 1)
func lineOf(i int) int { return i + 2 }

// decode maps every row of t through fn and validates the result
func decode[T any](t *Table, required, optional []string, fn func(c columns, i int) (T, error)) ([]T, error) {
	if t == nil {
		return nil, apperrors.NewNotFoundError("table")
	}
	cols, err := resolveColumns(t, required, optional)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		rec, err := fn(cols, i)
		if err != nil {
			return nil, err
		}
		if err := validate.Struct(rec); err != nil {
			return nil, apperrors.NewParsingError("invalid record", err).
				WithContext("table", t.Name()).
				WithContext("line", lineOf(i))
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeOrders decodes the orders table. Timestamps that do not parse are
// kept as missing values.
func DecodeOrders(t *Table) ([]Order, error) {
	required := []string{
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_delivered_customer_date", "order_estimated_delivery_date",
	}
	optional := []string{"order_approved_at", "order_delivered_carrier_date"}
	return decode(t, required, optional, func(c columns, i int) (Order, error) {
		return Order{
			OrderID:             c.get(i, "order_id"),
			CustomerID:          c.get(i, "customer_id"),
			Status:              c.get(i, "order_status"),
			PurchasedAt:         ParseTimestamp(c.get(i, "order_purchase_timestamp")),
			ApprovedAt:          ParseTimestamp(c.get(i, "order_approved_at")),
			DeliveredCarrierAt:  ParseTimestamp(c.get(i, "order_delivered_carrier_date")),
			DeliveredCustomerAt: ParseTimestamp(c.get(i, "order_delivered_customer_date")),
			EstimatedDeliveryAt: ParseTimestamp(c.get(i, "order_estimated_delivery_date")),
		}, nil
	})
}

// DecodeOrderItems decodes the order_items table
func DecodeOrderItems(t *Table) ([]OrderItem, error) {
	required := []string{"order_id", "product_id", "seller_id", "price", "freight_value"}
	optional := []string{"order_item_id"}
	return decode(t, required, optional, func(c columns, i int) (OrderItem, error) {
		price, err := parseNullDecimal(c.get(i, "price"), t.Name(), "price", lineOf(i))
		if err != nil {
			return OrderItem{}, err
		}
		freight, err := parseNullDecimal(c.get(i, "freight_value"), t.Name(), "freight_value", lineOf(i))
		if err != nil {
			return OrderItem{}, err
		}
		return OrderItem{
			OrderID:      c.get(i, "order_id"),
			ItemID:       c.get(i, "order_item_id"),
			ProductID:    c.get(i, "product_id"),
			SellerID:     c.get(i, "seller_id"),
			Price:        price,
			FreightValue: freight,
		}, nil
	})
}

// DecodeReviews decodes the order_reviews table. A present score must be
// an integer between 1 and 5.
func DecodeReviews(t *Table) ([]Review, error) {
	required := []string{"order_id", "review_score"}
	optional := []string{"review_id"}
	return decode(t, required, optional, func(c columns, i int) (Review, error) {
		raw := c.get(i, "review_score")
		score, err := parseNullInt(raw, t.Name(), "review_score", lineOf(i))
		if err != nil {
			return Review{}, err
		}
		if score.Valid {
			if err := validate.Var(score.Int64, "min=1,max=5"); err != nil {
				return Review{}, cellError(t.Name(), "review_score", lineOf(i), raw, err)
			}
		}
		return Review{
			ReviewID: c.get(i, "review_id"),
			OrderID:  c.get(i, "order_id"),
			Score:    score,
		}, nil
	})
}

// DecodeSellers decodes the sellers table
func DecodeSellers(t *Table) ([]Seller, error) {
	return decode(t, []string{"seller_id", "seller_zip_code_prefix"}, nil, func(c columns, i int) (Seller, error) {
		return Seller{
			SellerID:      c.get(i, "seller_id"),
			ZipCodePrefix: normalizeZip(c.get(i, "seller_zip_code_prefix")),
		}, nil
	})
}

// DecodeCustomers decodes the customers table
func DecodeCustomers(t *Table) ([]Customer, error) {
	return decode(t, []string{"customer_id", "customer_zip_code_prefix"}, nil, func(c columns, i int) (Customer, error) {
		return Customer{
			CustomerID:    c.get(i, "customer_id"),
			ZipCodePrefix: normalizeZip(c.get(i, "customer_zip_code_prefix")),
		}, nil
	})
}

// DecodeGeolocations decodes the geolocation table
func DecodeGeolocations(t *Table) ([]Geolocation, error) {
	required := []string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng"}
	return decode(t, required, nil, func(c columns, i int) (Geolocation, error) {
		lat, err := parseNullFloat(c.get(i, "geolocation_lat"), t.Name(), "geolocation_lat", lineOf(i))
		if err != nil {
			return Geolocation{}, err
		}
		lng, err := parseNullFloat(c.get(i, "geolocation_lng"), t.Name(), "geolocation_lng", lineOf(i))
		if err != nil {
			return Geolocation{}, err
		}
		return Geolocation{
			ZipCodePrefix: normalizeZip(c.get(i, "geolocation_zip_code_prefix")),
			Lat:           lat,
			Lng:           lng,
		}, nil
	})
}
