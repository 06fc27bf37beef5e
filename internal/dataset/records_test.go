package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "olistcli/internal/errors"
)

var orderHeader = []string{
	"order_id", "customer_id", "order_status", "order_purchase_timestamp",
	"order_approved_at", "order_delivered_carrier_date",
	"order_delivered_customer_date", "order_estimated_delivery_date",
}

func TestDecodeOrders(t *testing.T) {
	tbl := NewTable(TableOrders, orderHeader, [][]string{
		{"o1", "c1", "delivered", "2017-10-02 10:56:33", "2017-10-02 11:07:15", "2017-10-04 19:55:00", "2017-10-10 21:25:13", "2017-10-18 00:00:00"},
		{"o2", "c2", "shipped", "2017-10-02 10:56:33", "", "", "", "not a date"},
	})

	orders, err := DecodeOrders(tbl)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	o := orders[0]
	assert.Equal(t, "o1", o.OrderID)
	assert.Equal(t, "c1", o.CustomerID)
	assert.Equal(t, OrderStatusDelivered, o.Status)
	assert.True(t, o.PurchasedAt.Valid)
	assert.Equal(t, time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), o.PurchasedAt.Time)
	assert.Equal(t, time.Date(2017, 10, 18, 0, 0, 0, 0, time.UTC), o.EstimatedDeliveryAt.Time)

	assert.False(t, orders[1].DeliveredCustomerAt.Valid)
	assert.False(t, orders[1].EstimatedDeliveryAt.Valid, "unparseable dates decode as missing")
}

func TestDecodeOrders_OptionalColumns(t *testing.T) {
	header := []string{
		"order_id", "customer_id", "order_status", "order_purchase_timestamp",
		"order_delivered_customer_date", "order_estimated_delivery_date",
	}
	tbl := NewTable(TableOrders, header, [][]string{
		{"o1", "c1", "delivered", "2018-01-01", "2018-01-03", "2018-01-05"},
	})

	orders, err := DecodeOrders(tbl)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.False(t, orders[0].ApprovedAt.Valid)
	assert.False(t, orders[0].DeliveredCarrierAt.Valid)
}

func TestDecodeOrders_MissingColumns(t *testing.T) {
	tbl := NewTable(TableOrders, []string{"order_id", "order_status"}, nil)

	_, err := DecodeOrders(tbl)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Contains(t, appErr.Message, "customer_id")
	assert.Contains(t, appErr.Message, "order_purchase_timestamp")
}

func TestDecodeOrders_EmptyOrderID(t *testing.T) {
	tbl := NewTable(TableOrders, orderHeader, [][]string{
		{" ", "c1", "delivered", "", "", "", "", ""},
	})

	_, err := DecodeOrders(tbl)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestDecodeOrderItems(t *testing.T) {
	header := []string{"order_id", "order_item_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"}
	tbl := NewTable(TableOrderItems, header, [][]string{
		{"o1", "1", "p1", "s1", "2017-09-19 09:45:35", "58.90", "13.29"},
		{"o1", "2", "p2", "s2", "2017-09-19 09:45:35", "", "0"},
	})

	items, err := DecodeOrderItems(tbl)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1", items[0].ItemID)
	assert.Equal(t, "s1", items[0].SellerID)
	require.True(t, items[0].Price.Valid)
	assert.Equal(t, "58.9", items[0].Price.Decimal.String())
	assert.Equal(t, "13.29", items[0].FreightValue.Decimal.String())

	assert.False(t, items[1].Price.Valid)
	assert.True(t, items[1].FreightValue.Valid)
}

func TestDecodeOrderItems_BadPrice(t *testing.T) {
	header := []string{"order_id", "product_id", "seller_id", "price", "freight_value"}
	tbl := NewTable(TableOrderItems, header, [][]string{
		{"o1", "p1", "s1", "10", "1"},
		{"o2", "p1", "s1", "ten", "1"},
	})

	_, err := DecodeOrderItems(tbl)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Equal(t, "price", appErr.Context["column"])
	assert.Equal(t, 3, appErr.Context["line"])
}

func TestDecodeReviews(t *testing.T) {
	header := []string{"review_id", "order_id", "review_score", "review_comment_title"}

	t.Run("valid scores", func(t *testing.T) {
		tbl := NewTable(TableReviews, header, [][]string{
			{"r1", "o1", "5", ""},
			{"r2", "o2", "1.0", "ruim"},
			{"r3", "o3", "", ""},
		})
		reviews, err := DecodeReviews(tbl)
		require.NoError(t, err)
		require.Len(t, reviews, 3)
		assert.Equal(t, int64(5), reviews[0].Score.Int64)
		assert.Equal(t, int64(1), reviews[1].Score.Int64)
		assert.False(t, reviews[2].Score.Valid)
	})

	for _, score := range []string{"0", "6", "4.5", "great"} {
		t.Run("rejects "+score, func(t *testing.T) {
			tbl := NewTable(TableReviews, header, [][]string{{"r1", "o1", score, ""}})
			_, err := DecodeReviews(tbl)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
		})
	}
}

func TestDecodeSellersAndCustomers(t *testing.T) {
	sellers, err := DecodeSellers(NewTable(TableSellers,
		[]string{"seller_id", "seller_zip_code_prefix", "seller_city"},
		[][]string{{"s1", "01037", "campinas"}, {"s2", "", "sp"}}))
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Equal(t, "1037", sellers[0].ZipCodePrefix)
	assert.Equal(t, "", sellers[1].ZipCodePrefix)

	customers, err := DecodeCustomers(NewTable(TableCustomers,
		[]string{"customer_id", "customer_unique_id", "customer_zip_code_prefix"},
		[][]string{{"c1", "u1", "1037"}}))
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "1037", customers[0].ZipCodePrefix)
}

func TestDecodeGeolocations(t *testing.T) {
	tbl := NewTable(TableGeolocation,
		[]string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng", "geolocation_city"},
		[][]string{
			{"01037", "-23.545621", "-46.639292", "sao paulo"},
			{"1046", "", "-46.64", "sao paulo"},
		})

	geos, err := DecodeGeolocations(tbl)
	require.NoError(t, err)
	require.Len(t, geos, 2)
	assert.Equal(t, "1037", geos[0].ZipCodePrefix)
	assert.InDelta(t, -23.545621, geos[0].Lat.Float64, 1e-9)
	assert.True(t, geos[0].Lng.Valid)
	assert.False(t, geos[1].Lat.Valid)

	_, err = DecodeGeolocations(NewTable(TableGeolocation,
		[]string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng"},
		[][]string{{"1", "north", "0"}}))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestDecode_NilTable(t *testing.T) {
	_, err := DecodeSellers(nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}
