package features

import (
	"slices"

	"olistcli/internal/dataset"
)

// fixture is a small marketplace:
//
//	o2  delivered, 1.5 days, two items from two sellers, reviews 1 then 3
//	o1  delivered, 5 days against 3 expected, two items of one product, review 5
//	o3  shipped, not yet delivered
//	o4  delivered, one item, review without score
//	o5  canceled with all dates, one item, review 4
//	o6  delivered, no items, review 2
var (
	fixtureOrderHeader = []string{
		"order_id", "customer_id", "order_status", "order_purchase_timestamp",
		"order_approved_at", "order_delivered_carrier_date",
		"order_delivered_customer_date", "order_estimated_delivery_date",
	}
	fixtureOrders = [][]string{
		{"o2", "c2", "delivered", "2018-01-01 00:00:00", "", "", "2018-01-02 12:00:00", "2018-01-10 00:00:00"},
		{"o1", "c1", "delivered", "2018-01-01 00:00:00", "", "", "2018-01-06 00:00:00", "2018-01-04 00:00:00"},
		{"o3", "c3", "shipped", "2018-01-01 00:00:00", "", "", "", "2018-01-10 00:00:00"},
		{"o4", "c1", "delivered", "2018-03-01 00:00:00", "", "", "2018-03-02 00:00:00", "2018-03-05 00:00:00"},
		{"o5", "c2", "canceled", "2018-02-01 00:00:00", "", "", "2018-02-03 00:00:00", "2018-02-05 00:00:00"},
		{"o6", "c3", "delivered", "2018-04-01 00:00:00", "", "", "2018-04-02 00:00:00", "2018-04-03 00:00:00"},
	}

	fixtureItemHeader = []string{"order_id", "order_item_id", "product_id", "seller_id", "price", "freight_value"}
	fixtureItems      = [][]string{
		{"o1", "1", "p1", "s1", "10.00", "5.00"},
		{"o1", "2", "p1", "s1", "20.00", "2.50"},
		{"o2", "1", "p2", "s1", "15.50", "3"},
		{"o2", "2", "p3", "s2", "", "1"},
		{"o4", "1", "p4", "s2", "5", "1"},
		{"o5", "1", "p1", "s2", "7", "1"},
	}

	fixtureReviewHeader = []string{"review_id", "order_id", "review_score"}
	fixtureReviews      = [][]string{
		{"r1", "o1", "5"},
		{"r2", "o2", "1"},
		{"r3", "o2", "3"},
		{"r4", "o4", ""},
		{"r5", "o5", "4"},
		{"r6", "o6", "2"},
	}

	fixtureSellers = [][]string{
		{"s1", "01037"},
		{"s2", "20000"},
	}
	fixtureCustomers = [][]string{
		{"c1", "1037"},
		{"c2", "20000"},
		{"c3", "99999"},
	}
	fixtureGeo = [][]string{
		{"01037", "-23.5", "-46.6"},
		{"1037", "-23.9", "-46.9"},
		{"20000", "", "-43.2"},
		{"20000", "-22.9", "-43.2"},
	}
)

// fixtureTables builds the fixture, leaving out every row of the given orders
func fixtureTables(without ...string) dataset.Tables {
	keep := func(rows [][]string, col int) [][]string {
		var out [][]string
		for _, r := range rows {
			if !slices.Contains(without, r[col]) {
				out = append(out, r)
			}
		}
		return out
	}
	return dataset.Tables{
		dataset.TableOrders:     dataset.NewTable(dataset.TableOrders, fixtureOrderHeader, keep(fixtureOrders, 0)),
		dataset.TableOrderItems: dataset.NewTable(dataset.TableOrderItems, fixtureItemHeader, keep(fixtureItems, 0)),
		dataset.TableReviews:    dataset.NewTable(dataset.TableReviews, fixtureReviewHeader, keep(fixtureReviews, 1)),
		dataset.TableSellers: dataset.NewTable(dataset.TableSellers,
			[]string{"seller_id", "seller_zip_code_prefix"}, fixtureSellers),
		dataset.TableCustomers: dataset.NewTable(dataset.TableCustomers,
			[]string{"customer_id", "customer_zip_code_prefix"}, fixtureCustomers),
		dataset.TableGeolocation: dataset.NewTable(dataset.TableGeolocation,
			[]string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng"}, fixtureGeo),
	}
}
