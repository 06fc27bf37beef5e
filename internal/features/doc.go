// Package features derives the per-order feature tables of the marketplace
// dataset and joins them into the training table used for review score
// modelling.
//
// A Builder holds the loaded tables and never changes them. Each derivation
// returns a new slice with one row per order:
//
//	WaitTime                wait_time, expected_wait_time, delay_vs_expected (days)
//	ReviewScore             dim_is_five_star, dim_is_one_star, review_score
//	ProductCount            number_of_products
//	SellerCount             number_of_sellers
//	PriceAndFreight         price, freight_value
//	DistanceSellerCustomer  distance_seller_customer (km)
//
// TrainingData inner-joins them on order_id and drops rows with missing values.
package features
