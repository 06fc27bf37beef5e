package features

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"olistcli/internal/dataset"
	"olistcli/internal/relational"
)

const hoursPerDay = 24

// days returns end - start in fractional days
func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / hoursPerDay
}

// WaitTime computes the delivery durations of each order. With isDelivered
// only delivered orders are considered. Orders missing the purchase,
// delivery or estimate timestamp are left out.
func (b *Builder) WaitTime(ctx context.Context, isDelivered bool) ([]WaitTime, error) {
	return derive(ctx, b, "wait_time", func(ctx context.Context) ([]WaitTime, error) {
		orders, err := table(b, dataset.TableOrders, dataset.DecodeOrders)
		if err != nil {
			return nil, err
		}

		out := make([]WaitTime, 0, len(orders))
		seen := make(map[string]struct{}, len(orders))
		for _, o := range orders {
			if isDelivered && o.Status != dataset.OrderStatusDelivered {
				continue
			}
			if !o.PurchasedAt.Valid || !o.DeliveredCustomerAt.Valid || !o.EstimatedDeliveryAt.Valid {
				continue
			}
			if _, dup := seen[o.OrderID]; dup {
				continue
			}
			seen[o.OrderID] = struct{}{}

			out = append(out, WaitTime{
				OrderID:          o.OrderID,
				Status:           o.Status,
				WaitTime:         days(o.PurchasedAt.Time, o.DeliveredCustomerAt.Time),
				ExpectedWaitTime: days(o.PurchasedAt.Time, o.EstimatedDeliveryAt.Time),
				DelayVsExpected:  max(0, days(o.EstimatedDeliveryAt.Time, o.DeliveredCustomerAt.Time)),
			})
		}
		return out, nil
	})
}

// ReviewScore flags five and one star reviews. When an order has several
// reviews the first one in the file is used.
func (b *Builder) ReviewScore(ctx context.Context) ([]ReviewScore, error) {
	return derive(ctx, b, "review_score", func(ctx context.Context) ([]ReviewScore, error) {
		reviews, err := table(b, dataset.TableReviews, dataset.DecodeReviews)
		if err != nil {
			return nil, err
		}

		groups := relational.GroupBy(reviews, func(r dataset.Review) string { return r.OrderID })
		out := make([]ReviewScore, 0, len(groups))
		for _, g := range groups {
			r := g.Rows[0]
			out = append(out, ReviewScore{
				OrderID:    r.OrderID,
				IsFiveStar: r.Score.Valid && r.Score.Int64 == 5,
				IsOneStar:  r.Score.Valid && r.Score.Int64 == 1,
				Score:      r.Score,
			})
		}
		return out, nil
	})
}

// orderItemGroups joins orders to their items and groups the pairs by
// order, sorted by order_id. Orders without items are absent.
func (b *Builder) orderItemGroups() ([]relational.Group[string, dataset.OrderItem], error) {
	orders, err := table(b, dataset.TableOrders, dataset.DecodeOrders)
	if err != nil {
		return nil, err
	}
	items, err := table(b, dataset.TableOrderItems, dataset.DecodeOrderItems)
	if err != nil {
		return nil, err
	}

	pairs, _ := relational.InnerJoin(orders, items,
		func(o dataset.Order) string { return o.OrderID },
		func(i dataset.OrderItem) string { return i.OrderID })

	joined := make([]dataset.OrderItem, len(pairs))
	for i, p := range pairs {
		joined[i] = p.Right
	}
	groups := relational.GroupBy(joined, func(i dataset.OrderItem) string { return i.OrderID })
	relational.SortGroups(groups)
	return groups, nil
}

// ProductCount counts the distinct products of each order
func (b *Builder) ProductCount(ctx context.Context) ([]ProductCount, error) {
	return derive(ctx, b, "product_count", func(ctx context.Context) ([]ProductCount, error) {
		groups, err := b.orderItemGroups()
		if err != nil {
			return nil, err
		}
		out := make([]ProductCount, len(groups))
		for i, g := range groups {
			out[i] = ProductCount{
				OrderID:          g.Key,
				NumberOfProducts: relational.CountDistinct(g.Rows, func(it dataset.OrderItem) string { return it.ProductID }),
			}
		}
		return out, nil
	})
}

// SellerCount counts the distinct sellers of each order
func (b *Builder) SellerCount(ctx context.Context) ([]SellerCount, error) {
	return derive(ctx, b, "seller_count", func(ctx context.Context) ([]SellerCount, error) {
		groups, err := b.orderItemGroups()
		if err != nil {
			return nil, err
		}
		out := make([]SellerCount, len(groups))
		for i, g := range groups {
			out[i] = SellerCount{
				OrderID:         g.Key,
				NumberOfSellers: relational.CountDistinct(g.Rows, func(it dataset.OrderItem) string { return it.SellerID }),
			}
		}
		return out, nil
	})
}

// PriceAndFreight sums item prices and freight per order. Missing cells
// are skipped.
func (b *Builder) PriceAndFreight(ctx context.Context) ([]PriceFreight, error) {
	return derive(ctx, b, "price_and_freight", func(ctx context.Context) ([]PriceFreight, error) {
		items, err := table(b, dataset.TableOrderItems, dataset.DecodeOrderItems)
		if err != nil {
			return nil, err
		}

		groups := relational.GroupBy(items, func(i dataset.OrderItem) string { return i.OrderID })
		relational.SortGroups(groups)

		out := make([]PriceFreight, len(groups))
		for i, g := range groups {
			price, freight := decimal.Zero, decimal.Zero
			for _, it := range g.Rows {
				if it.Price.Valid {
					price = price.Add(it.Price.Decimal)
				}
				if it.FreightValue.Valid {
					freight = freight.Add(it.FreightValue.Decimal)
				}
			}
			out[i] = PriceFreight{
				OrderID:      g.Key,
				Price:        price.InexactFloat64(),
				FreightValue: freight.InexactFloat64(),
			}
		}
		return out, nil
	})
}
