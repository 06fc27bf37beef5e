package features

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/infrastructure"
	"olistcli/internal/relational"
)

// candidate is a training row being assembled; hasScore tracks the only
// feature that can be missing after the joins
type candidate struct {
	TrainingRow
	hasScore bool
}

// TrainingData joins the wait time, review, product count, seller count and
// price/freight tables (and the distance table when withDistance) on
// order_id. Orders missing from any of them, or without a review score,
// are dropped. Rows keep the order of the wait time table.
func (b *Builder) TrainingData(ctx context.Context, isDelivered, withDistance bool) (out *TrainingTable, err error) {
	start := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, b.tracer, "features.training_data",
		attribute.Bool("is_delivered", isDelivered),
		attribute.Bool("with_distance", withDistance))
	defer func() { infrastructure.EndSpan(span, err) }()

	waits, err := b.WaitTime(ctx, isDelivered)
	if err != nil {
		return nil, err
	}
	rows := make([]candidate, len(waits))
	for i, w := range waits {
		rows[i] = candidate{TrainingRow: TrainingRow{
			OrderID:          w.OrderID,
			WaitTime:         w.WaitTime,
			ExpectedWaitTime: w.ExpectedWaitTime,
			DelayVsExpected:  w.DelayVsExpected,
			OrderStatus:      w.Status,
		}}
	}

	reviews, err := b.ReviewScore(ctx)
	if err != nil {
		return nil, err
	}
	rows, err = joinOn(ctx, b, "review_score", rows, reviews,
		func(r ReviewScore) string { return r.OrderID },
		func(c *candidate, r ReviewScore) {
			c.DimIsFiveStar = r.IsFiveStar
			c.DimIsOneStar = r.IsOneStar
			c.ReviewScore = r.Score.Int64
			c.hasScore = r.Score.Valid
		})
	if err != nil {
		return nil, err
	}

	products, err := b.ProductCount(ctx)
	if err != nil {
		return nil, err
	}
	rows, err = joinOn(ctx, b, "product_count", rows, products,
		func(p ProductCount) string { return p.OrderID },
		func(c *candidate, p ProductCount) { c.NumberOfProducts = p.NumberOfProducts })
	if err != nil {
		return nil, err
	}

	sellers, err := b.SellerCount(ctx)
	if err != nil {
		return nil, err
	}
	rows, err = joinOn(ctx, b, "seller_count", rows, sellers,
		func(s SellerCount) string { return s.OrderID },
		func(c *candidate, s SellerCount) { c.NumberOfSellers = s.NumberOfSellers })
	if err != nil {
		return nil, err
	}

	prices, err := b.PriceAndFreight(ctx)
	if err != nil {
		return nil, err
	}
	rows, err = joinOn(ctx, b, "price_and_freight", rows, prices,
		func(p PriceFreight) string { return p.OrderID },
		func(c *candidate, p PriceFreight) {
			c.Price = p.Price
			c.FreightValue = p.FreightValue
		})
	if err != nil {
		return nil, err
	}

	if withDistance {
		distances, err := b.DistanceSellerCustomer(ctx)
		if err != nil {
			return nil, err
		}
		rows, err = joinOn(ctx, b, "distance_seller_customer", rows, distances,
			func(d Distance) string { return d.OrderID },
			func(c *candidate, d Distance) { c.DistanceSellerCustomer = d.DistanceSellerCustomer })
		if err != nil {
			return nil, err
		}
	}

	out = &TrainingTable{WithDistance: withDistance, Rows: make([]TrainingRow, 0, len(rows))}
	for _, c := range rows {
		if c.hasScore {
			out.Rows = append(out.Rows, c.TrainingRow)
		}
	}
	if missing := len(rows) - out.Len(); missing > 0 {
		b.logger.DebugContext(ctx, "dropped rows without review score", slog.Int("rows", missing))
	}

	b.metrics.RecordTraining(ctx, out.Len())
	b.logger.InfoContext(ctx, "training table built",
		slog.Int("rows", out.Len()),
		slog.Int("columns", len(out.Columns())),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

// joinOn inner-joins rows with one derived table, which is unique on
// order_id, and applies set to every matched row
func joinOn[R any](ctx context.Context, b *Builder, name string, rows []candidate, right []R,
	key func(R) string, set func(*candidate, R)) ([]candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pairs, dropped := relational.InnerJoin(rows, right,
		func(c candidate) string { return c.OrderID }, key)

	if dropped > 0 {
		if b.strictJoins {
			return nil, apperrors.NewJoinMismatchError(
				fmt.Sprintf("join with %s dropped %d orders", name, dropped), dropped).
				WithContext("derivation", name)
		}
		b.logger.DebugContext(ctx, "join dropped orders",
			slog.String("derivation", name),
			slog.Int("dropped", dropped))
	}

	out := make([]candidate, len(pairs))
	for i, p := range pairs {
		c := p.Left
		set(&c, p.Right)
		out[i] = c
	}
	return out, nil
}
