package features

import (
	"context"
	"math"

	"olistcli/internal/dataset"
	"olistcli/internal/relational"
)

// EarthRadiusKm is the mean Earth radius used by Haversine
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in km between two points
// given in decimal degrees.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	lon1, lat1, lon2, lat2 = radians(lon1), radians(lat1), radians(lon2), radians(lat2)
	dlon := lon2 - lon1
	dlat := lat2 - lat1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	// rounding can push a marginally above 1 for antipodal points
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(math.Min(a, 1)))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

type point struct {
	lat, lng float64
}

// zipPoints reduces geolocation to one point per zip prefix: the first row
// that has both coordinates.
func zipPoints(geos []dataset.Geolocation) []dataset.Geolocation {
	located := make([]dataset.Geolocation, 0, len(geos))
	for _, g := range geos {
		if g.Lat.Valid && g.Lng.Valid && g.ZipCodePrefix != "" {
			located = append(located, g)
		}
	}
	first := relational.FirstBy(located, func(g dataset.Geolocation) string { return g.ZipCodePrefix })
	out := make([]dataset.Geolocation, 0, len(first))
	for _, g := range first {
		out = append(out, g)
	}
	return out
}

// locate maps each id to the point of its zip prefix; ids whose prefix has
// no point are absent
func locate[T any](rows []T, points []dataset.Geolocation, id, zip func(T) string) map[string]point {
	joined := relational.LeftJoin(rows, points, zip,
		func(g dataset.Geolocation) string { return g.ZipCodePrefix })
	out := make(map[string]point, len(rows))
	for _, j := range joined {
		if !j.OK {
			continue
		}
		if _, ok := out[id(j.Left)]; !ok {
			out[id(j.Left)] = point{lat: j.Right.Lat.Float64, lng: j.Right.Lng.Float64}
		}
	}
	return out
}

type orderDistance struct {
	orderID string
	km      float64
}

// DistanceSellerCustomer computes, per order, the mean haversine distance
// between the customer and the seller of each item. Items whose seller or
// customer cannot be located are ignored.
func (b *Builder) DistanceSellerCustomer(ctx context.Context) ([]Distance, error) {
	return derive(ctx, b, "distance_seller_customer", func(ctx context.Context) ([]Distance, error) {
		geos, err := table(b, dataset.TableGeolocation, dataset.DecodeGeolocations)
		if err != nil {
			return nil, err
		}
		sellers, err := table(b, dataset.TableSellers, dataset.DecodeSellers)
		if err != nil {
			return nil, err
		}
		customers, err := table(b, dataset.TableCustomers, dataset.DecodeCustomers)
		if err != nil {
			return nil, err
		}
		orders, err := table(b, dataset.TableOrders, dataset.DecodeOrders)
		if err != nil {
			return nil, err
		}
		items, err := table(b, dataset.TableOrderItems, dataset.DecodeOrderItems)
		if err != nil {
			return nil, err
		}

		points := zipPoints(geos)
		sellerAt := locate(sellers, points,
			func(s dataset.Seller) string { return s.SellerID },
			func(s dataset.Seller) string { return s.ZipCodePrefix })
		customerAt := locate(customers, points,
			func(c dataset.Customer) string { return c.CustomerID },
			func(c dataset.Customer) string { return c.ZipCodePrefix })

		// customers ⋈ orders ⋈ order_items: one row per (order, item)
		customerOrders, _ := relational.InnerJoin(customers, orders,
			func(c dataset.Customer) string { return c.CustomerID },
			func(o dataset.Order) string { return o.CustomerID })
		orderItems, _ := relational.InnerJoin(customerOrders, items,
			func(p relational.Pair[dataset.Customer, dataset.Order]) string { return p.Right.OrderID },
			func(i dataset.OrderItem) string { return i.OrderID })

		var pairs []orderDistance
		for _, oi := range orderItems {
			customer, order, item := oi.Left.Left, oi.Left.Right, oi.Right
			sp, ok := sellerAt[item.SellerID]
			if !ok {
				continue
			}
			cp, ok := customerAt[customer.CustomerID]
			if !ok {
				continue
			}
			pairs = append(pairs, orderDistance{
				orderID: order.OrderID,
				km:      Haversine(sp.lng, sp.lat, cp.lng, cp.lat),
			})
		}

		groups := relational.GroupBy(pairs, func(d orderDistance) string { return d.orderID })
		relational.SortGroups(groups)

		out := make([]Distance, 0, len(groups))
		for _, g := range groups {
			kms := make([]float64, len(g.Rows))
			for i, d := range g.Rows {
				kms[i] = d.km
			}
			mean, ok := relational.Mean(kms)
			if !ok {
				continue
			}
			out = append(out, Distance{OrderID: g.Key, DistanceSellerCustomer: mean})
		}
		return out, nil
	})
}
