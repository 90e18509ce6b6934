// Package stats computes the site-wide campground summary.
package stats

import (
	"context"
	"math"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/metrics"
	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
)

const topLocationsLimit = 10

type Pricing struct {
	AvgPrice float64 `json:"avgPrice"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type Summary struct {
	TotalCampgrounds int             `json:"totalCampgrounds"`
	TotalReviews     int             `json:"totalReviews"`
	Pricing          Pricing         `json:"pricing"`
	TopLocations     []LocationCount `json:"topLocations"`
}

type Aggregator struct {
	db db.Querier
}

func NewAggregator(q db.Querier) *Aggregator {
	return &Aggregator{db: q}
}

// Summary is computed from scratch on every call.
func (a *Aggregator) Summary(ctx context.Context) (out Summary, err error) {
	defer metrics.ObserveQuery("stats.summary", time.Now(), &err)

	err = a.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM campgrounds),
		       (SELECT COUNT(*) FROM reviews),
		       COALESCE(AVG(price), 0), COALESCE(MIN(price), 0), COALESCE(MAX(price), 0)
		FROM campgrounds
	`).Scan(&out.TotalCampgrounds, &out.TotalReviews, &out.Pricing.AvgPrice, &out.Pricing.MinPrice, &out.Pricing.MaxPrice)
	if err != nil {
		return Summary{}, response.Upstream("Failed to fetch statistics", err)
	}
	out.Pricing.AvgPrice = math.Round(out.Pricing.AvgPrice*100) / 100

	rows, err := a.db.Query(ctx, `
		SELECT location, COUNT(*) AS n
		FROM campgrounds
		GROUP BY location
		ORDER BY n DESC, location ASC
		LIMIT $1
	`, topLocationsLimit)
	if err != nil {
		return Summary{}, response.Upstream("Failed to fetch statistics", err)
	}
	defer rows.Close()

	out.TopLocations = []LocationCount{}
	for rows.Next() {
		var lc LocationCount
		if err = rows.Scan(&lc.Location, &lc.Count); err != nil {
			return Summary{}, response.Upstream("Failed to fetch statistics", err)
		}
		out.TopLocations = append(out.TopLocations, lc)
	}
	if err = rows.Err(); err != nil {
		return Summary{}, response.Upstream("Failed to fetch statistics", err)
	}
	return out, nil
}

func RegisterRoutes(r fiber.Router, agg *Aggregator) {
	r.Get("/", func(c *fiber.Ctx) error {
		summary, err := agg.Summary(c.UserContext())
		if err != nil {
			return err
		}
		return response.OK(c, summary)
	})
}
