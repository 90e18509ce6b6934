// Package seed replaces the campground table with generated listings for
// local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/campground"
	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/imagestore"
	"github.com/Davidxcr/YelpCamp/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"
)

const DefaultCount = 300

var ErrNoAuthor = errors.New("seed author id is required")

// Beginner is satisfied by *pgxpool.Pool.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ImageSource hands out photos for a category; *curator.Curator implements it.
type ImageSource interface {
	Images(ctx context.Context, category string) []imagestore.Image
}

type Options struct {
	Count    int
	AuthorID string
	Rand     *rand.Rand
}

// Camp is one generated listing.
type Camp struct {
	ID          string
	Title       string
	Location    string
	Description string
	Price       float64
	Lng, Lat    float64
	Images      []imagestore.Image
}

type Seeder struct {
	pool   Beginner
	images ImageSource
}

func New(pool Beginner, images ImageSource) *Seeder {
	return &Seeder{pool: pool, images: images}
}

// Run deletes every campground and inserts opts.Count generated ones in a
// single transaction. It returns the number inserted.
func (s *Seeder) Run(ctx context.Context, opts Options) (int, error) {
	if opts.AuthorID == "" {
		return 0, ErrNoAuthor
	}
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	camps := make([]Camp, opts.Count)
	byCategory := make(map[string][]imagestore.Image)
	for i := range camps {
		camps[i] = s.generate(ctx, rng, byCategory)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "begin seed transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM campgrounds`); err != nil {
		return 0, pkgerrors.Wrap(err, "clear campgrounds")
	}
	for i, c := range camps {
		if err := insert(ctx, tx, c, opts.AuthorID); err != nil {
			if db.IsForeignKeyViolation(err) {
				return 0, fmt.Errorf("author %s does not exist", opts.AuthorID)
			}
			return 0, pkgerrors.Wrapf(err, "insert campground %d", i)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, pkgerrors.Wrap(err, "commit seed transaction")
	}

	logging.Info().Int("count", len(camps)).Str("author", opts.AuthorID).Msg("campgrounds seeded")
	return len(camps), nil
}

func (s *Seeder) generate(ctx context.Context, rng *rand.Rand, byCategory map[string][]imagestore.Image) Camp {
	where := cities[rng.Intn(len(cities))]
	c := Camp{
		ID:          uuid.NewString(),
		Title:       descriptors[rng.Intn(len(descriptors))] + " " + places[rng.Intn(len(places))],
		Location:    where.City + ", " + where.State,
		Description: description,
		Price:       float64(rng.Intn(30) + 10),
		Lng:         where.Longitude,
		Lat:         where.Latitude,
	}

	category, ok := campground.CategoryOf(c.Title)
	if !ok {
		category = "forest"
	}
	images, cached := byCategory[category]
	if !cached {
		if s.images != nil {
			images = s.images.Images(ctx, category)
		}
		byCategory[category] = images
	}
	c.Images = append([]imagestore.Image{}, images...)
	return c
}

func insert(ctx context.Context, q db.Querier, c Camp, authorID string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO campgrounds (id, title, description, location, price, geometry, images, author_id)
		VALUES ($1,$2,$3,$4,$5, ST_SetSRID(ST_MakePoint($6,$7), 4326)::geography, $8, $9)
	`, c.ID, c.Title, c.Description, c.Location, c.Price, c.Lng, c.Lat, c.Images, authorID)
	return err
}
