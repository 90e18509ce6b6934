// Package curator picks listing photos per campground category. Strategies
// come from Gemini when configured and from a static table otherwise; the
// photos themselves come from the object store.
package curator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/campground"
	"github.com/Davidxcr/YelpCamp/internal/imagestore"
	"github.com/Davidxcr/YelpCamp/internal/logging"
)

const (
	folderPrefix  = "yelpcamp/"
	listMax       = 30
	imagesPerCamp = 3
)

var fallbackImages = []imagestore.Image{
	{URL: "https://res.cloudinary.com/david-codes/image/upload/v1637951098/YelpCamp/s6orfepxjgryqnpdno6k.jpg", Filename: "YelpCamp/s6orfepxjgryqnpdno6k"},
	{URL: "https://res.cloudinary.com/david-codes/image/upload/v1637951098/YelpCamp/pho4iieov1pi2ryt1e75.jpg", Filename: "YelpCamp/pho4iieov1pi2ryt1e75"},
	{URL: "https://res.cloudinary.com/david-codes/image/upload/v1637951099/YelpCamp/xevt3hvbaxzgoq29nqvb.jpg", Filename: "YelpCamp/xevt3hvbaxzgoq29nqvb"},
}

var recommendations = []string{
	"Upload images to the bucket in per-category folders: yelpcamp/ocean/, yelpcamp/mountain/, etc.",
	"Aim for 15-20 high-quality images per campground type",
	"Focus on images that show camping gear, activities, and natural beauty",
	"Ensure images have good lighting and showcase the unique aspects of each environment",
	"Consider seasonal variations for mountain and forest campgrounds",
}

// FallbackImages returns a copy of the fixed image set.
func FallbackImages() []imagestore.Image {
	return append([]imagestore.Image(nil), fallbackImages...)
}

type Strategist interface {
	Strategy(ctx context.Context, category, location string) (Strategy, error)
}

type StorageStatus struct {
	Available int                `json:"available"`
	Images    []imagestore.Image `json:"images"`
}

type Report struct {
	Strategies      map[string]Strategy      `json:"strategies"`
	StorageStatus   map[string]StorageStatus `json:"storageStatus"`
	Recommendations []string                 `json:"recommendations"`
}

type Curator struct {
	strategist Strategist
	store      imagestore.Store

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a curator. Either collaborator may be nil.
func New(strategist Strategist, store imagestore.Store) *Curator {
	return &Curator{
		strategist: strategist,
		store:      store,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Strategy never fails; any model error yields the built-in strategy.
func (c *Curator) Strategy(ctx context.Context, category, location string) Strategy {
	if c.strategist == nil {
		return FallbackStrategy(category)
	}
	s, err := c.strategist.Strategy(ctx, category, location)
	if err != nil {
		logging.Warn().Err(err).Str("category", category).Msg("gemini unavailable, using fallback strategy")
		return FallbackStrategy(category)
	}
	return s
}

// Images returns three photos from the category folder, or the fixed set when
// the folder holds fewer than three.
func (c *Curator) Images(ctx context.Context, category string) []imagestore.Image {
	pool, err := c.Pool(ctx, category)
	if err != nil {
		logging.Warn().Err(err).Str("category", category).Msg("image listing failed, using fallback images")
		return FallbackImages()
	}
	if len(pool) < imagesPerCamp {
		return FallbackImages()
	}
	return c.Pick(pool, imagesPerCamp)
}

// Pool lists the category folder. A nil store yields an empty pool.
func (c *Curator) Pool(ctx context.Context, category string) ([]imagestore.Image, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.List(ctx, folderPrefix+category+"/", listMax)
}

// Pick returns n distinct images chosen at random from pool.
func (c *Curator) Pick(pool []imagestore.Image, n int) []imagestore.Image {
	shuffled := append([]imagestore.Image(nil), pool...)
	c.mu.Lock()
	c.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	c.mu.Unlock()
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// Report walks every category once.
func (c *Curator) Report(ctx context.Context) (Report, error) {
	report := Report{
		Strategies:      make(map[string]Strategy),
		StorageStatus:   make(map[string]StorageStatus),
		Recommendations: recommendations,
	}
	for _, category := range campground.CategoryNames() {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		report.Strategies[category] = c.Strategy(ctx, category, "various locations")
		images := c.Images(ctx, category)
		report.StorageStatus[category] = StorageStatus{Available: len(images), Images: images}
		logging.Info().Str("category", category).Int("images", len(images)).Msg("category curated")
	}
	return report, nil
}
