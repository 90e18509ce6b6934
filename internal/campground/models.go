package campground

import (
	"time"

	"github.com/Davidxcr/YelpCamp/internal/imagestore"
	"github.com/Davidxcr/YelpCamp/internal/shared/geo"
)

const maxImages = 10

type AuthorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type ReviewView struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	Author    AuthorRef `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Campground struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	Price       float64            `json:"price"`
	Geometry    geo.Point          `json:"geometry"`
	Images      []imagestore.Image `json:"images"`
	Author      AuthorRef          `json:"author"`
	Reviews     []ReviewView       `json:"reviews"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Summary is the projection returned by search and category lookups.
type Summary struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Location    string             `json:"location"`
	Price       float64            `json:"price"`
	Images      []imagestore.Image `json:"images"`
	Description string             `json:"description"`
}

type Nearby struct {
	Summary
	Geometry   geo.Point `json:"geometry"`
	DistanceKm float64   `json:"distanceKm"`
}

type Page struct {
	Campgrounds []Campground `json:"campgrounds"`
	Pagination  Pagination   `json:"pagination"`
}

// DetailStats.CreatedAt is a timestamp, or "N/A" when unknown.
type DetailStats struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
	CreatedAt     any     `json:"createdAt"`
}

type Detail struct {
	Campground Campground  `json:"campground"`
	Stats      DetailStats `json:"stats"`
}

type SearchResult struct {
	SearchTerm  string    `json:"searchTerm"`
	Results     int       `json:"results"`
	Campgrounds []Summary `json:"campgrounds"`
}

type CategoryResult struct {
	Category    string    `json:"category"`
	Results     int       `json:"results"`
	Campgrounds []Summary `json:"campgrounds"`
}

// Input is the body of a create request, JSON or multipart. Images only
// arrive as uploaded files so every stored filename is one this service wrote.
type Input struct {
	Title       string   `json:"title" form:"title" validate:"required,max=200"`
	Location    string   `json:"location" form:"location" validate:"required,max=200"`
	Price       *float64 `json:"price" form:"price" validate:"required,gte=0"`
	Description string   `json:"description" form:"description" validate:"required"`
	Lng         *float64 `json:"lng" form:"lng" validate:"omitempty,longitude"`
	Lat         *float64 `json:"lat" form:"lat" validate:"omitempty,latitude"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title        *string  `json:"title" form:"title" validate:"omitempty,min=1,max=200"`
	Location     *string  `json:"location" form:"location" validate:"omitempty,min=1,max=200"`
	Price        *float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
	Description  *string  `json:"description" form:"description"`
	Lng          *float64 `json:"lng" form:"lng" validate:"omitempty,longitude"`
	Lat          *float64 `json:"lat" form:"lat" validate:"omitempty,latitude"`
	DeleteImages []string `json:"deleteImages" form:"deleteImages"`
}

func averageRating(reviews []ReviewView) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return roundTo(float64(sum)/float64(len(reviews)), 1)
}

func detailStats(c Campground) DetailStats {
	var createdAt any = "N/A"
	if !c.CreatedAt.IsZero() {
		createdAt = c.CreatedAt
	}
	return DetailStats{
		AverageRating: averageRating(c.Reviews),
		TotalReviews:  len(c.Reviews),
		CreatedAt:     createdAt,
	}
}
