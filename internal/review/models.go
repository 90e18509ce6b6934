package review

import (
	"time"

	"github.com/Davidxcr/YelpCamp/internal/campground"
)

type Review struct {
	ID         string               `json:"id"`
	Campground string               `json:"campground"`
	Rating     int                  `json:"rating"`
	Body       string               `json:"body"`
	Author     campground.AuthorRef `json:"author"`
	CreatedAt  time.Time            `json:"createdAt"`
}

type Input struct {
	Rating int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" form:"body" validate:"required,max=5000"`
}
