package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/campground"
	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/metrics"
	"github.com/Davidxcr/YelpCamp/internal/response"
	"github.com/Davidxcr/YelpCamp/internal/shared/validate"
	"github.com/Davidxcr/YelpCamp/internal/stream"

	"github.com/google/uuid"
)

type Service struct {
	db     db.Querier
	events campground.Publisher
}

func NewService(q db.Querier, events campground.Publisher) *Service {
	return &Service{db: q, events: events}
}

func (s *Service) Create(ctx context.Context, campgroundID, authorID string, in Input) (Review, error) {
	in.Body = strings.TrimSpace(in.Body)
	if err := validate.Struct(in); err != nil {
		return Review{}, err
	}

	r := Review{
		ID:         uuid.NewString(),
		Campground: campgroundID,
		Rating:     in.Rating,
		Body:       in.Body,
		Author:     campground.AuthorRef{ID: authorID},
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO reviews (id, campground_id, author_id, rating, body)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, (SELECT username FROM users WHERE id = $3)
	`, r.ID, campgroundID, authorID, r.Rating, r.Body).Scan(&r.CreatedAt, &r.Author.Username)
	if err != nil {
		switch {
		case db.IsForeignKeyViolation(err) && strings.Contains(db.ConstraintName(err), "author"):
			return Review{}, response.NotFound("User not found", "author does not exist")
		case db.IsForeignKeyViolation(err), db.IsInvalidID(err):
			return Review{}, campgroundNotFound(campgroundID)
		}
		return Review{}, response.Upstream("Failed to create review", err)
	}

	s.publish(ctx, campgroundID, "review.created", r)
	return r, nil
}

// List returns a campground's reviews, newest first.
func (s *Service) List(ctx context.Context, campgroundID string) (out []Review, err error) {
	defer metrics.ObserveQuery("reviews.list", time.Now(), &err)

	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.campground_id, r.rating, r.body, r.created_at, u.id, u.username
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.campground_id = $1
		ORDER BY r.created_at DESC, r.id ASC
	`, campgroundID)
	if err != nil {
		if db.IsInvalidID(err) {
			return nil, campgroundNotFound(campgroundID)
		}
		return nil, response.Upstream("Failed to fetch reviews", err)
	}
	defer rows.Close()

	out = []Review{}
	for rows.Next() {
		var r Review
		if err = rows.Scan(&r.ID, &r.Campground, &r.Rating, &r.Body, &r.CreatedAt, &r.Author.ID, &r.Author.Username); err != nil {
			return nil, response.Upstream("Failed to fetch reviews", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, response.Upstream("Failed to fetch reviews", err)
	}
	return out, nil
}

// Delete removes a review. The review's author and the campground's author
// may both delete it.
func (s *Service) Delete(ctx context.Context, campgroundID, reviewID, userID string) error {
	var reviewAuthor, campgroundAuthor string
	err := s.db.QueryRow(ctx, `
		SELECT r.author_id, c.author_id
		FROM reviews r
		JOIN campgrounds c ON c.id = r.campground_id
		WHERE r.id = $1 AND r.campground_id = $2
	`, reviewID, campgroundID).Scan(&reviewAuthor, &campgroundAuthor)
	if err != nil {
		if db.IsNoRows(err) || db.IsInvalidID(err) {
			return reviewNotFound(reviewID)
		}
		return response.Upstream("Failed to fetch review", err)
	}
	if userID != reviewAuthor && userID != campgroundAuthor {
		return response.Forbidden("You do not have permission to delete this review")
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, reviewID)
	if err != nil {
		return response.Upstream("Failed to delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return reviewNotFound(reviewID)
	}

	s.publish(ctx, campgroundID, "review.deleted", map[string]string{"id": reviewID})
	return nil
}

func (s *Service) publish(ctx context.Context, campgroundID, eventType string, data any) {
	if s.events == nil {
		return
	}
	evt := stream.Event{Type: eventType, Campground: campgroundID, Data: data}
	s.events.Publish(ctx, campgroundID, evt)
	s.events.Publish(ctx, stream.TopicAll, evt)
}

func campgroundNotFound(id string) error {
	return response.NotFound("Campground not found", fmt.Sprintf("No campground found with id %s", id))
}

func reviewNotFound(id string) error {
	return response.NotFound("Review not found", fmt.Sprintf("No review found with id %s", id))
}
