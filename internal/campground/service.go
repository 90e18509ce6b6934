package campground

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/geocode"
	"github.com/Davidxcr/YelpCamp/internal/imagestore"
	"github.com/Davidxcr/YelpCamp/internal/metrics"
	"github.com/Davidxcr/YelpCamp/internal/response"
	"github.com/Davidxcr/YelpCamp/internal/shared/geo"
	"github.com/Davidxcr/YelpCamp/internal/shared/validate"
	"github.com/Davidxcr/YelpCamp/internal/stream"

	"github.com/google/uuid"
)

const (
	DefaultSearchLimit   = 10
	DefaultCategoryLimit = 20
	DefaultNearbyLimit   = 20
	DefaultRadiusKm      = 50.0
)

// Publisher receives activity events; *stream.Hub satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, evt stream.Event)
}

type Service struct {
	db       db.Querier
	images   imagestore.Store
	geocoder geocode.Geocoder
	events   Publisher
}

// NewService wires the campground store. images, geocoder and events may be
// nil; writes needing a missing collaborator then fail with an upstream
// error and events are dropped.
func NewService(q db.Querier, images imagestore.Store, geocoder geocode.Geocoder, events Publisher) *Service {
	return &Service{db: q, images: images, geocoder: geocoder, events: events}
}

const selectCampground = `
	SELECT c.id, c.title, c.description, c.location, c.price,
	       ST_X(c.geometry::geometry), ST_Y(c.geometry::geometry),
	       c.images, c.created_at, u.id, u.username, u.email
	FROM campgrounds c
	JOIN users u ON u.id = c.author_id`

func (s *Service) List(ctx context.Context, opts ListOptions) (page Page, err error) {
	defer metrics.ObserveQuery("campgrounds.list", time.Now(), &err)
	q := opts.Build()

	var total int
	if err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM campgrounds c`+q.WhereClause(), q.Args...).Scan(&total); err != nil {
		return Page{}, response.Upstream("Failed to fetch campgrounds", err)
	}

	args := append(append([]any{}, q.Args...), q.Take, q.Skip)
	sql := fmt.Sprintf(`%s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		selectCampground, q.WhereClause(), q.OrderBy, len(q.Args)+1, len(q.Args)+2)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return Page{}, response.Upstream("Failed to fetch campgrounds", err)
	}
	defer rows.Close()

	campgrounds := []Campground{}
	for rows.Next() {
		c, err := scanCampground(rows)
		if err != nil {
			return Page{}, response.Upstream("Failed to fetch campgrounds", err)
		}
		// list views never expose author email
		c.Author.Email = ""
		campgrounds = append(campgrounds, c)
	}
	if err = rows.Err(); err != nil {
		return Page{}, response.Upstream("Failed to fetch campgrounds", err)
	}

	if err = s.attachReviews(ctx, campgrounds); err != nil {
		return Page{}, err
	}
	return Page{
		Campgrounds: campgrounds,
		Pagination:  NewPagination(opts.Page, q.Take, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (detail Detail, err error) {
	defer metrics.ObserveQuery("campgrounds.get", time.Now(), &err)

	c, err := s.load(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	group := []Campground{c}
	if err = s.attachReviews(ctx, group); err != nil {
		return Detail{}, err
	}
	c = group[0]
	return Detail{Campground: c, Stats: detailStats(c)}, nil
}

func (s *Service) Search(ctx context.Context, term string, limit int) (res SearchResult, err error) {
	defer metrics.ObserveQuery("campgrounds.search", time.Now(), &err)

	term = strings.TrimSpace(term)
	if term == "" {
		return SearchResult{}, response.InvalidInput("Invalid search term", "search term must not be empty")
	}
	limit = clampLimit(limit, DefaultSearchLimit)

	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.title, c.location, c.price, c.images, c.description
		FROM campgrounds c
		WHERE c.title ILIKE $1 OR c.description ILIKE $1 OR c.location ILIKE $1
		ORDER BY c.title ASC, c.id ASC
		LIMIT $2
	`, containsPattern(term), limit)
	if err != nil {
		return SearchResult{}, response.Upstream("Failed to search campgrounds", err)
	}
	summaries, err := scanSummaries(rows)
	if err != nil {
		return SearchResult{}, response.Upstream("Failed to search campgrounds", err)
	}
	return SearchResult{SearchTerm: term, Results: len(summaries), Campgrounds: summaries}, nil
}

func (s *Service) Category(ctx context.Context, name string, limit int) (res CategoryResult, err error) {
	defer metrics.ObserveQuery("campgrounds.category", time.Now(), &err)

	category, ok := LookupCategory(name)
	if !ok {
		return CategoryResult{}, response.InvalidCategory(name, CategoryNames())
	}
	limit = clampLimit(limit, DefaultCategoryLimit)

	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.title, c.location, c.price, c.images, c.description
		FROM campgrounds c
		WHERE c.title ~* $1
		ORDER BY c.title ASC, c.id ASC
		LIMIT $2
	`, category.Pattern(), limit)
	if err != nil {
		return CategoryResult{}, response.Upstream("Failed to fetch category", err)
	}
	summaries, err := scanSummaries(rows)
	if err != nil {
		return CategoryResult{}, response.Upstream("Failed to fetch category", err)
	}
	return CategoryResult{Category: name, Results: len(summaries), Campgrounds: summaries}, nil
}

// Nearby lists campgrounds within radiusKm of the point, nearest first.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) (out []Nearby, err error) {
	defer metrics.ObserveQuery("campgrounds.nearby", time.Now(), &err)

	if !geo.ValidPoint(lng, lat) {
		return nil, response.InvalidInput("Invalid coordinates", geo.ErrInvalidPoint.Error())
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	limit = clampLimit(limit, DefaultNearbyLimit)

	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.title, c.location, c.price, c.images, c.description,
		       ST_X(c.geometry::geometry), ST_Y(c.geometry::geometry)
		FROM campgrounds c
		WHERE ST_DWithin(c.geometry, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY c.geometry <-> ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography
		LIMIT $4
	`, lng, lat, radiusKm*1000, limit)
	if err != nil {
		return nil, response.Upstream("Failed to find nearby campgrounds", err)
	}
	defer rows.Close()

	out = []Nearby{}
	for rows.Next() {
		var n Nearby
		var cLng, cLat float64
		if err = rows.Scan(&n.ID, &n.Title, &n.Location, &n.Price, &n.Images, &n.Description, &cLng, &cLat); err != nil {
			return nil, response.Upstream("Failed to find nearby campgrounds", err)
		}
		n.Images = nonNilImages(n.Images)
		n.Geometry = geo.NewPoint(cLng, cLat)
		n.DistanceKm = roundTo(geo.HaversineKm(lat, lng, cLat, cLng), 2)
		out = append(out, n)
	}
	if err = rows.Err(); err != nil {
		return nil, response.Upstream("Failed to find nearby campgrounds", err)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, authorID string, in Input, files []*multipart.FileHeader) (Campground, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if err := validate.Struct(in); err != nil {
		return Campground{}, err
	}
	if len(files) > maxImages {
		return Campground{}, response.InvalidInput("Too many images", fmt.Sprintf("a campground holds at most %d images", maxImages))
	}

	point, err := s.resolvePoint(ctx, in.Location, in.Lng, in.Lat)
	if err != nil {
		return Campground{}, err
	}

	uploaded, err := s.upload(ctx, files)
	if err != nil {
		return Campground{}, err
	}

	c := Campground{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Price:       *in.Price,
		Geometry:    point,
		Images:      nonNilImages(uploaded),
		Author:      AuthorRef{ID: authorID},
		Reviews:     []ReviewView{},
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO campgrounds (id, title, description, location, price, geometry, images, author_id)
		VALUES ($1,$2,$3,$4,$5, ST_SetSRID(ST_MakePoint($6,$7), 4326)::geography, $8, $9)
		RETURNING created_at, (SELECT username FROM users WHERE id = $9)
	`, c.ID, c.Title, c.Description, c.Location, c.Price, point.Lng(), point.Lat(), c.Images, authorID).
		Scan(&c.CreatedAt, &c.Author.Username)
	if err != nil {
		imagestore.DeleteAll(ctx, s.images, uploaded)
		if db.IsForeignKeyViolation(err) {
			return Campground{}, response.NotFound("User not found", "author does not exist")
		}
		return Campground{}, response.Upstream("Failed to create campground", err)
	}

	s.publish(ctx, c.ID, "campground.created", c)
	return c, nil
}

// Update applies a partial update. Only the campground's author may edit it.
func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput, files []*multipart.FileHeader) (Campground, error) {
	if err := validate.Struct(in); err != nil {
		return Campground{}, err
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return Campground{}, err
	}
	if c.Author.ID != userID {
		return Campground{}, response.Forbidden("You do not have permission to edit this campground")
	}

	locationChanged := false
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.Location != nil && strings.TrimSpace(*in.Location) != c.Location {
		c.Location = strings.TrimSpace(*in.Location)
		locationChanged = true
	}

	switch {
	case in.Lng != nil || in.Lat != nil:
		point, err := s.resolvePoint(ctx, c.Location, in.Lng, in.Lat)
		if err != nil {
			return Campground{}, err
		}
		c.Geometry = point
	case locationChanged:
		point, err := s.resolvePoint(ctx, c.Location, nil, nil)
		if err != nil {
			return Campground{}, err
		}
		c.Geometry = point
	}

	kept, removed := splitImages(c.Images, in.DeleteImages)
	if len(kept)+len(files) > maxImages {
		return Campground{}, response.InvalidInput("Too many images", fmt.Sprintf("a campground holds at most %d images", maxImages))
	}
	uploaded, err := s.upload(ctx, files)
	if err != nil {
		return Campground{}, err
	}
	c.Images = append(kept, uploaded...)

	tag, err := s.db.Exec(ctx, `
		UPDATE campgrounds
		SET title=$2, description=$3, location=$4, price=$5,
		    geometry=ST_SetSRID(ST_MakePoint($6,$7), 4326)::geography,
		    images=$8
		WHERE id=$1
	`, c.ID, c.Title, c.Description, c.Location, c.Price, c.Geometry.Lng(), c.Geometry.Lat(), c.Images)
	if err != nil {
		imagestore.DeleteAll(ctx, s.images, uploaded)
		return Campground{}, response.Upstream("Failed to update campground", err)
	}
	if tag.RowsAffected() == 0 {
		imagestore.DeleteAll(ctx, s.images, uploaded)
		return Campground{}, notFound(id)
	}
	imagestore.DeleteAll(ctx, s.images, removed)

	group := []Campground{c}
	if err := s.attachReviews(ctx, group); err != nil {
		return Campground{}, err
	}
	c = group[0]

	s.publish(ctx, c.ID, "campground.updated", c)
	return c, nil
}

// Delete removes a campground, its reviews and its stored images.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if c.Author.ID != userID {
		return response.Forbidden("You do not have permission to delete this campground")
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM campgrounds WHERE id=$1`, id)
	if err != nil {
		return response.Upstream("Failed to delete campground", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	imagestore.DeleteAll(ctx, s.images, c.Images)

	s.publish(ctx, id, "campground.deleted", map[string]string{"id": id})
	return nil
}

func (s *Service) load(ctx context.Context, id string) (Campground, error) {
	row := s.db.QueryRow(ctx, selectCampground+` WHERE c.id = $1`, id)
	c, err := scanCampground(row)
	if err != nil {
		if db.IsNoRows(err) || db.IsInvalidID(err) {
			return Campground{}, notFound(id)
		}
		return Campground{}, response.Upstream("Failed to fetch campground", err)
	}
	return c, nil
}

// attachReviews loads the reviews of every campground in one query, newest
// first, and assigns them in place.
func (s *Service) attachReviews(ctx context.Context, campgrounds []Campground) error {
	if len(campgrounds) == 0 {
		return nil
	}
	ids := make([]string, len(campgrounds))
	index := make(map[string]int, len(campgrounds))
	for i := range campgrounds {
		ids[i] = campgrounds[i].ID
		index[campgrounds[i].ID] = i
		campgrounds[i].Reviews = []ReviewView{}
	}

	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.campground_id, r.rating, r.body, r.created_at, u.id, u.username
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.campground_id = ANY($1)
		ORDER BY r.created_at DESC, r.id ASC
	`, ids)
	if err != nil {
		return response.Upstream("Failed to fetch reviews", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r ReviewView
		var campgroundID string
		if err := rows.Scan(&r.ID, &campgroundID, &r.Rating, &r.Body, &r.CreatedAt, &r.Author.ID, &r.Author.Username); err != nil {
			return response.Upstream("Failed to fetch reviews", err)
		}
		if i, ok := index[campgroundID]; ok {
			campgrounds[i].Reviews = append(campgrounds[i].Reviews, r)
		}
	}
	if err := rows.Err(); err != nil {
		return response.Upstream("Failed to fetch reviews", err)
	}
	return nil
}

func (s *Service) resolvePoint(ctx context.Context, location string, lng, lat *float64) (geo.Point, error) {
	if lng != nil || lat != nil {
		if lng == nil || lat == nil {
			return geo.Point{}, response.InvalidInput("Invalid coordinates", "lng and lat must be given together")
		}
		point := geo.NewPoint(*lng, *lat)
		if err := point.Validate(); err != nil {
			return geo.Point{}, response.InvalidInput("Invalid coordinates", err.Error())
		}
		return point, nil
	}

	if s.geocoder == nil {
		return geo.Point{}, response.Upstream("Geocoding failed", geocode.ErrNotConfigured)
	}
	point, err := s.geocoder.Forward(ctx, location)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResults) {
			return geo.Point{}, response.InvalidInput("Location not found", fmt.Sprintf("could not locate %q", location))
		}
		return geo.Point{}, response.Upstream("Geocoding failed", err)
	}
	return point, nil
}

func (s *Service) upload(ctx context.Context, files []*multipart.FileHeader) ([]imagestore.Image, error) {
	images, err := imagestore.UploadFiles(ctx, s.images, files)
	switch {
	case err == nil:
		return images, nil
	case errors.Is(err, imagestore.ErrUnsupportedType):
		return nil, response.InvalidInput("Unsupported image type", err.Error())
	default:
		return nil, response.Upstream("Image upload failed", err)
	}
}

func (s *Service) publish(ctx context.Context, campgroundID, eventType string, data any) {
	if s.events == nil {
		return
	}
	evt := stream.Event{Type: eventType, Campground: campgroundID, Data: data}
	s.events.Publish(ctx, campgroundID, evt)
	s.events.Publish(ctx, stream.TopicAll, evt)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCampground(row scanner) (Campground, error) {
	var c Campground
	var lng, lat float64
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Location, &c.Price, &lng, &lat,
		&c.Images, &c.CreatedAt, &c.Author.ID, &c.Author.Username, &c.Author.Email); err != nil {
		return Campground{}, err
	}
	c.Geometry = geo.NewPoint(lng, lat)
	c.Images = nonNilImages(c.Images)
	c.Reviews = []ReviewView{}
	return c, nil
}

type summaryRows interface {
	scanner
	Next() bool
	Err() error
	Close()
}

func scanSummaries(rows summaryRows) ([]Summary, error) {
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Location, &s.Price, &s.Images, &s.Description); err != nil {
			return nil, err
		}
		s.Images = nonNilImages(s.Images)
		out = append(out, s)
	}
	return out, rows.Err()
}

func splitImages(images []imagestore.Image, remove []string) (kept, removed []imagestore.Image) {
	drop := make(map[string]struct{}, len(remove))
	for _, f := range remove {
		drop[f] = struct{}{}
	}
	kept = []imagestore.Image{}
	for _, img := range images {
		if _, ok := drop[img.Filename]; ok {
			removed = append(removed, img)
			continue
		}
		kept = append(kept, img)
	}
	return kept, removed
}

func nonNilImages(images []imagestore.Image) []imagestore.Image {
	if images == nil {
		return []imagestore.Image{}
	}
	return images
}

func notFound(id string) error {
	return response.NotFound("Campground not found", fmt.Sprintf("No campground found with id %s", id))
}

func clampLimit(limit, fallback int) int {
	if limit < 1 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
