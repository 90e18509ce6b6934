package seed

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/Davidxcr/YelpCamp/internal/imagestore"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

type countingImages struct {
	calls map[string]int
}

func (c *countingImages) Images(_ context.Context, category string) []imagestore.Image {
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[category]++
	return []imagestore.Image{{URL: "https://img/" + category, Filename: "yelpcamp/" + category + "/1"}}
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func insertArgs() []any {
	args := make([]any, 9)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	args[8] = "author-1"
	return args
}

func TestRunReplacesCampgrounds(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM campgrounds`).WillReturnResult(pgxmock.NewResult("DELETE", 12))
	for i := 0; i < 4; i++ {
		mock.ExpectExec(`INSERT INTO campgrounds`).WithArgs(insertArgs()...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	images := &countingImages{}
	n, err := New(mock, images).Run(context.Background(), Options{Count: 4, AuthorID: "author-1", Rand: rand.New(rand.NewSource(7))})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 inserted, got %d", n)
	}
	for cat, calls := range images.calls {
		if calls != 1 {
			t.Fatalf("expected images for %s to be fetched once, got %d", cat, calls)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRunRequiresAuthor(t *testing.T) {
	if _, err := New(newMock(t), nil).Run(context.Background(), Options{}); !errors.Is(err, ErrNoAuthor) {
		t.Fatalf("expected ErrNoAuthor, got %v", err)
	}
}

func TestRunRollsBackOnMissingAuthor(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM campgrounds`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO campgrounds`).WithArgs(insertArgs()...).WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := New(mock, nil).Run(context.Background(), Options{Count: 2, AuthorID: "author-1"})
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing author error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGenerateShape(t *testing.T) {
	s := New(nil, nil)
	rng := rand.New(rand.NewSource(3))
	cache := map[string][]imagestore.Image{}
	for i := 0; i < 200; i++ {
		c := s.generate(context.Background(), rng, cache)
		if c.Price < 10 || c.Price > 39 {
			t.Fatalf("price out of range: %v", c.Price)
		}
		if !strings.Contains(c.Location, ", ") || c.ID == "" {
			t.Fatalf("unexpected camp %+v", c)
		}
		if c.Images == nil {
			t.Fatalf("images must be non-nil")
		}
		if parts := strings.SplitN(c.Title, " ", 2); len(parts) != 2 {
			t.Fatalf("unexpected title %q", c.Title)
		}
	}
}
