package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Davidxcr/YelpCamp/internal/config"
	"github.com/Davidxcr/YelpCamp/internal/seed"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errUnreachable = errors.New("unreachable")

func withTestConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	oldLoad, oldConnect := loadConfigFn, connectPostgresFn
	loadConfigFn = func() config.Config { return cfg }
	connectPostgresFn = func(config.Config) (*pgxpool.Pool, error) { return nil, errUnreachable }
	t.Cleanup(func() {
		loadConfigFn, connectPostgresFn = oldLoad, oldConnect
	})
}

func TestBuildAppCommands(t *testing.T) {
	app := buildApp()
	for _, name := range []string{"migrate", "seed", "curate"} {
		if app.Command(name) == nil {
			t.Fatalf("missing command %s", name)
		}
	}
}

func TestCurateWritesFallbackReport(t *testing.T) {
	withTestConfig(t, config.Config{})

	var out bytes.Buffer
	app := buildApp()
	app.Writer = &out
	if err := app.Run([]string{"campctl", "curate"}); err != nil {
		t.Fatalf("curate: %v", err)
	}

	var report struct {
		Strategies      map[string]any `json:"strategies"`
		StorageStatus   map[string]any `json:"storageStatus"`
		Recommendations []string       `json:"recommendations"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Strategies) != 6 || len(report.StorageStatus) != 6 || len(report.Recommendations) == 0 {
		t.Fatalf("expected six categories, got %v", report)
	}
}

func TestSeedRequiresAuthor(t *testing.T) {
	withTestConfig(t, config.Config{})

	if err := buildApp().Run([]string{"campctl", "seed"}); !errors.Is(err, seed.ErrNoAuthor) {
		t.Fatalf("expected ErrNoAuthor, got %v", err)
	}
}

func TestSeedAndMigrateReportConnectionFailure(t *testing.T) {
	withTestConfig(t, config.Config{SeedAuthorID: "author-1"})

	for _, args := range [][]string{{"campctl", "seed", "--count", "5"}, {"campctl", "migrate"}} {
		err := buildApp().Run(args)
		if err == nil || !strings.Contains(err.Error(), "connect postgres") {
			t.Fatalf("%v: expected connection error, got %v", args, err)
		}
	}
}
