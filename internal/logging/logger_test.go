package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(Config{})

	Info().Str("component", "test").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "hello" || line["component"] != "test" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(Config{})

	Debug().Msg("quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}
}

func TestMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(Config{})

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(Middleware())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("ok request: %v", err)
	}
	if !strings.Contains(buf.String(), `"path":"/ok"`) || !strings.Contains(buf.String(), `"status":200`) {
		t.Fatalf("expected request log, got %q", buf.String())
	}

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing request: %v", err)
	}
	if !strings.Contains(buf.String(), `"status":404`) || !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("expected warn log for 404, got %q", buf.String())
	}
}

func TestMiddlewareLogsServiceErrors(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(Config{})

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	app.Use(Middleware())
	app.Get("/forbidden", func(c *fiber.Ctx) error { return response.Forbidden("not yours") })
	app.Get("/broken", func(c *fiber.Ctx) error { return response.Upstream("Failed to list", errors.New("conn reset")) })

	if resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/forbidden", nil)); err != nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("forbidden request: %v", err)
	}
	if !strings.Contains(buf.String(), `"status":403`) {
		t.Fatalf("expected 403 logged, got %q", buf.String())
	}

	buf.Reset()
	if resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/broken", nil)); err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("broken request: %v", err)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "conn reset") {
		t.Fatalf("expected error log carrying the cause, got %q", buf.String())
	}
}
