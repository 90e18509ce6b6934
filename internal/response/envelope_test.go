package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", handler)
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return body
}

func TestOKEnvelope(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return OK(c, fiber.Map{"answer": 42})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200: %v", err)
	}
	body := decode(t, resp)
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["answer"] != float64(42) {
		t.Fatalf("unexpected data: %v", body["data"])
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("success envelope must not carry error")
	}
}

func TestCreatedEnvelope(t *testing.T) {
	app := newApp(func(c *fiber.Ctx) error {
		return Created(c, fiber.Map{"id": "x"})
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201: %v", err)
	}
}

func TestErrorHandlerStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", NotFound("Campground not found", "missing"), 404, "Campground not found"},
		{"invalid", InvalidInput("Invalid query", "bad"), 400, "Invalid query"},
		{"unauthorized", Unauthorized("no token"), 401, "Unauthorized"},
		{"forbidden", Forbidden("not yours"), 403, "Forbidden"},
		{"conflict", Conflict("Username taken", "dup"), 409, "Username taken"},
		{"upstream", Upstream("Failed to fetch campgrounds", errors.New("conn refused")), 500, "Failed to fetch campgrounds"},
		{"fiber", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), 413, "Request Entity Too Large"},
		{"plain", errors.New("boom"), 500, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.err
			app := newApp(func(c *fiber.Ctx) error { return err })
			resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			if testErr != nil {
				t.Fatalf("test request: %v", testErr)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			body := decode(t, resp)
			if body["success"] != false {
				t.Fatalf("expected success false")
			}
			if body["error"] != tc.code {
				t.Fatalf("expected error %q, got %v", tc.code, body["error"])
			}
			if _, ok := body["data"]; ok {
				t.Fatalf("failure envelope must not carry data")
			}
		})
	}
}

func TestUpstreamCarriesCauseMessage(t *testing.T) {
	_, env := Failure(Upstream("Search failed", errors.New("connection reset")))
	if env.Message != "connection reset" {
		t.Fatalf("expected cause message, got %q", env.Message)
	}
}

func TestInvalidCategoryListsTypes(t *testing.T) {
	valid := []string{"ocean", "mountain"}
	status, env := Failure(InvalidCategory("swamp", valid))
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400")
	}
	if len(env.ValidTypes) != 2 || env.ValidTypes[0] != "ocean" {
		t.Fatalf("unexpected valid types: %v", env.ValidTypes)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Upstream("x", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if KindNotFound.String() != "not_found" || KindUpstream.String() != "upstream_failure" {
		t.Fatalf("unexpected kind names")
	}
}

func TestStatusOf(t *testing.T) {
	cases := map[int]error{
		http.StatusOK:                  nil,
		http.StatusNotFound:            NotFound("Campground not found", "gone"),
		http.StatusConflict:            Conflict("Username taken", "taken"),
		http.StatusMethodNotAllowed:    fiber.ErrMethodNotAllowed,
		http.StatusInternalServerError: errors.New("boom"),
	}
	for want, err := range cases {
		if got := StatusOf(err); got != want {
			t.Fatalf("StatusOf(%v) = %d, want %d", err, got, want)
		}
	}
}
