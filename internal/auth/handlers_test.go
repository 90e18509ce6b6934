package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

func newApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	RegisterRoutes(app.Group("/api/auth"), svc, JWTMiddleware("test-secret"))
	return app
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandlersRegisterLoginMe(t *testing.T) {
	mock := newMock(t)
	createdAt := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "ranger", "ranger@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).WithArgs(anyArgs(4)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService("test-secret", mock)
	app := newApp(svc)

	resp, err := app.Test(postJSON("/api/auth/register", `{"username":"ranger","email":"ranger@example.com","password":"password"}`))
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %v %d", err, resp.StatusCode)
	}
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			User   map[string]any `json:"user"`
			Tokens TokenResponse  `json:"tokens"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.Tokens.AccessToken == "" {
		t.Fatalf("expected tokens in envelope")
	}
	if _, leaked := body.Data.User["PasswordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("ranger").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow("user-1", "ranger", "ranger@example.com", string(hash), createdAt))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).WithArgs(anyArgs(4)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	resp, err = app.Test(postJSON("/api/auth/login", `{"username":"ranger","password":"password"}`))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: %v %d", err, resp.StatusCode)
	}

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "created_at"}).AddRow("user-1", "ranger", "ranger@example.com", createdAt))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Tokens.AccessToken)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("me status: %v %d", err, resp.StatusCode)
	}
}

func TestAuthHandlersErrors(t *testing.T) {
	app := newApp(NewService("test-secret", nil))

	resp, _ := app.Test(postJSON("/api/auth/register", `{`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad payload, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(postJSON("/api/auth/login", `{"username":""}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing credentials, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(postJSON("/api/auth/refresh", `{}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing refresh token, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(postJSON("/api/auth/refresh", `{"refreshToken":"garbage"}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid refresh token, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}
