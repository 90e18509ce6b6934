package curator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/logging"
	"github.com/Davidxcr/YelpCamp/internal/metrics"

	"github.com/goccy/go-json"
	pkgerrors "github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com/v1/models"
	geminiInterval = 500 * time.Millisecond
)

var (
	ErrNotConfigured = errors.New("gemini api key is not configured")
	// errMalformed marks a reply that arrived but held no usable strategy.
	errMalformed = errors.New("gemini reply holds no strategy")
)

type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[Strategy]
}

func NewGemini(apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	return newGemini(apiKey, model, geminiBaseURL, &http.Client{Timeout: 30 * time.Second}, geminiInterval), nil
}

func newGemini(apiKey, model, baseURL string, client *http.Client, interval time.Duration) *Gemini {
	if model == "" {
		model = "gemini-pro"
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		breaker: gobreaker.NewCircuitBreaker[Strategy](gobreaker.Settings{
			Name:        "gemini",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errMalformed)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		}),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Strategy asks the model for three shots suited to category. Calls are paced
// by the limiter and short-circuited while the breaker is open.
func (g *Gemini) Strategy(ctx context.Context, category, location string) (Strategy, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Strategy{}, err
	}
	s, err := g.breaker.Execute(func() (Strategy, error) {
		return g.generate(ctx, prompt(category, location))
	})
	metrics.RecordExternal("gemini", err)
	return s, err
}

func (g *Gemini) generate(ctx context.Context, text string) (Strategy, error) {
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: text}}}}})
	if err != nil {
		return Strategy{}, err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Strategy{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Strategy{}, pkgerrors.Wrap(err, "gemini request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Strategy{}, fmt.Errorf("gemini api error: %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Strategy{}, pkgerrors.Wrap(err, "decode gemini reply")
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return Strategy{}, errMalformed
	}
	return parseStrategy(out.Candidates[0].Content.Parts[0].Text)
}

// parseStrategy pulls the outermost JSON object out of free text.
func parseStrategy(text string) (Strategy, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Strategy{}, errMalformed
	}
	var s Strategy
	if err := json.Unmarshal([]byte(text[start:end+1]), &s); err != nil || len(s.Images) == 0 {
		return Strategy{}, errMalformed
	}
	return s, nil
}

func prompt(category, location string) string {
	return fmt.Sprintf(`As an expert camping photographer, suggest 3 specific types of high-quality camping images for a %s campground located in %s. For each image type, provide:

1. Main subject/scene description
2. Specific visual elements to include
3. Time of day/lighting preference
4. Camera angle/composition style

Focus on images that would make campers excited to visit this specific type of location. Be specific about camping elements (tents, campfires, outdoor activities) that should be visible.

Format as JSON:
{
  "images": [
    {
      "type": "primary_scene",
      "description": "specific description",
      "elements": ["element1", "element2"],
      "lighting": "time/mood",
      "composition": "angle/style"
    }
  ]
}`, category, location)
}
