package digest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"housing-agent/models"
	"housing-agent/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, io.Discard) }

func testRules() models.DigestRules {
	return models.DigestRules{
		Criteria: models.FilterCriteria{
			MaxPrice:       340000,
			MinSqm:         80,
			MinRooms:       3,
			MinBathrooms:   2,
			Areas:          []string{"Titan", "Dristor"},
			FavorablePrice: 300000,
			PriorityYear:   2010,
		},
		Weights:     []models.ScoreWeight{{Rule: "individual house", Points: 30}},
		MinListings: 8,
		MaxListings: 15,
		Screened:    5,
		Passed:      1,
	}
}

func testListings() []models.NormalizedListing {
	return []models.NormalizedListing{{
		Source:   models.SourceOLX,
		Title:    "Apartament 3 camere Titan",
		PriceEUR: models.Known(280000.0),
		Sqm:      models.Known(95.0),
		Rooms:    models.Known(3),
		Area:     "Titan",
		URL:      "https://www.olx.ro/d/oferta/1",
		Score:    20,
		Notes:    "verify bathrooms; verify year; verify kitchen",
	}}
}

func TestPlainSummarize(t *testing.T) {
	out, err := Plain{}.Summarize(context.Background(), testListings(), testRules())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Found 1 new listings",
		"Price: €280,000 (good value)",
		"Size: 95 sqm",
		"Rooms: 3 | 🚿 Bathrooms: verify",
		"Kitchen: verify",
		"Built: verify",
		"https://www.olx.ro/d/oferta/1",
		"Score: 20/100",
		"Total new listings screened: 5",
		"Passed filters: 1",
		"Top listings shown: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("digest missing %q", want)
		}
	}
}

func TestSystemPromptCarriesRules(t *testing.T) {
	p := systemPrompt(testRules())
	for _, want := range []string{"best 8-15", "max €340000", "Areas: Titan, Dristor", "+30 points: individual house", "from 2010"} {
		if !strings.Contains(p, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestUserPromptMarksUnknowns(t *testing.T) {
	p, err := userPrompt(testListings())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p, `"bathrooms": "verify"`) || !strings.Contains(p, `"price_eur": 280000`) {
		t.Errorf("unexpected user prompt:\n%s", p)
	}
}

func TestOpenAISummarize(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"x","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  Hi, found 1 listing  "},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)
	}))
	defer srv.Close()

	o := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/v1"}, newTestLogger())
	out, err := o.Summarize(context.Background(), testListings(), testRules())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "Hi, found 1 listing" {
		t.Errorf("digest = %q", out)
	}
	if got.Model != "gpt-4o-mini" || got.Temperature < 0.29 || got.Temperature > 0.31 {
		t.Errorf("request model=%q temperature=%v", got.Model, got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOpenAIErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
	}))
	defer srv.Close()

	o := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/v1"}, newTestLogger())
	if _, err := o.Summarize(context.Background(), testListings(), testRules()); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"x","choices":[]}`)
	}))
	defer srv.Close()

	o := NewOpenAI(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/v1"}, newTestLogger())
	if _, err := o.Summarize(context.Background(), testListings(), testRules()); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
