// Package vision turns a product photo into search keywords. It tries
// OpenRouter first, falls back to OpenAI, and with no API key configured
// produces deterministic offline keywords so image search still works in
// demos and tests.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/junwei-lu/pricelens/internal/httputil"
)

// ErrNoKeywords means the model replied but nothing usable came back.
var ErrNoKeywords = errors.New("vision: no keywords recognized")

const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	openAIURL     = "https://api.openai.com/v1/chat/completions"

	defaultModel = "qwen/qwen2.5-vl-72b-instruct:free"
	openAIModel  = "gpt-4o-mini"

	prompt = "Identify the product in this image. Reply with 2-4 short search keywords in Traditional Chinese or English, comma separated. No other text."
)

// Config carries the provider credentials. Empty keys disable that provider.
type Config struct {
	OpenRouterKey string
	OpenAIKey     string
	Model         string
}

// Recognizer extracts product keywords from images.
type Recognizer struct {
	client *http.Client
	log    *logrus.Logger
	cfg    Config
}

func New(client *http.Client, log *logrus.Logger, cfg Config) *Recognizer {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Recognizer{client: client, log: log, cfg: cfg}
}

// Keywords recognizes the product in the image and returns search
// keywords, best guess first.
func (r *Recognizer) Keywords(ctx context.Context, image []byte, mime string) ([]string, error) {
	if mime == "" {
		mime = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))

	if r.cfg.OpenRouterKey == "" && r.cfg.OpenAIKey == "" {
		r.log.Debug("no vision API key, using offline recognition")
		return offlineKeywords(image), nil
	}

	var lastErr error
	if r.cfg.OpenRouterKey != "" {
		kws, err := r.ask(ctx, openRouterURL, r.cfg.OpenRouterKey, r.cfg.Model, dataURL)
		if err == nil {
			return kws, nil
		}
		lastErr = err
		r.log.WithError(err).Warn("openrouter vision failed")
	}
	if r.cfg.OpenAIKey != "" {
		kws, err := r.ask(ctx, openAIURL, r.cfg.OpenAIKey, openAIModel, dataURL)
		if err == nil {
			return kws, nil
		}
		lastErr = err
		r.log.WithError(err).Warn("openai vision failed")
	}
	return nil, lastErr
}

func (r *Recognizer) ask(ctx context.Context, endpoint, key, model, dataURL string) ([]string, error) {
	payload := map[string]any{
		"model": model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
				},
			},
		},
		"max_tokens": 100,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := httputil.DoWithRetry(r.client, req, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	content := gjson.GetBytes(raw, "choices.0.message.content").String()
	kws := splitKeywords(content)
	if len(kws) == 0 {
		return nil, ErrNoKeywords
	}
	return kws, nil
}

// splitKeywords breaks the model reply into clean keyword strings.
func splitKeywords(content string) []string {
	content = strings.NewReplacer("、", ",", "\n", ",", ";", ",").Replace(content)
	var kws []string
	for _, part := range strings.Split(content, ",") {
		kw := strings.Trim(strings.TrimSpace(part), `."'`)
		if kw != "" {
			kws = append(kws, kw)
		}
		if len(kws) == 4 {
			break
		}
	}
	return kws
}

// offlineKeywords picks stable keywords from the image bytes so repeated
// runs over the same file search for the same thing.
func offlineKeywords(image []byte) []string {
	categories := [][]string{
		{"無線耳機", "藍牙耳機"},
		{"保溫瓶", "水壺"},
		{"機械鍵盤", "鍵盤"},
		{"行動電源", "充電器"},
		{"運動鞋", "休閒鞋"},
		{"背包", "後背包"},
	}
	h := fnv.New32a()
	h.Write(image)
	return categories[h.Sum32()%uint32(len(categories))]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
