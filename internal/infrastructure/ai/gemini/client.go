// Package gemini provides the Google Gemini implementation of the AI gateway
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frigozen/v1/internal/domain/inventory"
	"github.com/frigozen/v1/internal/domain/recipe"
	"github.com/frigozen/v1/internal/infrastructure/config"
	"github.com/frigozen/v1/internal/infrastructure/monitoring"
	"github.com/frigozen/v1/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client implements the AIGateway interface against the Gemini REST API.
// Every operation is a single generateContent exchange; there are no
// internal retries. A client-side rate limiter guards against redundant
// bursts from rapid user actions.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	client     *http.Client
	limiter    *rate.Limiter
	metrics    *monitoring.Metrics
	monitor    *monitoring.Logger
	logger     *zap.Logger
}

// NewClient creates a new Gemini client
func NewClient(cfg config.AIConfig, rl config.RateLimitConfig, metrics *monitoring.Metrics, logger *monitoring.Logger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.BurstSize),
		metrics: metrics,
		monitor: logger,
		logger:  logger.Named("gemini-client"),
	}
}

// Gemini API structures

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// receiptEntry mirrors the receipt-parsing response schema. Numeric fields
// arrive as JSON numbers and may carry fractions.
type receiptEntry struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	ShelfLifeDays   float64 `json:"shelfLifeDays"`
	Quantity        string  `json:"quantity"`
	NumericQuantity float64 `json:"numericQuantity"`
}

// suggestionEntry mirrors the recipe-suggestion response schema.
type suggestionEntry struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prepTime"`
	Difficulty   string   `json:"difficulty"`
}

// ParseReceipt extracts purchased food products from a receipt image. A
// response that does not contain a readable JSON array is treated as an
// empty result, not an error.
func (c *Client) ParseReceipt(ctx context.Context, image []byte, language string) ([]outbound.ParsedReceiptItem, error) {
	prompt := c.buildReceiptPrompt(language)

	req := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	text, err := c.call(ctx, "parse_receipt", c.textModel, req)
	if err != nil {
		return nil, fmt.Errorf("receipt parsing request failed: %w", err)
	}

	var entries []receiptEntry
	if err := json.Unmarshal([]byte(extractJSON(text, '[', ']')), &entries); err != nil {
		c.logger.Error("Failed to parse receipt response, treating as empty",
			zap.Error(err),
			zap.String("response", text),
		)
		return nil, nil
	}

	items := make([]outbound.ParsedReceiptItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, outbound.ParsedReceiptItem{
			Name:            entry.Name,
			Category:        entry.Category,
			ShelfLifeDays:   int(entry.ShelfLifeDays),
			QuantityLabel:   entry.Quantity,
			NumericQuantity: int(entry.NumericQuantity),
		})
	}
	return items, nil
}

// SuggestRecipes asks for recipes restricted to the given ingredients,
// answered in the given language.
func (c *Client) SuggestRecipes(ctx context.Context, ingredientNames []string, language string) ([]recipe.Suggestion, error) {
	prompt := c.buildSuggestionPrompt(ingredientNames, language)

	req := generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	text, err := c.call(ctx, "suggest_recipes", c.textModel, req)
	if err != nil {
		return nil, fmt.Errorf("recipe suggestion request failed: %w", err)
	}

	var entries []suggestionEntry
	if err := json.Unmarshal([]byte(extractJSON(text, '[', ']')), &entries); err != nil {
		c.logger.Error("Failed to parse suggestion response, treating as empty",
			zap.Error(err),
			zap.String("response", text),
		)
		return nil, nil
	}

	suggestions := make([]recipe.Suggestion, 0, len(entries))
	for _, entry := range entries {
		suggestion := recipe.Suggestion{
			Title:        entry.Title,
			Description:  entry.Description,
			Ingredients:  entry.Ingredients,
			Instructions: entry.Instructions,
			PrepTime:     entry.PrepTime,
			Difficulty:   recipe.DifficultyFromString(entry.Difficulty),
		}
		if err := suggestion.Validate(); err != nil {
			c.logger.Warn("Skipping malformed suggestion", zap.Error(err))
			continue
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

// GenerateRecipeImage produces a data URL for a generated food photograph.
// An empty reference with a nil error means no image is available.
func (c *Client) GenerateRecipeImage(ctx context.Context, title string) (string, error) {
	prompt := fmt.Sprintf(
		"High-quality professional food photography of %s. Appetizing, beautifully plated, close-up shot, soft natural kitchen lighting, 4k resolution.",
		title,
	)

	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	resp, err := c.send(ctx, "generate_image", c.imageModel, req)
	if err != nil {
		return "", fmt.Errorf("image generation request failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return "data:image/png;base64," + p.InlineData.Data, nil
			}
		}
	}
	return "", nil
}

// TranslateNames maps food names onto their translations in the target
// language. The returned mapping may be partial; a malformed response is an
// empty mapping, not an error.
func (c *Client) TranslateNames(ctx context.Context, names []string, targetLanguage string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	prompt := fmt.Sprintf(
		"Translate the following food ingredient names into %q. "+
			"Return a JSON object where keys are the original names and values are the translations. "+
			"Names: %s",
		targetLanguage,
		strings.Join(names, ", "),
	)

	req := generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	text, err := c.call(ctx, "translate_names", c.textModel, req)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}

	mapping := make(map[string]string)
	if err := json.Unmarshal([]byte(extractJSON(text, '{', '}')), &mapping); err != nil {
		c.logger.Error("Failed to parse translation response, treating as empty",
			zap.Error(err),
			zap.String("response", text),
		)
		return map[string]string{}, nil
	}
	return mapping, nil
}

// buildReceiptPrompt describes the extraction task and the response schema.
func (c *Client) buildReceiptPrompt(language string) string {
	var b strings.Builder
	b.WriteString("Analyze this grocery receipt and extract the list of purchased food products. ")
	fmt.Fprintf(&b, "Answer in %q. ", language)
	b.WriteString("For each product estimate a technical category, a realistic shelf life in days from today, ")
	b.WriteString("and a precise numeric unit count (e.g. 3 for 3 yogurts).\n\n")
	b.WriteString("Respond with ONLY a valid JSON array in the exact format shown below:\n")
	b.WriteString(`[{"name": "Milk", "category": "DAIRY", "shelfLifeDays": 7, "quantity": "1L", "numericQuantity": 1}]` + "\n\n")
	b.WriteString("The category must be one of: ")
	for i, cat := range inventory.Categories() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(cat))
	}
	b.WriteString(". The quantity field is an optional free-text description such as \"500g\".")
	return b.String()
}

// buildSuggestionPrompt frames the anti-waste chef task from the active
// inventory, demanding a single response language.
func (c *Client) buildSuggestionPrompt(ingredientNames []string, language string) string {
	var b strings.Builder
	b.WriteString("You are an expert anti-waste chef.\n\n")
	b.WriteString("INGREDIENTS AVAILABLE IN THE FRIDGE:\n")
	b.WriteString(strings.Join(ingredientNames, ", "))
	b.WriteString("\n\nRULES:\n")
	b.WriteString("1. Suggest 3 recipes achievable ONLY with the ingredients listed above.\n")
	fmt.Fprintf(&b, "2. RESPONSE LANGUAGE: you MUST answer exclusively in %q. ", language)
	b.WriteString("Do not mix languages: every title, description, ingredient and instruction must be in that language.\n\n")
	b.WriteString("Respond with ONLY a valid JSON array in the exact format shown below:\n")
	b.WriteString(`[{"title": "...", "description": "...", "ingredients": ["..."], "instructions": ["..."], "prepTime": "20 min", "difficulty": "easy"}]`)
	return b.String()
}

// call performs a generateContent exchange and returns the concatenated
// text of the first candidate.
func (c *Client) call(ctx context.Context, operation, model string, req generateContentRequest) (string, error) {
	resp, err := c.send(ctx, operation, model, req)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates returned")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// send performs the HTTP exchange behind the rate limiter.
func (c *Client) send(ctx context.Context, operation, model string, req generateContentRequest) (*generateContentResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, model, req)
	duration := time.Since(start)

	if c.metrics != nil {
		c.metrics.ObserveAIRequest(operation, duration, err)
	}
	c.monitor.AIRequestLogger(ctx, "gemini", model, operation, duration, err)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, model string, req generateContentRequest) (*generateContentResponse, error) {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", httpResp.StatusCode, string(body))
	}

	var resp generateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &resp, nil
}

// extractJSON trims any prose around the JSON payload by scanning for the
// outermost delimiter pair. Models occasionally wrap JSON in extra text.
func extractJSON(response string, opening, closing byte) string {
	start := strings.IndexByte(response, opening)
	end := strings.LastIndexByte(response, closing)
	if start == -1 || end == -1 || end <= start {
		return response
	}
	return response[start : end+1]
}
