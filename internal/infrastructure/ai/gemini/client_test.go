package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frigozen/v1/internal/domain/recipe"
	"github.com/frigozen/v1/internal/infrastructure/config"
	"github.com/frigozen/v1/internal/infrastructure/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(
		config.AIConfig{
			BaseURL:        server.URL,
			APIKey:         "test-key",
			TextModel:      "text-model",
			ImageModel:     "image-model",
			TimeoutSeconds: 5,
		},
		config.RateLimitConfig{RequestsPerSecond: 100, BurstSize: 100},
		nil,
		&monitoring.Logger{Logger: zap.NewNop()},
	)
}

// textResponse builds a generateContent response carrying one text part.
func textResponse(text string) generateContentResponse {
	return generateContentResponse{
		Candidates: []candidate{{
			Content: content{Parts: []part{{Text: text}}},
		}},
	}
}

func TestParseReceipt(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/text-model:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

			var req generateContentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			assert.NotNil(t, req.Contents[0].Parts[0].InlineData)

			json.NewEncoder(w).Encode(textResponse(
				`[{"name":"Milk","category":"DAIRY","shelfLifeDays":7,"quantity":"1L","numericQuantity":2}]`,
			))
		})

		items, err := client.ParseReceipt(context.Background(), []byte("img"), "fr")

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Milk", items[0].Name)
		assert.Equal(t, "DAIRY", items[0].Category)
		assert.Equal(t, 7, items[0].ShelfLifeDays)
		assert.Equal(t, "1L", items[0].QuantityLabel)
		assert.Equal(t, 2, items[0].NumericQuantity)
	})

	t.Run("payload wrapped in prose", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse(
				"Here is the list:\n[{\"name\":\"Eggs\",\"category\":\"DAIRY\",\"shelfLifeDays\":14,\"numericQuantity\":6}]\nEnjoy!",
			))
		})

		items, err := client.ParseReceipt(context.Background(), []byte("img"), "en")

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Eggs", items[0].Name)
	})

	t.Run("malformed payload yields empty result", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse("I could not read this receipt."))
		})

		items, err := client.ParseReceipt(context.Background(), []byte("img"), "fr")

		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("server error is surfaced", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})

		_, err := client.ParseReceipt(context.Background(), []byte("img"), "fr")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}

func TestSuggestRecipes(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req generateContentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			prompt := req.Contents[0].Parts[0].Text
			assert.Contains(t, prompt, "Tomato")
			assert.Contains(t, prompt, `"fr"`)

			json.NewEncoder(w).Encode(textResponse(
				`[{"title":"Soupe","description":"d","ingredients":["Tomato"],"instructions":["Cook"],"prepTime":"20 min","difficulty":"facile"},` +
					`{"title":"","description":"skipped"}]`,
			))
		})

		suggestions, err := client.SuggestRecipes(context.Background(), []string{"Tomato"}, "fr")

		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "Soupe", suggestions[0].Title)
		assert.Equal(t, recipe.DifficultyEasy, suggestions[0].Difficulty)
	})

	t.Run("malformed payload yields empty result", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse("no recipes today"))
		})

		suggestions, err := client.SuggestRecipes(context.Background(), []string{"Tomato"}, "fr")

		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})
}

func TestGenerateRecipeImage(t *testing.T) {
	t.Run("inline image becomes data url", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/image-model:generateContent", r.URL.Path)

			json.NewEncoder(w).Encode(generateContentResponse{
				Candidates: []candidate{{
					Content: content{Parts: []part{
						{Text: "here you go"},
						{InlineData: &inlineData{MimeType: "image/png", Data: "aGVsbG8="}},
					}},
				}},
			})
		})

		url, err := client.GenerateRecipeImage(context.Background(), "Soup")

		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,aGVsbG8=", url)
	})

	t.Run("no inline image means empty reference", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse("sorry, text only"))
		})

		url, err := client.GenerateRecipeImage(context.Background(), "Soup")

		require.NoError(t, err)
		assert.Empty(t, url)
	})
}

func TestTranslateNames(t *testing.T) {
	t.Run("valid mapping", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse(`{"Milk":"Lait","Eggs":"Oeufs"}`))
		})

		mapping, err := client.TranslateNames(context.Background(), []string{"Milk", "Eggs"}, "fr")

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Milk": "Lait", "Eggs": "Oeufs"}, mapping)
	})

	t.Run("no names means no call", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		})

		mapping, err := client.TranslateNames(context.Background(), nil, "fr")

		require.NoError(t, err)
		assert.Empty(t, mapping)
	})

	t.Run("malformed payload yields empty mapping", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(textResponse("cannot translate"))
		})

		mapping, err := client.TranslateNames(context.Background(), []string{"Milk"}, "fr")

		require.NoError(t, err)
		assert.Empty(t, mapping)
	})
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `[1,2]`, extractJSON("noise [1,2] trailing", '[', ']'))
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```", '{', '}'))
	assert.Equal(t, "plain text", extractJSON("plain text", '[', ']'))
}
