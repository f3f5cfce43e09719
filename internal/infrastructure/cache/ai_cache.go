// Package cache provides AI response caching so repeated user actions
// (regenerating recipes, toggling languages back and forth) do not issue
// redundant calls to the external service.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/frigozen/v1/internal/domain/recipe"
	"github.com/frigozen/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// AICache is a cache-aside wrapper over a CacheRepository for AI responses.
// Keys are derived from a hash of the request inputs, so identical requests
// hit the cache regardless of item order.
type AICache struct {
	repo   outbound.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewAICache creates a new AI response cache
func NewAICache(repo outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) *AICache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AICache{
		repo:   repo,
		ttl:    ttl,
		logger: logger.Named("ai-cache"),
	}
}

// GetSuggestions returns cached recipe suggestions for the ingredient set
// and language, if present.
func (c *AICache) GetSuggestions(ctx context.Context, ingredientNames []string, language string) ([]recipe.Suggestion, bool) {
	key := c.suggestionKey(ingredientNames, language)

	data, err := c.repo.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var suggestions []recipe.Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		c.logger.Warn("Discarding unreadable cached suggestions", zap.Error(err))
		_ = c.repo.Delete(ctx, key)
		return nil, false
	}

	c.logger.Debug("Suggestion cache hit", zap.String("key", key))
	return suggestions, true
}

// SetSuggestions stores recipe suggestions for the ingredient set and language.
func (c *AICache) SetSuggestions(ctx context.Context, ingredientNames []string, language string, suggestions []recipe.Suggestion) {
	data, err := json.Marshal(suggestions)
	if err != nil {
		c.logger.Warn("Failed to serialize suggestions for caching", zap.Error(err))
		return
	}

	key := c.suggestionKey(ingredientNames, language)
	if err := c.repo.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache suggestions", zap.Error(err))
	}
}

// GetTranslations returns a cached name translation mapping, if present.
func (c *AICache) GetTranslations(ctx context.Context, names []string, language string) (map[string]string, bool) {
	key := c.translationKey(names, language)

	data, err := c.repo.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		c.logger.Warn("Discarding unreadable cached translations", zap.Error(err))
		_ = c.repo.Delete(ctx, key)
		return nil, false
	}

	c.logger.Debug("Translation cache hit", zap.String("key", key))
	return mapping, true
}

// SetTranslations stores a name translation mapping.
func (c *AICache) SetTranslations(ctx context.Context, names []string, language string, mapping map[string]string) {
	data, err := json.Marshal(mapping)
	if err != nil {
		c.logger.Warn("Failed to serialize translations for caching", zap.Error(err))
		return
	}

	key := c.translationKey(names, language)
	if err := c.repo.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache translations", zap.Error(err))
	}
}

func (c *AICache) suggestionKey(names []string, language string) string {
	return "ai:suggest:" + hashInputs(names, language)
}

func (c *AICache) translationKey(names []string, language string) string {
	return "ai:translate:" + hashInputs(names, language)
}

// hashInputs produces a deterministic digest of the request inputs. Names
// are sorted so the key is independent of collection order.
func hashInputs(names []string, language string) string {
	sorted := append([]string{}, names...)
	sort.Strings(sorted)

	h := sha256.Sum256([]byte(language + "\x00" + strings.Join(sorted, "\x00")))
	return fmt.Sprintf("%x", h[:16])
}
