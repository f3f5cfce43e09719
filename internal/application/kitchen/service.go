// Package kitchen provides the application layer orchestrating the AI-backed
// workflows: receipt scanning and ingestion, recipe suggestion with image
// generation, and language-triggered translation of item names.
//
// Each workflow is a finite sequence of gateway calls with no automatic
// retry: a failed step aborts the remaining steps of that workflow and leaves
// previously committed state intact.
package kitchen

import (
	"context"
	"sync"
	"time"

	"github.com/frigozen/v1/internal/domain/inventory"
	"github.com/frigozen/v1/internal/domain/recipe"
	"github.com/frigozen/v1/internal/infrastructure/cache"
	"github.com/frigozen/v1/internal/infrastructure/monitoring"
	"github.com/frigozen/v1/internal/ports/inbound"
	"github.com/frigozen/v1/internal/ports/outbound"
	"github.com/frigozen/v1/pkg/errors"
	"go.uber.org/zap"
)

// Workflow names used for mutual exclusion and metrics labels.
const (
	workflowScan      = "scan_ingest"
	workflowSuggest   = "recipe_suggestion"
	workflowTranslate = "translation"
)

// LanguageSource supplies the active language for gateway prompts.
type LanguageSource interface {
	Language() string
}

// Features toggles the optional AI-backed behaviors. A disabled feature
// degrades gracefully: images fall back to the deterministic placeholder,
// translation records the language without a gateway call.
type Features struct {
	RecipeImages bool
	Translation  bool
}

// Service implements the kitchen use cases.
type Service struct {
	inventory inbound.InventoryService
	gateway   outbound.AIGateway
	aiCache   *cache.AICache
	metrics   *monitoring.Metrics
	language  LanguageSource
	features  Features
	monitor   *monitoring.Logger
	logger    *zap.Logger

	// Per-workflow in-flight flags. Overlapping invocations of the same
	// workflow are rejected rather than queued.
	flightMu sync.Mutex
	inFlight map[string]bool

	// appliedLanguage is the last language the inventory names were seen
	// in. Translation only fires when the active language moves away from
	// it.
	langMu          sync.Mutex
	appliedLanguage string

	// now is swappable for tests
	now func() time.Time
}

var _ inbound.KitchenService = (*Service)(nil)

// NewService creates a new kitchen service. initialLanguage is the language
// the persisted inventory names are already in, so the first language reading
// after startup does not trigger a translation.
func NewService(
	inventorySvc inbound.InventoryService,
	gateway outbound.AIGateway,
	aiCache *cache.AICache,
	metrics *monitoring.Metrics,
	language LanguageSource,
	features Features,
	initialLanguage string,
	logger *monitoring.Logger,
) *Service {
	return &Service{
		inventory:       inventorySvc,
		gateway:         gateway,
		aiCache:         aiCache,
		metrics:         metrics,
		language:        language,
		features:        features,
		monitor:         logger,
		logger:          logger.Named("kitchen-service"),
		inFlight:        make(map[string]bool),
		appliedLanguage: initialLanguage,
		now:             time.Now,
	}
}

// ScanReceipt parses a captured receipt image and ingests the recognized
// line items. Identifiers are freshly generated, the purchase timestamp is
// now, and the expiry follows the estimated shelf life. On parse failure
// nothing is ingested.
func (s *Service) ScanReceipt(ctx context.Context, image []byte) (int, error) {
	if err := s.acquire(workflowScan); err != nil {
		return 0, err
	}
	defer s.release(workflowScan)

	start := s.now()
	lang := s.language.Language()

	entries, err := s.gateway.ParseReceipt(ctx, image, lang)
	if err != nil {
		s.observeWorkflow(ctx, workflowScan, start, err)
		return 0, errors.NewExternalServiceError("receipt parsing", err)
	}

	purchasedAt := s.now()
	items := make([]*inventory.FoodItem, 0, len(entries))
	for _, entry := range entries {
		item, err := inventory.NewFoodItem(
			entry.Name,
			inventory.CategoryFromString(entry.Category),
			purchasedAt,
			purchasedAt.AddDate(0, 0, entry.ShelfLifeDays),
			entry.QuantityLabel,
			entry.NumericQuantity,
		)
		if err != nil {
			s.logger.Warn("Skipping unusable receipt entry",
				zap.String("name", entry.Name),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}

	if err := s.inventory.AddBatch(ctx, items); err != nil {
		s.observeWorkflow(ctx, workflowScan, start, err)
		return 0, err
	}

	s.observeWorkflow(ctx, workflowScan, start, nil)
	s.updateInventoryGauge(ctx)
	s.logger.Info("Receipt ingested",
		zap.Int("recognized", len(entries)),
		zap.Int("added", len(items)),
	)
	return len(items), nil
}

// SuggestRecipes proposes recipes from the active inventory. Per-recipe
// image generation runs concurrently; an image failure downgrades that
// recipe to a deterministic placeholder instead of failing the workflow.
// The final list preserves the order the suggestion service returned.
func (s *Service) SuggestRecipes(ctx context.Context) ([]recipe.Suggestion, error) {
	active := s.inventory.ActiveItems(ctx)
	if len(active) == 0 {
		return nil, nil
	}

	if err := s.acquire(workflowSuggest); err != nil {
		return nil, err
	}
	defer s.release(workflowSuggest)

	start := s.now()
	lang := s.language.Language()

	names := make([]string, len(active))
	for i, item := range active {
		names[i] = item.Name()
	}

	suggestions, cached := s.cachedSuggestions(ctx, names, lang)
	if !cached {
		var err error
		suggestions, err = s.gateway.SuggestRecipes(ctx, names, lang)
		if err != nil {
			s.observeWorkflow(ctx, workflowSuggest, start, err)
			return nil, errors.NewExternalServiceError("recipe suggestion", err)
		}
		if s.aiCache != nil {
			s.aiCache.SetSuggestions(ctx, names, lang, suggestions)
		}
	}

	results := make([]recipe.Suggestion, len(suggestions))
	var wg sync.WaitGroup
	for i, suggestion := range suggestions {
		wg.Add(1)
		go func(i int, suggestion recipe.Suggestion) {
			defer wg.Done()
			suggestion.ImageURL = s.recipeImage(ctx, suggestion.Title)
			results[i] = suggestion
		}(i, suggestion)
	}
	wg.Wait()

	s.observeWorkflow(ctx, workflowSuggest, start, nil)
	s.logger.Info("Recipes suggested",
		zap.Int("recipes", len(results)),
		zap.String("language", lang),
		zap.Bool("cached", cached),
	)
	return results, nil
}

// ApplyLanguage translates all item names into the given language when it
// differs from the language the names were last seen in. An empty inventory
// records the language as seen without a service call. Failure leaves every
// name unchanged and keeps the previous language so a later change retries.
func (s *Service) ApplyLanguage(ctx context.Context, language string) error {
	s.langMu.Lock()
	previous := s.appliedLanguage
	s.langMu.Unlock()

	if language == previous {
		return nil
	}

	items := s.inventory.Items(ctx)
	if len(items) == 0 {
		s.setAppliedLanguage(language)
		return nil
	}

	if !s.features.Translation {
		s.setAppliedLanguage(language)
		s.logger.Info("Translation disabled, names kept as-is",
			zap.String("language", language),
		)
		return nil
	}

	if err := s.acquire(workflowTranslate); err != nil {
		return err
	}
	defer s.release(workflowTranslate)

	start := s.now()
	names := distinctNames(items)

	mapping, cached := s.cachedTranslations(ctx, names, language)
	if !cached {
		var err error
		mapping, err = s.gateway.TranslateNames(ctx, names, language)
		if err != nil {
			s.observeWorkflow(ctx, workflowTranslate, start, err)
			s.logger.Warn("Translation failed, names unchanged",
				zap.String("from", previous),
				zap.String("to", language),
				zap.Error(err),
			)
			return errors.NewExternalServiceError("name translation", err)
		}
		if s.aiCache != nil {
			s.aiCache.SetTranslations(ctx, names, language, mapping)
		}
	}

	if err := s.inventory.RenameMany(ctx, mapping); err != nil {
		s.observeWorkflow(ctx, workflowTranslate, start, err)
		return err
	}

	s.setAppliedLanguage(language)
	s.observeWorkflow(ctx, workflowTranslate, start, nil)
	s.logger.Info("Inventory translated",
		zap.String("from", previous),
		zap.String("to", language),
		zap.Int("translated", len(mapping)),
	)
	return nil
}

// recipeImage fetches a generated image for a title, falling back to the
// deterministic placeholder when generation is disabled, fails, or comes
// back empty.
func (s *Service) recipeImage(ctx context.Context, title string) string {
	if !s.features.RecipeImages {
		return recipe.PlaceholderImageURL(title)
	}

	imageURL, err := s.gateway.GenerateRecipeImage(ctx, title)
	if err != nil {
		s.logger.Warn("Image generation failed, using placeholder",
			zap.String("title", title),
			zap.Error(err),
		)
	}
	if imageURL == "" {
		return recipe.PlaceholderImageURL(title)
	}
	return imageURL
}

func (s *Service) cachedSuggestions(ctx context.Context, names []string, lang string) ([]recipe.Suggestion, bool) {
	if s.aiCache == nil {
		return nil, false
	}
	return s.aiCache.GetSuggestions(ctx, names, lang)
}

func (s *Service) cachedTranslations(ctx context.Context, names []string, lang string) (map[string]string, bool) {
	if s.aiCache == nil {
		return nil, false
	}
	return s.aiCache.GetTranslations(ctx, names, lang)
}

// acquire marks a workflow in flight, rejecting overlapping invocations.
func (s *Service) acquire(workflow string) error {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	if s.inFlight[workflow] {
		s.logger.Warn("Workflow already in flight, ignoring", zap.String("workflow", workflow))
		return errors.NewWorkflowBusyError(workflow)
	}
	s.inFlight[workflow] = true
	return nil
}

func (s *Service) release(workflow string) {
	s.flightMu.Lock()
	delete(s.inFlight, workflow)
	s.flightMu.Unlock()
}

func (s *Service) setAppliedLanguage(language string) {
	s.langMu.Lock()
	s.appliedLanguage = language
	s.langMu.Unlock()
}

// observeWorkflow records the outcome of one workflow run on every exit
// path, including cache hits.
func (s *Service) observeWorkflow(ctx context.Context, workflow string, start time.Time, err error) {
	duration := s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.ObserveWorkflow(workflow, duration, err)
	}
	s.monitor.WorkflowLogger(ctx, workflow, duration, err)
}

func (s *Service) updateInventoryGauge(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.SetInventorySize(len(s.inventory.Items(ctx)))
	}
}

// distinctNames returns the unique display names in collection order.
func distinctNames(items []*inventory.FoodItem) []string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Name()]; ok {
			continue
		}
		seen[item.Name()] = struct{}{}
		names = append(names, item.Name())
	}
	return names
}
