// Package inventory provides the application layer for the food item
// collection. It owns all mutation operations and computes the derived views
// the dashboard is driven by.
package inventory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/frigozen/v1/internal/domain/inventory"
	"github.com/frigozen/v1/internal/domain/shared"
	"github.com/frigozen/v1/internal/ports/inbound"
	"github.com/frigozen/v1/internal/ports/outbound"
	"github.com/frigozen/v1/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accepted layouts for operator-supplied expiry dates.
var expiryLayouts = []string{time.RFC3339, "2006-01-02"}

// Service implements the inventory use cases. All mutations are serialized
// behind a single mutex since derived views read the same collection; the
// persisted snapshot is rewritten after every successful mutation.
type Service struct {
	repo   outbound.InventoryRepository
	logger *zap.Logger

	mu    sync.RWMutex
	items []*inventory.FoodItem

	// now is swappable for tests
	now func() time.Time
}

var _ inbound.InventoryService = (*Service)(nil)

// NewService creates a new inventory service
func NewService(repo outbound.InventoryRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.Named("inventory-service"),
		now:    time.Now,
	}
}

// Load restores the persisted snapshot. Called once at startup; a missing
// snapshot simply starts an empty collection.
func (s *Service) Load(ctx context.Context) error {
	items, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load inventory snapshot")
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Info("Inventory snapshot restored", zap.Int("items", len(items)))
	return nil
}

// AddBatch prepends the given items to the collection, preserving their
// relative order. No deduplication: two batches of "Milk" stay separate.
func (s *Service) AddBatch(ctx context.Context, items []*inventory.FoodItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	s.items = append(append([]*inventory.FoodItem{}, items...), s.items...)
	s.mu.Unlock()

	s.logger.Info("Batch added to inventory", zap.Int("items", len(items)))
	return s.persist(ctx)
}

// DecrementOrConsume locates the item by identifier and consumes one unit,
// or the whole batch when consumeAll is set. Unknown identifiers are
// reported, never fatal.
func (s *Service) DecrementOrConsume(ctx context.Context, id uuid.UUID, consumeAll bool) error {
	s.mu.Lock()
	item := s.findLocked(id)
	if item == nil {
		s.mu.Unlock()
		s.logger.Warn("Consume on unknown item", zap.String("item_id", id.String()))
		return errors.NewItemNotFoundError(id.String())
	}

	item.Consume(consumeAll)
	events := item.Events()
	s.mu.Unlock()

	s.dispatch(events)
	return s.persist(ctx)
}

// ReviseExpiry overwrites the expiry date after validating the raw value
// parses as a date. The original state is retained on rejection.
func (s *Service) ReviseExpiry(ctx context.Context, id uuid.UUID, newDate string) error {
	parsed, err := parseExpiry(newDate)
	if err != nil {
		return errors.NewInvalidDateError(newDate)
	}

	s.mu.Lock()
	item := s.findLocked(id)
	if item == nil {
		s.mu.Unlock()
		s.logger.Warn("Expiry revision on unknown item", zap.String("item_id", id.String()))
		return errors.NewItemNotFoundError(id.String())
	}

	if err := item.ReviseExpiry(parsed); err != nil {
		s.mu.Unlock()
		return errors.NewInvalidDateError(newDate)
	}
	events := item.Events()
	s.mu.Unlock()

	s.dispatch(events)
	return s.persist(ctx)
}

// ClearAll empties the collection unconditionally. Confirmation is a caller
// concern, not enforced here.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	cleared := len(s.items)
	s.items = nil
	s.mu.Unlock()

	s.logger.Info("Inventory cleared", zap.Int("items_removed", cleared))
	return s.persist(ctx)
}

// RenameMany applies a name mapping to every matching item. Items whose
// current name is absent from the mapping keep their name, which tolerates
// partial translation responses. An empty mapping is a no-op.
func (s *Service) RenameMany(ctx context.Context, mapping map[string]string) error {
	if len(mapping) == 0 {
		return nil
	}

	s.mu.Lock()
	var events []shared.DomainEvent
	renamed := 0
	for _, item := range s.items {
		translated, ok := mapping[item.Name()]
		if !ok || translated == "" || translated == item.Name() {
			continue
		}
		if err := item.Rename(translated); err != nil {
			continue
		}
		events = append(events, item.Events()...)
		renamed++
	}
	s.mu.Unlock()

	if renamed == 0 {
		return nil
	}

	s.dispatch(events)
	s.logger.Info("Item names replaced", zap.Int("renamed", renamed))
	return s.persist(ctx)
}

// Items returns the full collection in order.
func (s *Service) Items(ctx context.Context) []*inventory.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*inventory.FoodItem{}, s.items...)
}

// ActiveItems returns items not yet marked used, in collection order.
func (s *Service) ActiveItems(ctx context.Context) []*inventory.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*inventory.FoodItem, 0, len(s.items))
	for _, item := range s.items {
		if !item.IsUsed() {
			active = append(active, item)
		}
	}
	return active
}

// ExpiringSoon returns active items inside the warning window, sorted by
// expiry ascending. Ties keep collection order, so the sort must be stable.
func (s *Service) ExpiringSoon(ctx context.Context, limit int) []*inventory.FoodItem {
	now := s.now()

	s.mu.RLock()
	soon := make([]*inventory.FoodItem, 0)
	for _, item := range s.items {
		if item.IsExpiringSoon(now) {
			soon = append(soon, item)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(soon, func(i, j int) bool {
		return soon[i].ExpiryDate().Before(soon[j].ExpiryDate())
	})

	if limit > 0 && len(soon) > limit {
		soon = soon[:limit]
	}
	return soon
}

// ConsumptionStats summarizes consumption progress across all batches.
// An empty collection reports zero percent.
func (s *Service) ConsumptionStats(ctx context.Context) inbound.ConsumptionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.items)
	consumed := 0
	for _, item := range s.items {
		if item.IsUsed() {
			consumed++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(consumed) / float64(total) * 100))
	}

	return inbound.ConsumptionStats{
		Total:      total,
		Consumed:   consumed,
		Percentage: percentage,
	}
}

// findLocked locates an item by ID. Caller must hold the mutex.
func (s *Service) findLocked(id uuid.UUID) *inventory.FoodItem {
	for _, item := range s.items {
		if item.ID() == id {
			return item
		}
	}
	return nil
}

// persist rewrites the snapshot. Persistence failures are reported but the
// in-memory mutation stands: the local store is last-write-wins and the next
// mutation writes the full state again.
func (s *Service) persist(ctx context.Context) error {
	s.mu.RLock()
	snapshot := append([]*inventory.FoodItem{}, s.items...)
	s.mu.RUnlock()

	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		s.logger.Error("Failed to persist inventory snapshot", zap.Error(err))
		return errors.Wrap(err, "failed to persist inventory snapshot")
	}
	return nil
}

// dispatch logs domain events raised by entity mutations.
func (s *Service) dispatch(events []shared.DomainEvent) {
	for _, event := range events {
		s.logger.Debug("Domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
}

func parseExpiry(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range expiryLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
