package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	domain "github.com/frigozen/v1/internal/domain/inventory"
	"github.com/frigozen/v1/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// snapshotRepository is an in-memory stand-in for the persistence adapter.
type snapshotRepository struct {
	saved     []*domain.FoodItem
	saveCalls int
}

func (r *snapshotRepository) SaveSnapshot(ctx context.Context, items []*domain.FoodItem) error {
	r.saved = append([]*domain.FoodItem{}, items...)
	r.saveCalls++
	return nil
}

func (r *snapshotRepository) LoadSnapshot(ctx context.Context) ([]*domain.FoodItem, error) {
	return r.saved, nil
}

// InventoryServiceTestSuite provides a test suite for the inventory service
type InventoryServiceTestSuite struct {
	suite.Suite
	repo    *snapshotRepository
	service *Service
	faker   *gofakeit.Faker
	now     time.Time
	ctx     context.Context
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.repo = &snapshotRepository{}
	suite.service = NewService(suite.repo, zap.NewNop())
	suite.faker = gofakeit.New(42)
	suite.now = time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.ctx = context.Background()
}

// resetService starts a subtest from an empty collection.
func (suite *InventoryServiceTestSuite) resetService() {
	suite.repo = &snapshotRepository{}
	suite.service = NewService(suite.repo, zap.NewNop())
	suite.service.now = func() time.Time { return suite.now }
}

// newItem builds a valid item expiring the given number of days from now.
func (suite *InventoryServiceTestSuite) newItem(name string, daysToExpiry, units int) *domain.FoodItem {
	if name == "" {
		name = suite.faker.Fruit()
	}
	item, err := domain.NewFoodItem(
		name,
		domain.CategoryOther,
		suite.now.AddDate(0, 0, -1),
		suite.now.AddDate(0, 0, daysToExpiry),
		"",
		units,
	)
	require.NoError(suite.T(), err)
	return item
}

func (suite *InventoryServiceTestSuite) TestAddBatch() {
	suite.Run("ShouldPrependKeepingBatchOrder", func() {
		first := suite.newItem("Bread", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{first}))

		second := suite.newItem("Milk", 7, 1)
		third := suite.newItem("Eggs", 10, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{second, third}))

		items := suite.service.Items(suite.ctx)
		require.Len(suite.T(), items, 3)
		assert.Equal(suite.T(), "Milk", items[0].Name())
		assert.Equal(suite.T(), "Eggs", items[1].Name())
		assert.Equal(suite.T(), "Bread", items[2].Name())
	})

	suite.Run("DuplicateNames_ShouldStaySeparateBatches", func() {
		suite.resetService()
		a := suite.newItem("Milk", 7, 1)
		b := suite.newItem("Milk", 3, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{a, b}))

		assert.Len(suite.T(), suite.service.Items(suite.ctx), 2)
	})

	suite.Run("EmptyBatch_ShouldNotPersist", func() {
		calls := suite.repo.saveCalls
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, nil))
		assert.Equal(suite.T(), calls, suite.repo.saveCalls)
	})

	suite.Run("ShouldPersistSnapshot", func() {
		calls := suite.repo.saveCalls
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{suite.newItem("", 5, 1)}))
		assert.Equal(suite.T(), calls+1, suite.repo.saveCalls)
	})
}

func (suite *InventoryServiceTestSuite) TestDecrementOrConsume() {
	suite.Run("MultipleUnits_ShouldDecrement", func() {
		item := suite.newItem("Yogurt", 5, 3)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{item}))

		require.NoError(suite.T(), suite.service.DecrementOrConsume(suite.ctx, item.ID(), false))

		assert.Equal(suite.T(), 2, item.CurrentQuantity())
		assert.False(suite.T(), item.IsUsed())
	})

	suite.Run("LastUnit_ShouldMarkUsed", func() {
		item := suite.newItem("Butter", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{item}))

		require.NoError(suite.T(), suite.service.DecrementOrConsume(suite.ctx, item.ID(), false))

		assert.True(suite.T(), item.IsUsed())
	})

	suite.Run("UnknownID_ShouldReturnItemNotFound", func() {
		err := suite.service.DecrementOrConsume(suite.ctx, uuid.New(), false)

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodeItemNotFound, errors.GetCode(err))
	})
}

func (suite *InventoryServiceTestSuite) TestReviseExpiry() {
	suite.Run("CalendarDate_ShouldParse", func() {
		item := suite.newItem("Cheese", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{item}))

		require.NoError(suite.T(), suite.service.ReviseExpiry(suite.ctx, item.ID(), "2026-09-01"))

		assert.Equal(suite.T(), time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), item.ExpiryDate())
	})

	suite.Run("RFC3339_ShouldParse", func() {
		item := suite.newItem("Cream", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{item}))

		require.NoError(suite.T(), suite.service.ReviseExpiry(suite.ctx, item.ID(), "2026-09-01T08:00:00Z"))
	})

	suite.Run("Garbage_ShouldReturnInvalidDateAndKeepState", func() {
		item := suite.newItem("Cream", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{item}))
		before := item.ExpiryDate()

		err := suite.service.ReviseExpiry(suite.ctx, item.ID(), "next tuesday")

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodeInvalidDate, errors.GetCode(err))
		assert.Equal(suite.T(), before, item.ExpiryDate())
	})

	suite.Run("UnknownID_ShouldReturnItemNotFound", func() {
		err := suite.service.ReviseExpiry(suite.ctx, uuid.New(), "2026-09-01")

		assert.Equal(suite.T(), errors.CodeItemNotFound, errors.GetCode(err))
	})
}

func (suite *InventoryServiceTestSuite) TestClearAll() {
	require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{
		suite.newItem("", 5, 1),
		suite.newItem("", 2, 1),
	}))

	require.NoError(suite.T(), suite.service.ClearAll(suite.ctx))

	assert.Empty(suite.T(), suite.service.Items(suite.ctx))
	assert.Empty(suite.T(), suite.repo.saved)
}

func (suite *InventoryServiceTestSuite) TestRenameMany() {
	suite.Run("ShouldRenameOnlyMappedItems", func() {
		milk := suite.newItem("Milk", 5, 1)
		eggs := suite.newItem("Eggs", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{milk, eggs}))

		require.NoError(suite.T(), suite.service.RenameMany(suite.ctx, map[string]string{"Milk": "Lait"}))

		assert.Equal(suite.T(), "Lait", milk.Name())
		assert.Equal(suite.T(), "Eggs", eggs.Name())
	})

	suite.Run("EmptyMapping_ShouldNotPersist", func() {
		calls := suite.repo.saveCalls
		require.NoError(suite.T(), suite.service.RenameMany(suite.ctx, map[string]string{}))
		assert.Equal(suite.T(), calls, suite.repo.saveCalls)
	})

	suite.Run("IdentityMapping_ShouldNotPersist", func() {
		item := suite.newItem("Rice", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{item}))
		calls := suite.repo.saveCalls

		require.NoError(suite.T(), suite.service.RenameMany(suite.ctx, map[string]string{"Rice": "Rice"}))

		assert.Equal(suite.T(), calls, suite.repo.saveCalls)
	})
}

func (suite *InventoryServiceTestSuite) TestExpiringSoon() {
	suite.Run("ShouldSortAscendingAndExcludeUsed", func() {
		far := suite.newItem("Rice", 30, 1)
		tomorrow := suite.newItem("Milk", 1, 1)
		inThree := suite.newItem("Ham", 3, 1)
		usedToday := suite.newItem("Yogurt", 0, 1)
		usedToday.Consume(true)

		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{far, tomorrow, inThree, usedToday}))

		soon := suite.service.ExpiringSoon(suite.ctx, 0)

		require.Len(suite.T(), soon, 2)
		assert.Equal(suite.T(), "Milk", soon[0].Name())
		assert.Equal(suite.T(), "Ham", soon[1].Name())
	})

	suite.Run("TiedExpiries_ShouldKeepCollectionOrder", func() {
		suite.resetService()
		a := suite.newItem("A", 2, 1)
		b := suite.newItem("B", 2, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{a, b}))

		soon := suite.service.ExpiringSoon(suite.ctx, 0)

		require.Len(suite.T(), soon, 2)
		assert.Equal(suite.T(), "A", soon[0].Name())
		assert.Equal(suite.T(), "B", soon[1].Name())
	})

	suite.Run("PositiveLimit_ShouldCapResult", func() {
		suite.resetService()
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{
			suite.newItem("One", 1, 1),
			suite.newItem("Two", 2, 1),
			suite.newItem("Three", 3, 1),
		}))

		soon := suite.service.ExpiringSoon(suite.ctx, 2)

		require.Len(suite.T(), soon, 2)
		assert.Equal(suite.T(), "One", soon[0].Name())
	})
}

func (suite *InventoryServiceTestSuite) TestConsumptionStats() {
	suite.Run("EmptyCollection_ShouldReportZero", func() {
		stats := suite.service.ConsumptionStats(suite.ctx)

		assert.Equal(suite.T(), 0, stats.Total)
		assert.Equal(suite.T(), 0, stats.Percentage)
	})

	suite.Run("HalfConsumed_ShouldReportFifty", func() {
		suite.resetService()
		used := suite.newItem("Milk", 5, 1)
		used.Consume(true)
		active := suite.newItem("Eggs", 5, 1)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{used, active}))

		stats := suite.service.ConsumptionStats(suite.ctx)

		assert.Equal(suite.T(), 2, stats.Total)
		assert.Equal(suite.T(), 1, stats.Consumed)
		assert.Equal(suite.T(), 50, stats.Percentage)
	})

	suite.Run("OneOfThree_ShouldRoundToNearest", func() {
		suite.resetService()
		used := suite.newItem("Milk", 5, 1)
		used.Consume(true)
		require.NoError(suite.T(), suite.service.AddBatch(suite.ctx, []*domain.FoodItem{
			used, suite.newItem("Eggs", 5, 1), suite.newItem("Bread", 5, 1),
		}))

		stats := suite.service.ConsumptionStats(suite.ctx)

		assert.Equal(suite.T(), 33, stats.Percentage)
	})
}

func (suite *InventoryServiceTestSuite) TestLoad() {
	item := suite.newItem("Milk", 5, 1)
	suite.repo.saved = []*domain.FoodItem{item}

	require.NoError(suite.T(), suite.service.Load(suite.ctx))

	items := suite.service.Items(suite.ctx)
	require.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), item.ID(), items[0].ID())
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
