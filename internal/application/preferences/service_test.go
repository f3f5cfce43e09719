package preferences

import (
	"context"
	"testing"

	"github.com/frigozen/v1/internal/domain/user"
	"github.com/frigozen/v1/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// preferenceStore is an in-memory preference repository.
type preferenceStore struct {
	values map[string]string
}

func newPreferenceStore() *preferenceStore {
	return &preferenceStore{values: make(map[string]string)}
}

func (s *preferenceStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", outbound.ErrPreferenceNotFound
	}
	return v, nil
}

func (s *preferenceStore) Set(ctx context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *preferenceStore) Delete(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

// PreferenceServiceTestSuite provides a test suite for the preference service
type PreferenceServiceTestSuite struct {
	suite.Suite
	store   *preferenceStore
	service *Service
	ctx     context.Context
}

func (suite *PreferenceServiceTestSuite) SetupTest() {
	suite.store = newPreferenceStore()
	suite.service = NewService(suite.store, zap.NewNop())
	suite.ctx = context.Background()
}

func (suite *PreferenceServiceTestSuite) TestDefaults() {
	require.NoError(suite.T(), suite.service.Load(suite.ctx))

	assert.Equal(suite.T(), "fr", suite.service.Language())
	assert.Equal(suite.T(), "sage", suite.service.Theme())
	assert.False(suite.T(), suite.service.DarkMode())
	assert.Nil(suite.T(), suite.service.CurrentUser())
}

func (suite *PreferenceServiceTestSuite) TestLoadRestoresPersistedValues() {
	suite.store.values[KeyLanguage] = "en"
	suite.store.values[KeyTheme] = "sky"
	suite.store.values[KeyDarkMode] = "true"
	suite.store.values[KeyUserSession] = `{"name":"Sami","email":"sami@example.com"}`

	require.NoError(suite.T(), suite.service.Load(suite.ctx))

	assert.Equal(suite.T(), "en", suite.service.Language())
	assert.Equal(suite.T(), "sky", suite.service.Theme())
	assert.True(suite.T(), suite.service.DarkMode())
	require.NotNil(suite.T(), suite.service.CurrentUser())
	assert.Equal(suite.T(), "Sami", suite.service.CurrentUser().Name())
}

func (suite *PreferenceServiceTestSuite) TestLoadIgnoresUnsupportedPersistedValues() {
	suite.store.values[KeyLanguage] = "de"
	suite.store.values[KeyTheme] = "neon"
	suite.store.values[KeyUserSession] = "not-json"

	require.NoError(suite.T(), suite.service.Load(suite.ctx))

	assert.Equal(suite.T(), DefaultLanguage, suite.service.Language())
	assert.Equal(suite.T(), DefaultTheme, suite.service.Theme())
	assert.Nil(suite.T(), suite.service.CurrentUser())
}

func (suite *PreferenceServiceTestSuite) TestSetLanguage() {
	suite.Run("SupportedLanguage_ShouldPersistAndFireHook", func() {
		var hookLanguage string
		suite.service.OnLanguageChange(func(ctx context.Context, language string) {
			hookLanguage = language
		})

		require.NoError(suite.T(), suite.service.SetLanguage(suite.ctx, "ar"))

		assert.Equal(suite.T(), "ar", suite.service.Language())
		assert.Equal(suite.T(), "ar", suite.store.values[KeyLanguage])
		assert.Equal(suite.T(), "ar", hookLanguage)
	})

	suite.Run("SameLanguage_ShouldNotFireHook", func() {
		fired := false
		suite.service.OnLanguageChange(func(ctx context.Context, language string) {
			fired = true
		})

		require.NoError(suite.T(), suite.service.SetLanguage(suite.ctx, "ar"))

		assert.False(suite.T(), fired)
	})

	suite.Run("UnsupportedLanguage_ShouldBeRejected", func() {
		err := suite.service.SetLanguage(suite.ctx, "de")

		assert.Equal(suite.T(), ErrUnsupportedLanguage, err)
		assert.Equal(suite.T(), "ar", suite.service.Language())
	})
}

func (suite *PreferenceServiceTestSuite) TestSetTheme() {
	require.NoError(suite.T(), suite.service.SetTheme(suite.ctx, "minimal"))
	assert.Equal(suite.T(), "minimal", suite.service.Theme())
	assert.Equal(suite.T(), "minimal", suite.store.values[KeyTheme])

	assert.Equal(suite.T(), ErrUnsupportedTheme, suite.service.SetTheme(suite.ctx, "neon"))
}

func (suite *PreferenceServiceTestSuite) TestSetDarkMode() {
	require.NoError(suite.T(), suite.service.SetDarkMode(suite.ctx, true))

	assert.True(suite.T(), suite.service.DarkMode())
	assert.Equal(suite.T(), "true", suite.store.values[KeyDarkMode])
}

func (suite *PreferenceServiceTestSuite) TestLoginLogout() {
	u, err := user.NewUser("Nadia", "nadia@example.com")
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.service.Login(suite.ctx, u))
	assert.Equal(suite.T(), u, suite.service.CurrentUser())
	assert.Contains(suite.T(), suite.store.values[KeyUserSession], "nadia@example.com")

	require.NoError(suite.T(), suite.service.Logout(suite.ctx))
	assert.Nil(suite.T(), suite.service.CurrentUser())
	assert.NotContains(suite.T(), suite.store.values, KeyUserSession)
}

func TestPreferenceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PreferenceServiceTestSuite))
}
