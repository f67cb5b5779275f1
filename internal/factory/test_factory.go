package factory

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/onewordstory/internal/config"
	"github.com/mcoot/onewordstory/internal/dependencies/mocks"
	"github.com/mcoot/onewordstory/internal/metrics"
	"github.com/mcoot/onewordstory/internal/services/auth"
	"github.com/mcoot/onewordstory/internal/storage/memory"
	"github.com/mcoot/onewordstory/internal/testutil"
)

// TestJWTSecret signs tokens issued by a TestApp
const TestJWTSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockSender *mocks.MockSender
	Memory     *memory.Storage
}

// NewTestApp creates an App on a fresh in-memory database with mocked
// clock, randomness and mail. The rate limit is high enough not to interfere.
func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	db := testutil.NewTestDB(t)
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockSender := mocks.NewMockSender()
	counter := memory.New(mockClock)

	app := newWithDependencies(dependencies{
		db:      db,
		counter: counter,
		sender:  mockSender,
		clock:   mockClock,
		random:  mockRandom,
		metrics: metrics.New(),
		authCfg: auth.Config{
			JWTSecret:     TestJWTSecret,
			TokenDuration: 7 * 24 * time.Hour,
			AdminEmail:    "admin@example.com",
			BcryptCost:    bcrypt.MinCost,
		},
		logger: testutil.NopLogger(),
		rateLimit: config.RateLimitConfig{
			Window:      15 * time.Minute,
			MaxRequests: 10000,
			Store:       StoreTypeMemory,
		},
		frontendURL: "http://localhost:5173",
	})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockSender: mockSender,
		Memory:     counter,
	}
}
