package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo records calls and can be told to fail
type countingRepo struct {
	*MemoryCache
	mu      sync.Mutex
	gets    int
	sets    int
	failGet bool
	failSet bool
}

func (r *countingRepo) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	r.gets++
	r.mu.Unlock()
	if r.failGet {
		return "", false, errors.New("store down")
	}
	return r.MemoryCache.Get(ctx, key)
}

func (r *countingRepo) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	r.mu.Lock()
	r.sets++
	r.mu.Unlock()
	if r.failSet {
		return errors.New("store down")
	}
	return r.MemoryCache.Set(ctx, key, value, ttl)
}

// recordingLogger captures warnings
type recordingLogger struct {
	calculation.NopLogger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}

func profile() domain.FinancialProfile {
	return domain.FinancialProfile{
		BusinessType:  "Technology",
		Income:        decimal.NewFromInt(10000000),
		Expenses:      decimal.NewFromInt(4000000),
		Deductions:    decimal.NewFromInt(500000),
		EmployeeCount: 40,
		Assets:        domain.Assets{Equipment: decimal.NewFromInt(300000)},
	}
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "Should miss on empty cache")

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	val, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok, "Should hit before expiry")

	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok, "Should miss at expiry")
	assert.Equal(t, 0, m.Len(), "Expired entry should be evicted")
}

func TestMemoryCache_ExpiryKeepsConcurrentSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	var interleave func()
	m.now = func() time.Time {
		if f := interleave; f != nil {
			interleave = nil
			f()
		}
		return now
	}

	require.NoError(t, m.Set(ctx, "k", "stale", time.Minute))
	now = now.Add(2 * time.Minute)

	// a writer refreshes the key after Get has read the stale entry
	interleave = func() {
		require.NoError(t, m.Set(ctx, "k", "fresh", time.Minute))
	}
	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "The read saw the expired entry")

	val, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "The refreshed entry survives eviction")
	assert.Equal(t, "fresh", val)
}

func TestCachedComparator_HitAfterMiss(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{MemoryCache: NewMemoryCache()}
	c := NewCachedComparator(repo, calculation.NewCalculationEngine(), strategy.NewEngine())

	first := c.Compare(ctx, profile())
	second := c.Compare(ctx, profile())

	assert.Equal(t, 1, repo.sets, "Should store only on the miss")
	assert.Equal(t, first.Recommendation, second.Recommendation)
	assert.True(t, first.OldRegime.TotalTax.Equal(second.OldRegime.TotalTax))
	assert.True(t, first.PotentialSavings.Equal(second.PotentialSavings))

	report := c.Generate(ctx, profile())
	cached := c.Generate(ctx, profile())
	assert.Equal(t, 2, repo.sets)
	assert.True(t, report.TotalPotentialSavings.Equal(cached.TotalPotentialSavings))
	assert.Equal(t, report.Insights, cached.Insights)
	assert.Equal(t, 2, repo.Len(), "Regime and strategy entries are keyed separately")
}

func TestCachedComparator_FailuresFallThrough(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{MemoryCache: NewMemoryCache(), failGet: true, failSet: true}
	logger := &recordingLogger{}
	c := NewCachedComparator(repo, calculation.NewCalculationEngine(), strategy.NewEngine())
	c.SetLogger(logger)

	got := c.Compare(ctx, profile())
	want := calculation.NewCalculationEngine().CompareProfile(profile())

	assert.True(t, want.NewRegime.TotalTax.Equal(got.NewRegime.TotalTax), "Should compute despite cache failure")
	assert.Len(t, logger.warnings, 2, "Get and Set failures should be logged")
}

func TestCachedComparator_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCache()
	c := NewCachedComparator(repo, calculation.NewCalculationEngine(), strategy.NewEngine())

	key, err := c.Key(KindRegime, profile())
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, key, "{not json", 0))

	got := c.Compare(ctx, profile())
	assert.Equal(t, calculation.NewRegimeLabel, got.Recommendation)
}

func TestCachedComparator_NilRepo(t *testing.T) {
	c := NewCachedComparator(nil, calculation.NewCalculationEngine(), strategy.NewEngine())
	report := c.Generate(context.Background(), profile())
	assert.NotEmpty(t, report.Recommendations)
}

func TestCachedComparator_Key(t *testing.T) {
	c := NewCachedComparator(NewMemoryCache(), calculation.NewCalculationEngine(), strategy.NewEngine())

	k1, err := c.Key(KindRegime, profile())
	require.NoError(t, err)
	assert.Contains(t, k1, "taxpilot:default:regime:")

	c.Namespace = "abc"
	k2, err := c.Key(KindRegime, profile())
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestNamespaceFor(t *testing.T) {
	a, err := NamespaceFor(strategy.DefaultRules())
	require.NoError(t, err)
	b, err := NamespaceFor(strategy.DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 8)

	rules := strategy.DefaultRules()
	rules.ConfidenceScore = 50
	c, err := NamespaceFor(rules)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestRedisCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	rc := NewRedisCacheWithClient(client)
	defer rc.Close()

	ctx := context.Background()
	_, ok, err := rc.Get(ctx, "k")
	assert.Error(t, err, "Unreachable server should surface an error")
	assert.False(t, ok)

	c := NewCachedComparator(rc, calculation.NewCalculationEngine(), strategy.NewEngine())
	got := c.Compare(ctx, profile())
	assert.Equal(t, calculation.NewRegimeLabel, got.Recommendation, "Should fall through to computation")
}
