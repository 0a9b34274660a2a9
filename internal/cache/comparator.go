package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
)

// DefaultTTL is how long cached results live
const DefaultTTL = 24 * time.Hour

// Key kinds
const (
	KindRegime   = "regime"
	KindStrategy = "strategy"
)

// CachedComparator memoizes regime comparisons and strategy reports keyed
// by profile ID. Namespace separates results produced under different
// regime tables or rules.
type CachedComparator struct {
	Repo      Repository
	Engine    *calculation.CalculationEngine
	Strategy  *strategy.Engine
	Namespace string
	TTL       time.Duration
	Logger    calculation.Logger
}

// NewCachedComparator wraps the given engines with repo
func NewCachedComparator(repo Repository, engine *calculation.CalculationEngine, strat *strategy.Engine) *CachedComparator {
	return &CachedComparator{
		Repo:     repo,
		Engine:   engine,
		Strategy: strat,
		TTL:      DefaultTTL,
		Logger:   calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (c *CachedComparator) SetLogger(l calculation.Logger) {
	c.Logger = calculation.OrNop(l)
}

// Key builds the storage key for a result kind and profile
func (c *CachedComparator) Key(kind string, profile domain.FinancialProfile) (string, error) {
	id, err := profile.ID()
	if err != nil {
		return "", err
	}
	ns := c.Namespace
	if ns == "" {
		ns = "default"
	}
	return "taxpilot:" + ns + ":" + kind + ":" + id.String(), nil
}

// NamespaceFor derives a namespace from the settings that shape results,
// typically the configured regimes and strategy rules.
func NamespaceFor(settings ...any) (string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache namespace: %w", err)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, data).String()[:8], nil
}

// Compare returns the regime comparison for profile, from cache when possible
func (c *CachedComparator) Compare(ctx context.Context, profile domain.FinancialProfile) domain.RegimeComparison {
	var result domain.RegimeComparison
	if c.load(ctx, KindRegime, profile, &result) {
		return result
	}
	result = c.Engine.CompareProfile(profile)
	c.store(ctx, KindRegime, profile, result)
	return result
}

// Generate returns the strategy report for profile, from cache when possible
func (c *CachedComparator) Generate(ctx context.Context, profile domain.FinancialProfile) domain.StrategyReport {
	var report domain.StrategyReport
	if c.load(ctx, KindStrategy, profile, &report) {
		return report
	}
	report = c.Strategy.Generate(profile)
	c.store(ctx, KindStrategy, profile, report)
	return report
}

func (c *CachedComparator) load(ctx context.Context, kind string, profile domain.FinancialProfile, out any) bool {
	if c.Repo == nil {
		return false
	}
	key, err := c.Key(kind, profile)
	if err != nil {
		c.Logger.Warnf("cache key for %s: %v", kind, err)
		return false
	}
	val, ok, err := c.Repo.Get(ctx, key)
	if err != nil {
		c.Logger.Warnf("cache get %s failed, computing: %v", key, err)
		return false
	}
	if !ok {
		c.Logger.Debugf("cache miss %s", key)
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		c.Logger.Warnf("cache entry %s unreadable, computing: %v", key, err)
		return false
	}
	c.Logger.Debugf("cache hit %s", key)
	return true
}

func (c *CachedComparator) store(ctx context.Context, kind string, profile domain.FinancialProfile, v any) {
	if c.Repo == nil {
		return
	}
	key, err := c.Key(kind, profile)
	if err != nil {
		c.Logger.Warnf("cache key for %s: %v", kind, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.Logger.Warnf("cache encode %s: %v", key, err)
		return
	}
	if err := c.Repo.Set(ctx, key, string(data), c.TTL); err != nil {
		c.Logger.Warnf("cache set %s failed: %v", key, err)
	}
}
