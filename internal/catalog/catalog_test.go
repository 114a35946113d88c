package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Simplici0/printdesk/internal/pricing"
)

func countingProvider(calls *int) Provider {
	return ProviderFunc(func(context.Context) (pricing.Catalog, error) {
		*calls++
		return pricing.Catalog{
			Filaments: []pricing.FilamentRate{{FilamentID: "pla", CostPerGram: 0.05 * float64(*calls)}},
		}, nil
	})
}

func TestCached_ServesFromCacheUntilInvalidated(t *testing.T) {
	var calls int
	cached, err := NewCached(countingProvider(&calls), time.Minute)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := cached.Catalog(ctx); err != nil {
			t.Fatalf("Catalog: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", calls)
	}

	cached.Invalidate()
	catalog, err := cached.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if calls != 2 || catalog.Filaments[0].CostPerGram != 0.1 {
		t.Fatalf("expected reload after invalidate, calls=%d catalog=%+v", calls, catalog)
	}
}

func TestCached_ZeroTTLAlwaysLoads(t *testing.T) {
	var calls int
	cached, err := NewCached(countingProvider(&calls), 0)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}
	defer cached.Close()

	for i := 0; i < 2; i++ {
		if _, err := cached.Catalog(context.Background()); err != nil {
			t.Fatalf("Catalog: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("upstream calls = %d, want 2", calls)
	}
}

func TestCached_PropagatesUpstreamError(t *testing.T) {
	boom := errors.New("boom")
	cached, err := NewCached(ProviderFunc(func(context.Context) (pricing.Catalog, error) {
		return pricing.Catalog{}, boom
	}), time.Minute)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}
	defer cached.Close()

	if _, err := cached.Catalog(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestCached_InvalidateDuringLoadIsNotOverwritten(t *testing.T) {
	var (
		calls  int
		cached *Cached
	)
	cached, err := NewCached(ProviderFunc(func(context.Context) (pricing.Catalog, error) {
		calls++
		stale := pricing.Catalog{
			Filaments: []pricing.FilamentRate{{FilamentID: "pla", CostPerGram: 0.05 * float64(calls)}},
		}
		if calls == 1 {
			// A catalog write lands after this read but before it is cached.
			cached.Invalidate()
		}
		return stale, nil
	}), time.Minute)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}
	defer cached.Close()

	ctx := context.Background()
	first, err := cached.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if first.Filaments[0].CostPerGram != 0.05 {
		t.Fatalf("unexpected first catalog: %+v", first)
	}

	second, err := cached.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if calls != 2 || second.Filaments[0].CostPerGram != 0.1 {
		t.Fatalf("expected reload after concurrent invalidate, calls=%d catalog=%+v", calls, second)
	}

	if _, err := cached.Catalog(ctx); err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected second load to be cached, calls=%d", calls)
	}
}
