package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"flashsale-dashboard/internal/cache"
	"flashsale-dashboard/internal/dataset"
	"flashsale-dashboard/internal/models"
)

var (
	ErrNoDataset        = errors.New("no dataset loaded")
	ErrInvalidSelection = errors.New("invalid selection")
)

// Analytics serves dashboards for filter selections over the loaded dataset.
// It is safe for concurrent use.
type Analytics struct {
	mu       sync.RWMutex
	data     *dataset.Dataset
	cache    *cache.Cache
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAnalytics returns a service without a dataset. A nil cache computes
// every dashboard directly.
func NewAnalytics(logger *slog.Logger, c *cache.Cache) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		cache:    c,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// LoadFromCSV replaces the dataset with the export at path.
func (a *Analytics) LoadFromCSV(ctx context.Context, path string, opts dataset.LoadOptions) error {
	if opts.Logger == nil {
		opts.Logger = a.logger
	}
	ds, err := dataset.Load(ctx, path, opts)
	if err != nil {
		return fmt.Errorf("load csv: %w", err)
	}
	a.SetDataset(ds)

	if err := a.cache.Bump(ctx); err != nil {
		a.logger.Warn("failed to invalidate dashboard cache", "error", err)
	}
	return nil
}

func (a *Analytics) SetDataset(ds *dataset.Dataset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = ds
}

func (a *Analytics) current() (*dataset.Dataset, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.data == nil {
		return nil, ErrNoDataset
	}
	return a.data, nil
}

// Options returns the filter values available in the dataset.
func (a *Analytics) Options() (models.FilterOptions, error) {
	ds, err := a.current()
	if err != nil {
		return models.FilterOptions{}, err
	}
	return ds.Options(), nil
}

// Dashboard runs the pipeline for sel. Results are cached per dataset and
// normalized selection; cache failures fall back to computing directly.
func (a *Analytics) Dashboard(ctx context.Context, sel models.Selection) (models.Dashboard, error) {
	ds, err := a.current()
	if err != nil {
		return models.Dashboard{}, err
	}

	sel = sel.Normalize()
	if err := a.validate.Struct(sel); err != nil {
		return models.Dashboard{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	if !a.cache.Enabled() {
		return ds.Dashboard(sel), nil
	}

	key, err := a.cacheKey(ctx, ds, sel)
	if err == nil {
		var dash models.Dashboard
		err = a.cache.FetchJSON(ctx, key, &dash, func(context.Context) (any, error) {
			return ds.Dashboard(sel), nil
		})
		if err == nil {
			return dash, nil
		}
	}
	if ctx.Err() != nil {
		return models.Dashboard{}, ctx.Err()
	}

	a.logger.Warn("dashboard cache unavailable, computing directly", "error", err)
	return ds.Dashboard(sel), nil
}

func (a *Analytics) cacheKey(ctx context.Context, ds *dataset.Dataset, sel models.Selection) (string, error) {
	raw, err := json.Marshal(sel)
	if err != nil {
		return "", err
	}
	return a.cache.BuildKey(ctx, "flashsale", "dashboard", ds.Fingerprint(), string(raw))
}

// Stats reports what is loaded, for monitoring.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.data == nil {
		return map[string]any{
			"loaded":        false,
			"cache_enabled": a.cache.Enabled(),
		}
	}

	opts := a.data.Options()
	return map[string]any{
		"loaded":        true,
		"record_count":  a.data.Len(),
		"source":        a.data.Source(),
		"loaded_at":     a.data.LoadedAt().Format(time.RFC3339),
		"categories":    len(opts.Categories),
		"promos":        len(opts.Promos),
		"segments":      len(opts.Segments),
		"cache_enabled": a.cache.Enabled(),
	}
}
