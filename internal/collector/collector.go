package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bandex/internal/dwr"
	"bandex/internal/model"
)

var (
	// ErrUnavailable means the restaurant could not be fetched or decoded.
	ErrUnavailable = errors.New("restaurant data unavailable")
	// ErrNoMenu means the restaurant was loaded but serves no menu for that slot.
	ErrNoMenu = errors.New("no menu for this weekday and meal")
)

// MockFetcher returns controllable fixed replies for development and testing.
type MockFetcher struct {
	Menus map[model.RestaurantID]string
	Names map[model.RestaurantID]string
	Err   error

	MenuCalls map[model.RestaurantID]int
	NameCalls map[model.RestaurantID]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMenus(_ context.Context, id model.RestaurantID) (string, error) {
	if m.MenuCalls == nil {
		m.MenuCalls = make(map[model.RestaurantID]int)
	}
	m.MenuCalls[id]++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Menus[id], nil
}

func (m *MockFetcher) FetchRestaurantName(_ context.Context, id model.RestaurantID) (string, error) {
	if m.NameCalls == nil {
		m.NameCalls = make(map[model.RestaurantID]int)
	}
	m.NameCalls[id]++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Names[id], nil
}

// Entry is a cached menu together with its restaurant name.
type Entry struct {
	Name string
	Menu model.Menu
}

type restaurantRecord struct {
	name  string
	menus []model.Menu
}

// Cache holds every restaurant fetched during one run. A restaurant is
// fetched on first lookup and then served from memory; failed fetches are
// not remembered, so the next lookup tries again. Cache is not safe for
// concurrent use.
type Cache struct {
	runID   string
	fetcher Fetcher
	logger  *zap.SugaredLogger
	records map[model.RestaurantID]*restaurantRecord
}

// NewCache creates an empty Cache backed by fetcher. Its log lines carry a
// run id shared by every fetch of this cache.
func NewCache(fetcher Fetcher, logger *zap.SugaredLogger) *Cache {
	runID := uuid.NewString()
	return &Cache{
		runID:   runID,
		fetcher: fetcher,
		logger:  logger.With("run", runID),
		records: make(map[model.RestaurantID]*restaurantRecord),
	}
}

// RunID identifies this cache in the logs.
func (c *Cache) RunID() string { return c.runID }

// Lookup returns the menu of restaurant id for the given meal and weekday.
// It fails with ErrUnavailable when the restaurant cannot be loaded and with
// ErrNoMenu when it was loaded but has no such entry.
func (c *Cache) Lookup(ctx context.Context, id model.RestaurantID, meal model.MealType, day time.Weekday) (Entry, error) {
	rec, err := c.load(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	for _, menu := range rec.menus {
		if menu.Weekday == day && menu.MealType == meal {
			return Entry{Name: rec.name, Menu: menu}, nil
		}
	}
	return Entry{}, fmt.Errorf("restaurant %d, %s %s: %w", id, day, meal, ErrNoMenu)
}

// Name returns the display name of restaurant id, loading it if needed.
func (c *Cache) Name(ctx context.Context, id model.RestaurantID) (string, error) {
	rec, err := c.load(ctx, id)
	if err != nil {
		return "", err
	}
	return rec.name, nil
}

// Cached reports whether restaurant id is already in memory.
func (c *Cache) Cached(id model.RestaurantID) bool {
	_, ok := c.records[id]
	return ok
}

func (c *Cache) load(ctx context.Context, id model.RestaurantID) (*restaurantRecord, error) {
	if rec, ok := c.records[id]; ok {
		return rec, nil
	}

	body, err := c.fetcher.FetchMenus(ctx, id)
	if err != nil {
		c.logger.Warnw("fetch menus failed", "restaurant", id, "source", c.fetcher.Name(), "error", err)
		return nil, fmt.Errorf("restaurant %d: fetch menus: %w: %w", id, ErrUnavailable, err)
	}
	menus, dropped, err := dwr.DecodeMenus(body)
	if err != nil {
		c.logger.Warnw("decode menus failed", "restaurant", id, "error", err)
		return nil, fmt.Errorf("restaurant %d: decode menus: %w: %w", id, ErrUnavailable, err)
	}
	if dropped > 0 {
		c.logger.Debugw("skipped undecodable records", "restaurant", id, "dropped", dropped)
	}

	body, err = c.fetcher.FetchRestaurantName(ctx, id)
	if err != nil {
		c.logger.Warnw("fetch restaurant name failed", "restaurant", id, "source", c.fetcher.Name(), "error", err)
		return nil, fmt.Errorf("restaurant %d: fetch name: %w: %w", id, ErrUnavailable, err)
	}
	name, err := dwr.DecodeRestaurantName(body)
	if err != nil {
		c.logger.Warnw("decode restaurant name failed", "restaurant", id, "error", err)
		return nil, fmt.Errorf("restaurant %d: decode name: %w: %w", id, ErrUnavailable, err)
	}

	rec := &restaurantRecord{name: name, menus: menus}
	c.records[id] = rec
	c.logger.Debugw("restaurant cached", "restaurant", id, "name", name, "menus", len(menus))
	return rec, nil
}

// DiscoverLimit bounds how many codes Discover probes by default.
const DiscoverLimit = 100

// Discover enumerates restaurant codes starting at from and stops at the
// first code whose name cannot be loaded, or after limit codes.
func Discover(ctx context.Context, fetcher Fetcher, from model.RestaurantID, limit int) ([]model.Restaurant, error) {
	var found []model.Restaurant
	for id := from; int(id-from) < limit; id++ {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		body, err := fetcher.FetchRestaurantName(ctx, id)
		if err != nil {
			break
		}
		name, err := dwr.DecodeRestaurantName(body)
		if err != nil {
			break
		}
		found = append(found, model.Restaurant{ID: id, Name: name})
	}
	return found, ctx.Err()
}
