package collector

import (
	"context"

	"bandex/internal/model"
)

// Fetcher retrieves raw DWR replies for a restaurant.
type Fetcher interface {
	FetchMenus(ctx context.Context, id model.RestaurantID) (string, error)
	FetchRestaurantName(ctx context.Context, id model.RestaurantID) (string, error)
	Name() string
}
