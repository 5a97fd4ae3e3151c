package service

import (
	"context"

	"crm-service/internal/model"
)

// Geocoder resolves a free-text address to a map coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Coordinate, error)
}
