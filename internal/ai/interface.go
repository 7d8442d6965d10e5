package ai

import (
	"context"
)

// CityInfoProvider defines the contract for turning a free-text query into a travel brief.
// Gemini is the production implementation; tests substitute fakes.
type CityInfoProvider interface {
	// FetchCityInfo asks the generation service about query and decodes the answer.
	// Every failure is reported as a *ServiceError.
	FetchCityInfo(ctx context.Context, query string) (*CityInfo, error)
}
