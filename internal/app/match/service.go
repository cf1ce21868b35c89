package match

import (
	"context"

	"moodlink/internal/app/store"
)

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Service orchestrates the same-mood query and the in-process radius filter.
//
// Distance filtering happens after a capped fetch (at most store.MatchLimit rows)
// rather than at the index level. That trade is only correct while row volume
// stays small; at larger scale this is the first place to revisit.
type Service struct {
	store       store.Store
	maxRadiusKm float64
}

// NewService creates a match Service using the given store and search radius.
func NewService(st store.Store, maxRadiusKm float64) *Service {
	return &Service{
		store:       st,
		maxRadiusKm: maxRadiusKm,
	}
}

// FindMatches returns current same-mood submissions from other users, newest
// first, capped by the store. When searchPoint is non-nil the result is narrowed
// to rows within the configured radius of that point; the filter never reorders.
//
// A NaN distance (from degenerate coordinates) fails the <= comparison, so such
// rows are excluded from a radius-filtered result rather than leaking through.
func (s *Service) FindMatches(ctx context.Context, moodLevel int, requestingUserID string, searchPoint *Point) ([]store.MatchRow, error) {
	rows, err := s.store.QuerySameMood(ctx, moodLevel, requestingUserID)
	if err != nil {
		return nil, err
	}

	if searchPoint == nil {
		return rows, nil
	}

	filtered := make([]store.MatchRow, 0, len(rows))
	for _, row := range rows {
		if DistanceKm(searchPoint.Lat, searchPoint.Lon, row.Lat, row.Lon) <= s.maxRadiusKm {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}
