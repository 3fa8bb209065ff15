package inventory

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"medstock/m/domain"
	"medstock/m/internal/geo"
	"medstock/m/internal/repository"
)

// Search finds in-stock medications across all pharmacies.
type Search struct {
	repo repository.SearchRepository
	opts options
}

func NewSearch(repo repository.SearchRepository, opts ...Option) *Search {
	return &Search{repo: repo, opts: newOptions(opts)}
}

// Search returns every (medication, pharmacy) pair whose brand or generic
// name contains query, nearest pharmacy first. A nil from, or a pharmacy
// without usable coordinates, yields an unknown distance; those results
// come last in their original order.
func (s *Search) Search(ctx context.Context, query string, from *geo.Point) ([]domain.AvailabilityResult, error) {
	defer s.opts.metrics.ObserveDuration("search", time.Now())

	results, err := s.repo.AvailableStock(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range results {
		locate(&results[i], from)
	}
	slices.SortStableFunc(results, byDistance)

	s.opts.metrics.ObserveSearch(len(results))
	return results, nil
}

func locate(r *domain.AvailabilityResult, from *geo.Point) {
	r.Distance = domain.Kilometers(math.NaN())
	if r.Latitude == nil || r.Longitude == nil {
		return
	}
	dest := geo.Point{Lat: *r.Latitude, Lon: *r.Longitude}
	if dest.Valid() {
		r.NavigationURL = geo.DirectionsURL(from, dest)
	}
	if from != nil {
		r.Distance = domain.Kilometers(geo.Distance(*from, dest))
	}
}

func byDistance(a, b domain.AvailabilityResult) int {
	switch ak, bk := a.Distance.Known(), b.Distance.Known(); {
	case ak && bk:
		return cmp.Compare(a.Distance, b.Distance)
	case ak:
		return -1
	case bk:
		return 1
	default:
		return 0
	}
}
