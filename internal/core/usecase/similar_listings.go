package usecase

import (
	"context"
	"math"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
	"listing-service/internal/core/port"
)

const (
	SimilarListingsLimit  = 3
	similarCandidateLimit = 50
)

type SimilarListingsUseCase struct {
	storage port.ListingReaderPort
}

func NewSimilarListingsUseCase(storage port.ListingReaderPort) *SimilarListingsUseCase {
	return &SimilarListingsUseCase{storage: storage}
}

// Execute ищет ближайшие объявления в той же геохеш-ячейке и соседних,
// а если там пусто - в том же районе.
func (uc *SimilarListingsUseCase) Execute(ctx context.Context, id int64) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "SimilarListings", "listing_id": id})
	ucLogger.Info("Use case started", nil)

	details, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	origin := details.Listing

	hash := origin.Geohash
	if hash == "" {
		hash = geo.StoredCell(origin.Latitude, origin.Longitude)
	}
	cells := geo.CellWithNeighbors(geo.CellPrefix(hash, geo.SimilarCellPrecision))

	candidates, err := uc.storage.FindByCells(ctx, cells, id, similarCandidateLimit)
	if err != nil {
		ucLogger.Error("Failed to find listings by geohash cells", err, nil)
		return nil, err
	}

	source := "geohash"
	if len(candidates) == 0 {
		source = "neighborhood"
		sameArea, err := uc.storage.FindByNeighborhood(ctx, origin.City, origin.Neighborhood)
		if err != nil {
			ucLogger.Error("Failed to find listings by neighborhood", err, nil)
			return nil, err
		}
		for _, l := range sameArea {
			if l.ID != id {
				candidates = append(candidates, l)
			}
		}
	}

	nearest := geo.WithinRadius(candidates, origin.Latitude, origin.Longitude, math.MaxFloat64, SimilarListingsLimit)
	result := make([]domain.Listing, 0, len(nearest))
	for _, n := range nearest {
		result = append(result, n.Listing)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(result), "source": source})
	return result, nil
}
