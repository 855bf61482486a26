package geo

import "github.com/mmcloughlin/geohash"

const (
	// StoredCellPrecision - точность геохеша, который хранится у объявления (~150 м)
	StoredCellPrecision = 7
	// SimilarCellPrecision - ячейка для "похожих рядом" (~5 км)
	SimilarCellPrecision = 5
)

// Cell кодирует координату в геохеш заданной точности
func Cell(lat, lng float64, precision uint) string {
	return geohash.EncodeWithPrecision(lat, lng, precision)
}

// StoredCell - геохеш, который пишется в объявление
func StoredCell(lat, lng float64) string {
	return Cell(lat, lng, StoredCellPrecision)
}

// CellPrefix обрезает сохраненный геохеш до нужной точности
func CellPrefix(hash string, precision int) string {
	if len(hash) <= precision {
		return hash
	}
	return hash[:precision]
}

// CellWithNeighbors - ячейка и восемь соседних
func CellWithNeighbors(hash string) []string {
	if hash == "" {
		return nil
	}
	return append([]string{hash}, geohash.Neighbors(hash)...)
}
