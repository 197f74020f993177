package stats

const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandAverage   = "average"
	BandPoor      = "poor"
)

// RatingBand относит оценку к диапазону для подсветки в интерфейсе
func RatingBand(rating float64) string {
	switch {
	case rating >= 9:
		return BandExcellent
	case rating >= 7.5:
		return BandGood
	case rating >= 6:
		return BandAverage
	default:
		return BandPoor
	}
}
