package ranking

import "math"

// eloScale is the rating gap at which the favourite's odds reach 10:1.
const eloScale = 400.0

// ExpectedWinProbability returns the Elo expectation that a side rated ratingA
// beats a side rated ratingB. The result stays in the open interval (0, 1) for
// finite inputs, including gaps large enough to saturate float64.
func ExpectedWinProbability(ratingA, ratingB float64) float64 {
	p := 1 / (1 + math.Pow(10, (ratingB-ratingA)/eloScale))
	switch {
	case p >= 1:
		return math.Nextafter(1, 0)
	case p <= 0:
		return math.SmallestNonzeroFloat64
	}
	return p
}
