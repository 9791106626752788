// Package ranking derives consensus ranks from scout rankings and reconciles
// them with manual override orderings. Everything here is pure: no storage,
// no logging.
package ranking

import (
	"math"

	"github.com/okian/bigboard/internal/domain/model"
	"github.com/okian/bigboard/internal/domain/types"
)

// Consensus cutoffs.
const (
	TopTenCutoff     = 10
	FirstRoundCutoff = 30
)

// averagePlaces is the number of decimals the average rank keeps.
const averagePlaces = 1

// roundHalfUp rounds x to places decimals, halves toward +Inf.
func roundHalfUp(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Floor(x*p+0.5) / p
}

// Average returns the mean of the valid scout ranks rounded to one decimal.
// ok is false when no scout ranked the player.
func Average(r model.ScoutRanking) (avg float64, ok bool) {
	valid := r.ValidRanks()
	if len(valid) == 0 {
		return 0, false
	}
	sum := 0
	for _, v := range valid {
		sum += v
	}
	return roundHalfUp(float64(sum)/float64(len(valid)), averagePlaces), true
}

// Consensus returns Average rounded to the nearest integer.
func Consensus(r model.ScoutRanking) (rank int, ok bool) {
	avg, ok := Average(r)
	if !ok {
		return 0, false
	}
	return int(roundHalfUp(avg, 0)), true
}

// Spread returns the lowest and highest valid ranks and their difference.
// All three are zero, with ok false, when no scout ranked the player.
func Spread(r model.ScoutRanking) (minRank, maxRank, spread int, ok bool) {
	valid := r.ValidRanks()
	if len(valid) == 0 {
		return 0, 0, 0, false
	}
	minRank, maxRank = valid[0], valid[0]
	for _, v := range valid[1:] {
		minRank = min(minRank, v)
		maxRank = max(maxRank, v)
	}
	return minRank, maxRank, maxRank - minRank, true
}

// Compute bundles Average, Consensus and Spread.
func Compute(r model.ScoutRanking) types.ComputedRanking {
	avg, ok := Average(r)
	if !ok {
		return types.ComputedRanking{}
	}
	consensus, _ := Consensus(r)
	lo, hi, spread, _ := Spread(r)
	return types.ComputedRanking{
		AverageRank:   avg,
		ConsensusRank: consensus,
		Min:           lo,
		Max:           hi,
		Spread:        spread,
		Ranked:        true,
	}
}

// RankByScout returns the rank a single scout gave the player.
func RankByScout(r model.ScoutRanking, scout model.Scout) (int, error) {
	v, ok := r.Rank(scout)
	if !ok {
		return 0, unknownScout(string(scout))
	}
	return v, nil
}

// IsTopTen reports whether the consensus rank is inside the top ten.
func IsTopTen(r model.ScoutRanking) bool {
	c, ok := Consensus(r)
	return ok && c <= TopTenCutoff
}

// IsFirstRound reports whether the consensus rank projects to the first round.
func IsFirstRound(r model.ScoutRanking) bool {
	c, ok := Consensus(r)
	return ok && c <= FirstRoundCutoff
}
