// Package types contains the shapes shared between the ranking engine,
// its persistence, and the HTTP API.
package types

import "github.com/okian/bigboard/internal/domain/model"

// OrderEntry is one persisted manual override: a player and the rank the
// user placed them at.
type OrderEntry struct {
	PlayerID int `json:"id"`
	Rank     int `json:"rank"`
}

// ComputedRanking is derived from a player's scout ranks. Ranked is false
// when no scout ranked the player; the other fields are then zero.
type ComputedRanking struct {
	AverageRank   float64 `json:"averageRank"`
	ConsensusRank int     `json:"consensusRank"`
	Min           int     `json:"min"`
	Max           int     `json:"max"`
	Spread        int     `json:"spread"`
	Ranked        bool    `json:"ranked"`
}

// BoardEntry is one row of an ordered board.
type BoardEntry struct {
	Rank          int                 `json:"rank"`
	PlayerID      int                 `json:"id"`
	Name          string              `json:"name"`
	PhotoURL      string              `json:"photoUrl"`
	Team          string              `json:"team"`
	League        string              `json:"league"`
	Height        int                 `json:"height"`
	Weight        int                 `json:"weight"`
	ConsensusRank int                 `json:"consensusRank"`
	AverageRank   float64             `json:"averageRank"`
	Ranked        bool                `json:"ranked"`
	Overridden    bool                `json:"overridden"`
	ScoutRank     int                 `json:"scoutRank,omitempty"`
	ScoutRanking  *model.ScoutRanking `json:"scoutRanking,omitempty"`
}

// PlayerDetail is a single player's bio with its computed ranking.
type PlayerDetail struct {
	Bio               model.PlayerBio     `json:"bio"`
	Ranking           ComputedRanking     `json:"ranking"`
	ScoutRanking      *model.ScoutRanking `json:"scoutRanking,omitempty"`
	ConsensusPosition int                 `json:"consensusPosition,omitempty"`
	TopTen            bool                `json:"topTen"`
	FirstRound        bool                `json:"firstRound"`
	Age               int                 `json:"age,omitempty"`
	HeightDisplay     string              `json:"heightDisplay"`
	Location          string              `json:"location"`
	HighSchool        string              `json:"highSchool"`
	International     bool                `json:"international"`
	Initials          string              `json:"initials"`
}
