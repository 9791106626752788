// Package model contains the draft prospect records loaded from the dataset.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Scout names a ranking source. The value is the dataset key for that scout.
type Scout string

// The fixed set of scouts present in every ranking record.
const (
	ScoutESPN    Scout = "ESPN Rank"
	ScoutVecenie Scout = "Sam Vecenie Rank"
	ScoutOConnor Scout = "Kevin O'Connor Rank"
	ScoutBoone   Scout = "Kyle Boone Rank"
	ScoutParrish Scout = "Gary Parrish Rank"
)

// NumScouts is the size of the fixed scout set.
const NumScouts = 5

const playerIDField = "playerId"

var scouts = [NumScouts]Scout{ScoutESPN, ScoutVecenie, ScoutOConnor, ScoutBoone, ScoutParrish}

// Scouts returns the scouts in dataset order.
func Scouts() []Scout {
	out := make([]Scout, NumScouts)
	copy(out, scouts[:])
	return out
}

// ParseScout resolves a scout by its dataset key.
func ParseScout(name string) (Scout, bool) {
	for _, s := range scouts {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

func scoutIndex(s Scout) int {
	for i, known := range scouts {
		if known == s {
			return i
		}
	}
	return -1
}

// ScoutRanking holds every scout's rank for one player. A rank of zero or
// below means the scout did not rank the player.
type ScoutRanking struct {
	PlayerID int
	Ranks    [NumScouts]int
}

// NewScoutRanking builds a ranking from a scout -> rank mapping. Scouts
// missing from ranks are left unranked.
func NewScoutRanking(playerID int, ranks map[Scout]int) ScoutRanking {
	r := ScoutRanking{PlayerID: playerID}
	for s, v := range ranks {
		if i := scoutIndex(s); i >= 0 {
			r.Ranks[i] = v
		}
	}
	return r
}

// Rank returns the rank given by s. ok is false for an unknown scout.
func (r ScoutRanking) Rank(s Scout) (rank int, ok bool) {
	i := scoutIndex(s)
	if i < 0 {
		return 0, false
	}
	return r.Ranks[i], true
}

// ValidRanks returns the positive ranks in scout order.
func (r ScoutRanking) ValidRanks() []int {
	out := make([]int, 0, NumScouts)
	for _, v := range r.Ranks {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// UnmarshalJSON decodes a dataset record. Null and absent scout keys decode
// as unranked; any other non-integer value is a shape error.
func (r *ScoutRanking) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("scout ranking: %w", err)
	}

	idRaw, ok := raw[playerIDField]
	if !ok {
		return fmt.Errorf("scout ranking: missing %s", playerIDField)
	}
	var out ScoutRanking
	if err := json.Unmarshal(idRaw, &out.PlayerID); err != nil {
		return fmt.Errorf("scout ranking: %s: %w", playerIDField, err)
	}

	for i, s := range scouts {
		v, ok := raw[string(s)]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(v, &out.Ranks[i]); err != nil {
			return fmt.Errorf("scout ranking %d: %q: %w", out.PlayerID, s, err)
		}
	}

	*r = out
	return nil
}

// MarshalJSON encodes the record with dataset keys. Unranked scouts encode as null.
func (r ScoutRanking) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, NumScouts+1)
	m[playerIDField] = r.PlayerID
	for i, s := range scouts {
		if r.Ranks[i] > 0 {
			m[string(s)] = r.Ranks[i]
		} else {
			m[string(s)] = nil
		}
	}
	return json.Marshal(m)
}
