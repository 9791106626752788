package ranking

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/okian/bigboard/internal/domain/model"
	"github.com/okian/bigboard/internal/domain/types"
)

// Overrides maps a player id to the rank the user placed them at.
type Overrides map[int]int

// rank returns the override for id. Non-positive ranks are not overrides.
func (o Overrides) rank(id int) (int, bool) {
	r, ok := o[id]
	return r, ok && r > 0
}

// OverridesFromEntries builds Overrides from persisted entries. Later entries
// win when an id repeats.
func OverridesFromEntries(entries []types.OrderEntry) Overrides {
	out := make(Overrides, len(entries))
	for _, e := range entries {
		out[e.PlayerID] = e.Rank
	}
	return out
}

// OrderEntries projects a board to its persisted {id, rank} form.
func OrderEntries(board []types.BoardEntry) []types.OrderEntry {
	out := make([]types.OrderEntry, len(board))
	for i, e := range board {
		out[i] = types.OrderEntry{PlayerID: e.PlayerID, Rank: e.Rank}
	}
	return out
}

// IndexRankings maps player id to its scout ranking. The first record wins
// when a player appears twice.
func IndexRankings(rankings []model.ScoutRanking) map[int]model.ScoutRanking {
	out := make(map[int]model.ScoutRanking, len(rankings))
	for _, r := range rankings {
		if _, seen := out[r.PlayerID]; !seen {
			out[r.PlayerID] = r
		}
	}
	return out
}

// uniquePlayers drops repeated player ids, keeping the first record.
func uniquePlayers(players []model.PlayerBio) []model.PlayerBio {
	seen := make(map[int]struct{}, len(players))
	out := make([]model.PlayerBio, 0, len(players))
	for _, p := range players {
		if _, dup := seen[p.PlayerID]; dup {
			continue
		}
		seen[p.PlayerID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// candidate is a board row plus its sort keys.
type candidate struct {
	entry    types.BoardEntry
	resolved float64 // override, consensus, or list position; +Inf for a record no scout ranked
	average  float64 // +Inf when unranked
}

func newEntry(p model.PlayerBio, r *model.ScoutRanking) types.BoardEntry {
	e := types.BoardEntry{
		PlayerID: p.PlayerID,
		Name:     p.Name,
		PhotoURL: p.PhotoURL,
		Team:     p.CurrentTeam,
		League:   p.League,
		Height:   p.Height,
		Weight:   p.Weight,
	}
	if r != nil {
		c := Compute(*r)
		e.ConsensusRank = c.ConsensusRank
		e.AverageRank = c.AverageRank
		e.Ranked = c.Ranked
		rc := *r
		e.ScoutRanking = &rc
	}
	return e
}

// HasOverrides reports whether any of players has an override.
func HasOverrides(players []model.PlayerBio, overrides Overrides) bool {
	for _, p := range players {
		if _, ok := overrides.rank(p.PlayerID); ok {
			return true
		}
	}
	return false
}

// BuildBoard orders players into a board ranked 1..N.
//
// Repeated player ids keep their first record. When any displayed player
// has an override, rows sort by their resolved rank (override, else
// consensus) and ties keep input order. Otherwise rows sort by consensus
// rank, then by the decimal average.
//
// A player with no ranking record resolves to their 1-based position in the
// player list and sorts after ranked players it ties with. A record no scout
// ranked, without an override, sorts last in input order.
func BuildBoard(players []model.PlayerBio, rankings []model.ScoutRanking, overrides Overrides) []types.BoardEntry {
	players = uniquePlayers(players)
	index := IndexRankings(rankings)
	useOverrides := HasOverrides(players, overrides)

	cands := make([]candidate, len(players))
	for i, p := range players {
		r, found := index[p.PlayerID]
		var rp *model.ScoutRanking
		if found {
			rp = &r
		}
		c := candidate{
			entry:    newEntry(p, rp),
			resolved: math.Inf(1),
			average:  math.Inf(1),
		}
		switch {
		case c.entry.Ranked:
			c.resolved = float64(c.entry.ConsensusRank)
			c.average = c.entry.AverageRank
		case !found:
			c.resolved = float64(i + 1)
		}
		if useOverrides {
			if o, ok := overrides.rank(p.PlayerID); ok {
				c.resolved = float64(o)
				c.entry.Overridden = true
			}
		}
		cands[i] = c
	}

	if useOverrides {
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].resolved < cands[j].resolved
		})
	} else {
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].resolved != cands[j].resolved {
				return cands[i].resolved < cands[j].resolved
			}
			return cands[i].average < cands[j].average
		})
	}

	board := make([]types.BoardEntry, len(cands))
	for i, c := range cands {
		board[i] = c.entry
	}
	renumber(board)
	return board
}

// renumber assigns sequential 1-based ranks in slice order.
func renumber(board []types.BoardEntry) {
	for i := range board {
		board[i].Rank = i + 1
	}
}

// ApplyReorder moves the player at from to index to and renumbers the board.
// The input is returned unchanged when from equals to. Every row of the
// result is marked as overridden, since the whole order is what gets saved.
func ApplyReorder(order []types.BoardEntry, movedPlayerID, from, to int) ([]types.BoardEntry, error) {
	n := len(order)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("%w: from index %d outside [0,%d)", ErrInvalidIndex, from, n)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("%w: to index %d outside [0,%d)", ErrInvalidIndex, to, n)
	}
	if order[from].PlayerID != movedPlayerID {
		return nil, fmt.Errorf("%w: player %d is not at index %d", ErrPlayerMismatch, movedPlayerID, from)
	}
	if from == to {
		return order, nil
	}

	moved := order[from]
	out := make([]types.BoardEntry, 0, n)
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)
	out = slices.Insert(out, to, moved)

	for i := range out {
		out[i].Overridden = true
	}
	renumber(out)
	return out, nil
}

// ConsensusView selects consensus ordering in ScoutBoard.
const ConsensusView = "Consensus"

// ScoutBoard orders the players a single source ranked. view is a scout
// name or ConsensusView. Repeated player ids keep their first record.
// Players without a ranking record, or unranked by the chosen source, are
// left out. Consensus ties break on the decimal average; scout ties keep
// input order.
func ScoutBoard(players []model.PlayerBio, rankings []model.ScoutRanking, view string) ([]types.BoardEntry, error) {
	consensus := view == ConsensusView
	var scout model.Scout
	if !consensus {
		s, ok := model.ParseScout(view)
		if !ok {
			return nil, unknownScout(view)
		}
		scout = s
	}

	index := IndexRankings(rankings)
	board := make([]types.BoardEntry, 0, len(players))
	for _, p := range uniquePlayers(players) {
		r, ok := index[p.PlayerID]
		if !ok {
			continue
		}
		e := newEntry(p, &r)
		if consensus {
			e.ScoutRank = e.ConsensusRank
		} else {
			e.ScoutRank, _ = r.Rank(scout)
		}
		if e.ScoutRank <= 0 {
			continue
		}
		board = append(board, e)
	}

	sort.SliceStable(board, func(i, j int) bool {
		if board[i].ScoutRank != board[j].ScoutRank {
			return board[i].ScoutRank < board[j].ScoutRank
		}
		if consensus {
			return board[i].AverageRank < board[j].AverageRank
		}
		return false
	})
	renumber(board)
	return board, nil
}

// ConsensusPosition returns the 1-based position of playerID among every
// ranked record, ordered by consensus then average. ok is false when the
// player has no ranking or no scout ranked them.
func ConsensusPosition(rankings []model.ScoutRanking, playerID int) (int, bool) {
	type row struct {
		id        int
		consensus int
		average   float64
	}
	rows := make([]row, 0, len(rankings))
	for _, r := range rankings {
		c, ok := Consensus(r)
		if !ok {
			continue
		}
		avg, _ := Average(r)
		rows = append(rows, row{id: r.PlayerID, consensus: c, average: avg})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].consensus != rows[j].consensus {
			return rows[i].consensus < rows[j].consensus
		}
		return rows[i].average < rows[j].average
	})
	for i, r := range rows {
		if r.id == playerID {
			return i + 1, true
		}
	}
	return 0, false
}

// TopN returns the first n rows of the consensus board.
func TopN(players []model.PlayerBio, rankings []model.ScoutRanking, n int) ([]types.BoardEntry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	board := BuildBoard(players, rankings, nil)
	if n < len(board) {
		board = board[:n]
	}
	return board, nil
}
