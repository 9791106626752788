// Package dataset loads the draft prospect data the board is built from.
//
// The input is one JSON document with a "bio" array and a "scoutRankings"
// array keyed by playerId. A copy is embedded in the binary and used when no
// file path is configured.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/okian/bigboard/internal/domain/model"
)

//go:embed data/draft_data.json
var bundled []byte

// Bundled returns a copy of the embedded dataset.
func Bundled() []byte {
	return append([]byte(nil), bundled...)
}

// Result is a decoded dataset plus the non-fatal problems found in it.
type Result struct {
	Data     model.DraftData
	Warnings []string
}

// Load reads the dataset at path, or the bundled one when path is blank.
func Load(path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(bundled)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return Parse(raw)
}

// Parse validates the shape of raw and decodes it.
//
// A missing or non-array "bio" is an error. A missing "scoutRankings" is a
// warning: every player is then unranked. Duplicate bio ids and rankings
// for unknown players are reported as warnings and left for the ranking
// engine, which keeps the first record per id.
func Parse(raw []byte) (Result, error) {
	if !gjson.ValidBytes(raw) {
		return Result{}, fmt.Errorf("%w: not valid JSON", ErrMalformedData)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Result{}, fmt.Errorf("%w: top level must be an object", ErrMalformedData)
	}

	bio := doc.Get("bio")
	if !bio.Exists() {
		return Result{}, fmt.Errorf("%w: missing bio section", ErrMalformedData)
	}
	if !bio.IsArray() {
		return Result{}, fmt.Errorf("%w: bio must be an array", ErrMalformedData)
	}

	var res Result
	rankings := doc.Get("scoutRankings")
	switch {
	case !rankings.Exists():
		res.Warnings = append(res.Warnings, "missing scoutRankings section; every player is unranked")
	case !rankings.IsArray():
		return Result{}, fmt.Errorf("%w: scoutRankings must be an array", ErrMalformedData)
	}

	if err := json.Unmarshal(raw, &res.Data); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	res.Warnings = append(res.Warnings, crossCheck(bio, rankings)...)
	return res, nil
}

// crossCheck reports duplicate bio ids and rankings without a bio.
func crossCheck(bio, rankings gjson.Result) []string {
	var warnings []string
	known := make(map[int64]bool)
	for _, id := range bio.Get("#.playerId").Array() {
		if known[id.Int()] {
			warnings = append(warnings, fmt.Sprintf("duplicate bio for player %d", id.Int()))
		}
		known[id.Int()] = true
	}

	seen := make(map[int64]bool)
	for _, id := range rankings.Get("#.playerId").Array() {
		switch {
		case seen[id.Int()]:
			warnings = append(warnings, fmt.Sprintf("duplicate ranking for player %d; first record kept", id.Int()))
		case !known[id.Int()]:
			warnings = append(warnings, fmt.Sprintf("ranking for unknown player %d", id.Int()))
		}
		seen[id.Int()] = true
	}
	return warnings
}
