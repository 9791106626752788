package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// PlayerBio is the biographical record of a prospect.
type PlayerBio struct {
	Name            string `json:"name"`
	PlayerID        int    `json:"playerId"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	BirthDate       string `json:"birthDate"`
	Height          int    `json:"height"`
	Weight          int    `json:"weight"`
	HighSchool      string `json:"highSchool"`
	HighSchoolState string `json:"highSchoolState"`
	HomeTown        string `json:"homeTown"`
	HomeState       string `json:"homeState"`
	HomeCountry     string `json:"homeCountry"`
	Nationality     string `json:"nationality"`
	PhotoURL        string `json:"photoUrl"`
	CurrentTeam     string `json:"currentTeam"`
	League          string `json:"league"`
	LeagueType      string `json:"leagueType"`
}

// DraftData is the bundled dataset. Only the sections the ranking engine
// consumes are decoded.
type DraftData struct {
	Bio           []PlayerBio    `json:"bio"`
	ScoutRankings []ScoutRanking `json:"scoutRankings"`
}

// birthDateLayout is the dataset's birth date format.
const birthDateLayout = "2006-01-02"

// Age returns the player's age in whole years at now.
func (p PlayerBio) Age(now time.Time) (int, error) {
	birth, err := time.Parse(birthDateLayout, p.BirthDate)
	if err != nil {
		return 0, fmt.Errorf("parse birth date %q: %w", p.BirthDate, err)
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, nil
}

// HeightDisplay formats the height in inches as feet and inches, e.g. 6'9".
func (p PlayerBio) HeightDisplay() string {
	return fmt.Sprintf("%d'%d\"", p.Height/12, p.Height%12)
}

// Location is "hometown, state".
func (p PlayerBio) Location() string {
	return p.HomeTown + ", " + p.HomeState
}

// HighSchoolLocation is "high school (state)".
func (p PlayerBio) HighSchoolLocation() string {
	return p.HighSchool + " (" + p.HighSchoolState + ")"
}

// IsInternational reports a non-USA nationality.
func (p PlayerBio) IsInternational() bool {
	return p.Nationality != "USA"
}

// Initials returns the first letters of the first and last names.
func (p PlayerBio) Initials() string {
	var b strings.Builder
	for _, s := range []string{p.FirstName, p.LastName} {
		if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return b.String()
}
