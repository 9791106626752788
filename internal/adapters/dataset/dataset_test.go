package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadBundled(t *testing.T) {
	Convey("Given no dataset path", t, func() {
		res, err := Load("  ")

		Convey("Then the bundled data decodes cleanly", func() {
			So(err, ShouldBeNil)
			So(res.Warnings, ShouldBeEmpty)
			So(len(res.Data.Bio), ShouldEqual, 12)
			So(len(res.Data.ScoutRankings), ShouldEqual, 12)
			So(res.Data.Bio[0].Name, ShouldEqual, "Cooper Flagg")
		})

		Convey("Then null scout ranks decode as unranked", func() {
			last := res.Data.ScoutRankings[len(res.Data.ScoutRankings)-1]
			So(last.ValidRanks(), ShouldBeEmpty)
		})

		Convey("Then Bundled hands out a copy", func() {
			b := Bundled()
			b[0] = 'x'
			So(Bundled()[0], ShouldEqual, byte('{'))
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a dataset file", t, func() {
		dir := t.TempDir()

		Convey("When it is well formed", func() {
			path := filepath.Join(dir, "draft.json")
			So(os.WriteFile(path, []byte(`{"bio":[{"playerId":1,"name":"A"}],"scoutRankings":[{"playerId":1,"ESPN Rank":3}]}`), 0o600), ShouldBeNil)
			res, err := Load(path)

			Convey("Then it is decoded", func() {
				So(err, ShouldBeNil)
				So(res.Data.Bio[0].Name, ShouldEqual, "A")
				So(res.Data.ScoutRankings[0].Ranks[0], ShouldEqual, 3)
			})
		})

		Convey("When it does not exist", func() {
			_, err := Load(filepath.Join(dir, "nope.json"))

			Convey("Then it is unreadable", func() {
				So(errors.Is(err, ErrUnreadable), ShouldBeTrue)
			})
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given raw datasets", t, func() {
		Convey("When the document is not JSON", func() {
			_, err := Parse([]byte(`{"bio": [`))

			Convey("Then it is malformed", func() {
				So(errors.Is(err, ErrMalformedData), ShouldBeTrue)
			})
		})

		Convey("When the top level is an array", func() {
			_, err := Parse([]byte(`[]`))

			Convey("Then it is malformed", func() {
				So(errors.Is(err, ErrMalformedData), ShouldBeTrue)
			})
		})

		Convey("When bio is missing or not an array", func() {
			_, errMissing := Parse([]byte(`{"scoutRankings": []}`))
			_, errShape := Parse([]byte(`{"bio": {}}`))

			Convey("Then both are malformed", func() {
				So(errors.Is(errMissing, ErrMalformedData), ShouldBeTrue)
				So(errMissing.Error(), ShouldContainSubstring, "missing bio")
				So(errors.Is(errShape, ErrMalformedData), ShouldBeTrue)
			})
		})

		Convey("When scoutRankings is missing", func() {
			res, err := Parse([]byte(`{"bio": [{"playerId": 1}]}`))

			Convey("Then it loads with a warning", func() {
				So(err, ShouldBeNil)
				So(len(res.Data.Bio), ShouldEqual, 1)
				So(res.Data.ScoutRankings, ShouldBeEmpty)
				So(len(res.Warnings), ShouldEqual, 1)
			})
		})

		Convey("When scoutRankings is the wrong shape", func() {
			_, err := Parse([]byte(`{"bio": [], "scoutRankings": "none"}`))

			Convey("Then it is malformed", func() {
				So(errors.Is(err, ErrMalformedData), ShouldBeTrue)
			})
		})

		Convey("When a ranking record lacks a playerId", func() {
			_, err := Parse([]byte(`{"bio": [], "scoutRankings": [{"ESPN Rank": 1}]}`))

			Convey("Then decoding fails", func() {
				So(errors.Is(err, ErrMalformedData), ShouldBeTrue)
			})
		})

		Convey("When ids repeat or point nowhere", func() {
			res, err := Parse([]byte(`{
				"bio": [{"playerId": 1}, {"playerId": 1}, {"playerId": 2}],
				"scoutRankings": [{"playerId": 2}, {"playerId": 2}, {"playerId": 9}]
			}`))

			Convey("Then each problem is a warning", func() {
				So(err, ShouldBeNil)
				So(res.Warnings, ShouldResemble, []string{
					"duplicate bio for player 1",
					"duplicate ranking for player 2; first record kept",
					"ranking for unknown player 9",
				})
			})
		})
	})
}
