package pool_test

import (
	"context"
	"testing"

	"github.com/okian/lineup/internal/domain/burn"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/pool"
	. "github.com/smartystreets/goconvey/convey"
)

func testRoster() []model.Player {
	return []model.Player{
		{ID: "jean", Name: "Jean", Points: 1200, Active: true, Competitions: []string{"departementale"}},
		{ID: "marie", Name: "Marie", Points: 1100, Gender: model.GenderFemale, Active: true, Competitions: []string{"departementale"}},
		{ID: "pierre", Name: "Pierre", Points: 1000, Nationality: model.NationalityForeign, Active: true, Competitions: []string{"departementale"}},
		{ID: "paul", Name: "Paul", Points: 1000, Active: true, Competitions: []string{"departementale"}},
		{ID: "inactive", Name: "Rene", Points: 1300, Active: false, Competitions: []string{"departementale"}},
		{ID: "regional-only", Name: "Louis", Points: 1250, Active: true, Competitions: []string{"regionale"}},
	}
}

func ids(players []model.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	r := pool.NewResolver()

	Convey("Given a roster with mixed registrations", t, func() {
		roster := testRoster()

		Convey("When resolving the pool for a departmental team", func() {
			players, err := r.Available(ctx, pool.Input{
				Roster:      roster,
				Competition: "departementale",
				TeamNumber:  2,
				Journee:     1,
				Phase:       model.PhaseAller,
			})

			Convey("Then inactive and unregistered players are filtered out", func() {
				So(err, ShouldBeNil)
				So(ids(players), ShouldNotContain, "inactive")
				So(ids(players), ShouldNotContain, "regional-only")
			})

			Convey("Then the pool is sorted by points descending, id ascending on ties", func() {
				So(err, ShouldBeNil)
				So(ids(players), ShouldResemble, []string{"jean", "marie", "paul", "pierre"})
			})
		})

		Convey("When players are excluded for the round", func() {
			players, err := r.Available(ctx, pool.Input{
				Roster:      roster,
				Competition: "departementale",
				TeamNumber:  2,
				Journee:     1,
				Phase:       model.PhaseAller,
				Excluded:    map[string]struct{}{"marie": {}, "paul": {}},
			})

			Convey("Then they are absent from the pool", func() {
				So(err, ShouldBeNil)
				So(ids(players), ShouldResemble, []string{"jean", "pierre"})
			})
		})

		Convey("When a player is burn-anchored above the target team", func() {
			ledger := burn.NewLedger()
			ledger.Record(ctx, model.MatchParticipation{MatchID: "m1", PlayerID: "jean", TeamNumber: 1, Phase: model.PhaseAller})
			ledger.Record(ctx, model.MatchParticipation{MatchID: "m2", PlayerID: "jean", TeamNumber: 1, Phase: model.PhaseAller})

			players, err := r.Available(ctx, pool.Input{
				Roster:      roster,
				Competition: "departementale",
				TeamNumber:  2,
				Journee:     1,
				Phase:       model.PhaseAller,
				Burn:        ledger,
			})

			Convey("Then the anchored player is excluded from team 2", func() {
				So(err, ShouldBeNil)
				So(ids(players), ShouldNotContain, "jean")
			})

			Convey("But the anchored player remains available for team 1", func() {
				top, err := r.Available(ctx, pool.Input{
					Roster:      roster,
					Competition: "departementale",
					TeamNumber:  1,
					Journee:     1,
					Phase:       model.PhaseAller,
					Burn:        ledger,
				})
				So(err, ShouldBeNil)
				So(ids(top), ShouldContain, "jean")
			})
		})

		Convey("When the input is structurally invalid", func() {
			_, err := r.Available(ctx, pool.Input{
				Roster:     roster,
				TeamNumber: 0,
				Phase:      model.PhaseAller,
			})
			So(err, ShouldWrap, pool.ErrInvalidTeam)

			_, err = r.Available(ctx, pool.Input{
				Roster:     roster,
				TeamNumber: 1,
				Phase:      "spring",
			})
			So(err, ShouldWrap, pool.ErrInvalidPhase)
		})
	})
}
