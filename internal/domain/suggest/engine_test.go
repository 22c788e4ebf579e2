package suggest_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/lineup/internal/domain/burn"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/suggest"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(n int) *int { return &n }

// testPool is already sorted by points descending, as the pool resolver
// guarantees.
func testPool() []model.Player {
	return []model.Player{
		{ID: "jean", Name: "Jean", Points: 1200, Gender: model.GenderMale, Nationality: model.NationalityDomestic, Active: true},
		{ID: "marie", Name: "Marie", Points: 1100, Gender: model.GenderFemale, Nationality: model.NationalityDomestic, Active: true},
		{ID: "pierre", Name: "Pierre", Points: 1000, Gender: model.GenderMale, Nationality: model.NationalityForeign, Active: true},
		{ID: "sophie", Name: "Sophie", Points: 950, Gender: model.GenderFemale, Nationality: model.NationalityDomestic, Active: true},
		{ID: "john", Name: "John", Points: 900, Gender: model.GenderMale, Nationality: model.NationalityForeign, Active: true},
		{ID: "luc", Name: "Luc", Points: 850, Gender: model.GenderMale, Nationality: model.NationalityDomestic, Active: true},
	}
}

func testQuota() model.QuotaConfig {
	return model.QuotaConfig{
		MaxForeign: 1,
		MaxFemale:  intPtr(1),
		RosterSize: 4,
	}
}

func TestEngine(t *testing.T) {
	ctx := context.Background()
	e := suggest.NewEngine()

	Convey("Given a sorted candidate pool and club quotas", t, func() {
		in := suggest.Input{
			Pool:       testPool(),
			TeamNumber: 1,
			Journee:    1,
			Phase:      model.PhaseAller,
			Quota:      testQuota(),
		}

		Convey("When suggesting a lineup", func() {
			s, err := e.Suggest(ctx, in)

			Convey("Then the greedy pass fills the roster in rank order", func() {
				So(err, ShouldBeNil)
				So(s.Suggested, ShouldResemble, []string{"jean", "marie", "pierre", "luc"})
			})

			Convey("Then skipped candidates are explained", func() {
				So(err, ShouldBeNil)
				So(s.Reasons, ShouldHaveLength, 2)
				So(s.Reasons[0], ShouldContainSubstring, "Sophie")
				So(s.Reasons[0], ShouldContainSubstring, "female quota")
				So(s.Reasons[1], ShouldContainSubstring, "John")
				So(s.Reasons[1], ShouldContainSubstring, "foreign quota")
			})

			Convey("Then a quota-constrained alternative is offered", func() {
				So(err, ShouldBeNil)
				So(s.Alternatives, ShouldHaveLength, 1)
				So(s.Alternatives[0], ShouldResemble, []string{"jean", "marie", "john", "luc"})
			})
		})

		Convey("When no quota constrains the lineup", func() {
			in.Pool = in.Pool[:4]
			in.Quota.MaxForeign = 4
			in.Quota.MaxFemale = intPtr(4)
			s, err := e.Suggest(ctx, in)

			Convey("Then the top four are picked and no alternatives exist", func() {
				So(err, ShouldBeNil)
				So(s.Suggested, ShouldResemble, []string{"jean", "marie", "pierre", "sophie"})
				So(s.Alternatives, ShouldBeEmpty)
				So(s.Reasons, ShouldBeEmpty)
			})
		})

		Convey("When the pool is smaller than the roster size", func() {
			in.Pool = in.Pool[:2]
			s, err := e.Suggest(ctx, in)

			Convey("Then the suggestion stops at pool exhaustion", func() {
				So(err, ShouldBeNil)
				So(s.Suggested, ShouldResemble, []string{"jean", "marie"})
			})
		})

		Convey("When the pool is empty", func() {
			in.Pool = nil
			s, err := e.Suggest(ctx, in)

			Convey("Then an empty suggestion comes back without error", func() {
				So(err, ShouldBeNil)
				So(s.Suggested, ShouldBeEmpty)
			})
		})

		Convey("When an anchored player slipped into the pool", func() {
			ledger := burn.NewLedger()
			ledger.Record(ctx, model.MatchParticipation{MatchID: "m1", PlayerID: "jean", TeamNumber: 1, Phase: model.PhaseAller})
			ledger.Record(ctx, model.MatchParticipation{MatchID: "m2", PlayerID: "jean", TeamNumber: 1, Phase: model.PhaseAller})
			in.TeamNumber = 2
			in.Burn = ledger
			s, err := e.Suggest(ctx, in)

			Convey("Then the defensive re-check skips the player with a reason", func() {
				So(err, ShouldBeNil)
				So(s.Suggested, ShouldNotContain, "jean")
				So(strings.Join(s.Reasons, ";"), ShouldContainSubstring, "anchored to team 1")
			})
		})

		Convey("When too few female players exist for a configured minimum", func() {
			in.Quota.MinFemale = intPtr(3)
			in.Quota.MaxFemale = nil
			_, err := e.Suggest(ctx, in)

			Convey("Then the safety-net validation rejects the proposal", func() {
				So(err, ShouldWrap, suggest.ErrProposalInvalid)
			})
		})

		Convey("When the input is structurally invalid", func() {
			in.Quota.RosterSize = 0
			_, err := e.Suggest(ctx, in)
			So(err, ShouldWrap, suggest.ErrInvalidInput)
		})
	})
}
