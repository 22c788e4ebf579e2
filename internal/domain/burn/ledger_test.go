package burn_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/lineup/internal/domain/burn"
	"github.com/okian/lineup/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fact(matchID, playerID string, team int, phase model.Phase) model.MatchParticipation {
	return model.MatchParticipation{
		MatchID:    matchID,
		PlayerID:   playerID,
		TeamNumber: team,
		Phase:      phase,
		Journee:    1,
	}
}

func TestLedger(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new Ledger", t, func() {
		l := burn.NewLedger()

		Convey("When no facts have been recorded", func() {
			Convey("Then every player is unanchored and eligible everywhere", func() {
				_, anchored := l.Anchor(ctx, "jean", model.PhaseAller)
				So(anchored, ShouldBeFalse)
				So(l.Eligible(ctx, "jean", 1, model.PhaseAller), ShouldBeTrue)
				So(l.Eligible(ctx, "jean", 5, model.PhaseAller), ShouldBeTrue)
				So(l.Count(ctx, "jean", model.PhaseAller, 1), ShouldEqual, 0)
			})
		})

		Convey("When a player plays once for team 1", func() {
			So(l.Record(ctx, fact("m1", "jean", 1, model.PhaseAller)), ShouldBeTrue)

			Convey("Then the player is still unanchored", func() {
				_, anchored := l.Anchor(ctx, "jean", model.PhaseAller)
				So(anchored, ShouldBeFalse)
				So(l.Eligible(ctx, "jean", 2, model.PhaseAller), ShouldBeTrue)
			})
		})

		Convey("When a player plays twice for team 1 in phase aller", func() {
			l.Record(ctx, fact("m1", "jean", 1, model.PhaseAller))
			l.Record(ctx, fact("m2", "jean", 1, model.PhaseAller))

			Convey("Then the player is anchored at team 1", func() {
				anchor, anchored := l.Anchor(ctx, "jean", model.PhaseAller)
				So(anchored, ShouldBeTrue)
				So(anchor, ShouldEqual, 1)
			})

			Convey("Then every less competitive team is blocked", func() {
				So(l.Eligible(ctx, "jean", 2, model.PhaseAller), ShouldBeFalse)
				So(l.Eligible(ctx, "jean", 3, model.PhaseAller), ShouldBeFalse)
			})

			Convey("Then the anchor team itself stays open", func() {
				So(l.Eligible(ctx, "jean", 1, model.PhaseAller), ShouldBeTrue)
			})

			Convey("Then the other phase is unaffected", func() {
				_, anchored := l.Anchor(ctx, "jean", model.PhaseRetour)
				So(anchored, ShouldBeFalse)
				So(l.Eligible(ctx, "jean", 3, model.PhaseRetour), ShouldBeTrue)
			})
		})

		Convey("When a player is anchored at team 2 but also played for team 1", func() {
			l.Record(ctx, fact("m1", "marie", 2, model.PhaseAller))
			l.Record(ctx, fact("m2", "marie", 2, model.PhaseAller))
			l.Record(ctx, fact("m3", "marie", 1, model.PhaseAller))

			Convey("Then the anchor is team 2 and team 1 stays open", func() {
				anchor, anchored := l.Anchor(ctx, "marie", model.PhaseAller)
				So(anchored, ShouldBeTrue)
				So(anchor, ShouldEqual, 2)
				So(l.Eligible(ctx, "marie", 1, model.PhaseAller), ShouldBeTrue)
				So(l.Eligible(ctx, "marie", 3, model.PhaseAller), ShouldBeFalse)
			})

			Convey("And a second team 1 appearance moves the anchor up", func() {
				l.Record(ctx, fact("m4", "marie", 1, model.PhaseAller))
				anchor, anchored := l.Anchor(ctx, "marie", model.PhaseAller)
				So(anchored, ShouldBeTrue)
				So(anchor, ShouldEqual, 1)
				So(l.Eligible(ctx, "marie", 2, model.PhaseAller), ShouldBeFalse)
			})
		})

		Convey("When the same match id is replayed", func() {
			So(l.Record(ctx, fact("m1", "jean", 1, model.PhaseAller)), ShouldBeTrue)
			So(l.Record(ctx, fact("m1", "jean", 1, model.PhaseAller)), ShouldBeFalse)

			Convey("Then the counter did not double-count", func() {
				So(l.Count(ctx, "jean", model.PhaseAller, 1), ShouldEqual, 1)
				_, anchored := l.Anchor(ctx, "jean", model.PhaseAller)
				So(anchored, ShouldBeFalse)
				So(l.Facts(), ShouldEqual, 1)
			})
		})

		Convey("When facts arrive out of order", func() {
			l.Record(ctx, fact("m2", "jean", 1, model.PhaseAller))
			l.Record(ctx, fact("m1", "jean", 1, model.PhaseAller))
			l.Record(ctx, fact("m2", "jean", 1, model.PhaseAller))

			Convey("Then the result matches in-order ingestion", func() {
				anchor, anchored := l.Anchor(ctx, "jean", model.PhaseAller)
				So(anchored, ShouldBeTrue)
				So(anchor, ShouldEqual, 1)
				So(l.Count(ctx, "jean", model.PhaseAller, 1), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a Ledger with a custom anchor threshold", t, func() {
		l := burn.NewLedger(burn.WithAnchorThreshold(3))

		Convey("When a player plays twice", func() {
			l.Record(ctx, fact("m1", "jean", 1, model.PhaseAller))
			l.Record(ctx, fact("m2", "jean", 1, model.PhaseAller))

			Convey("Then two appearances are not enough", func() {
				_, anchored := l.Anchor(ctx, "jean", model.PhaseAller)
				So(anchored, ShouldBeFalse)
			})

			Convey("And the third appearance anchors", func() {
				l.Record(ctx, fact("m3", "jean", 1, model.PhaseAller))
				anchor, anchored := l.Anchor(ctx, "jean", model.PhaseAller)
				So(anchored, ShouldBeTrue)
				So(anchor, ShouldEqual, 1)
			})
		})
	})

	Convey("Given concurrent ingestion", t, func() {
		l := burn.NewLedger()

		Convey("When many goroutines replay overlapping facts", func() {
			done := make(chan struct{})
			for g := 0; g < 8; g++ {
				go func() {
					defer func() { done <- struct{}{} }()
					for i := 0; i < 50; i++ {
						l.Record(ctx, fact(fmt.Sprintf("m%d", i%10), "jean", 1, model.PhaseAller))
					}
				}()
			}
			for g := 0; g < 8; g++ {
				<-done
			}

			Convey("Then only distinct match ids were counted", func() {
				So(l.Count(ctx, "jean", model.PhaseAller, 1), ShouldEqual, 10)
				So(l.Facts(), ShouldEqual, 10)
			})
		})
	})
}
