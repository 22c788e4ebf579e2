package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/lineup/internal/adapters/mq/queue"
	"github.com/okian/lineup/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fact(id string) queue.Fact {
	return model.MatchParticipation{
		MatchID:    id,
		PlayerID:   "jean",
		TeamNumber: 1,
		Phase:      model.PhaseAller,
		Journee:    1,
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryQueue", t, func() {
		Convey("When enqueuing facts within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))

			So(q.Enqueue(ctx, fact("m1")), ShouldBeTrue)
			So(q.Enqueue(ctx, fact("m2")), ShouldBeTrue)

			Convey("Then the length reflects the queued facts", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			So(q.Enqueue(ctx, fact("m1")), ShouldBeTrue)
			So(q.Enqueue(ctx, fact("m2")), ShouldBeTrue)

			Convey("Then further enqueues are rejected", func() {
				So(q.Enqueue(ctx, fact("m3")), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			for i := 0; i < 3; i++ {
				So(q.Enqueue(ctx, fact(fmt.Sprintf("m%d", i))), ShouldBeTrue)
			}

			Convey("Then facts come out in FIFO order", func() {
				facts := q.Dequeue(ctx)
				for i := 0; i < 3; i++ {
					select {
					case f := <-facts:
						So(f.MatchID, ShouldEqual, fmt.Sprintf("m%d", i))
					case <-time.After(time.Second):
						t.Fatal("timed out waiting for fact")
					}
				}
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			So(q.Enqueue(ctx, fact("m1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then new enqueues are rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, fact("m2")), ShouldBeFalse)
			})

			Convey("Then queued facts drain before the channel closes", func() {
				facts := q.Dequeue(ctx)
				f, ok := <-facts
				So(ok, ShouldBeTrue)
				So(f.MatchID, ShouldEqual, "m1")
				_, ok = <-facts
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
