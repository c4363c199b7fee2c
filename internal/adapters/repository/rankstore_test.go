package repository_test

import (
	"context"
	"fmt"
	"testing"

	repository "github.com/avelier/trustline/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTreapStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an evaluator ranking store", t, func() {
		store := repository.NewTreapStore(ctx)

		Convey("When setting scores for several evaluators", func() {
			So(store.Set(ctx, "eval-a", 700), ShouldBeNil)
			So(store.Set(ctx, "eval-b", 900), ShouldBeNil)
			So(store.Set(ctx, "eval-c", 500), ShouldBeNil)

			Convey("Then TopN orders by score descending", func() {
				top, err := store.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
				So(top[0].EvaluatorID, ShouldEqual, "eval-b")
				So(top[1].EvaluatorID, ShouldEqual, "eval-a")
				So(top[2].EvaluatorID, ShouldEqual, "eval-c")
				So(top[0].Rank, ShouldEqual, 1)
				So(top[2].Rank, ShouldEqual, 3)
			})

			Convey("And Rank finds each evaluator's position", func() {
				entry, err := store.Rank(ctx, "eval-a")
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 2)
				So(entry.TrustScore, ShouldEqual, 700)
			})

			Convey("And a score update moves the evaluator, down as well as up", func() {
				So(store.Set(ctx, "eval-b", 400), ShouldBeNil)
				entry, err := store.Rank(ctx, "eval-b")
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 3)
				So(store.Count(ctx), ShouldEqual, 3)
			})

			Convey("And equal scores break ties by id ascending", func() {
				So(store.Set(ctx, "eval-z", 700), ShouldBeNil)
				top, err := store.TopN(ctx, 4)
				So(err, ShouldBeNil)
				So(top[1].EvaluatorID, ShouldEqual, "eval-a")
				So(top[2].EvaluatorID, ShouldEqual, "eval-z")
			})
		})

		Convey("When querying an unknown evaluator", func() {
			_, err := store.Rank(ctx, "eval-x")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When asking for an invalid limit", func() {
			_, err := store.TopN(ctx, 0)
			So(err, ShouldEqual, repository.ErrInvalidLimit)
		})

		Convey("When the store is large", func() {
			for i := 0; i < 1000; i++ {
				So(store.Set(ctx, fmt.Sprintf("eval-%04d", i), float64(i)), ShouldBeNil)
			}

			Convey("Then ranks stay consistent with scores", func() {
				best, err := store.Rank(ctx, "eval-0999")
				So(err, ShouldBeNil)
				So(best.Rank, ShouldEqual, 1)

				worst, err := store.Rank(ctx, "eval-0000")
				So(err, ShouldBeNil)
				So(worst.Rank, ShouldEqual, store.Count(ctx))

				top, err := store.TopN(ctx, 5)
				So(err, ShouldBeNil)
				So(top[0].EvaluatorID, ShouldEqual, "eval-0999")
				So(top[4].EvaluatorID, ShouldEqual, "eval-0995")
			})
		})
	})
}
