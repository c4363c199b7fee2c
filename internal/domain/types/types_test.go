package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/avelier/trustline/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		Convey("When creating a new entry", func() {
			entry := types.Entry{
				Rank:        1,
				EvaluatorID: "eval-123",
				TrustScore:  742.5,
			}

			Convey("Then it should hold the provided values", func() {
				So(entry.Rank, ShouldEqual, 1)
				So(entry.EvaluatorID, ShouldEqual, "eval-123")
				So(entry.TrustScore, ShouldEqual, 742.5)
			})
		})

		Convey("When serializing to JSON", func() {
			entry := types.Entry{Rank: 2, EvaluatorID: "eval-9", TrustScore: 510}
			b, err := json.Marshal(entry)

			Convey("Then it should use the wire field names", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"rank":2`)
				So(string(b), ShouldContainSubstring, `"evaluator_id":"eval-9"`)
				So(string(b), ShouldContainSubstring, `"trust_score":510`)
			})
		})
	})
}
