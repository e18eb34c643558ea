package scoring_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/scoring"
)

func TestScore(t *testing.T) {
	Convey("Given the XP policy", t, func() {
		Convey("When scoring page progress", func() {
			Convey("Then each page is worth 10 XP", func() {
				xp, err := scoring.Score(model.UnitPage, 1)
				So(err, ShouldBeNil)
				So(xp, ShouldEqual, 10)

				xp, err = scoring.Score(model.UnitPage, 5)
				So(err, ShouldBeNil)
				So(xp, ShouldEqual, 50)
			})
		})

		Convey("When scoring chapter progress", func() {
			Convey("Then each chapter is worth 50 XP", func() {
				xp, err := scoring.Score(model.UnitChapter, 1)
				So(err, ShouldBeNil)
				So(xp, ShouldEqual, 50)

				xp, err = scoring.Score(model.UnitChapter, 3)
				So(err, ShouldBeNil)
				So(xp, ShouldEqual, 150)
			})
		})

		Convey("When the quantity is zero", func() {
			Convey("Then it is rejected", func() {
				_, err := scoring.Score(model.UnitPage, 0)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scoring.ErrInvalidQuantity), ShouldBeTrue)
			})
		})

		Convey("When the quantity is negative", func() {
			Convey("Then it is rejected", func() {
				_, err := scoring.Score(model.UnitChapter, -4)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scoring.ErrInvalidQuantity), ShouldBeTrue)
			})
		})

		Convey("When the quantity is large", func() {
			Convey("Then the result does not overflow int32 arithmetic", func() {
				xp, err := scoring.Score(model.UnitChapter, 1_000_000)
				So(err, ShouldBeNil)
				So(xp, ShouldEqual, int64(50_000_000))
			})
		})

		Convey("When the unit is unknown", func() {
			Convey("Then scoring panics", func() {
				So(func() { _, _ = scoring.Score(model.ProgressUnit("AUDIOBOOK"), 1) }, ShouldPanic)
			})
		})
	})
}
