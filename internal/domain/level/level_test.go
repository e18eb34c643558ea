package level_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomu/leitura/internal/domain/level"
)

func TestFor(t *testing.T) {
	Convey("Given the level formula", t, func() {
		Convey("When XP is zero", func() {
			So(level.For(0), ShouldEqual, 1)
		})

		Convey("When XP is just below a boundary", func() {
			So(level.For(999), ShouldEqual, 1)
			So(level.For(1999), ShouldEqual, 2)
		})

		Convey("When XP lands exactly on a boundary", func() {
			So(level.For(1000), ShouldEqual, 2)
			So(level.For(2000), ShouldEqual, 3)
			So(level.For(10_000), ShouldEqual, 11)
		})

		Convey("When XP is very large", func() {
			So(level.For(1_000_000), ShouldEqual, 1001)
		})

		Convey("When XP is negative", func() {
			So(level.For(-50), ShouldEqual, 1)
		})
	})
}
