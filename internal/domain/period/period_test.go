package period_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomu/leitura/internal/domain/period"
)

func TestPeriodWindowStart(t *testing.T) {
	Convey("Given a reference time", t, func() {
		now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

		Convey("Weekly covers the trailing 7 days", func() {
			start, bounded := period.Weekly.WindowStart(now)
			So(bounded, ShouldBeTrue)
			So(start, ShouldEqual, now.Add(-7*24*time.Hour))
		})

		Convey("Monthly covers the trailing 30 days", func() {
			start, bounded := period.Monthly.WindowStart(now)
			So(bounded, ShouldBeTrue)
			So(start, ShouldEqual, now.Add(-30*24*time.Hour))
		})

		Convey("Yearly covers the trailing 365 days", func() {
			start, bounded := period.Yearly.WindowStart(now)
			So(bounded, ShouldBeTrue)
			So(start, ShouldEqual, now.Add(-365*24*time.Hour))
		})

		Convey("Total is unbounded", func() {
			_, bounded := period.Total.WindowStart(now)
			So(bounded, ShouldBeFalse)
		})
	})
}

func TestPeriodValid(t *testing.T) {
	Convey("Given the period enumeration", t, func() {
		for _, p := range period.All() {
			So(p.Valid(), ShouldBeTrue)
		}
		So(period.Period("HOURLY").Valid(), ShouldBeFalse)
		So(period.Period("").Valid(), ShouldBeFalse)
	})
}

func TestScope(t *testing.T) {
	Convey("Given ranking scopes", t, func() {
		Convey("The general scope has no user", func() {
			s := period.GeneralScope()
			So(s.Valid(), ShouldBeTrue)
			So(s.UserID, ShouldBeEmpty)
		})

		Convey("A friend scope requires a user", func() {
			So(period.FriendScope("u-1").Valid(), ShouldBeTrue)
			So(period.Scope{Kind: period.Friends}.Valid(), ShouldBeFalse)
		})

		Convey("A general scope with a user is malformed", func() {
			So(period.Scope{Kind: period.General, UserID: "u-1"}.Valid(), ShouldBeFalse)
		})

		Convey("An unknown kind is malformed", func() {
			So(period.Scope{Kind: period.ScopeKind("TEAM")}.Valid(), ShouldBeFalse)
		})
	})
}

func TestKeyString(t *testing.T) {
	Convey("Given snapshot keys", t, func() {
		Convey("General keys omit the user", func() {
			k := period.Key{Scope: period.GeneralScope(), Period: period.Weekly}
			So(k.String(), ShouldEqual, "GENERAL/WEEKLY")
		})

		Convey("Friend keys embed the user", func() {
			k := period.Key{Scope: period.FriendScope("u-42"), Period: period.Monthly}
			So(k.String(), ShouldEqual, "FRIENDS(u-42)/MONTHLY")
		})

		Convey("Distinct keys render distinctly", func() {
			a := period.Key{Scope: period.FriendScope("u-1"), Period: period.Weekly}
			b := period.Key{Scope: period.FriendScope("u-2"), Period: period.Weekly}
			So(a.String(), ShouldNotEqual, b.String())
		})
	})
}

func TestFriendPeriods(t *testing.T) {
	Convey("Friend scopes only aggregate weekly and monthly", t, func() {
		So(period.FriendPeriods(), ShouldResemble, []period.Period{period.Weekly, period.Monthly})
	})
}
