package goal_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomu/leitura/internal/domain/goal"
	"github.com/yomu/leitura/internal/domain/model"
)

func TestNewGoal(t *testing.T) {
	Convey("Given goal creation", t, func() {
		start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		Convey("When the inputs are valid", func() {
			g, err := goal.NewGoal("g-1", "u-1", model.GoalWeekly, model.GoalUnitPage, 100, start)
			So(err, ShouldBeNil)
			So(g.WindowStart, ShouldEqual, start)
			So(g.WindowEnd, ShouldEqual, start.Add(7*24*time.Hour))
			So(g.Current, ShouldEqual, 0)
			So(g.Completed, ShouldBeFalse)
		})

		Convey("When the daily window is derived", func() {
			g, err := goal.NewGoal("g-2", "u-1", model.GoalDaily, model.GoalUnitAny, 10, start)
			So(err, ShouldBeNil)
			So(g.WindowEnd, ShouldEqual, start.Add(24*time.Hour))
		})

		Convey("When the goal type is unknown", func() {
			_, err := goal.NewGoal("g-3", "u-1", model.GoalType("HOURLY"), model.GoalUnitPage, 10, start)
			So(errors.Is(err, goal.ErrInvalidGoal), ShouldBeTrue)
		})

		Convey("When the goal unit is unknown", func() {
			_, err := goal.NewGoal("g-4", "u-1", model.GoalWeekly, model.GoalUnit("WORDS"), 10, start)
			So(errors.Is(err, goal.ErrInvalidGoal), ShouldBeTrue)
		})

		Convey("When the target is not positive", func() {
			_, err := goal.NewGoal("g-5", "u-1", model.GoalWeekly, model.GoalUnitPage, 0, start)
			So(errors.Is(err, goal.ErrInvalidGoal), ShouldBeTrue)
		})
	})
}

func TestStateAt(t *testing.T) {
	Convey("Given a weekly goal", t, func() {
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		g, err := goal.NewGoal("g-1", "u-1", model.GoalWeekly, model.GoalUnitPage, 100, start)
		So(err, ShouldBeNil)

		Convey("Inside the window it is active", func() {
			So(goal.StateAt(g, start.Add(time.Hour)), ShouldEqual, goal.StateActive)
		})

		Convey("At the window end it is expired", func() {
			So(goal.StateAt(g, g.WindowEnd), ShouldEqual, goal.StateExpired)
		})

		Convey("Before the window start it is expired", func() {
			So(goal.StateAt(g, start.Add(-time.Minute)), ShouldEqual, goal.StateExpired)
		})

		Convey("Completion survives the window end", func() {
			g.Completed = true
			So(goal.StateAt(g, g.WindowEnd.Add(time.Hour)), ShouldEqual, goal.StateCompleted)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given an active goal with target 100", t, func() {
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		g, err := goal.NewGoal("g-1", "u-1", model.GoalWeekly, model.GoalUnitPage, 100, start)
		So(err, ShouldBeNil)
		now := start.Add(time.Hour)

		Convey("When progress stays below the target", func() {
			So(goal.Apply(g, 95, now), ShouldBeNil)
			So(g.Current, ShouldEqual, 95)
			So(g.Completed, ShouldBeFalse)
		})

		Convey("When progress crosses the target", func() {
			So(goal.Apply(g, 95, now), ShouldBeNil)
			So(goal.Apply(g, 10, now), ShouldBeNil)
			So(g.Current, ShouldEqual, 105)
			So(g.Completed, ShouldBeTrue)
		})

		Convey("When progress lands exactly on the target", func() {
			So(goal.Apply(g, 100, now), ShouldBeNil)
			So(g.Completed, ShouldBeTrue)
		})

		Convey("When the goal is already completed", func() {
			So(goal.Apply(g, 100, now), ShouldBeNil)
			err := goal.Apply(g, 1, now)
			So(errors.Is(err, goal.ErrGoalNotActive), ShouldBeTrue)
			So(g.Current, ShouldEqual, 100)
		})

		Convey("When the window has ended", func() {
			err := goal.Apply(g, 10, g.WindowEnd.Add(time.Second))
			So(errors.Is(err, goal.ErrGoalNotActive), ShouldBeTrue)
			So(g.Current, ShouldEqual, 0)
		})

		Convey("When the amount is not positive", func() {
			So(errors.Is(goal.Apply(g, 0, now), goal.ErrInvalidAmount), ShouldBeTrue)
			So(errors.Is(goal.Apply(g, -3, now), goal.ErrInvalidAmount), ShouldBeTrue)
		})
	})
}
