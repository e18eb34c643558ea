package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomu/leitura/internal/adapters/repository"
	service "github.com/yomu/leitura/internal/app"
	goaltracker "github.com/yomu/leitura/internal/domain/goal"
	"github.com/yomu/leitura/internal/domain/model"
	"github.com/yomu/leitura/internal/domain/period"
	"github.com/yomu/leitura/internal/domain/scoring"
	"github.com/yomu/leitura/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// startedService returns a running service plus a seeded user and book.
func startedService(opts ...service.Option) (*service.Service, func()) {
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc, svc.Stop
}

func seedReader(svc *service.Service, username string) (*model.User, *model.Book) {
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, username, "Reader "+username, username+"@example.com")
	if err != nil {
		panic(err)
	}
	book, err := svc.CreateBook(ctx, user.ID, "Dom Casmurro", "Machado de Assis", 256, 148)
	if err != nil {
		panic(err)
	}
	return user, book
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()
		So(svc, ShouldNotBeNil)

		Convey("When started and stopped", func() {
			So(svc.Start(context.Background()), ShouldBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["totalUsers"], ShouldEqual, 0)

			svc.Stop()
			So(svc.GetStats()["started"], ShouldBeFalse)
		})

		Convey("When started twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()
		})
	})
}

func TestService_RecordProgress(t *testing.T) {
	Convey("Given a running service with a seeded reader", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()
		user, book := seedReader(svc, "alice")

		Convey("When recording 5 pages", func() {
			entry, err := svc.RecordProgress(ctx, user.ID, book.ID, model.UnitPage, 5)
			So(err, ShouldBeNil)

			Convey("Then the entry is worth 50 XP and the level stays 1", func() {
				So(entry.XPEarned, ShouldEqual, 50)
				xp, lvl, err := svc.CurrentLevel(ctx, user.ID)
				So(err, ShouldBeNil)
				So(xp, ShouldEqual, 50)
				So(lvl, ShouldEqual, 1)
			})
		})

		Convey("When cumulative XP crosses a level boundary", func() {
			_, err := svc.RecordProgress(ctx, user.ID, book.ID, model.UnitPage, 95)
			So(err, ShouldBeNil)

			xp, lvl, _ := svc.CurrentLevel(ctx, user.ID)
			So(xp, ShouldEqual, 950)
			So(lvl, ShouldEqual, 1)

			_, err = svc.RecordProgress(ctx, user.ID, book.ID, model.UnitChapter, 1)
			So(err, ShouldBeNil)

			Convey("Then the level is recomputed from total XP", func() {
				xp, lvl, _ := svc.CurrentLevel(ctx, user.ID)
				So(xp, ShouldEqual, 1000)
				So(lvl, ShouldEqual, 2)
			})

			Convey("Then a level-up notification is written", func() {
				notifs, err := svc.ListNotificationsByUser(ctx, user.ID)
				So(err, ShouldBeNil)

				var found bool
				for _, n := range notifs {
					if n.Type == model.NotifLevelUp {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When the quantity is invalid", func() {
			_, err := svc.RecordProgress(ctx, user.ID, book.ID, model.UnitPage, 0)
			So(errors.Is(err, scoring.ErrInvalidQuantity), ShouldBeTrue)

			Convey("Then no partial state was written", func() {
				xp, _, _ := svc.CurrentLevel(ctx, user.ID)
				So(xp, ShouldEqual, 0)
				entries, _ := svc.ListProgressByUser(ctx, user.ID)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When the unit is unknown", func() {
			_, err := svc.RecordProgress(ctx, user.ID, book.ID, model.ProgressUnit("MINUTES"), 30)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the book belongs to someone else", func() {
			_, otherBook := seedReader(svc, "bob")
			_, err := svc.RecordProgress(ctx, user.ID, otherBook.ID, model.UnitPage, 5)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the user does not exist", func() {
			_, err := svc.RecordProgress(ctx, "ghost", book.ID, model.UnitPage, 5)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_GoalTracking(t *testing.T) {
	Convey("Given a reader with a weekly page goal of 100", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()
		user, book := seedReader(svc, "alice")

		goal, err := svc.CreateGoal(ctx, user.ID, model.GoalWeekly, model.GoalUnitPage, 100)
		So(err, ShouldBeNil)

		Convey("When progress accumulates past the target", func() {
			_, err := svc.RecordProgress(ctx, user.ID, book.ID, model.UnitPage, 95)
			So(err, ShouldBeNil)
			_, err = svc.RecordProgress(ctx, user.ID, book.ID, model.UnitPage, 10)
			So(err, ShouldBeNil)

			Convey("Then the goal is completed at 105", func() {
				g, err := svc.GetGoal(ctx, goal.ID)
				So(err, ShouldBeNil)
				So(g.Current, ShouldEqual, 105)
				So(g.Completed, ShouldBeTrue)
			})

			Convey("Then a completion notification is written", func() {
				notifs, _ := svc.ListNotificationsByUser(ctx, user.ID)
				var found bool
				for _, n := range notifs {
					if n.Type == model.NotifGoalCompleted {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})

			Convey("Then further progress leaves the completed goal untouched", func() {
				_, err := svc.RecordProgress(ctx, user.ID, book.ID, model.UnitPage, 20)
				So(err, ShouldBeNil)

				g, _ := svc.GetGoal(ctx, goal.ID)
				So(g.Current, ShouldEqual, 105)
			})
		})

		Convey("When the progress unit does not match the goal unit", func() {
			_, err := svc.RecordProgress(ctx, user.ID, book.ID, model.UnitChapter, 2)
			So(err, ShouldBeNil)

			g, _ := svc.GetGoal(ctx, goal.ID)
			So(g.Current, ShouldEqual, 0)
		})

		Convey("When a goal accepts any unit", func() {
			anyGoal, err := svc.CreateGoal(ctx, user.ID, model.GoalDaily, model.GoalUnitAny, 10)
			So(err, ShouldBeNil)

			_, err = svc.RecordProgress(ctx, user.ID, book.ID, model.UnitChapter, 3)
			So(err, ShouldBeNil)

			g, _ := svc.GetGoal(ctx, anyGoal.ID)
			So(g.Current, ShouldEqual, 3)
		})

		Convey("When the goal parameters are invalid", func() {
			_, err := svc.CreateGoal(ctx, user.ID, model.GoalWeekly, model.GoalUnitPage, 0)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			So(errors.Is(err, goaltracker.ErrInvalidGoal), ShouldBeTrue)
		})
	})
}

func TestService_Friendships(t *testing.T) {
	Convey("Given two registered users", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()
		alice, _ := seedReader(svc, "alice")
		bob, bobBook := seedReader(svc, "bob")

		Convey("When alice requests bob's friendship", func() {
			edge, err := svc.RequestFriendship(ctx, alice.ID, bob.ID)
			So(err, ShouldBeNil)
			So(edge.Status, ShouldEqual, model.FriendPending)

			Convey("Then a duplicate request conflicts", func() {
				_, err := svc.RequestFriendship(ctx, bob.ID, alice.ID)
				So(errors.Is(err, repository.ErrConflict), ShouldBeTrue)
			})

			Convey("Then accepting flips the edge", func() {
				accepted, err := svc.AcceptFriendship(ctx, edge.ID)
				So(err, ShouldBeNil)
				So(accepted.Status, ShouldEqual, model.FriendAccepted)

				Convey("And accepting twice fails", func() {
					_, err := svc.AcceptFriendship(ctx, edge.ID)
					So(errors.Is(err, service.ErrNotPending), ShouldBeTrue)
				})
			})

			Convey("Then blocking is allowed from pending", func() {
				blocked, err := svc.BlockFriendship(ctx, edge.ID)
				So(err, ShouldBeNil)
				So(blocked.Status, ShouldEqual, model.FriendBlocked)
			})
		})

		Convey("When a user befriends themselves", func() {
			_, err := svc.RequestFriendship(ctx, alice.ID, alice.ID)
			So(errors.Is(err, service.ErrSelfFriendship), ShouldBeTrue)
		})

		Convey("When referring a book", func() {
			Convey("And the pair are not friends", func() {
				_, err := svc.CreateReferral(ctx, bob.ID, alice.ID, bobBook.ID, "read this")
				So(errors.Is(err, service.ErrNotFriends), ShouldBeTrue)
			})

			Convey("And the pair are accepted friends", func() {
				edge, _ := svc.RequestFriendship(ctx, alice.ID, bob.ID)
				_, err := svc.AcceptFriendship(ctx, edge.ID)
				So(err, ShouldBeNil)

				ref, err := svc.CreateReferral(ctx, bob.ID, alice.ID, bobBook.ID, "read this")
				So(err, ShouldBeNil)
				So(ref.RecipientID, ShouldEqual, alice.ID)

				Convey("Then the recipient sees the referral and a notification", func() {
					refs, err := svc.ListReferralsByUser(ctx, alice.ID)
					So(err, ShouldBeNil)
					So(refs, ShouldHaveLength, 1)

					notifs, _ := svc.ListNotificationsByUser(ctx, alice.ID)
					var found bool
					for _, n := range notifs {
						if n.Type == model.NotifReferral {
							found = true
						}
					}
					So(found, ShouldBeTrue)
				})

				Convey("Then marking it read sticks", func() {
					So(svc.MarkReferralRead(ctx, ref.ID), ShouldBeNil)
					refs, _ := svc.ListReferralsByUser(ctx, alice.ID)
					So(refs[0].Read, ShouldBeTrue)
				})
			})

			Convey("And the sender refers themselves", func() {
				_, err := svc.CreateReferral(ctx, bob.ID, bob.ID, bobBook.ID, "note to self")
				So(errors.Is(err, service.ErrSelfReferral), ShouldBeTrue)
			})
		})
	})
}

func TestService_InviteCodes(t *testing.T) {
	Convey("Given a registered user", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()
		alice, _ := seedReader(svc, "alice")

		Convey("Then the invite code resolves back to the user", func() {
			So(alice.InviteCode, ShouldNotBeEmpty)
			found, err := svc.GetUserByInviteCode(ctx, alice.InviteCode)
			So(err, ShouldBeNil)
			So(found.ID, ShouldEqual, alice.ID)
		})

		Convey("Then an unknown code is not found", func() {
			_, err := svc.GetUserByInviteCode(ctx, "NOPE0000")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_GetRanking(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc, stop := startedService()
		defer stop()
		ctx := context.Background()

		Convey("When the scope is malformed", func() {
			_, err := svc.GetRanking(ctx, period.Scope{Kind: period.Friends}, period.Weekly)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the period is unknown", func() {
			_, err := svc.GetRanking(ctx, period.GeneralScope(), period.Period("HOURLY"))
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When no snapshot exists yet", func() {
			_, err := svc.GetRanking(ctx, period.GeneralScope(), period.Weekly)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_AsyncRecalculation(t *testing.T) {
	Convey("Given a service with no staleness throttle", t, func() {
		svc, stop := startedService(service.WithThrottleWindow(0))
		defer stop()
		ctx := context.Background()
		alice, book := seedReader(svc, "alice")

		Convey("When progress is recorded", func() {
			_, err := svc.RecordProgress(ctx, alice.ID, book.ID, model.UnitPage, 10)
			So(err, ShouldBeNil)

			Convey("Then a general snapshot appears asynchronously", func() {
				var snap *model.RankingSnapshot
				deadline := time.Now().Add(3 * time.Second)
				for time.Now().Before(deadline) {
					snap, err = svc.GetRanking(ctx, period.GeneralScope(), period.Total)
					if err == nil {
						break
					}
					time.Sleep(20 * time.Millisecond)
				}
				So(err, ShouldBeNil)
				So(snap.Entries, ShouldHaveLength, 1)
				So(snap.Entries[0].UserID, ShouldEqual, alice.ID)
				So(snap.Entries[0].Score, ShouldEqual, 100)
			})

			Convey("Then the subject's friend snapshot appears too", func() {
				var snap *model.RankingSnapshot
				deadline := time.Now().Add(3 * time.Second)
				for time.Now().Before(deadline) {
					snap, err = svc.GetRanking(ctx, period.FriendScope(alice.ID), period.Weekly)
					if err == nil {
						break
					}
					time.Sleep(20 * time.Millisecond)
				}
				So(err, ShouldBeNil)
				So(snap.Entries, ShouldHaveLength, 1)
			})
		})
	})
}
