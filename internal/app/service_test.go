package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	service "github.com/okian/chatrank/internal/app"
	"github.com/okian/chatrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should report defaults without being started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["maxTimelinePoints"], ShouldEqual, 500)
			So(stats["maxConsecutiveFailures"], ShouldEqual, 50)
			So(stats, ShouldNotContainKey, "queueLength")
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50),
			service.WithDedupeSize(25),
			service.WithResultCapacity(10),
			service.WithMaxTimelinePoints(100),
			service.WithMaxConsecutiveFailures(5),
			service.WithLanguageSample(20),
			service.WithLocation(time.FixedZone("X", 3600)),
			service.WithLogger(logger.Named("service")),
		)

		Convey("Then the options should be applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50)
			So(stats["dedupeSize"], ShouldEqual, 25)
			So(stats["resultCapacity"], ShouldEqual, 10)
			So(stats["maxTimelinePoints"], ShouldEqual, 100)
			So(stats["maxConsecutiveFailures"], ShouldEqual, 5)
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then submissions and lookups should fail", func() {
			_, err := svc.Submit(ctx, []byte("1/1/17, 05:55 - Alice: hi"))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Result(ctx, "x")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("Then stopping should be a no-op", func() {
			So(svc.Stop, ShouldNotPanic)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["storedResults"], ShouldEqual, 0)
			})
		})

		Convey("When stopped and started again", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should accept work again", func() {
				sub, err := svc.Submit(ctx, []byte("1/1/17, 05:55 - Alice: hi"))
				So(err, ShouldBeNil)
				So(sub.ID, ShouldNotBeEmpty)
			})
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a service used synchronously", t, func() {
		svc := service.New(service.WithMaxTimelinePoints(2))

		Convey("When analyzing a transcript", func() {
			c, _, err := svc.Analyze(context.Background(), strings.NewReader(
				"1/1/17, 05:55 - Alice: hi\n1/1/17, 05:56 - Bob: hello\n1/1/17, 05:57 - Alice: bye\n"))

			Convey("Then the chat should come back without starting the service", func() {
				So(err, ShouldBeNil)
				So(c.Valid(), ShouldBeTrue)
				So(c.String(), ShouldEqual, "Alice, 2\nBob, 1\n")
				So(len(c.Timeline()), ShouldEqual, 2)
			})

			Convey("Then its rows should carry dense ranks and shares", func() {
				rows := service.RankedSenders(c, 0)
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[0].Share, ShouldAlmostEqual, 2.0/3.0)
				So(len(service.RankedSenders(c, 1)), ShouldEqual, 1)
			})

			Convey("Then its timeline should convert to the JSON shape", func() {
				points := service.TimelinePoints(c.Timeline())
				So(len(points), ShouldEqual, 2)
				So(points[0].X, ShouldEqual, 0)
				So(points[1].Y, ShouldEqual, 1)
				So(points[1].YLabel, ShouldEqual, "1")
			})
		})
	})
}
