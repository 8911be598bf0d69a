package service_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	service "github.com/okian/salary/internal/app"
	"github.com/okian/salary/internal/adapters/modelstore"
	"github.com/okian/salary/internal/domain/validation"
	"github.com/okian/salary/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// shippedArtifact is the model.json at the repository root.
const shippedArtifact = "../../model.json"

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func form(e, t, i string) validation.Values {
	return validation.Values(url.Values{
		"experience":      {e},
		"test_score":      {t},
		"interview_score": {i},
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over the shipped artifact", t, func() {
		svc := service.New(service.WithModelPath(shippedArtifact))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start and report the model", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["modelID"], ShouldEqual, "salary-linear")
				So(stats["modelPath"], ShouldEqual, shippedArtifact)
				So(svc.ModelInfo().Features, ShouldResemble, []string{"experience", "test_score", "interview_score"})
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service over a missing artifact", t, func() {
		svc := service.New(service.WithModelPath("does-not-exist.json"))

		Convey("Then Start fails with a startup error", func() {
			err := svc.Start(context.Background())
			var startup *modelstore.StartupError
			So(errors.As(err, &startup), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
		})

		Convey("Then Predict refuses to run", func() {
			_, err := svc.Predict(context.Background(), "", form("5", "8", "7"))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a service pinned to a wrong checksum", t, func() {
		svc := service.New(service.WithModelPath(shippedArtifact), service.WithExpectedSHA256("00"))

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, modelstore.ErrChecksumMismatch), ShouldBeTrue)
		})
	})
}

func TestService_Predict(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithModelPath(shippedArtifact), service.WithLogger(logger.Get()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When predicting for a valid triple", func() {
			res, err := svc.Predict(ctx, "req-1", form("5", "8", "7"))

			Convey("Then a positive salary is returned", func() {
				So(err, ShouldBeNil)
				So(res.ID, ShouldEqual, "req-1")
				So(res.Salary, ShouldBeGreaterThan, 0)
				So(res.ModelID, ShouldEqual, "salary-linear")
			})

			Convey("And repeating the request yields the same value", func() {
				again, err := svc.Predict(ctx, "req-2", form("5", "8", "7"))
				So(err, ShouldBeNil)
				So(again.Salary, ShouldEqual, res.Salary)
			})
		})

		Convey("When a field is not numeric", func() {
			_, err := svc.Predict(ctx, "", form("invalid", "8", "7"))

			Convey("Then an InvalidInputError is returned and counted", func() {
				var invalid *validation.InvalidInputError
				So(errors.As(err, &invalid), ShouldBeTrue)
				So(invalid.Field, ShouldEqual, "experience")
				So(svc.GetStats()["invalidInputs"], ShouldEqual, int64(1))
			})

			Convey("And the service keeps serving", func() {
				_, err := svc.Predict(ctx, "", form("1", "2", "3"))
				So(err, ShouldBeNil)
				So(svc.GetStats()["predictionsTotal"], ShouldEqual, int64(1))
			})
		})

		Convey("When a finite input overflows the model", func() {
			_, err := svc.Predict(ctx, "", form("1e305", "8", "7"))

			Convey("Then it is rejected as invalid input naming the field", func() {
				var invalid *validation.InvalidInputError
				So(errors.As(err, &invalid), ShouldBeTrue)
				So(invalid.Field, ShouldEqual, "experience")
				So(invalid.Value, ShouldEqual, "1e305")
				So(invalid.Reason, ShouldEqual, validation.ReasonOutOfRange)
				So(svc.GetStats()["invalidInputs"], ShouldEqual, int64(1))
				So(svc.GetStats()["failures"], ShouldEqual, int64(0))
			})
		})

		Convey("When the service is stopped", func() {
			svc.Stop()
			_, err := svc.Predict(ctx, "", form("5", "8", "7"))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}
