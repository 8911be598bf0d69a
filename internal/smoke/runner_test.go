package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/okian/salary/internal/adapters/http/api"
	service "github.com/okian/salary/internal/app"
	"github.com/okian/salary/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func quietLogger() logger.Logger {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
	return logger.Get()
}

func newSalaryServer(log logger.Logger) (*httptest.Server, func()) {
	svc := service.New(service.WithModelPath("../../model.json"), service.WithLogger(log))
	So(svc.Start(context.Background()), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	return ts, func() {
		ts.Close()
		svc.Stop()
	}
}

func TestRunAgainstService(t *testing.T) {
	Convey("Given a running salary service", t, func() {
		log := quietLogger()
		ts, stop := newSalaryServer(log)
		defer stop()

		Convey("When the smoke run executes", func() {
			report, err := Run(context.Background(), Config{
				BaseURL:  ts.URL + "/",
				Requests: 25,
				Workers:  4,
				Seed:     7,
				Logger:   log,
			})

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(report.Violations, ShouldBeEmpty)
				So(report.Requests, ShouldEqual, 25)
				So(report.Succeeded, ShouldEqual, 25)
				So(report.Rejected, ShouldEqual, len(invalidCases()))
				So(report.RunID, ShouldNotBeEmpty)
			})
		})
	})
}

func TestRunDetectsViolations(t *testing.T) {
	Convey("Given a server that predicts on GET and drifts between calls", t, func() {
		log := quietLogger()
		var n atomic.Int64
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				_, _ = io.WriteString(w, "<form></form>")
				return
			}
			_, _ = fmt.Fprintf(w, "%s $%d.00", PredictionMarker, n.Add(1))
		}))
		defer ts.Close()

		Convey("When the smoke run executes", func() {
			report, err := Run(context.Background(), Config{BaseURL: ts.URL, Requests: 3, Workers: 2, Logger: log})

			Convey("Then the failures are reported", func() {
				So(IsViolation(err), ShouldBeTrue)
				So(report.Mismatches, ShouldEqual, 3)

				checks := map[string]bool{}
				for _, v := range report.Violations {
					checks[v.Check] = true
				}
				So(checks["predict_get"], ShouldBeTrue)
				So(checks["invalid_input"], ShouldBeTrue)
				So(checks["idempotence"], ShouldBeTrue)
			})
		})
	})
}

func TestRunConfig(t *testing.T) {
	Convey("Given an empty base url", t, func() {
		_, err := Run(context.Background(), Config{Logger: quietLogger()})
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		So(IsViolation(err), ShouldBeFalse)
	})
}

func TestExtractSalary(t *testing.T) {
	Convey("Given rendered result pages", t, func() {
		Convey("Then the value after the currency is parsed", func() {
			v, err := extractSalary(`<p class="prediction">Employee Salary should be $62406.85</p>`)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 62406.85)

			v, err = extractSalary("Employee Salary should be €-12.50")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, -12.5)
		})

		Convey("Then a page without a prediction is an error", func() {
			_, err := extractSalary("<form></form>")
			So(errors.Is(err, ErrNoSalary), ShouldBeTrue)
		})
	})
}

func TestGenerateCases(t *testing.T) {
	Convey("Given a seed", t, func() {
		Convey("Then generation is repeatable", func() {
			So(generateCases(10, 42), ShouldResemble, generateCases(10, 42))
			So(generateCases(10, 42), ShouldNotResemble, generateCases(10, 43))
		})

		Convey("Then run ids map to stable seeds", func() {
			So(seedFromRunID("a"), ShouldEqual, seedFromRunID("a"))
		})
	})
}
