package modelstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/salary/internal/adapters/modelstore"
	"github.com/okian/salary/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// shippedArtifact is the model.json at the repository root.
const shippedArtifact = "../../../model.json"

const validArtifact = `{
  "model_id": "test-linear",
  "version": "0.1.0",
  "features": ["experience", "test_score", "interview_score"],
  "coefficients": [1, 10, 100],
  "intercept": 1000
}`

func writeArtifact(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestShippedArtifact(t *testing.T) {
	Convey("Given the shipped artifact", t, func() {
		m, err := modelstore.LoadFile(shippedArtifact, "")
		So(err, ShouldBeNil)

		Convey("When predicting for experience=5, test_score=8, interview_score=7", func() {
			y, err := m.Predict(context.Background(), model.FeatureVector{5, 8, 7})

			Convey("Then a single positive value is returned", func() {
				So(err, ShouldBeNil)
				So(y, ShouldBeGreaterThan, 0)
				So(y, ShouldAlmostEqual, 62406.8472831, 1e-6)
			})
		})

		Convey("Then its metadata declares the training order", func() {
			info := m.Info()
			So(info.ModelID, ShouldEqual, "salary-linear")
			So(info.Features, ShouldResemble, model.FeatureOrder[:])
			So(len(info.SHA256), ShouldEqual, 64)
		})
	})
}

func TestLinearModelPredict(t *testing.T) {
	Convey("Given a small artifact", t, func() {
		m, err := modelstore.Decode([]byte(validArtifact), "")
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("Then the output is intercept plus the weighted sum", func() {
			y, err := m.Predict(ctx, model.FeatureVector{1, 2, 3})
			So(err, ShouldBeNil)
			So(y, ShouldEqual, 1000+1+20+300)
		})

		Convey("Then repeated calls are deterministic", func() {
			first, _ := m.Predict(ctx, model.FeatureVector{5, 8, 7})
			for i := 0; i < 20; i++ {
				again, err := m.Predict(ctx, model.FeatureVector{5, 8, 7})
				So(err, ShouldBeNil)
				So(again, ShouldEqual, first)
			}
		})

		Convey("Then an overflowing input is rejected and the feature named", func() {
			_, err := m.Predict(ctx, model.FeatureVector{0, 0, 1e308})
			So(errors.Is(err, modelstore.ErrNonFinite), ShouldBeTrue)

			var rangeErr *modelstore.RangeError
			So(errors.As(err, &rangeErr), ShouldBeTrue)
			So(rangeErr.Feature, ShouldEqual, 2)
		})

		Convey("Then the largest term is blamed when several are large", func() {
			_, err := m.Predict(ctx, model.FeatureVector{1e305, 1, 1e300})
			var rangeErr *modelstore.RangeError
			So(errors.As(err, &rangeErr), ShouldBeTrue)
			So(rangeErr.Feature, ShouldEqual, 0)
		})

		Convey("Then a cancelled context is honored", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := m.Predict(cctx, model.FeatureVector{})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("Then Info returns copies", func() {
			info := m.Info()
			info.Coefficients[0] = 99
			y, _ := m.Predict(ctx, model.FeatureVector{1, 0, 0})
			So(y, ShouldEqual, 1001)
		})

		Convey("Then concurrent predictions agree", func() {
			var wg sync.WaitGroup
			results := make([]float64, 32)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = m.Predict(ctx, model.FeatureVector{5, 8, 7})
				}(i)
			}
			wg.Wait()
			for _, r := range results {
				So(r, ShouldEqual, results[0])
			}
		})
	})
}

func TestLoadFileFailures(t *testing.T) {
	Convey("Given broken artifacts", t, func() {
		cases := []struct {
			name string
			body string
			kind error
		}{
			{"not json", `{"model_id":`, modelstore.ErrArtifactCorrupt},
			{"empty id", `{"model_id":"","features":["experience","test_score","interview_score"],"coefficients":[1,2,3]}`, modelstore.ErrArtifactCorrupt},
			{"swapped order", `{"model_id":"m","features":["test_score","experience","interview_score"],"coefficients":[1,2,3]}`, modelstore.ErrFeatureOrder},
			{"missing feature", `{"model_id":"m","features":["experience","test_score"],"coefficients":[1,2]}`, modelstore.ErrFeatureOrder},
			{"short coefficients", `{"model_id":"m","features":["experience","test_score","interview_score"],"coefficients":[1,2]}`, modelstore.ErrArtifactCorrupt},
		}

		for _, tc := range cases {
			path := writeArtifact(t, tc.body)
			_, err := modelstore.LoadFile(path, "")

			var startup *modelstore.StartupError
			So(errors.As(err, &startup), ShouldBeTrue)
			So(startup.Path, ShouldEqual, path)
			So(errors.Is(err, tc.kind), ShouldBeTrue)
		}
	})

	Convey("Given a path with no artifact", t, func() {
		_, err := modelstore.LoadFile(filepath.Join(t.TempDir(), "absent.json"), "")

		Convey("Then loading fails as missing", func() {
			var startup *modelstore.StartupError
			So(errors.As(err, &startup), ShouldBeTrue)
			So(errors.Is(err, modelstore.ErrArtifactMissing), ShouldBeTrue)
		})
	})

	Convey("Given a pinned checksum", t, func() {
		path := writeArtifact(t, validArtifact)
		loaded, err := modelstore.LoadFile(path, "")
		So(err, ShouldBeNil)
		sum := loaded.Info().SHA256

		Convey("When it matches, in any case", func() {
			_, err := modelstore.LoadFile(path, " "+upper(sum)+" ")
			So(err, ShouldBeNil)
		})

		Convey("When it does not match", func() {
			_, err := modelstore.LoadFile(path, "00"+sum[2:])
			So(errors.Is(err, modelstore.ErrChecksumMismatch), ShouldBeTrue)
		})
	})
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
