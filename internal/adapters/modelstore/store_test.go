package modelstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/salary/internal/adapters/modelstore"
	"github.com/okian/salary/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStoreLoadOnce(t *testing.T) {
	Convey("Given a store over a valid artifact", t, func() {
		So(logger.Init(), ShouldBeNil)
		path := writeArtifact(t, validArtifact)
		store := modelstore.New(path, modelstore.WithLogger(logger.Get()))
		ctx := context.Background()

		Convey("When Load is called concurrently", func() {
			var wg sync.WaitGroup
			models := make([]*modelstore.LinearModel, 16)
			for i := range models {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					models[i], _ = store.Load(ctx)
				}(i)
			}
			wg.Wait()

			Convey("Then every caller gets the same instance", func() {
				So(models[0], ShouldNotBeNil)
				for _, m := range models {
					So(m, ShouldEqual, models[0])
				}
			})

			Convey("Then the store and the model agree on the path", func() {
				So(store.Path(), ShouldEqual, path)
				So(models[0].Info().Path, ShouldEqual, store.Path())
			})
		})

		Convey("When the artifact changes on disk after loading", func() {
			first, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(os.WriteFile(path, []byte(`{"model_id":"other"}`), 0o600), ShouldBeNil)

			second, err := store.Load(ctx)

			Convey("Then the loaded model is not swapped", func() {
				So(err, ShouldBeNil)
				So(second, ShouldEqual, first)
				So(second.Info().ModelID, ShouldEqual, "test-linear")
			})
		})
	})

	Convey("Given a store over a missing artifact", t, func() {
		path := filepath.Join(t.TempDir(), "model.json")
		store := modelstore.New(path)
		ctx := context.Background()

		_, err := store.Load(ctx)
		So(errors.Is(err, modelstore.ErrArtifactMissing), ShouldBeTrue)

		Convey("Then a file appearing later does not change the outcome", func() {
			So(os.WriteFile(path, []byte(validArtifact), 0o600), ShouldBeNil)
			m, err := store.Load(ctx)
			So(m, ShouldBeNil)
			So(errors.Is(err, modelstore.ErrArtifactMissing), ShouldBeTrue)
		})
	})

	Convey("Given a store pinned to the wrong checksum", t, func() {
		store := modelstore.New(writeArtifact(t, validArtifact), modelstore.WithExpectedSHA256("abc"))

		Convey("Then Load fails with a startup error", func() {
			_, err := store.Load(context.Background())
			var startup *modelstore.StartupError
			So(errors.As(err, &startup), ShouldBeTrue)
			So(errors.Is(err, modelstore.ErrChecksumMismatch), ShouldBeTrue)
		})
	})
}
