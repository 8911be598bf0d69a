package validation_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/okian/salary/internal/domain/model"
	"github.com/okian/salary/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

func validForm() url.Values {
	return url.Values{
		model.FeatureExperience:     {"5"},
		model.FeatureTestScore:      {"8"},
		model.FeatureInterviewScore: {"7"},
	}
}

func TestParse(t *testing.T) {
	Convey("Given a complete numeric form", t, func() {
		form := validForm()

		Convey("When parsed", func() {
			req, err := validation.Parse(validation.Values(form))

			Convey("Then the fields map to the request in order", func() {
				So(err, ShouldBeNil)
				So(req, ShouldResemble, model.PredictionRequest{Experience: 5, TestScore: 8, InterviewScore: 7})
			})
		})

		Convey("When values are decimals, negatives or padded", func() {
			form.Set(model.FeatureExperience, " 2.5 ")
			form.Set(model.FeatureTestScore, "-3")
			form.Set(model.FeatureInterviewScore, "1e2")
			req, err := validation.Parse(validation.Values(form))

			Convey("Then they are accepted without range checks", func() {
				So(err, ShouldBeNil)
				So(req.Experience, ShouldEqual, 2.5)
				So(req.TestScore, ShouldEqual, -3)
				So(req.InterviewScore, ShouldEqual, 100)
			})
		})
	})

	Convey("Given a form with a bad field", t, func() {
		cases := []struct {
			field  string
			value  string
			reason string
		}{
			{model.FeatureExperience, "invalid", validation.ReasonNotNumeric},
			{model.FeatureTestScore, "eight", validation.ReasonNotNumeric},
			{model.FeatureInterviewScore, "7,5", validation.ReasonNotNumeric},
			{model.FeatureExperience, "NaN", validation.ReasonNotFinite},
			{model.FeatureTestScore, "+Inf", validation.ReasonNotFinite},
			{model.FeatureExperience, "1e400", validation.ReasonOutOfRange},
			{model.FeatureTestScore, "-1e309", validation.ReasonOutOfRange},
			{model.FeatureInterviewScore, "   ", validation.ReasonMissing},
		}

		for _, tc := range cases {
			form := validForm()
			form.Set(tc.field, tc.value)
			_, err := validation.Parse(validation.Values(form))

			var invalid *validation.InvalidInputError
			So(errors.As(err, &invalid), ShouldBeTrue)
			So(errors.Is(err, validation.ErrInvalidInput), ShouldBeTrue)
			So(invalid.Field, ShouldEqual, tc.field)
			So(invalid.Reason, ShouldEqual, tc.reason)
		}
	})

	Convey("Given a value that underflows", t, func() {
		form := validForm()
		form.Set(model.FeatureExperience, "1e-400")
		req, err := validation.Parse(validation.Values(form))
		So(err, ShouldBeNil)
		So(req.Experience, ShouldEqual, 0)
	})

	Convey("Given a value the model cannot use", t, func() {
		form := validForm()
		form.Set(model.FeatureTestScore, "1e305")
		err := validation.OutOfRange(validation.Values(form), model.FeatureTestScore)
		So(errors.Is(err, validation.ErrInvalidInput), ShouldBeTrue)
		So(err.Error(), ShouldEqual, `test_score: "1e305" is too large for the model`)
	})

	Convey("Given a form with an absent field", t, func() {
		form := validForm()
		form.Del(model.FeatureTestScore)
		_, err := validation.Parse(validation.Values(form))

		Convey("Then the error names the field as required", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "test_score is required")
		})
	})

	Convey("Given several bad fields", t, func() {
		_, err := validation.Parse(validation.Fields{
			model.FeatureExperience:     "x",
			model.FeatureTestScore:      "y",
			model.FeatureInterviewScore: "7",
		})

		Convey("Then the first field in feature order is reported", func() {
			var invalid *validation.InvalidInputError
			So(errors.As(err, &invalid), ShouldBeTrue)
			So(invalid.Field, ShouldEqual, model.FeatureExperience)
			So(err.Error(), ShouldEqual, `experience: "x" is not a number`)
		})
	})
}
