package numeric_test

import (
	"testing"

	"github.com/okian/devscore/internal/domain/numeric"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp(t *testing.T) {
	Convey("Given values around a [0,100] range", t, func() {
		So(numeric.Clamp(-3, 0, 100), ShouldEqual, 0.0)
		So(numeric.Clamp(42.5, 0, 100), ShouldEqual, 42.5)
		So(numeric.Clamp(130, 0, 100), ShouldEqual, 100.0)
	})
}

func TestRound(t *testing.T) {
	Convey("Given values to round", t, func() {
		Convey("When rounding to two places", func() {
			So(numeric.Round2(4.71580776248998), ShouldEqual, 4.72)
			So(numeric.Round2(2.486323104995992), ShouldEqual, 2.49)
			So(numeric.Round2(-1.234), ShouldEqual, -1.23)
			So(numeric.Round2(67.6527607708225), ShouldEqual, 67.65)
		})

		Convey("When rounding to other precisions", func() {
			So(numeric.Round(0.48561281583400134, 4), ShouldEqual, 0.4856)
			So(numeric.Round(1240.4, 0), ShouldEqual, 1240.0)
		})
	})
}
