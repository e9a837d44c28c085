package conf

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStringListValue(t *testing.T) {
	Convey("StringListValue accepts comma separated and repeated values", t, func() {
		var list StringListValue
		So(list.Set("a,b"), ShouldBeNil)
		So(list.Set(" c ,,"), ShouldBeNil)
		So([]string(list), ShouldResemble, []string{"a", "b", "c"})
		So(list.String(), ShouldEqual, "a,b,c")
		So(list.IsCumulative(), ShouldBeTrue)
	})
}
