package env

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEnv(t *testing.T) {
	Convey("GetOrDefault falls back to default", t, func() {
		os.Unsetenv("SWEEP_TEST_ENV")
		So(GetOrDefault("SWEEP_TEST_ENV", "def"), ShouldEqual, "def")
		So(GetOrDefault("", "def"), ShouldEqual, "def")

		os.Setenv("SWEEP_TEST_ENV", "set")
		defer os.Unsetenv("SWEEP_TEST_ENV")
		So(GetOrDefault("SWEEP_TEST_ENV", "def"), ShouldEqual, "set")
	})

	Convey("Merge overrides keys and keeps the rest", t, func() {
		merged := Merge(
			[]string{"PATH=/bin", "SGX_DBG_OPTIN=0", "HOME=/root"},
			map[string]string{"SGX_DBG_OPTIN": "1", "MALLOC_ARENA_MAX": "16"},
		)
		So(merged, ShouldResemble, []string{"PATH=/bin", "HOME=/root", "MALLOC_ARENA_MAX=16", "SGX_DBG_OPTIN=1"})
	})
}
