package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/lineup/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no file or environment overrides", t, func() {
		cfg, err := config.Load(ctx)

		Convey("Then the defaults are returned", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.RosterSize, ShouldEqual, 4)
		})
	})

	Convey("Given environment overrides", t, func() {
		_ = os.Setenv("LINEUP_ADDR", ":8080")
		_ = os.Setenv("LINEUP_MAX_FOREIGN", "2")
		_ = os.Setenv("LINEUP_ANCHOR_THRESHOLD", "3")
		defer func() {
			_ = os.Unsetenv("LINEUP_ADDR")
			_ = os.Unsetenv("LINEUP_MAX_FOREIGN")
			_ = os.Unsetenv("LINEUP_ANCHOR_THRESHOLD")
		}()

		cfg, err := config.Load(ctx)

		Convey("Then env values take precedence over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.MaxForeign, ShouldEqual, 2)
			So(cfg.AnchorThreshold, ShouldEqual, 3)
			So(cfg.RosterSize, ShouldEqual, 4) // untouched default
		})
	})

	Convey("Given a YAML config file", t, func() {
		f, err := os.CreateTemp(t.TempDir(), "lineup-*.yaml")
		So(err, ShouldBeNil)
		_, err = f.WriteString("addr: \":7070\"\nmax_female: 2\nroster_size: 6\n")
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		_ = os.Setenv("LINEUP_CONFIG", f.Name())
		defer func() { _ = os.Unsetenv("LINEUP_CONFIG") }()

		cfg, err := config.Load(ctx)

		Convey("Then file values layer over the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.MaxFemale, ShouldEqual, 2)
			So(cfg.RosterSize, ShouldEqual, 6)
		})
	})

	Convey("Given an invalid configuration", t, func() {
		Convey("When roster_size is not positive", func() {
			_ = os.Setenv("LINEUP_ROSTER_SIZE", "0")
			defer func() { _ = os.Unsetenv("LINEUP_ROSTER_SIZE") }()

			_, err := config.Load(ctx)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})

		Convey("When min_female exceeds max_female", func() {
			_ = os.Setenv("LINEUP_MIN_FEMALE", "3")
			_ = os.Setenv("LINEUP_MAX_FEMALE", "1")
			defer func() {
				_ = os.Unsetenv("LINEUP_MIN_FEMALE")
				_ = os.Unsetenv("LINEUP_MAX_FEMALE")
			}()

			_, err := config.Load(ctx)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("LINEUP_CONFIG", "/nonexistent/lineup.yaml")
			defer func() { _ = os.Unsetenv("LINEUP_CONFIG") }()

			_, err := config.Load(ctx)
			So(err, ShouldWrap, config.ErrLoadConfig)
		})
	})
}
