package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomu/leitura/internal/config"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"YOMU_CONFIG",
		"YOMU_LOG_LEVEL",
		"YOMU_ADDR",
		"YOMU_QUEUE_SIZE",
		"YOMU_WORKER_COUNT",
		"YOMU_THROTTLE_WINDOW_SECONDS",
		"YOMU_MAX_RANKING_LIMIT",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	Convey("Given a config loader", t, func() {
		ctx := context.Background()

		Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should load successfully with defaults", func() {
				So(err, ShouldBeNil)
				So(cfg, ShouldNotBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.QueueSize, ShouldEqual, 10_000)
				So(cfg.WorkerCount, ShouldEqual, runtime.NumCPU()*2)
				So(cfg.ThrottleWindowSeconds, ShouldEqual, 300)
				So(cfg.ThrottleWindow(), ShouldEqual, 5*time.Minute)
				So(cfg.MaxRankingLimit, ShouldEqual, 100)
			})
		})

		Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("YOMU_ADDR", ":8080")
			_ = os.Setenv("YOMU_QUEUE_SIZE", "500")
			_ = os.Setenv("YOMU_WORKER_COUNT", "4")
			_ = os.Setenv("YOMU_THROTTLE_WINDOW_SECONDS", "60")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should override defaults with env vars", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.QueueSize, ShouldEqual, 500)
				So(cfg.WorkerCount, ShouldEqual, 4)
				So(cfg.ThrottleWindow(), ShouldEqual, time.Minute)
			})
		})

		Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "addr: \":7070\"\nlog_level: debug\nmax_ranking_limit: 25\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			_ = os.Setenv("YOMU_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then file values override defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.MaxRankingLimit, ShouldEqual, 25)
			})

			Convey("And env vars override the file", func() {
				_ = os.Setenv("YOMU_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})

		Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("YOMU_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})

		Convey("When a value fails validation", func() {
			clearConfigEnvVars()
			_ = os.Setenv("YOMU_QUEUE_SIZE", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the throttle window is negative", func() {
			clearConfigEnvVars()
			_ = os.Setenv("YOMU_THROTTLE_WINDOW_SECONDS", "-1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
