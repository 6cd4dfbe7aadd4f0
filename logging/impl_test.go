package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestLevels(t *testing.T) {
	for _, tc := range []struct {
		in    string
		level Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.level)
		test.That(t, levelFromZap(level.AsZap()), test.ShouldEqual, level)
	}
	_, err := LevelFromString("verbose")
	test.That(t, err, test.ShouldNotBeNil)

	data, err := WARN.MarshalJSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `"warn"`)
	var level Level
	test.That(t, level.UnmarshalJSON([]byte(`"error"`)), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, ERROR)
}

func TestObservedLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("solved", "count", 4)
	logger.Infof("planned %d samples", 12)
	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.All()[0].Message, test.ShouldEqual, "solved")
	test.That(t, logs.All()[0].ContextMap()["count"], test.ShouldEqual, int64(4))
	test.That(t, logs.All()[1].Level, test.ShouldEqual, zapcore.InfoLevel)

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
	logger.Info("dropped")
	logger.Warn("kept")
	test.That(t, logs.Len(), test.ShouldEqual, 3)
	test.That(t, logs.All()[2].Message, test.ShouldEqual, "kept")
}

func TestSublogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("ik")
	subsub := sub.Sublogger("wrist")
	subsub.Debug("hello")
	test.That(t, logs.Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[0].LoggerName, test.ShouldEqual, "ik.wrist")

	// sublogger levels are independent of the parent
	sub.SetLevel(ERROR)
	sub.Warn("dropped")
	logger.Warn("kept")
	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, logger.AsZap(), test.ShouldNotBeNil)
}
