package obs

import "testing"

func TestLoggerSharedInstance(t *testing.T) {
	first := Logger()
	second := Logger()
	if first != second {
		t.Fatal("expected the same logger instance across calls")
	}

	// Level methods chain directly off the call result.
	Logger().Info().Str("check", "chaining").Msg("logger_test")
	Logger().Error().Msg("logger_test")
}

func TestInitLoggerFallsBackToInfo(t *testing.T) {
	InitLogger("not-a-level")
	if Logger() == nil {
		t.Fatal("expected a configured logger")
	}
}
