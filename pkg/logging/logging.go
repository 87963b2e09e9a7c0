package logging

import (
	"go.uber.org/zap"
)

// Setup builds the application logger: a production JSON logger by default,
// a development console logger when debug is set (which also enables the
// per-pattern debug output). The instance is returned rather than installed
// globally; callers thread it through explicitly.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	return cfg.Build()
}
