package main

import (
	"github.com/osse101/StarCase_Go/internal/logger"
)

// initFallbackLogger installs a stdout logger with default settings so that
// failures before configuration is loaded are still structured.
func initFallbackLogger() {
	logger.InitLogger(logger.DefaultConfig())
}
