package application

import "log/slog"

const ModuleName = "campaign-automation/launch-engine"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
