// README: JSON slog logger used by all components.
package logging

import (
	"log/slog"
	"os"
)

func New(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h)
}
