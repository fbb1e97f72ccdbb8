package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gitlab.com/variadico/lctime"
)

// newLogger creates a text logger writing to w at the named level. Record
// times are formatted with the strftime format timeFormat; an empty format
// omits them.
func newLogger(w io.Writer, level, timeFormat string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := slog.HandlerOptions{
		Level: lv,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.TimeKey {
				return a
			}
			if timeFormat == "" {
				return slog.Attr{}
			}
			return slog.String(slog.TimeKey, lctime.Strftime(timeFormat, a.Value.Time()))
		},
	}
	return slog.New(slog.NewTextHandler(w, &opts)), nil
}
