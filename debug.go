package lens

import (
	"context"
	"log/slog"
	"time"
)

// tickStats holds per-tick timing. Only logged when LoopConfig.Debug is set.
type tickStats struct {
	loadTime    time.Duration
	filterTime  time.Duration
	presentTime time.Duration
	filter      FilterID
	width       int
	height      int
}

func (s tickStats) total() time.Duration {
	return s.loadTime + s.filterTime + s.presentTime
}

// debugLog writes tick timing at debug level.
func (l *RenderLoop) debugLog(stats tickStats) {
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "tick",
		slog.String("filter", stats.filter.String()),
		slog.Int("width", stats.width),
		slog.Int("height", stats.height),
		slog.Duration("load", stats.loadTime),
		slog.Duration("filter_time", stats.filterTime),
		slog.Duration("present", stats.presentTime),
		slog.Duration("total", stats.total()),
	)
}
