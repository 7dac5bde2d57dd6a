package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, except failed
// sweeps which are logged as warnings. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnSweepStart(_ context.Context, fingerprint string, minSize, maxSize int) {
	h.logger.Debug("sweep started", "catalog", short(fingerprint), "min", minSize, "max", maxSize)
}

func (h *LogHooks) OnSubsetPlaced(_ context.Context, suites []string) {
	h.logger.Debug("placed", "suites", strings.Join(suites, ","))
}

func (h *LogHooks) OnSweepComplete(_ context.Context, fingerprint string, checked int, failure []string, d time.Duration) {
	if len(failure) > 0 {
		h.logger.Warn("sweep failed", "catalog", short(fingerprint), "checked", checked,
			"subset", strings.Join(failure, ","), "took", d.Round(time.Microsecond))
		return
	}
	h.logger.Debug("sweep complete", "catalog", short(fingerprint), "checked", checked,
		"took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status,
		"took", d.Round(time.Microsecond))
}

// short truncates a fingerprint for log output.
func short(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}

var (
	_ VerifyHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ ServerHooks = (*LogHooks)(nil)
)
