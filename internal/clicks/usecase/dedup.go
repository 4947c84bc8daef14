package usecase

import (
	"context"
	"net/http"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/requestctx"

	"go.uber.org/zap"
)

// DefaultNoTrackName is the header and query parameter that opts a visit out of tracking.
const DefaultNoTrackName = "dub-no-track"

// SuppressReason explains why a visit is not recorded. Empty means record.
type SuppressReason string

const (
	SuppressNone      SuppressReason = ""
	SuppressNoTrack   SuppressReason = "no_track"
	SuppressBot       SuppressReason = "bot"
	SuppressDuplicate SuppressReason = "duplicate"
)

// NoTrack names the opt-out header and query parameter.
type NoTrack struct {
	Header string
	Param  string
}

// DefaultNoTrack uses DefaultNoTrackName for both.
func DefaultNoTrack() NoTrack {
	return NoTrack{Header: DefaultNoTrackName, Param: DefaultNoTrackName}
}

// DedupGate decides whether a visit should be recorded. It never writes.
type DedupGate struct {
	cache   Cache
	bots    requestctx.BotDetector
	noTrack NoTrack
	logger  *zap.Logger
}

// NewDedupGate creates a new DedupGate
func NewDedupGate(cache Cache, bots requestctx.BotDetector, noTrack NoTrack, logger *zap.Logger) *DedupGate {
	return &DedupGate{
		cache:   cache,
		bots:    bots,
		noTrack: noTrack,
		logger:  logger,
	}
}

// ShouldRecord reports whether the visit passes opt-out, bot and duplicate checks.
func (g *DedupGate) ShouldRecord(ctx context.Context, r *http.Request, domainName, key, clientIP string, skipDedup bool) bool {
	return g.Check(ctx, r, domainName, key, clientIP, skipDedup) == SuppressNone
}

// Check is ShouldRecord with the reason a visit was rejected.
func (g *DedupGate) Check(ctx context.Context, r *http.Request, domainName, key, clientIP string, skipDedup bool) SuppressReason {
	if g.optedOut(r) {
		return SuppressNoTrack
	}

	if g.bots.IsBot(r) {
		return SuppressBot
	}

	if skipDedup {
		return SuppressNone
	}

	_, found, err := g.cache.Get(ctx, domain.DedupKey(domainName, key, clientIP))
	if err != nil {
		// An unreadable marker is treated as absent
		g.logger.Warn("failed to read dedup marker",
			zap.String("domain", domainName),
			zap.String("key", key),
			zap.Error(err),
		)
		return SuppressNone
	}
	if found {
		return SuppressDuplicate
	}

	return SuppressNone
}

func (g *DedupGate) optedOut(r *http.Request) bool {
	if g.noTrack.Header != "" {
		if _, ok := r.Header[http.CanonicalHeaderKey(g.noTrack.Header)]; ok {
			return true
		}
	}
	if g.noTrack.Param != "" && r.URL.Query().Has(g.noTrack.Param) {
		return true
	}
	return false
}
