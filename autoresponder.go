package vette

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const responderCacheSize = 4096

// Responder decides whether a sender acknowledgment may go out right
// now. The default policy answers each sender at most once per grace
// period per list, so a mail loop cannot ping-pong acknowledgments.
type Responder interface {
	AllowSender(l *List, sender, lang string) bool
}

type DailyResponder struct {
	Grace time.Duration
	cache *lru.Cache[string, time.Time]
	now   func() time.Time
}

func NewDailyResponder() *DailyResponder {
	cache, _ := lru.New[string, time.Time](responderCacheSize)
	return &DailyResponder{
		Grace: 24 * time.Hour,
		cache: cache,
		now:   time.Now,
	}
}

func (r *DailyResponder) AllowSender(l *List, sender, lang string) bool {
	key := l.Name + "/" + strings.ToLower(sender)
	now := r.now()
	if last, ok := r.cache.Get(key); ok && now.Sub(last) < r.Grace {
		return false
	}
	r.cache.Add(key, now)
	return true
}
