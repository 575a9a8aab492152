// Package ratelimit parses rate-limit expressions such as "5/minute" and
// throttles callers per key.
package ratelimit

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Expression matches "<count>/<unit>".
var Expression = regexp.MustCompile(`^(\d+)/(minute|hour|day)$`)

var units = map[string]time.Duration{
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// Rule allows Count events per Period.
type Rule struct {
	Count  int
	Period time.Duration
	unit   string
}

// Parse reads a "<count>/(minute|hour|day)" expression.
func Parse(expr string) (Rule, error) {
	match := Expression.FindStringSubmatch(expr)
	if match == nil {
		return Rule{}, fmt.Errorf("rate limit must be in the format 'number/time_unit' (e.g., '5/minute', '100/hour'), got %q", expr)
	}
	count, err := strconv.Atoi(match[1])
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rate limit count %q: %w", match[1], err)
	}
	if count <= 0 {
		return Rule{}, fmt.Errorf("rate limit count must be positive, got %d", count)
	}
	return Rule{Count: count, Period: units[match[2]], unit: match[2]}, nil
}

// Limit is the sustained event rate of the rule.
func (r Rule) Limit() rate.Limit {
	return rate.Every(r.Period / time.Duration(r.Count))
}

// Burst lets a fresh caller use the whole allowance at once.
func (r Rule) Burst() int {
	return r.Count
}

func (r Rule) String() string {
	return fmt.Sprintf("%d per 1 %s", r.Count, r.unit)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one token bucket per key. Buckets idle for longer than the
// rule's period are evicted, since a refilled bucket is the same as a new one.
type Limiter struct {
	rule     Rule
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
	lastGC   time.Time
}

// NewLimiter creates a Limiter enforcing rule.
func NewLimiter(rule Rule) *Limiter {
	return &Limiter{
		rule:     rule,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Rule returns the enforced rule.
func (l *Limiter) Rule() Rule {
	return l.rule
}

// Allow reports whether key may proceed now. When it may not, the returned
// duration is how long until the next event would be allowed.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictLocked(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rule.Limit(), l.rule.Burst())}
		l.visitors[key] = v
	}
	v.lastSeen = now

	reservation := v.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, l.rule.Period
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *Limiter) evictLocked(now time.Time) {
	if now.Sub(l.lastGC) < l.rule.Period {
		return
	}
	l.lastGC = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.rule.Period {
			delete(l.visitors, key)
		}
	}
}
