package ratelimit

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr      string
		count     int
		period    time.Duration
		expectErr bool
	}{
		{"5/minute", 5, time.Minute, false},
		{"100/hour", 100, time.Hour, false},
		{"1000/day", 1000, 24 * time.Hour, false},
		{"0/minute", 0, 0, true},
		{"5/second", 0, 0, true},
		{"5 per minute", 0, 0, true},
		{"-5/minute", 0, 0, true},
		{"", 0, 0, true},
		{" 5/minute", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			rule, err := Parse(tt.expr)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %+v", tt.expr, rule)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}
			if rule.Count != tt.count || rule.Period != tt.period {
				t.Errorf("Parse(%q) = %+v, expected %d per %v", tt.expr, rule, tt.count, tt.period)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	rule, err := Parse("5/minute")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rule.String() != "5 per 1 minute" {
		t.Errorf("unexpected String() %q", rule.String())
	}
	if rule.Burst() != 5 {
		t.Errorf("expected burst 5, got %d", rule.Burst())
	}
}

func TestLimiterAllow(t *testing.T) {
	rule, _ := Parse("3/minute")
	limiter := NewLimiter(rule)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if ok, _ := limiter.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retry := limiter.Allow("10.0.0.1")
	if ok {
		t.Fatal("fourth request should be throttled")
	}
	if retry <= 0 || retry > 20*time.Second {
		t.Fatalf("expected retry within one token interval, got %v", retry)
	}

	if ok, _ := limiter.Allow("10.0.0.2"); !ok {
		t.Fatal("other addresses must not share a bucket")
	}

	now = now.Add(20 * time.Second)
	if ok, _ := limiter.Allow("10.0.0.1"); !ok {
		t.Fatal("expected one token to refill after 20s")
	}
}

func TestLimiterEvictsIdleVisitors(t *testing.T) {
	rule, _ := Parse("5/minute")
	limiter := NewLimiter(rule)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	limiter.Allow("b")
	if limiter.Len() != 2 {
		t.Fatalf("expected 2 visitors, got %d", limiter.Len())
	}

	now = now.Add(2 * time.Minute)
	limiter.Allow("c")
	if limiter.Len() != 1 {
		t.Fatalf("expected idle visitors to be evicted, got %d", limiter.Len())
	}
}
