package ratelimit

import (
	"testing"
	"time"
)

func TestAllow_WithinBurst(t *testing.T) {
	l := NewLimiter(1.0, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("agent-1") {
			t.Errorf("request %d should be allowed (within burst)", i+1)
		}
	}
}

func TestAllow_ExceedsBurst(t *testing.T) {
	l := NewLimiter(1.0, 2)

	l.Allow("agent-1")
	l.Allow("agent-1")

	if l.Allow("agent-1") {
		t.Error("request after burst exhaustion should be rejected")
	}
}

func TestAllow_RefillAfterWait(t *testing.T) {
	now := time.Now()
	l := NewLimiter(10.0, 2) // 10 tokens/sec
	l.nowFunc = func() time.Time { return now }

	l.Allow("agent-1")
	l.Allow("agent-1")
	if l.Allow("agent-1") {
		t.Error("expected rejection after burst")
	}

	// Advance time by 200ms => 10 * 0.2 = 2 tokens refilled
	now = now.Add(200 * time.Millisecond)

	if !l.Allow("agent-1") {
		t.Error("expected allow after token refill")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	l := NewLimiter(1.0, 1)

	l.Allow("agent-1")
	if l.Allow("agent-1") {
		t.Error("agent-1 should be exhausted")
	}

	if !l.Allow("agent-2") {
		t.Error("agent-2 should be allowed (independent bucket)")
	}
}

func TestAllow_BurstDoesNotExceedMax(t *testing.T) {
	now := time.Now()
	l := NewLimiter(100.0, 3)
	l.nowFunc = func() time.Time { return now }

	l.Allow("agent-1")
	l.Allow("agent-1")
	l.Allow("agent-1")

	// Long wait refills far more than the cap; only burst=3 come back
	now = now.Add(10 * time.Second)

	for i := 0; i < 3; i++ {
		if !l.Allow("agent-1") {
			t.Errorf("request %d should be allowed after refill capped at burst", i+1)
		}
	}
	if l.Allow("agent-1") {
		t.Error("4th request should be rejected (burst cap)")
	}
}

func TestNewFromQuota(t *testing.T) {
	now := time.Now()
	l := NewFromQuota(10, time.Minute)
	l.nowFunc = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		if !l.Allow("agent-1") {
			t.Errorf("request %d should be allowed (quota burst)", i+1)
		}
	}
	if l.Allow("agent-1") {
		t.Error("11th request should be rejected")
	}

	// 6 seconds at 10/min refills one token
	now = now.Add(6 * time.Second)
	if !l.Allow("agent-1") {
		t.Error("expected allow after one token refilled")
	}
}

func TestNewFromQuota_NonPositive(t *testing.T) {
	l := NewFromQuota(0, time.Minute)
	if !l.Allow("agent-1") {
		t.Error("degenerate quota should still allow the initial token")
	}
}

func TestCheck(t *testing.T) {
	l := NewLimiter(0.0, 1)

	if err := l.Check("agent-1"); err != nil {
		t.Errorf("first Check() error = %v, want nil", err)
	}
	if err := l.Check("agent-1"); err == nil {
		t.Error("second Check() should return rate-limit error")
	}
}

func TestCheck_NilLimiter(t *testing.T) {
	var l *Limiter
	if err := l.Check("agent-1"); err != nil {
		t.Errorf("nil limiter Check() error = %v, want nil", err)
	}
}
