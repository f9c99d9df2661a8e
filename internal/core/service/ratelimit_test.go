package service

import "testing"

func TestRequesterLimiter_Disabled(t *testing.T) {
	var nilLimiter *RequesterLimiter
	if ok, _ := nilLimiter.Allow("anyone"); !ok {
		t.Error("nil limiter should allow")
	}

	l := NewRequesterLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if ok, _ := l.Allow("u"); !ok {
			t.Fatal("zero-rate limiter should allow")
		}
	}
	if l.Enabled() {
		t.Error("Enabled() = true for zero rate")
	}
}

func TestRequesterLimiter_PerRequesterBurst(t *testing.T) {
	l := NewRequesterLimiter(0.001, 2)

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow("alice"); !ok {
			t.Fatalf("request %d within burst was rejected", i+1)
		}
	}

	ok, retry := l.Allow("alice")
	if ok {
		t.Fatal("request beyond burst should be rejected")
	}
	if retry <= 0 {
		t.Errorf("retry-after = %v, want > 0", retry)
	}

	if ok, _ := l.Allow("bob"); !ok {
		t.Error("another requester should have its own bucket")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}
