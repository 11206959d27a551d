package httpmiddleware

import (
	"testing"
	"time"
)

func TestAllowWithinCapacity(t *testing.T) {
	l := NewSimpleTokenBucket(3, 60)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !l.allow("ip", now) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.allow("ip", now) {
		t.Fatal("request beyond capacity should be blocked")
	}
}

func TestAllowRefills(t *testing.T) {
	l := NewSimpleTokenBucket(1, 60)
	now := time.Now()
	if !l.allow("ip", now) {
		t.Fatal("first request should pass")
	}
	if l.allow("ip", now) {
		t.Fatal("second immediate request should be blocked")
	}
	// One token refills per second at 60/min.
	if !l.allow("ip", now.Add(2*time.Second)) {
		t.Fatal("request after refill window should pass")
	}
}

func TestAllowPerKey(t *testing.T) {
	l := NewSimpleTokenBucket(1, 60)
	now := time.Now()
	if !l.allow("a", now) || !l.allow("b", now) {
		t.Fatal("separate keys have separate buckets")
	}
}
