package youtube

import (
	"context"
	"testing"
)

func TestNewKeyRotator_RequiresKeys(t *testing.T) {
	if _, err := NewKeyRotator(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty key set")
	}
	if _, err := NewKeyRotator(context.Background(), []string{}); err == nil {
		t.Fatalf("expected error for empty key set")
	}
}

func TestKeyRotator_WrapsAround(t *testing.T) {
	r, err := NewKeyRotator(context.Background(), []string{"key-a", "key-b", "key-c"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	first := r.Current()
	if r.Rotate() == first {
		t.Fatalf("rotation did not advance past the first credential")
	}
	for i := 0; i < r.Len()-1; i++ {
		r.Rotate()
	}
	if r.Current() != first {
		t.Fatalf("rotator did not return to the first credential after %d rotations", r.Len())
	}
}

func TestWatchURL(t *testing.T) {
	got := WatchURL("dQw4w9WgXcQ")
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
