package wpool

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSpawnRunsFunction(t *testing.T) {
	p := New(2)

	var wg sync.WaitGroup
	wg.Add(1)

	ok := p.Spawn(context.Background(), func() {
		defer wg.Done()
	})
	if !ok {
		t.Fatalf("expected Spawn to succeed")
	}

	wg.Wait()
}

func TestSpawnBlocksAtCeiling(t *testing.T) {
	p := New(1)

	release := make(chan struct{})
	started := make(chan struct{})

	ok := p.Spawn(context.Background(), func() {
		close(started)
		<-release
	})
	if !ok {
		t.Fatalf("expected first Spawn to succeed")
	}
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if ok := p.Spawn(ctx, func() {}); ok {
		t.Fatalf("expected second Spawn to block until ceiling freed, not succeed immediately")
	}

	close(release)
}

func TestWaitIdle(t *testing.T) {
	p := New(2)

	done := make(chan struct{})
	p.Spawn(context.Background(), func() {
		<-done
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := p.WaitIdle(ctx); err == nil {
		t.Fatalf("expected WaitIdle to time out while a worker is outstanding")
	}

	close(done)

	if err := p.WaitIdle(context.Background()); err != nil {
		t.Fatalf("expected WaitIdle to succeed once worker finished: %v", err)
	}
}
