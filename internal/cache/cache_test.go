package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/model"
)

type fakeLister struct {
	cookies []model.Cookie
	err     error
	gotQ    api.ListQuery
	calls   int
}

func (f *fakeLister) ListCookies(_ context.Context, q api.ListQuery) ([]model.Cookie, error) {
	f.calls++
	f.gotQ = q
	return f.cookies, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cookie(id, name string) model.Cookie {
	return model.Cookie{ID: id, Name: name}
}

func ids(cs []model.Cookie) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestLoad_ReplacesContentsAndExpandsOwner(t *testing.T) {
	c := New(discardLogger())
	lister := &fakeLister{cookies: []model.Cookie{cookie("b", "Second"), cookie("a", "First")}}

	c.Load(context.Background(), lister)

	if got := ids(c.Entries()); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("entries after load = %v", got)
	}
	if len(lister.gotQ.Include) != 1 || lister.gotQ.Include[0] != "owner" {
		t.Fatalf("expected owner expansion, got include=%v", lister.gotQ.Include)
	}
	if !lister.gotQ.SortDesc {
		t.Fatalf("expected newest-first sort")
	}
}

func TestLoad_FailureKeepsPreviousContents(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("keep", "Keeper"))

	lister := &fakeLister{err: errors.New("boom")}
	c.Load(context.Background(), lister)

	if got := ids(c.Entries()); len(got) != 1 || got[0] != "keep" {
		t.Fatalf("entries after failed load = %v, want previous contents", got)
	}
	if c.Loading() {
		t.Fatalf("loading flag should clear after a failed load")
	}
}

func TestInsertFront_NewestGoesFirst(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("old", "Old"))
	c.InsertFront(cookie("new", "New"))

	if got := ids(c.Entries()); got[0] != "new" || got[1] != "old" {
		t.Fatalf("order = %v, want newest first", got)
	}
}

func TestReplace_PreservesPosition(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("c", "Third"))
	c.InsertFront(cookie("b", "Second"))
	c.InsertFront(cookie("a", "First"))

	c.Replace("b", model.Cookie{ID: "b", Name: "Renamed"})

	entries := c.Entries()
	if got := ids(entries); got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("order after replace = %v", got)
	}
	if entries[1].Name != "Renamed" {
		t.Fatalf("entry not replaced: %+v", entries[1])
	}
}

func TestReplace_UnknownIDIsNoOp(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("a", "First"))

	c.Replace("nope", cookie("nope", "Ghost"))

	if c.Len() != 1 {
		t.Fatalf("len = %d after no-op replace", c.Len())
	}
}

func TestRemove(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("b", "Second"))
	c.InsertFront(cookie("a", "First"))

	c.Remove("a")
	if got := ids(c.Entries()); len(got) != 1 || got[0] != "b" {
		t.Fatalf("entries after remove = %v", got)
	}

	// Unknown id is a no-op.
	c.Remove("nope")
	if c.Len() != 1 {
		t.Fatalf("len = %d after no-op remove", c.Len())
	}
}

func TestFind(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("a", "First"))

	if got, ok := c.Find("a"); !ok || got.Name != "First" {
		t.Fatalf("Find(a) = %+v, %v", got, ok)
	}
	if _, ok := c.Find("missing"); ok {
		t.Fatalf("Find(missing) should report absence")
	}
}

// slowLister parks inside ListCookies until released, holding a Load open
// while other goroutines mutate the cache.
type slowLister struct {
	entered chan struct{}
	release chan struct{}
	cookies []model.Cookie
}

func (f *slowLister) ListCookies(_ context.Context, _ api.ListQuery) ([]model.Cookie, error) {
	close(f.entered)
	<-f.release
	return f.cookies, nil
}

// A reload and a confirmed delete on another entity may run at the same
// time; the run is only meaningful under the race detector.
func TestCache_ConcurrentLoadAndMutate(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("doomed", "Doomed"))
	c.InsertFront(cookie("keep", "Keeper"))

	lister := &slowLister{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		cookies: []model.Cookie{cookie("keep", "Keeper"), cookie("fresh", "Fresh")},
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.Load(context.Background(), lister)
	}()
	go func() {
		defer wg.Done()
		<-lister.entered
		c.Remove("doomed")
		c.InsertFront(cookie("new", "New"))
		_ = c.Entries()
		_ = c.Loading()
		close(lister.release)
	}()
	wg.Wait()

	// Last write wins: the load landed after the mutations.
	if got := ids(c.Entries()); len(got) != 2 || got[0] != "keep" || got[1] != "fresh" {
		t.Fatalf("entries after concurrent load = %v", got)
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := New(discardLogger())
	c.InsertFront(cookie("a", "First"))

	got := c.Entries()
	got[0].Name = "Mutated"

	if fresh, _ := c.Find("a"); fresh.Name != "First" {
		t.Fatalf("cache contents changed through Entries copy")
	}
}
