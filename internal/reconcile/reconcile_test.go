package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/cache"
	"mooncookies-cli/internal/model"
)

type fakeAPI struct {
	createResult model.Cookie
	updateResult model.Cookie
	err          error

	createCalls int
	updateCalls int
	deleteCalls int
	lastID      string
	lastPayload api.Payload
}

func (f *fakeAPI) CreateCookie(_ context.Context, p api.Payload) (model.Cookie, error) {
	f.createCalls++
	f.lastPayload = p
	return f.createResult, f.err
}

func (f *fakeAPI) UpdateCookie(_ context.Context, id string, p api.Payload) (model.Cookie, error) {
	f.updateCalls++
	f.lastID = id
	f.lastPayload = p
	return f.updateResult, f.err
}

func (f *fakeAPI) DeleteCookie(_ context.Context, id string) error {
	f.deleteCalls++
	f.lastID = id
	return f.err
}

type recordedEvent struct {
	eventType string
	entityID  string
}

type fakeRecorder struct {
	events []recordedEvent
}

func (f *fakeRecorder) Record(eventType, entityID string, _ any) {
	f.events = append(f.events, recordedEvent{eventType: eventType, entityID: entityID})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func astronaut(id string) *model.User {
	return &model.User{ID: id, Name: "Cmdr", Role: model.RoleAstronaut}
}

func customer(id string) *model.User {
	return &model.User{ID: id, Name: "Visitor", Role: model.RoleCustomer}
}

func seeded(cookies ...model.Cookie) *cache.Cache {
	c := cache.New(discardLogger())
	for i := len(cookies) - 1; i >= 0; i-- {
		c.InsertFront(cookies[i])
	}
	return c
}

func TestSubmitCreate_DeniedForCustomer(t *testing.T) {
	a := &fakeAPI{}
	c := seeded()
	r := New(a, c, nil, discardLogger())

	_, err := r.SubmitCreate(context.Background(), customer("u1"), api.Payload{Name: "x"})
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
	if a.createCalls != 0 {
		t.Fatalf("denied create must not reach the network")
	}
	if c.Len() != 0 {
		t.Fatalf("denied create must not touch the cache")
	}
}

func TestSubmitCreate_InsertsServerEntityAtFront(t *testing.T) {
	created := model.Cookie{ID: "server-id", Name: "Lunar Crunch", OwnerID: "u1"}
	a := &fakeAPI{createResult: created}
	c := seeded(model.Cookie{ID: "old", Name: "Old"})
	rec := &fakeRecorder{}
	r := New(a, c, rec, discardLogger())

	got, err := r.SubmitCreate(context.Background(), astronaut("u1"), api.Payload{Name: "Lunar Crunch"})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "server-id" {
		t.Fatalf("returned entity = %+v, want server-assigned id", got)
	}
	entries := c.Entries()
	if len(entries) != 2 || entries[0].ID != "server-id" {
		t.Fatalf("cache after create = %v", entries)
	}
	if len(rec.events) != 1 || rec.events[0].eventType != "cookie.create" || rec.events[0].entityID != "server-id" {
		t.Fatalf("recorded events = %v", rec.events)
	}
}

func TestSubmitCreate_FailureLeavesCacheUntouched(t *testing.T) {
	a := &fakeAPI{err: errors.New("500")}
	c := seeded(model.Cookie{ID: "old", Name: "Old"})
	rec := &fakeRecorder{}
	r := New(a, c, rec, discardLogger())

	_, err := r.SubmitCreate(context.Background(), astronaut("u1"), api.Payload{Name: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := c.Entries(); len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("cache after failed create = %v", got)
	}
	if len(rec.events) != 0 {
		t.Fatalf("failed mutation must not be recorded")
	}
}

func TestSubmitUpdate_NotFound(t *testing.T) {
	r := New(&fakeAPI{}, seeded(), nil, discardLogger())
	_, err := r.SubmitUpdate(context.Background(), astronaut("u1"), "ghost", api.Payload{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitUpdate_DeniedForNonOwner(t *testing.T) {
	a := &fakeAPI{}
	c := seeded(model.Cookie{ID: "c1", OwnerID: "someone-else"})
	r := New(a, c, nil, discardLogger())

	_, err := r.SubmitUpdate(context.Background(), astronaut("u1"), "c1", api.Payload{})
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
	if a.updateCalls != 0 {
		t.Fatalf("denied update must not reach the network")
	}
}

func TestSubmitUpdate_ReplacesInPlace(t *testing.T) {
	updated := model.Cookie{ID: "c2", Name: "Renamed", OwnerID: "u1"}
	a := &fakeAPI{updateResult: updated}
	c := seeded(
		model.Cookie{ID: "c1", Name: "First", OwnerID: "u1"},
		model.Cookie{ID: "c2", Name: "Second", OwnerID: "u1"},
		model.Cookie{ID: "c3", Name: "Third", OwnerID: "u1"},
	)
	rec := &fakeRecorder{}
	r := New(a, c, rec, discardLogger())

	got, err := r.SubmitUpdate(context.Background(), astronaut("u1"), "c2", api.Payload{Name: "Renamed"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("returned entity = %+v", got)
	}
	entries := c.Entries()
	if entries[1].Name != "Renamed" || entries[0].ID != "c1" || entries[2].ID != "c3" {
		t.Fatalf("cache after update = %v", entries)
	}
	if a.lastID != "c2" {
		t.Fatalf("update sent for id %q", a.lastID)
	}
	if len(rec.events) != 1 || rec.events[0].eventType != "cookie.update" {
		t.Fatalf("recorded events = %v", rec.events)
	}
}

func TestSubmitUpdate_FailureLeavesCacheUntouched(t *testing.T) {
	a := &fakeAPI{err: errors.New("500")}
	c := seeded(model.Cookie{ID: "c1", Name: "Original", OwnerID: "u1"})
	r := New(a, c, nil, discardLogger())

	_, err := r.SubmitUpdate(context.Background(), astronaut("u1"), "c1", api.Payload{Name: "Renamed"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got, _ := c.Find("c1"); got.Name != "Original" {
		t.Fatalf("cache changed after failed update: %+v", got)
	}
}

func TestSubmitDelete_DeclinedIsCleanNoOp(t *testing.T) {
	a := &fakeAPI{}
	c := seeded(model.Cookie{ID: "c1", OwnerID: "u1"})
	rec := &fakeRecorder{}
	r := New(a, c, rec, discardLogger())

	var askedFor model.Cookie
	deleted, err := r.SubmitDelete(context.Background(), astronaut("u1"), "c1", func(c model.Cookie) bool {
		askedFor = c
		return false
	})
	if err != nil || deleted {
		t.Fatalf("declined delete = (%v, %v), want (false, nil)", deleted, err)
	}
	if askedFor.ID != "c1" {
		t.Fatalf("confirmation saw %+v", askedFor)
	}
	if a.deleteCalls != 0 {
		t.Fatalf("declined delete must not reach the network")
	}
	if c.Len() != 1 {
		t.Fatalf("declined delete must not touch the cache")
	}
	if len(rec.events) != 0 {
		t.Fatalf("declined delete must not be recorded")
	}
}

func TestSubmitDelete_ConfirmedRemovesEntry(t *testing.T) {
	a := &fakeAPI{}
	c := seeded(model.Cookie{ID: "c1", OwnerID: "u1"}, model.Cookie{ID: "c2", OwnerID: "u1"})
	rec := &fakeRecorder{}
	r := New(a, c, rec, discardLogger())

	deleted, err := r.SubmitDelete(context.Background(), astronaut("u1"), "c1", func(model.Cookie) bool { return true })
	if err != nil || !deleted {
		t.Fatalf("confirmed delete = (%v, %v)", deleted, err)
	}
	if _, ok := c.Find("c1"); ok {
		t.Fatalf("entry still present after delete")
	}
	if len(rec.events) != 1 || rec.events[0].eventType != "cookie.delete" {
		t.Fatalf("recorded events = %v", rec.events)
	}
}

func TestSubmitDelete_FailureLeavesCacheUntouched(t *testing.T) {
	a := &fakeAPI{err: errors.New("500")}
	c := seeded(model.Cookie{ID: "c1", OwnerID: "u1"})
	r := New(a, c, nil, discardLogger())

	deleted, err := r.SubmitDelete(context.Background(), astronaut("u1"), "c1", func(model.Cookie) bool { return true })
	if err == nil || deleted {
		t.Fatalf("failed delete = (%v, %v), want error", deleted, err)
	}
	if c.Len() != 1 {
		t.Fatalf("cache changed after failed delete")
	}
}

func TestSubmitDelete_DeniedForNonOwner(t *testing.T) {
	a := &fakeAPI{}
	c := seeded(model.Cookie{ID: "c1", OwnerID: "someone-else"})
	r := New(a, c, nil, discardLogger())

	confirmed := false
	_, err := r.SubmitDelete(context.Background(), customer("u1"), "c1", func(model.Cookie) bool {
		confirmed = true
		return true
	})
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
	if confirmed {
		t.Fatalf("policy gate must run before the confirmation prompt")
	}
}
