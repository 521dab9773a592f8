// Package reconcile translates confirmed user mutations into network calls
// and matching resource cache updates.
//
// The flow is confirmation-first, not optimistic: the cache changes only
// after the server acknowledges, so a failed call needs no rollback. No
// automatic retries anywhere; recovery is user-initiated.
package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/cache"
	"mooncookies-cli/internal/model"
	"mooncookies-cli/internal/policy"
)

var (
	// ErrNotAllowed means the policy gate denied the mutation. The remote
	// API remains the authority; this only mirrors what the UI offers.
	ErrNotAllowed = errors.New("reconcile: not allowed")
	ErrNotFound   = errors.New("reconcile: no such cookie")
)

// API is the slice of the resource client the reconciler drives.
type API interface {
	CreateCookie(ctx context.Context, p api.Payload) (model.Cookie, error)
	UpdateCookie(ctx context.Context, id string, p api.Payload) (model.Cookie, error)
	DeleteCookie(ctx context.Context, id string) error
}

// Recorder receives an audit event after each confirmed mutation.
type Recorder interface {
	Record(eventType, entityID string, payload any)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, string, any) {}

type Reconciler struct {
	api   API
	cache *cache.Cache
	rec   Recorder
	log   *slog.Logger
}

func New(a API, c *cache.Cache, rec Recorder, log *slog.Logger) *Reconciler {
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{api: a, cache: c, rec: rec, log: log}
}

// SubmitCreate sends the payload and, on success, inserts the returned
// entity (server-assigned id/createdAt) at the front of the cache. On
// failure the cache is untouched and the caller keeps the draft for retry.
func (r *Reconciler) SubmitCreate(ctx context.Context, u *model.User, p api.Payload) (model.Cookie, error) {
	if !policy.CanCreate(u) {
		return model.Cookie{}, ErrNotAllowed
	}
	created, err := r.api.CreateCookie(ctx, p)
	if err != nil {
		return model.Cookie{}, err
	}
	r.cache.InsertFront(created)
	r.rec.Record("cookie.create", created.ID, created)
	return created, nil
}

// SubmitUpdate sends the payload and, on success, replaces the cache entry
// in place. Same recovery behavior as create: failure changes nothing.
func (r *Reconciler) SubmitUpdate(ctx context.Context, u *model.User, id string, p api.Payload) (model.Cookie, error) {
	existing, ok := r.cache.Find(id)
	if !ok {
		return model.Cookie{}, ErrNotFound
	}
	if !policy.CanMutate(u, existing) {
		return model.Cookie{}, ErrNotAllowed
	}
	updated, err := r.api.UpdateCookie(ctx, id, p)
	if err != nil {
		return model.Cookie{}, err
	}
	r.cache.Replace(id, updated)
	r.rec.Record("cookie.update", id, updated)
	return updated, nil
}

// SubmitDelete gates the destructive call behind an explicit confirmation.
// A declined confirmation is a clean no-op (false, nil) and leaves the
// cache untouched. On confirmed success the entry is removed immediately.
func (r *Reconciler) SubmitDelete(ctx context.Context, u *model.User, id string, confirm func(model.Cookie) bool) (bool, error) {
	existing, ok := r.cache.Find(id)
	if !ok {
		return false, ErrNotFound
	}
	if !policy.CanMutate(u, existing) {
		return false, ErrNotAllowed
	}
	if confirm == nil || !confirm(existing) {
		return false, nil
	}
	if err := r.api.DeleteCookie(ctx, id); err != nil {
		return false, err
	}
	r.cache.Remove(id)
	r.rec.Record("cookie.delete", id, nil)
	return true, nil
}
