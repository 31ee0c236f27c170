package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type fixture struct {
	db    *repository.MemoryDB
	store *repository.Store
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repository.NewMemoryDB()
	store := db.Store()
	return &fixture{db: db, store: store, svc: NewServices(store)}
}

// fresh returns services over a new Store on the same database, as a new
// request would see it.
func (f *fixture) fresh() *Services {
	f.store = f.db.Store()
	f.svc = NewServices(f.store)
	return f.svc
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@x.com", PasswordHash: "h"}
	require.NoError(t, f.svc.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) meme(t *testing.T, userID int64) *model.Meme {
	t.Helper()
	m := &model.Meme{UserID: userID, Title: "t", ImageURL: "u"}
	require.NoError(t, f.svc.Memes.Create(context.Background(), m))
	return m
}

func (f *fixture) tag(t *testing.T, name string) *model.Tag {
	t.Helper()
	tg := &model.Tag{TagName: name}
	require.NoError(t, f.svc.Tags.Create(context.Background(), tg))
	return tg
}

func (f *fixture) role(t *testing.T, name string) *model.Role {
	t.Helper()
	r := &model.Role{RoleName: name}
	require.NoError(t, f.svc.Roles.Create(context.Background(), r))
	return r
}

func (f *fixture) collection(t *testing.T, userID int64, name string) *model.Collection {
	t.Helper()
	c := &model.Collection{UserID: userID, Name: name}
	require.NoError(t, f.svc.Collections.Create(context.Background(), c))
	return c
}

// countingGateway records calls before delegating, so tests can assert
// that validation happened without any storage access.
type countingGateway[T any] struct {
	repository.Gateway[T]
	reads  int
	writes int
}

func (g *countingGateway[T]) FindAll(ctx context.Context) ([]T, error) {
	g.reads++
	return g.Gateway.FindAll(ctx)
}

func (g *countingGateway[T]) FindByCondition(ctx context.Context, conds ...repository.Condition) ([]T, error) {
	g.reads++
	return g.Gateway.FindByCondition(ctx, conds...)
}

func (g *countingGateway[T]) Create(e *T) { g.writes++; g.Gateway.Create(e) }
func (g *countingGateway[T]) Update(e *T) { g.writes++; g.Gateway.Update(e) }
func (g *countingGateway[T]) Delete(e *T) { g.writes++; g.Gateway.Delete(e) }

// duplicateGateway answers every lookup with the same rows, simulating a
// broken key.
type duplicateGateway[T any] struct {
	repository.Gateway[T]
	rows []T
}

func (g *duplicateGateway[T]) FindAll(context.Context) ([]T, error) { return g.rows, nil }

func (g *duplicateGateway[T]) FindByCondition(context.Context, ...repository.Condition) ([]T, error) {
	return g.rows, nil
}
