package repository

import (
	"context"

	"memeshare/internal/domain/model"
)

// Gateway is the generic data-access primitive for one entity type.
// Create, Update and Delete only stage a change; it becomes durable on Store.Save.
type Gateway[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByCondition(ctx context.Context, conds ...Condition) ([]T, error)
	Create(entity *T)
	Update(entity *T)
	Delete(entity *T)
}

type unitOfWork interface {
	Commit(ctx context.Context) error
	Pending() int
}

// Store aggregates one gateway per entity for a single unit of work.
type Store struct {
	Users           Gateway[model.User]
	Roles           Gateway[model.Role]
	UserRoles       Gateway[model.UserRole]
	Memes           Gateway[model.Meme]
	Tags            Gateway[model.Tag]
	MemeTags        Gateway[model.MemeTag]
	MemeMetadata    Gateway[model.MemeMetadatum]
	UploadStats     Gateway[model.UploadStat]
	Comments        Gateway[model.Comment]
	Reactions       Gateway[model.Reaction]
	Collections     Gateway[model.Collection]
	CollectionMemes Gateway[model.CollectionMeme]

	uow unitOfWork
}

// Save flushes every staged change atomically. A failed Save returns the
// store's error unmodified and leaves the staged changes in place.
func (s *Store) Save(ctx context.Context) error {
	return s.uow.Commit(ctx)
}

// Pending returns the number of staged changes not yet saved.
func (s *Store) Pending() int {
	return s.uow.Pending()
}

// StoreFactory yields a fresh Store per request or job.
type StoreFactory func() *Store
