package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type CollectionMemeService struct {
	store *repository.Store
}

func NewCollectionMemeService(store *repository.Store) *CollectionMemeService {
	return &CollectionMemeService{store: store}
}

func (s *CollectionMemeService) GetAll(ctx context.Context) ([]model.CollectionMeme, error) {
	return s.store.CollectionMemes.FindAll(ctx)
}

func (s *CollectionMemeService) GetByID(ctx context.Context, id int64) (*model.CollectionMeme, error) {
	return getOne(ctx, s.store.CollectionMemes, "collection meme", repository.Eq("id", id))
}

func (s *CollectionMemeService) GetByCollectionID(ctx context.Context, collectionID int64) ([]model.CollectionMeme, error) {
	if err := requireID("collection_id", collectionID); err != nil {
		return nil, err
	}
	return s.store.CollectionMemes.FindByCondition(ctx, repository.Eq("collection_id", collectionID))
}

func (s *CollectionMemeService) GetMemeIDsInCollection(ctx context.Context, collectionID int64) ([]int64, error) {
	items, err := s.GetByCollectionID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MemeID)
	}
	return ids, nil
}

func (s *CollectionMemeService) Exists(ctx context.Context, collectionID, memeID int64) (bool, error) {
	if err := requireID("collection_id", collectionID); err != nil {
		return false, err
	}
	if err := requireID("meme_id", memeID); err != nil {
		return false, err
	}
	return exists(ctx, s.store.CollectionMemes,
		repository.Eq("collection_id", collectionID), repository.Eq("meme_id", memeID))
}

func (s *CollectionMemeService) Create(ctx context.Context, cm *model.CollectionMeme) error {
	if err := validateModel(cm, "collection meme"); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, cm); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.CollectionMemes, "meme in collection",
		repository.Eq("collection_id", cm.CollectionID), repository.Eq("meme_id", cm.MemeID)); err != nil {
		return err
	}
	if cm.AddedAt.IsZero() {
		cm.AddedAt = now()
	}
	s.store.CollectionMemes.Create(cm)
	return s.store.Save(ctx)
}

func (s *CollectionMemeService) Update(ctx context.Context, cm *model.CollectionMeme) error {
	if err := validateModel(cm, "collection meme"); err != nil {
		return err
	}
	if err := requireID("id", cm.ID); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.CollectionMemes, "collection meme", repository.Eq("id", cm.ID))
	if err != nil {
		return err
	}
	if err := s.checkRefs(ctx, cm); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.CollectionMemes, "meme in collection",
		repository.Eq("collection_id", cm.CollectionID), repository.Eq("meme_id", cm.MemeID), repository.Ne("id", cm.ID)); err != nil {
		return err
	}
	cm.AddedAt = existing.AddedAt
	s.store.CollectionMemes.Update(cm)
	return s.store.Save(ctx)
}

func (s *CollectionMemeService) AddMemeToCollection(ctx context.Context, collectionID, memeID int64) (*model.CollectionMeme, error) {
	cm := &model.CollectionMeme{CollectionID: collectionID, MemeID: memeID}
	if err := s.Create(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *CollectionMemeService) RemoveMemeFromCollection(ctx context.Context, collectionID, memeID int64) error {
	if err := requireID("collection_id", collectionID); err != nil {
		return err
	}
	if err := requireID("meme_id", memeID); err != nil {
		return err
	}
	cm, err := getOne(ctx, s.store.CollectionMemes, "meme in collection",
		repository.Eq("collection_id", collectionID), repository.Eq("meme_id", memeID))
	if err != nil {
		return err
	}
	s.store.CollectionMemes.Delete(cm)
	return s.store.Save(ctx)
}

func (s *CollectionMemeService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.CollectionMemes, "collection meme", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.CollectionMemes.Delete(existing)
	return s.store.Save(ctx)
}

func (s *CollectionMemeService) checkRefs(ctx context.Context, cm *model.CollectionMeme) error {
	if err := requireRef(ctx, s.store.Collections, "collection", cm.CollectionID); err != nil {
		return err
	}
	return requireRef(ctx, s.store.Memes, "meme", cm.MemeID)
}
