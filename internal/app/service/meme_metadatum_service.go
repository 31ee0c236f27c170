package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

// MemeMetadatumService manages the one-to-one image metadata of a meme.
// Rows are keyed by meme id.
type MemeMetadatumService struct {
	store *repository.Store
}

func NewMemeMetadatumService(store *repository.Store) *MemeMetadatumService {
	return &MemeMetadatumService{store: store}
}

func (s *MemeMetadatumService) GetAll(ctx context.Context) ([]model.MemeMetadatum, error) {
	return s.store.MemeMetadata.FindAll(ctx)
}

func (s *MemeMetadatumService) GetByMemeID(ctx context.Context, memeID int64) (*model.MemeMetadatum, error) {
	return getOne(ctx, s.store.MemeMetadata, "meme metadata", repository.Eq("meme_id", memeID))
}

func (s *MemeMetadatumService) Create(ctx context.Context, md *model.MemeMetadatum) error {
	if err := validateModel(md, "meme metadata"); err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Memes, "meme", md.MemeID); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.MemeMetadata, "metadata for meme", repository.Eq("meme_id", md.MemeID)); err != nil {
		return err
	}
	s.store.MemeMetadata.Create(md)
	return s.store.Save(ctx)
}

func (s *MemeMetadatumService) Update(ctx context.Context, md *model.MemeMetadatum) error {
	if err := validateModel(md, "meme metadata"); err != nil {
		return err
	}
	if _, err := mustExist(ctx, s.store.MemeMetadata, "meme metadata", repository.Eq("meme_id", md.MemeID)); err != nil {
		return err
	}
	s.store.MemeMetadata.Update(md)
	return s.store.Save(ctx)
}

func (s *MemeMetadatumService) Delete(ctx context.Context, memeID int64) error {
	if err := requireID("meme_id", memeID); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.MemeMetadata, "meme metadata", repository.Eq("meme_id", memeID))
	if err != nil {
		return err
	}
	s.store.MemeMetadata.Delete(existing)
	return s.store.Save(ctx)
}
