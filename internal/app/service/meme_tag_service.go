package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type MemeTagService struct {
	store *repository.Store
}

func NewMemeTagService(store *repository.Store) *MemeTagService {
	return &MemeTagService{store: store}
}

func (s *MemeTagService) GetAll(ctx context.Context) ([]model.MemeTag, error) {
	return s.store.MemeTags.FindAll(ctx)
}

func (s *MemeTagService) GetByID(ctx context.Context, id int64) (*model.MemeTag, error) {
	return getOne(ctx, s.store.MemeTags, "meme tag", repository.Eq("id", id))
}

func (s *MemeTagService) GetByMemeID(ctx context.Context, memeID int64) ([]model.MemeTag, error) {
	if err := requireID("meme_id", memeID); err != nil {
		return nil, err
	}
	return s.store.MemeTags.FindByCondition(ctx, repository.Eq("meme_id", memeID))
}

func (s *MemeTagService) GetByTagID(ctx context.Context, tagID int64) ([]model.MemeTag, error) {
	if err := requireID("tag_id", tagID); err != nil {
		return nil, err
	}
	return s.store.MemeTags.FindByCondition(ctx, repository.Eq("tag_id", tagID))
}

func (s *MemeTagService) GetTagIDsForMeme(ctx context.Context, memeID int64) ([]int64, error) {
	links, err := s.GetByMemeID(ctx, memeID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.TagID)
	}
	return ids, nil
}

func (s *MemeTagService) ExistsForMemeAndTag(ctx context.Context, memeID, tagID int64) (bool, error) {
	if err := requireID("meme_id", memeID); err != nil {
		return false, err
	}
	if err := requireID("tag_id", tagID); err != nil {
		return false, err
	}
	return exists(ctx, s.store.MemeTags, repository.Eq("meme_id", memeID), repository.Eq("tag_id", tagID))
}

func (s *MemeTagService) Create(ctx context.Context, mt *model.MemeTag) error {
	if err := validateModel(mt, "meme tag"); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, mt); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.MemeTags, "tag on meme",
		repository.Eq("meme_id", mt.MemeID), repository.Eq("tag_id", mt.TagID)); err != nil {
		return err
	}
	s.store.MemeTags.Create(mt)
	return s.store.Save(ctx)
}

func (s *MemeTagService) Update(ctx context.Context, mt *model.MemeTag) error {
	if err := validateModel(mt, "meme tag"); err != nil {
		return err
	}
	if err := requireID("id", mt.ID); err != nil {
		return err
	}
	if _, err := mustExist(ctx, s.store.MemeTags, "meme tag", repository.Eq("id", mt.ID)); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, mt); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.MemeTags, "tag on meme",
		repository.Eq("meme_id", mt.MemeID), repository.Eq("tag_id", mt.TagID), repository.Ne("id", mt.ID)); err != nil {
		return err
	}
	s.store.MemeTags.Update(mt)
	return s.store.Save(ctx)
}

func (s *MemeTagService) AddTagToMeme(ctx context.Context, memeID, tagID int64) (*model.MemeTag, error) {
	mt := &model.MemeTag{MemeID: memeID, TagID: tagID}
	if err := s.Create(ctx, mt); err != nil {
		return nil, err
	}
	return mt, nil
}

func (s *MemeTagService) RemoveTagFromMeme(ctx context.Context, memeID, tagID int64) error {
	if err := requireID("meme_id", memeID); err != nil {
		return err
	}
	if err := requireID("tag_id", tagID); err != nil {
		return err
	}
	mt, err := getOne(ctx, s.store.MemeTags, "tag on meme", repository.Eq("meme_id", memeID), repository.Eq("tag_id", tagID))
	if err != nil {
		return err
	}
	s.store.MemeTags.Delete(mt)
	return s.store.Save(ctx)
}

func (s *MemeTagService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.MemeTags, "meme tag", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.MemeTags.Delete(existing)
	return s.store.Save(ctx)
}

func (s *MemeTagService) checkRefs(ctx context.Context, mt *model.MemeTag) error {
	if err := requireRef(ctx, s.store.Memes, "meme", mt.MemeID); err != nil {
		return err
	}
	return requireRef(ctx, s.store.Tags, "tag", mt.TagID)
}
