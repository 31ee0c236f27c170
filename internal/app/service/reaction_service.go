package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type ReactionService struct {
	store *repository.Store
}

func NewReactionService(store *repository.Store) *ReactionService {
	return &ReactionService{store: store}
}

func (s *ReactionService) GetAll(ctx context.Context) ([]model.Reaction, error) {
	return s.store.Reactions.FindAll(ctx)
}

func (s *ReactionService) GetByID(ctx context.Context, id int64) (*model.Reaction, error) {
	return getOne(ctx, s.store.Reactions, "reaction", repository.Eq("id", id))
}

func (s *ReactionService) GetByMemeID(ctx context.Context, memeID int64) ([]model.Reaction, error) {
	if err := requireID("meme_id", memeID); err != nil {
		return nil, err
	}
	return s.store.Reactions.FindByCondition(ctx, repository.Eq("meme_id", memeID))
}

func (s *ReactionService) GetByMemeAndUser(ctx context.Context, memeID, userID int64) (*model.Reaction, error) {
	if err := requireID("meme_id", memeID); err != nil {
		return nil, err
	}
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return getOne(ctx, s.store.Reactions, "reaction", repository.Eq("meme_id", memeID), repository.Eq("user_id", userID))
}

// GetReactionCounts tallies the reactions on a meme by type.
func (s *ReactionService) GetReactionCounts(ctx context.Context, memeID int64) (map[string]int, error) {
	reactions, err := s.GetByMemeID(ctx, memeID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range reactions {
		counts[r.ReactionType]++
	}
	return counts, nil
}

func (s *ReactionService) Create(ctx context.Context, r *model.Reaction) error {
	if err := validateModel(r, "reaction"); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, r); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.Reactions, "reaction by user on meme",
		repository.Eq("meme_id", r.MemeID), repository.Eq("user_id", r.UserID)); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now()
	}
	s.store.Reactions.Create(r)
	return s.store.Save(ctx)
}

func (s *ReactionService) Update(ctx context.Context, r *model.Reaction) error {
	if err := validateModel(r, "reaction"); err != nil {
		return err
	}
	if err := requireID("id", r.ID); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Reactions, "reaction", repository.Eq("id", r.ID))
	if err != nil {
		return err
	}
	if err := s.checkRefs(ctx, r); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.Reactions, "reaction by user on meme",
		repository.Eq("meme_id", r.MemeID), repository.Eq("user_id", r.UserID), repository.Ne("id", r.ID)); err != nil {
		return err
	}
	r.CreatedAt = existing.CreatedAt
	s.store.Reactions.Update(r)
	return s.store.Save(ctx)
}

// UpdateReaction changes the type of an existing reaction in place.
func (s *ReactionService) UpdateReaction(ctx context.Context, memeID, userID int64, reactionType string) (*model.Reaction, error) {
	if err := requireText("reaction_type", reactionType); err != nil {
		return nil, err
	}
	r, err := s.GetByMemeAndUser(ctx, memeID, userID)
	if err != nil {
		return nil, err
	}
	r.ReactionType = reactionType
	s.store.Reactions.Update(r)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReactionService) RemoveReaction(ctx context.Context, memeID, userID int64) error {
	r, err := s.GetByMemeAndUser(ctx, memeID, userID)
	if err != nil {
		return err
	}
	s.store.Reactions.Delete(r)
	return s.store.Save(ctx)
}

func (s *ReactionService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Reactions, "reaction", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.Reactions.Delete(existing)
	return s.store.Save(ctx)
}

func (s *ReactionService) checkRefs(ctx context.Context, r *model.Reaction) error {
	if err := requireRef(ctx, s.store.Memes, "meme", r.MemeID); err != nil {
		return err
	}
	return requireRef(ctx, s.store.Users, "user", r.UserID)
}
