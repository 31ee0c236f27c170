package service

import (
	"context"
	"fmt"
	"sort"

	"memeshare/internal/common"
	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type UploadStatService struct {
	store *repository.Store
}

func NewUploadStatService(store *repository.Store) *UploadStatService {
	return &UploadStatService{store: store}
}

func (s *UploadStatService) GetAll(ctx context.Context) ([]model.UploadStat, error) {
	return s.store.UploadStats.FindAll(ctx)
}

func (s *UploadStatService) GetByID(ctx context.Context, id int64) (*model.UploadStat, error) {
	return getOne(ctx, s.store.UploadStats, "upload stat", repository.Eq("id", id))
}

func (s *UploadStatService) GetByMemeID(ctx context.Context, memeID int64) (*model.UploadStat, error) {
	if err := requireID("meme_id", memeID); err != nil {
		return nil, err
	}
	return getOne(ctx, s.store.UploadStats, "upload stat", repository.Eq("meme_id", memeID))
}

// Create stores the stats row of a meme; unset counters start at zero.
func (s *UploadStatService) Create(ctx context.Context, st *model.UploadStat) error {
	if err := validateModel(st, "upload stat"); err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Memes, "meme", st.MemeID); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.UploadStats, "upload stat for meme", repository.Eq("meme_id", st.MemeID)); err != nil {
		return err
	}
	if st.Views == nil {
		st.Views = intPtr(0)
	}
	if st.Downloads == nil {
		st.Downloads = intPtr(0)
	}
	if st.Shares == nil {
		st.Shares = intPtr(0)
	}
	s.store.UploadStats.Create(st)
	return s.store.Save(ctx)
}

func (s *UploadStatService) Update(ctx context.Context, st *model.UploadStat) error {
	if err := validateModel(st, "upload stat"); err != nil {
		return err
	}
	if err := requireID("id", st.ID); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.UploadStats, "upload stat", repository.Eq("id", st.ID))
	if err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Memes, "meme", st.MemeID); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.UploadStats, "upload stat for meme",
		repository.Eq("meme_id", st.MemeID), repository.Ne("id", st.ID)); err != nil {
		return err
	}
	if st.Views == nil {
		st.Views = existing.Views
	}
	if st.Downloads == nil {
		st.Downloads = existing.Downloads
	}
	if st.Shares == nil {
		st.Shares = existing.Shares
	}
	s.store.UploadStats.Update(st)
	return s.store.Save(ctx)
}

func (s *UploadStatService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.UploadStats, "upload stat", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.UploadStats.Delete(existing)
	return s.store.Save(ctx)
}

func (s *UploadStatService) IncrementViews(ctx context.Context, memeID int64) (*model.UploadStat, error) {
	return s.Increment(ctx, memeID, model.StatViews)
}

func (s *UploadStatService) IncrementDownloads(ctx context.Context, memeID int64) (*model.UploadStat, error) {
	return s.Increment(ctx, memeID, model.StatDownloads)
}

func (s *UploadStatService) IncrementShares(ctx context.Context, memeID int64) (*model.UploadStat, error) {
	return s.Increment(ctx, memeID, model.StatShares)
}

// Increment adds one to the kind counter of the meme's stats row.
func (s *UploadStatService) Increment(ctx context.Context, memeID int64, kind model.StatKind) (*model.UploadStat, error) {
	if err := requireID("meme_id", memeID); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, common.InvalidField("kind", fmt.Sprintf("unknown stat kind %q", kind))
	}
	st, err := getOne(ctx, s.store.UploadStats, "upload stat", repository.Eq("meme_id", memeID))
	if err != nil {
		return nil, err
	}
	var counter **int
	switch kind {
	case model.StatViews:
		counter = &st.Views
	case model.StatDownloads:
		counter = &st.Downloads
	case model.StatShares:
		counter = &st.Shares
	}
	next := 1
	if *counter != nil {
		next = **counter + 1
	}
	*counter = &next
	s.store.UploadStats.Update(st)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// GetTopViewed returns up to n stats rows ordered by views, highest first.
func (s *UploadStatService) GetTopViewed(ctx context.Context, n int) ([]model.UploadStat, error) {
	if err := validateVar("n", n, "gt=0"); err != nil {
		return nil, err
	}
	stats, err := s.store.UploadStats.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := func(st model.UploadStat) int {
		if st.Views == nil {
			return 0
		}
		return *st.Views
	}
	sort.SliceStable(stats, func(i, j int) bool { return views(stats[i]) > views(stats[j]) })
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats, nil
}
