package repos

import (
	"context"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type FavorRepo interface {
	// Find returns nil without error when the user has not favored the
	// badge.
	Find(ctx context.Context, userID, badgeID string) (*domain.BadgeFavor, error)
	ByUser(ctx context.Context, userID string, page domain.Page) ([]*domain.BadgeFavor, error)
	BadgeIDsByUser(ctx context.Context, userID string) ([]string, error)
	Create(ctx context.Context, f *domain.BadgeFavor) (*domain.BadgeFavor, error)
	Delete(ctx context.Context, id string) error
}

type favorRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewFavorRepo(store docstore.Store, baseLog *logger.Logger) FavorRepo {
	return &favorRepo{store: store, log: baseLog.With("repo", "FavorRepo")}
}

func (r *favorRepo) Find(ctx context.Context, userID, badgeID string) (*domain.BadgeFavor, error) {
	sel := docstore.Where(
		docstore.Eq("type", domain.TypeBadgeFavor),
		docstore.Eq("userId", userID),
		docstore.Eq("badgeId", badgeID),
	).Limited(1)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeFavor(docs[0])
}

func (r *favorRepo) ByUser(ctx context.Context, userID string, page domain.Page) ([]*domain.BadgeFavor, error) {
	sel := docstore.Where(
		docstore.Eq("type", domain.TypeBadgeFavor),
		docstore.Eq("userId", userID),
	).SortDescBy("time").Page(page.PageNum, page.PageSize)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.BadgeFavor, 0, len(docs))
	for _, doc := range docs {
		f, err := decodeFavor(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *favorRepo) BadgeIDsByUser(ctx context.Context, userID string) ([]string, error) {
	favors, err := r.ByUser(ctx, userID, domain.Page{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favors))
	for _, f := range favors {
		ids = append(ids, f.BadgeID)
	}
	return ids, nil
}

func (r *favorRepo) Create(ctx context.Context, f *domain.BadgeFavor) (*domain.BadgeFavor, error) {
	doc, err := docstore.NewDocument(domain.TypeBadgeFavor, f)
	if err != nil {
		return nil, err
	}
	saved, err := r.store.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := *f
	out.ID = saved.ID
	out.Rev = saved.Rev
	return &out, nil
}

func (r *favorRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, id, apperr.ModelBadge, apperr.CodeBadgeNotExist)
	if apperr.IsNotFound(err) {
		// A row that is already gone is the state the delete wanted.
		return nil
	}
	return err
}

func decodeFavor(doc *docstore.Document) (*domain.BadgeFavor, error) {
	var f domain.BadgeFavor
	if err := doc.Decode(&f); err != nil {
		return nil, err
	}
	f.ID = doc.ID
	f.Rev = doc.Rev
	return &f, nil
}
