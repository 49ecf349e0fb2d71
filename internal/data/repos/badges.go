package repos

import (
	"context"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type BadgeRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Badge, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Badge, error)
	GetByUID(ctx context.Context, uid string) (*domain.Badge, error)
}

type badgeRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewBadgeRepo(store docstore.Store, baseLog *logger.Logger) BadgeRepo {
	return &badgeRepo{store: store, log: baseLog.With("repo", "BadgeRepo")}
}

func (r *badgeRepo) GetByID(ctx context.Context, id string) (*domain.Badge, error) {
	doc, err := r.store.FindOne(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeBadge), docstore.Eq("id", id)),
		apperr.ModelBadge, apperr.CodeBadgeNotExist)
	if err != nil {
		return nil, err
	}
	return decodeBadge(doc)
}

func (r *badgeRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Badge, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	docs, err := r.store.Find(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeBadge), docstore.In("id", ids)))
	if err != nil {
		return nil, err
	}
	badges := make([]*domain.Badge, 0, len(docs))
	for _, doc := range docs {
		b, err := decodeBadge(doc)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, nil
}

func (r *badgeRepo) GetByUID(ctx context.Context, uid string) (*domain.Badge, error) {
	doc, err := r.store.FindOne(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeBadge), docstore.Eq("uid", uid)),
		apperr.ModelBadge, apperr.CodeBadgeNotExist)
	if err != nil {
		return nil, err
	}
	return decodeBadge(doc)
}

func decodeBadge(doc *docstore.Document) (*domain.Badge, error) {
	var b domain.Badge
	if err := doc.Decode(&b); err != nil {
		return nil, err
	}
	b.ID = doc.ID
	b.Rev = doc.Rev
	return &b, nil
}
