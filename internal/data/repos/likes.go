package repos

import (
	"context"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type LikeRepo interface {
	// Find returns nil without error when the user has not liked the
	// assertion; absence is a normal outcome for the idempotent like flow.
	Find(ctx context.Context, userID, assertionID string) (*domain.BadgeLike, error)
	Create(ctx context.Context, l *domain.BadgeLike) (*domain.BadgeLike, error)
	Delete(ctx context.Context, id string) error
}

type likeRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewLikeRepo(store docstore.Store, baseLog *logger.Logger) LikeRepo {
	return &likeRepo{store: store, log: baseLog.With("repo", "LikeRepo")}
}

func (r *likeRepo) Find(ctx context.Context, userID, assertionID string) (*domain.BadgeLike, error) {
	sel := docstore.Where(
		docstore.Eq("type", domain.TypeBadgeLike),
		docstore.Eq("userId", userID),
		docstore.Eq("assertionId", assertionID),
	).Limited(1)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	var l domain.BadgeLike
	if err := docs[0].Decode(&l); err != nil {
		return nil, err
	}
	l.ID = docs[0].ID
	l.Rev = docs[0].Rev
	return &l, nil
}

func (r *likeRepo) Create(ctx context.Context, l *domain.BadgeLike) (*domain.BadgeLike, error) {
	doc, err := docstore.NewDocument(domain.TypeBadgeLike, l)
	if err != nil {
		return nil, err
	}
	saved, err := r.store.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := *l
	out.ID = saved.ID
	out.Rev = saved.Rev
	return &out, nil
}

func (r *likeRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, id, apperr.ModelBadgeAssertion, apperr.CodeBadgeAssertionNotExist)
	if apperr.IsNotFound(err) {
		// A row that is already gone is the state the delete wanted.
		return nil
	}
	return err
}
