package repos

import (
	"context"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type FeedbackRepo interface {
	Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error)
}

type feedbackRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewFeedbackRepo(store docstore.Store, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{store: store, log: baseLog.With("repo", "FeedbackRepo")}
}

func (r *feedbackRepo) Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	doc, err := docstore.NewDocument(domain.TypeFeedback, f)
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
