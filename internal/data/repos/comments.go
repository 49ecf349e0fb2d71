package repos

import (
	"context"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type CommentRepo interface {
	ByAssertion(ctx context.Context, assertionID string, order domain.Order, page domain.Page) ([]*domain.BadgeComment, error)
	// ByOthersOnAssertions returns comments other users left on the given
	// assertions, newest first.
	ByOthersOnAssertions(ctx context.Context, ownerID string, assertionIDs []string, order domain.Order, page domain.Page) ([]*domain.BadgeComment, error)
	// ByUserExcludingAssertions returns comments the user wrote outside the
	// given assertion set, newest first.
	ByUserExcludingAssertions(ctx context.Context, userID string, assertionIDs []string, page domain.Page) ([]*domain.BadgeComment, error)
	Create(ctx context.Context, c *domain.BadgeComment) (*domain.BadgeComment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewCommentRepo(store docstore.Store, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{store: store, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) ByAssertion(ctx context.Context, assertionID string, order domain.Order, page domain.Page) ([]*domain.BadgeComment, error) {
	sel := docstore.Where(
		docstore.Eq("type", domain.TypeBadgeComment),
		docstore.Eq("assertionId", assertionID),
	).OrderedBy("time", order != domain.OrderAsc).Page(page.PageNum, page.PageSize)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return decodeComments(docs)
}

func (r *commentRepo) ByOthersOnAssertions(ctx context.Context, ownerID string, assertionIDs []string, order domain.Order, page domain.Page) ([]*domain.BadgeComment, error) {
	if len(assertionIDs) == 0 {
		return nil, nil
	}
	sel := docstore.Where(
		docstore.Eq("type", domain.TypeBadgeComment),
		docstore.In("assertionId", assertionIDs),
		docstore.Ne("userId", ownerID),
	).OrderedBy("time", order != domain.OrderAsc).Page(page.PageNum, page.PageSize)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return decodeComments(docs)
}

func (r *commentRepo) ByUserExcludingAssertions(ctx context.Context, userID string, assertionIDs []string, page domain.Page) ([]*domain.BadgeComment, error) {
	conds := []docstore.Cond{
		docstore.Eq("type", domain.TypeBadgeComment),
		docstore.Eq("userId", userID),
	}
	if len(assertionIDs) > 0 {
		conds = append(conds, docstore.NotIn("assertionId", assertionIDs))
	}
	sel := docstore.Where(conds...).SortDescBy("time").Page(page.PageNum, page.PageSize)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return decodeComments(docs)
}

func (r *commentRepo) Create(ctx context.Context, c *domain.BadgeComment) (*domain.BadgeComment, error) {
	doc, err := docstore.NewDocument(domain.TypeBadgeComment, c)
	if err != nil {
		return nil, err
	}
	saved, err := r.store.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := *c
	out.ID = saved.ID
	out.Rev = saved.Rev
	return &out, nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id, apperr.ModelBadgeComment, apperr.CodeBadgeCommentNotExist)
}

func decodeComments(docs []*docstore.Document) ([]*domain.BadgeComment, error) {
	out := make([]*domain.BadgeComment, 0, len(docs))
	for _, doc := range docs {
		var c domain.BadgeComment
		if err := doc.Decode(&c); err != nil {
			return nil, err
		}
		c.ID = doc.ID
		c.Rev = doc.Rev
		out = append(out, &c)
	}
	return out, nil
}
