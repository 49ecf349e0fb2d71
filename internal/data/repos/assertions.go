package repos

import (
	"context"
	"time"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type AssertionRepo interface {
	GetByID(ctx context.Context, id string) (*domain.BadgeAssertion, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.BadgeAssertion, error)
	// VisibleTo returns unexpired assertions the viewer may see: the
	// viewer's own regardless of publish state, plus published ones by
	// everybody else. badgeID narrows to one badge when non-empty.
	VisibleTo(ctx context.Context, viewerID, badgeID string, now int64, order domain.Order, page domain.Page) ([]*domain.BadgeAssertion, error)
	ByUser(ctx context.Context, userID string, page domain.Page) ([]*domain.BadgeAssertion, error)
	PublishedByUser(ctx context.Context, userID string, page domain.Page) ([]*domain.BadgeAssertion, error)
	FindByUserAndBadge(ctx context.Context, userID, badgeID string) (*domain.BadgeAssertion, error)
	Save(ctx context.Context, a *domain.BadgeAssertion) (*domain.BadgeAssertion, error)
}

type assertionRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewAssertionRepo(store docstore.Store, baseLog *logger.Logger) AssertionRepo {
	return &assertionRepo{store: store, log: baseLog.With("repo", "AssertionRepo")}
}

func (r *assertionRepo) GetByID(ctx context.Context, id string) (*domain.BadgeAssertion, error) {
	doc, err := r.store.FindOne(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeBadgeAssertion), docstore.Eq("id", id)),
		apperr.ModelBadgeAssertion, apperr.CodeBadgeAssertionNotExist)
	if err != nil {
		return nil, err
	}
	return decodeAssertion(doc)
}

func (r *assertionRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.BadgeAssertion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	docs, err := r.store.Find(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeBadgeAssertion), docstore.In("id", ids)))
	if err != nil {
		return nil, err
	}
	return decodeAssertions(docs)
}

func (r *assertionRepo) VisibleTo(ctx context.Context, viewerID, badgeID string, now int64, order domain.Order, page domain.Page) ([]*domain.BadgeAssertion, error) {
	own := docstore.And(
		docstore.Eq("type", domain.TypeBadgeAssertion),
		docstore.Eq("userId", viewerID),
		docstore.Gt("expires", now),
	)
	published := docstore.And(
		docstore.Eq("type", domain.TypeBadgeAssertion),
		docstore.Ne("userId", viewerID),
		docstore.Eq("published", true),
		docstore.Gt("expires", now),
	)
	if badgeID != "" {
		own = append(own, docstore.Eq("badgeId", badgeID))
		published = append(published, docstore.Eq("badgeId", badgeID))
	}
	sel := docstore.Any(own, published).
		OrderedBy("issuedOn", order != domain.OrderAsc).
		Page(page.PageNum, page.PageSize)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return decodeAssertions(docs)
}

func (r *assertionRepo) ByUser(ctx context.Context, userID string, page domain.Page) ([]*domain.BadgeAssertion, error) {
	sel := docstore.Where(
		docstore.Eq("type", domain.TypeBadgeAssertion),
		docstore.Eq("userId", userID),
	).SortDescBy("issuedOn").Page(page.PageNum, page.PageSize)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return decodeAssertions(docs)
}

func (r *assertionRepo) PublishedByUser(ctx context.Context, userID string, page domain.Page) ([]*domain.BadgeAssertion, error) {
	sel := docstore.Where(
		docstore.Eq("type", domain.TypeBadgeAssertion),
		docstore.Eq("userId", userID),
		docstore.Eq("published", true),
		docstore.Gt("expires", time.Now().UnixMilli()),
	).SortDescBy("issuedOn").Page(page.PageNum, page.PageSize)
	docs, err := r.store.Find(ctx, sel)
	if err != nil {
		return nil, err
	}
	return decodeAssertions(docs)
}

func (r *assertionRepo) FindByUserAndBadge(ctx context.Context, userID, badgeID string) (*domain.BadgeAssertion, error) {
	doc, err := r.store.FindOne(ctx,
		docstore.Where(
			docstore.Eq("type", domain.TypeBadgeAssertion),
			docstore.Eq("userId", userID),
			docstore.Eq("badgeId", badgeID),
		),
		apperr.ModelBadgeAssertion, apperr.CodeBadgeAssertionNotExist)
	if err != nil {
		return nil, err
	}
	return decodeAssertion(doc)
}

func (r *assertionRepo) Save(ctx context.Context, a *domain.BadgeAssertion) (*domain.BadgeAssertion, error) {
	doc, err := docstore.NewDocument(domain.TypeBadgeAssertion, a)
	if err != nil {
		return nil, err
	}
	doc.ID = a.ID
	doc.Rev = a.Rev
	saved, err := r.store.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := *a
	out.ID = saved.ID
	out.Rev = saved.Rev
	return &out, nil
}

func decodeAssertion(doc *docstore.Document) (*domain.BadgeAssertion, error) {
	var a domain.BadgeAssertion
	if err := doc.Decode(&a); err != nil {
		return nil, err
	}
	a.ID = doc.ID
	a.Rev = doc.Rev
	return &a, nil
}

func decodeAssertions(docs []*docstore.Document) ([]*domain.BadgeAssertion, error) {
	out := make([]*domain.BadgeAssertion, 0, len(docs))
	for _, doc := range docs {
		a, err := decodeAssertion(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
