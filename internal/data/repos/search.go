package repos

import (
	"context"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

// SearchHit is one raw search result before per-row enrichment. Exactly one
// of User or Badge is set.
type SearchHit struct {
	User  *domain.User
	Badge *domain.Badge
}

type SearchRepo interface {
	// FindByName matches users and badges whose name contains criteria,
	// case-insensitively, in one paged query so mixed result pages stay
	// stable. excludedBadgeIDs and skills narrow the badge clause only;
	// includeUsers drops the user clause entirely.
	FindByName(ctx context.Context, criteria string, includeUsers bool, excludedBadgeIDs, skills []string, page domain.Page) ([]SearchHit, error)
}

type searchRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewSearchRepo(store docstore.Store, baseLog *logger.Logger) SearchRepo {
	return &searchRepo{store: store, log: baseLog.With("repo", "SearchRepo")}
}

func (r *searchRepo) FindByName(ctx context.Context, criteria string, includeUsers bool, excludedBadgeIDs, skills []string, page domain.Page) ([]SearchHit, error) {
	badgeClause := docstore.And(
		docstore.Eq("type", domain.TypeBadge),
		docstore.Contains("name", criteria),
	)
	if len(excludedBadgeIDs) > 0 {
		badgeClause = append(badgeClause, docstore.NotIn("id", excludedBadgeIDs))
	}
	if len(skills) > 0 {
		badgeClause = append(badgeClause, docstore.AnyIn("skills", skills))
	}

	clauses := []docstore.Clause{badgeClause}
	if includeUsers {
		clauses = append(clauses, docstore.And(
			docstore.Eq("type", domain.TypeUser),
			docstore.Contains("name", criteria),
		))
	}

	docs, err := r.store.Find(ctx, docstore.Any(clauses...).Page(page.PageNum, page.PageSize))
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(docs))
	for _, doc := range docs {
		switch doc.Type {
		case domain.TypeUser:
			u, err := decodeUser(doc)
			if err != nil {
				return nil, err
			}
			hits = append(hits, SearchHit{User: u})
		case domain.TypeBadge:
			b, err := decodeBadge(doc)
			if err != nil {
				return nil, err
			}
			hits = append(hits, SearchHit{Badge: b})
		}
	}
	return hits, nil
}
