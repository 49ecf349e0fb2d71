package repos

import (
	"context"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	GetByIntranetID(ctx context.Context, intranetID string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}

type userRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewUserRepo(store docstore.Store, baseLog *logger.Logger) UserRepo {
	return &userRepo{store: store, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := r.store.FindOne(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeUser), docstore.Eq("id", id)),
		apperr.ModelUser, apperr.CodeUserNotExist)
	if err != nil {
		return nil, err
	}
	return decodeUser(doc)
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	docs, err := r.store.Find(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeUser), docstore.In("id", ids)))
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(docs))
	for _, doc := range docs {
		u, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *userRepo) GetByIntranetID(ctx context.Context, intranetID string) (*domain.User, error) {
	doc, err := r.store.FindOne(ctx,
		docstore.Where(docstore.Eq("type", domain.TypeUser), docstore.Eq("intranetID", intranetID)),
		apperr.ModelUser, apperr.CodeUserNotExist)
	if err != nil {
		return nil, err
	}
	return decodeUser(doc)
}

func (r *userRepo) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	return saveUser(ctx, r.store, user)
}

func saveUser(ctx context.Context, store docstore.Store, user *domain.User) (*domain.User, error) {
	doc, err := docstore.NewDocument(domain.TypeUser, user)
	if err != nil {
		return nil, err
	}
	doc.ID = user.ID
	doc.Rev = user.Rev
	saved, err := store.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := *user
	out.ID = saved.ID
	out.Rev = saved.Rev
	return &out, nil
}

func decodeUser(doc *docstore.Document) (*domain.User, error) {
	var u domain.User
	if err := doc.Decode(&u); err != nil {
		return nil, err
	}
	u.ID = doc.ID
	u.Rev = doc.Rev
	return &u, nil
}
