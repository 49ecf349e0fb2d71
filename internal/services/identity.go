package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/badgeboard/badgeboard-backend/internal/clients/directory"
	"github.com/badgeboard/badgeboard-backend/internal/data/repos"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
)

// identity is a user document joined with its directory profile. Name and
// photo come from the directory, which wins over whatever the document
// carries.
type identity struct {
	UserID     string
	IntranetID string
	Name       string
	Photo      string
}

type identityResolver struct {
	users repos.UserRepo
	dir   directory.Client
}

// resolve loads the given users and their directory profiles, one profile
// lookup per distinct user, concurrently. Every id must exist.
func (r identityResolver) resolve(ctx context.Context, ids []string) (map[string]identity, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return map[string]identity{}, nil
	}

	users, err := r.users.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range unique {
		if _, ok := byID[id]; !ok {
			return nil, apperr.NotFound(apperr.ModelUser, apperr.CodeUserNotExist, id)
		}
	}

	out := make(map[string]identity, len(unique))
	g, ctx := errgroup.WithContext(ctx)
	results := make([]identity, len(unique))
	for i, id := range unique {
		i, u := i, byID[id]
		g.Go(func() error {
			profile, err := r.dir.QueryProfile(ctx, u.IntranetID)
			if err != nil {
				return err
			}
			results[i] = identity{
				UserID:     u.ID,
				IntranetID: u.IntranetID,
				Name:       profile.Name,
				Photo:      profile.Photo,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, ident := range results {
		out[ident.UserID] = ident
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
