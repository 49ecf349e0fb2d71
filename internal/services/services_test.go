package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/badgeboard/badgeboard-backend/internal/clients/directory"
	"github.com/badgeboard/badgeboard-backend/internal/data/aggregates"
	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/data/repos"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type fixture struct {
	store      *docstore.MemoryStore
	users      repos.UserRepo
	badges     repos.BadgeRepo
	assertions repos.AssertionRepo
	comments   repos.CommentRepo
	likes      repos.LikeRepo
	favors     repos.FavorRepo

	badge   BadgeService
	profile ProfileService
	auth    AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := docstore.NewMemoryStore()
	users := repos.NewUserRepo(store, log)
	badges := repos.NewBadgeRepo(store, log)
	assertions := repos.NewAssertionRepo(store, log)
	comments := repos.NewCommentRepo(store, log)
	likes := repos.NewLikeRepo(store, log)
	favors := repos.NewFavorRepo(store, log)
	feedback := repos.NewFeedbackRepo(store, log)
	search := repos.NewSearchRepo(store, log)
	agg := aggregates.NewFetcher(store, log)
	dir := directory.NewStaticClient()

	return &fixture{
		store:      store,
		users:      users,
		badges:     badges,
		assertions: assertions,
		comments:   comments,
		likes:      likes,
		favors:     favors,
		badge:      NewBadgeService(assertions, badges, users, comments, likes, favors, search, agg, dir, log),
		profile:    NewProfileService(users, assertions, badges, comments, favors, feedback, agg, dir, log),
		auth:       NewAuthService(users, NewAllowAllChecker(), "testsecret", time.Hour, log),
	}
}

func (f *fixture) seedUser(t *testing.T, intranetID string) *domain.User {
	t.Helper()
	u, err := f.users.Save(context.Background(), &domain.User{
		IntranetID: intranetID,
		Name:       "name for " + intranetID,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *fixture) seedBadge(t *testing.T, name string, skills ...string) *domain.Badge {
	t.Helper()
	b := &domain.Badge{
		UID:    fmt.Sprintf("uid-%s", name),
		Name:   name,
		Origin: "acme",
		Image:  name + ".png",
		Skills: skills,
	}
	doc, err := docstore.NewDocument(domain.TypeBadge, b)
	if err != nil {
		t.Fatalf("seed badge: %v", err)
	}
	saved, err := f.store.Save(context.Background(), doc)
	if err != nil {
		t.Fatalf("seed badge: %v", err)
	}
	b.ID = saved.ID
	b.Rev = saved.Rev
	return b
}

func (f *fixture) seedAssertion(t *testing.T, a *domain.BadgeAssertion) *domain.BadgeAssertion {
	t.Helper()
	saved, err := f.assertions.Save(context.Background(), a)
	if err != nil {
		t.Fatalf("seed assertion: %v", err)
	}
	return saved
}

func (f *fixture) seedComment(t *testing.T, c *domain.BadgeComment) *domain.BadgeComment {
	t.Helper()
	saved, err := f.comments.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return saved
}

// farFuture is an expiry comfortably past any test clock.
const farFuture = int64(1) << 50

// longPast is an expiry before any test clock.
const longPast = int64(1)
