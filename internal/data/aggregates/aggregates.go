// Package aggregates derives counts and viewer-scoped flags from raw
// documents. Every value is computed per call; nothing here is cached or
// stored back.
package aggregates

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

// Key identifies the entities one Fetch call counts against. Empty ids skip
// the aggregates that would need them.
type Key struct {
	AssertionID string
	BadgeID     string
	UserID      string
}

// Flags selects which aggregates to compute. An unset flag costs no query
// and leaves the matching Result field nil.
type Flags struct {
	LikeNum     bool
	CommentNum  bool
	Liked       bool
	Favorite    bool
	FavoriteNum bool
	EarnerNum   bool
}

// Result carries only the requested aggregates; nil means not requested or
// not computable from the key.
type Result struct {
	LikeNum     *int64
	CommentNum  *int64
	Liked       *bool
	Favorite    *bool
	FavoriteNum *int64
	EarnerNum   *int64
}

type Fetcher interface {
	Fetch(ctx context.Context, key Key, flags Flags) (*Result, error)
	// BadgeNum counts assertions held by one user.
	BadgeNum(ctx context.Context, userID string) (int64, error)
}

type fetcher struct {
	store docstore.Store
	log   *logger.Logger
}

func NewFetcher(store docstore.Store, baseLog *logger.Logger) Fetcher {
	return &fetcher{store: store, log: baseLog.With("component", "Aggregates")}
}

// Fetch runs one count query per requested aggregate, concurrently, and
// fails fast on the first error.
func (f *fetcher) Fetch(ctx context.Context, key Key, flags Flags) (*Result, error) {
	res := &Result{}
	g, ctx := errgroup.WithContext(ctx)

	if flags.LikeNum && key.AssertionID != "" {
		g.Go(func() error {
			n, err := f.store.Count(ctx, docstore.Where(
				docstore.Eq("type", domain.TypeBadgeLike),
				docstore.Eq("assertionId", key.AssertionID),
			))
			res.LikeNum = &n
			return err
		})
	}
	if flags.CommentNum && key.AssertionID != "" {
		g.Go(func() error {
			n, err := f.store.Count(ctx, docstore.Where(
				docstore.Eq("type", domain.TypeBadgeComment),
				docstore.Eq("assertionId", key.AssertionID),
			))
			res.CommentNum = &n
			return err
		})
	}
	if flags.Liked && key.AssertionID != "" && key.UserID != "" {
		g.Go(func() error {
			n, err := f.store.Count(ctx, docstore.Where(
				docstore.Eq("type", domain.TypeBadgeLike),
				docstore.Eq("assertionId", key.AssertionID),
				docstore.Eq("userId", key.UserID),
			))
			liked := n > 0
			res.Liked = &liked
			return err
		})
	}
	if flags.Favorite && key.BadgeID != "" && key.UserID != "" {
		g.Go(func() error {
			n, err := f.store.Count(ctx, docstore.Where(
				docstore.Eq("type", domain.TypeBadgeFavor),
				docstore.Eq("badgeId", key.BadgeID),
				docstore.Eq("userId", key.UserID),
			))
			fav := n > 0
			res.Favorite = &fav
			return err
		})
	}
	if flags.FavoriteNum && key.BadgeID != "" {
		g.Go(func() error {
			n, err := f.store.Count(ctx, docstore.Where(
				docstore.Eq("type", domain.TypeBadgeFavor),
				docstore.Eq("badgeId", key.BadgeID),
			))
			res.FavoriteNum = &n
			return err
		})
	}
	if flags.EarnerNum && key.BadgeID != "" {
		g.Go(func() error {
			n, err := f.store.Count(ctx, docstore.Where(
				docstore.Eq("type", domain.TypeBadgeAssertion),
				docstore.Eq("badgeId", key.BadgeID),
			))
			res.EarnerNum = &n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (f *fetcher) BadgeNum(ctx context.Context, userID string) (int64, error) {
	return f.store.Count(ctx, docstore.Where(
		docstore.Eq("type", domain.TypeBadgeAssertion),
		docstore.Eq("userId", userID),
	))
}
