package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/badgeboard/badgeboard-backend/internal/clients/directory"
	"github.com/badgeboard/badgeboard-backend/internal/data/aggregates"
	"github.com/badgeboard/badgeboard-backend/internal/data/repos"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type BadgeService interface {
	GetAssertion(ctx context.Context, id string) (*domain.BadgeAssertion, error)
	GetBadgeByUID(ctx context.Context, uid string) (*domain.Badge, error)

	Stream(ctx context.Context, viewer *domain.User, page domain.Page) (*domain.StreamPage, error)
	GetDetail(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) (*domain.AssertionDetail, error)
	GetEarners(ctx context.Context, viewer *domain.User, badgeID string, order domain.Order) ([]domain.Earner, error)
	GetComments(ctx context.Context, a *domain.BadgeAssertion, order domain.Order, page domain.Page) (*domain.CommentPage, error)

	Comment(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion, content string) (*domain.BadgeComment, error)
	DeleteComment(ctx context.Context, commentID string) error
	Like(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error
	Unlike(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error
	Favor(ctx context.Context, viewer *domain.User, badgeID string) error
	Unfavor(ctx context.Context, viewer *domain.User, badgeID string) error
	Publish(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error
	Unpublish(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error

	Search(ctx context.Context, viewer *domain.User, criteria string, filters domain.SearchFilters, page domain.Page) (*domain.SearchPage, error)
	GetUserBadge(ctx context.Context, profile *domain.User, badge *domain.Badge) (*domain.UserBadgeDetail, error)
}

type badgeService struct {
	assertions repos.AssertionRepo
	badges     repos.BadgeRepo
	comments   repos.CommentRepo
	likes      repos.LikeRepo
	favors     repos.FavorRepo
	search     repos.SearchRepo
	agg        aggregates.Fetcher
	resolver   identityResolver
	log        *logger.Logger
}

func NewBadgeService(
	assertions repos.AssertionRepo,
	badges repos.BadgeRepo,
	users repos.UserRepo,
	comments repos.CommentRepo,
	likes repos.LikeRepo,
	favors repos.FavorRepo,
	search repos.SearchRepo,
	agg aggregates.Fetcher,
	dir directory.Client,
	baseLog *logger.Logger,
) BadgeService {
	return &badgeService{
		assertions: assertions,
		badges:     badges,
		comments:   comments,
		likes:      likes,
		favors:     favors,
		search:     search,
		agg:        agg,
		resolver:   identityResolver{users: users, dir: dir},
		log:        baseLog.With("service", "BadgeService"),
	}
}

func (s *badgeService) GetAssertion(ctx context.Context, id string) (*domain.BadgeAssertion, error) {
	return s.assertions.GetByID(ctx, id)
}

func (s *badgeService) GetBadgeByUID(ctx context.Context, uid string) (*domain.Badge, error) {
	return s.badges.GetByUID(ctx, uid)
}

func (s *badgeService) Stream(ctx context.Context, viewer *domain.User, page domain.Page) (*domain.StreamPage, error) {
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}

	now := time.Now().UnixMilli()
	rows, err := s.assertions.VisibleTo(ctx, viewer.ID, "", now, domain.OrderDesc, page)
	if err != nil {
		return nil, err
	}

	out := &domain.StreamPage{PageNum: page.PageNum, PageSize: page.PageSize, Badges: []domain.StreamItem{}}
	if len(rows) == 0 {
		return out, nil
	}

	userIDs := make([]string, 0, len(rows))
	badgeIDs := make([]string, 0, len(rows))
	for _, a := range rows {
		userIDs = append(userIDs, a.UserID)
		badgeIDs = append(badgeIDs, a.BadgeID)
	}

	var idents map[string]identity
	var badges map[string]*domain.Badge
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		idents, err = s.resolver.resolve(gctx, userIDs)
		return err
	})
	g.Go(func() error {
		var err error
		badges, err = s.badgeMap(gctx, badgeIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]domain.StreamItem, len(rows))
	g, gctx = errgroup.WithContext(ctx)
	for i, a := range rows {
		i, a := i, a
		g.Go(func() error {
			res, err := s.agg.Fetch(gctx,
				aggregates.Key{AssertionID: a.ID, BadgeID: a.BadgeID, UserID: viewer.ID},
				aggregates.Flags{LikeNum: true, CommentNum: true, Liked: true, Favorite: true})
			if err != nil {
				return err
			}
			ident := idents[a.UserID]
			badge := badges[a.BadgeID]
			items[i] = domain.StreamItem{
				User: domain.StreamUser{
					UserID:     ident.UserID,
					Photo:      ident.Photo,
					Name:       ident.Name,
					IntranetID: ident.IntranetID,
				},
				Badge: domain.StreamBadge{
					AssertionID: a.ID,
					BadgeID:     a.BadgeID,
					IssuedOn:    a.IssuedOn,
					LikeNum:     int64Value(res.LikeNum),
					CommentNum:  int64Value(res.CommentNum),
					Favorite:    boolValue(res.Favorite),
					Liked:       boolValue(res.Liked),
					Published:   a.Published,
					Name:        badge.Name,
					Origin:      badge.Origin,
					Image:       badge.Image,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Badges = items
	return out, nil
}

func (s *badgeService) GetDetail(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) (*domain.AssertionDetail, error) {
	// Owners keep seeing their own unpublished assertions.
	if viewer.ID != a.UserID {
		if err := CheckGuards(a, viewer.ID, PublishedOnly()); err != nil {
			return nil, err
		}
	}

	var badge *domain.Badge
	var res *aggregates.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		badge, err = s.badges.GetByID(gctx, a.BadgeID)
		return err
	})
	g.Go(func() error {
		var err error
		res, err = s.agg.Fetch(gctx,
			aggregates.Key{AssertionID: a.ID, BadgeID: a.BadgeID, UserID: viewer.ID},
			aggregates.Flags{LikeNum: true, CommentNum: true, EarnerNum: true, Liked: true, Favorite: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.AssertionDetail{
		AssertionID:     a.ID,
		BadgeID:         a.BadgeID,
		UserID:          a.UserID,
		IssuedOn:        a.IssuedOn,
		Expires:         a.Expires,
		LikeNum:         int64Value(res.LikeNum),
		CommentNum:      int64Value(res.CommentNum),
		EarnerNum:       int64Value(res.EarnerNum),
		Liked:           boolValue(res.Liked),
		Favorite:        boolValue(res.Favorite),
		Published:       a.Published,
		Name:            badge.Name,
		Origin:          badge.Origin,
		Image:           badge.Image,
		Criteria:        badge.Criteria,
		ContentCriteria: badge.ContentCriteria,
	}, nil
}

func (s *badgeService) GetEarners(ctx context.Context, viewer *domain.User, badgeID string, order domain.Order) ([]domain.Earner, error) {
	if !order.Valid() {
		return nil, apperr.Validation("order must be asc or desc")
	}
	if _, err := s.badges.GetByID(ctx, badgeID); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	rows, err := s.assertions.VisibleTo(ctx, viewer.ID, badgeID, now, order, domain.Page{})
	if err != nil {
		return nil, err
	}

	// Distinct earners in result order.
	userIDs := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.UserID] {
			seen[row.UserID] = true
			userIDs = append(userIDs, row.UserID)
		}
	}

	idents, err := s.resolver.resolve(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	earners := make([]domain.Earner, len(userIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range userIDs {
		i, id := i, id
		g.Go(func() error {
			n, err := s.agg.BadgeNum(gctx, id)
			if err != nil {
				return err
			}
			ident := idents[id]
			earners[i] = domain.Earner{
				Name:       ident.Name,
				Photo:      ident.Photo,
				IntranetID: ident.IntranetID,
				BadgeNum:   n,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return earners, nil
}

func (s *badgeService) GetComments(ctx context.Context, a *domain.BadgeAssertion, order domain.Order, page domain.Page) (*domain.CommentPage, error) {
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}
	if !order.Valid() {
		return nil, apperr.Validation("order must be asc or desc")
	}

	rows, err := s.comments.ByAssertion(ctx, a.ID, order, page)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(rows))
	for _, c := range rows {
		userIDs = append(userIDs, c.UserID)
	}
	idents, err := s.resolver.resolve(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := &domain.CommentPage{PageNum: page.PageNum, PageSize: page.PageSize, Comments: []domain.CommentView{}}
	for _, c := range rows {
		ident := idents[c.UserID]
		out.Comments = append(out.Comments, domain.CommentView{
			ID:      c.ID,
			UserID:  c.UserID,
			Name:    ident.Name,
			Photo:   ident.Photo,
			Content: c.Comment,
			Time:    c.Time,
		})
	}
	return out, nil
}

func (s *badgeService) Comment(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion, content string) (*domain.BadgeComment, error) {
	if err := CheckGuards(a, viewer.ID, NotExpired(), PublishedOnly()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("comment must not be empty")
	}
	return s.comments.Create(ctx, &domain.BadgeComment{
		AssertionID: a.ID,
		UserID:      viewer.ID,
		Time:        time.Now().UnixMilli(),
		Comment:     content,
	})
}

func (s *badgeService) DeleteComment(ctx context.Context, commentID string) error {
	return s.comments.Delete(ctx, commentID)
}

// Like inserts at most one like per user and assertion and bumps the
// denormalized counter only when a like was actually created.
func (s *badgeService) Like(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error {
	if err := CheckGuards(a, viewer.ID, NotExpired(), PublishedOnly(), DenySelf()); err != nil {
		return err
	}

	existing, err := s.likes.Find(ctx, viewer.ID, a.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Debug("already liked", "userId", viewer.ID, "assertionId", a.ID)
		return nil
	}

	if _, err := s.likes.Create(ctx, &domain.BadgeLike{
		UserID:      viewer.ID,
		AssertionID: a.ID,
		Time:        time.Now().UnixMilli(),
	}); err != nil {
		return err
	}

	a.Like++
	_, err = s.assertions.Save(ctx, a)
	return err
}

func (s *badgeService) Unlike(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error {
	if err := CheckGuards(a, viewer.ID, NotExpired(), PublishedOnly(), DenySelf()); err != nil {
		return err
	}

	existing, err := s.likes.Find(ctx, viewer.ID, a.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		s.log.Debug("not liked, nothing to remove", "userId", viewer.ID, "assertionId", a.ID)
		return nil
	}

	if err := s.likes.Delete(ctx, existing.ID); err != nil {
		return err
	}

	a.Like--
	_, err = s.assertions.Save(ctx, a)
	return err
}

func (s *badgeService) Favor(ctx context.Context, viewer *domain.User, badgeID string) error {
	badge, err := s.badges.GetByID(ctx, badgeID)
	if err != nil {
		return err
	}

	existing, err := s.favors.Find(ctx, viewer.ID, badge.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = s.favors.Create(ctx, &domain.BadgeFavor{
		UserID:  viewer.ID,
		BadgeID: badge.ID,
		Time:    time.Now().UnixMilli(),
	})
	return err
}

func (s *badgeService) Unfavor(ctx context.Context, viewer *domain.User, badgeID string) error {
	badge, err := s.badges.GetByID(ctx, badgeID)
	if err != nil {
		return err
	}

	existing, err := s.favors.Find(ctx, viewer.ID, badge.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return s.favors.Delete(ctx, existing.ID)
}

func (s *badgeService) Publish(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error {
	return s.setPublished(ctx, viewer, a, true)
}

func (s *badgeService) Unpublish(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion) error {
	return s.setPublished(ctx, viewer, a, false)
}

func (s *badgeService) setPublished(ctx context.Context, viewer *domain.User, a *domain.BadgeAssertion, published bool) error {
	if err := CheckGuards(a, viewer.ID, NotExpired(), AllowSelfOnly()); err != nil {
		return err
	}
	if a.Published == published {
		return nil
	}
	a.Published = published
	_, err := s.assertions.Save(ctx, a)
	return err
}

func (s *badgeService) Search(ctx context.Context, viewer *domain.User, criteria string, filters domain.SearchFilters, page domain.Page) (*domain.SearchPage, error) {
	if strings.TrimSpace(criteria) == "" {
		return nil, apperr.Validation("criteria must not be empty")
	}
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}

	var favoriteIDs, earnedIDs []string
	g, gctx := errgroup.WithContext(ctx)
	if filters.ExcludeFavoriteBadges {
		g.Go(func() error {
			var err error
			favoriteIDs, err = s.favors.BadgeIDsByUser(gctx, viewer.ID)
			return err
		})
	}
	if filters.ExcludeEarnedBadges {
		g.Go(func() error {
			rows, err := s.assertions.ByUser(gctx, viewer.ID, domain.Page{})
			if err != nil {
				return err
			}
			for _, a := range rows {
				earnedIDs = append(earnedIDs, a.BadgeID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	excluded := dedupe(append(favoriteIDs, earnedIDs...))
	hits, err := s.search.FindByName(ctx, criteria, filters.SearchUsers, excluded, filters.Skills, page)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.SearchUser, len(hits))
	badges := make([]*domain.SearchBadge, len(hits))
	g, gctx = errgroup.WithContext(ctx)
	for i, hit := range hits {
		i, hit := i, hit
		switch {
		case hit.User != nil:
			g.Go(func() error {
				var ident *directory.Profile
				var badgeNum int64
				sg, sctx := errgroup.WithContext(gctx)
				sg.Go(func() error {
					var err error
					ident, err = s.resolver.dir.QueryProfile(sctx, hit.User.IntranetID)
					return err
				})
				sg.Go(func() error {
					var err error
					badgeNum, err = s.agg.BadgeNum(sctx, hit.User.ID)
					return err
				})
				if err := sg.Wait(); err != nil {
					return err
				}
				users[i] = &domain.SearchUser{
					IntranetID: hit.User.IntranetID,
					Name:       ident.Name,
					Photo:      ident.Photo,
					BadgeNum:   badgeNum,
				}
				return nil
			})
		case hit.Badge != nil:
			g.Go(func() error {
				res, err := s.agg.Fetch(gctx,
					aggregates.Key{BadgeID: hit.Badge.ID, UserID: viewer.ID},
					aggregates.Flags{EarnerNum: true})
				if err != nil {
					return err
				}
				favor, err := s.favors.Find(gctx, viewer.ID, hit.Badge.ID)
				if err != nil {
					return err
				}
				row := &domain.SearchBadge{
					BadgeID:   hit.Badge.ID,
					Name:      hit.Badge.Name,
					Origin:    hit.Badge.Origin,
					Image:     hit.Badge.Image,
					EarnerNum: int64Value(res.EarnerNum),
				}
				if favor != nil {
					row.FavoriteTime = favor.Time
				}
				badges[i] = row
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &domain.SearchPage{
		PageNum:  page.PageNum,
		PageSize: page.PageSize,
		Users:    []domain.SearchUser{},
		Badges:   []domain.SearchBadge{},
	}
	for i := range hits {
		if users[i] != nil {
			out.Users = append(out.Users, *users[i])
		}
		if badges[i] != nil {
			out.Badges = append(out.Badges, *badges[i])
		}
	}
	return out, nil
}

func (s *badgeService) GetUserBadge(ctx context.Context, profile *domain.User, badge *domain.Badge) (*domain.UserBadgeDetail, error) {
	a, err := s.assertions.FindByUserAndBadge(ctx, profile.ID, badge.ID)
	if err != nil {
		return nil, err
	}
	return &domain.UserBadgeDetail{
		IssuedOn:    a.IssuedOn,
		Expires:     a.Expires,
		Origin:      badge.Origin,
		UID:         badge.UID,
		Name:        badge.Name,
		Description: badge.Description,
		Image:       badge.Image,
		Criteria:    badge.Criteria,
		Issuer:      badge.Issuer,
		Tags:        badge.Tags,
	}, nil
}

func (s *badgeService) badgeMap(ctx context.Context, ids []string) (map[string]*domain.Badge, error) {
	unique := dedupe(ids)
	badges, err := s.badges.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Badge, len(badges))
	for _, b := range badges {
		byID[b.ID] = b
	}
	for _, id := range unique {
		if _, ok := byID[id]; !ok {
			return nil, apperr.NotFound(apperr.ModelBadge, apperr.CodeBadgeNotExist, id)
		}
	}
	return byID, nil
}

func int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func boolValue(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}
