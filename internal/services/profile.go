package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/badgeboard/badgeboard-backend/internal/clients/directory"
	"github.com/badgeboard/badgeboard-backend/internal/data/aggregates"
	"github.com/badgeboard/badgeboard-backend/internal/data/repos"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type ProfileService interface {
	GetByIntranetID(ctx context.Context, intranetID string) (*domain.User, error)
	GetDetail(ctx context.Context, profile *domain.User) (*domain.ProfileDetail, error)
	GetTestimonials(ctx context.Context, profile *domain.User, order domain.Order, page domain.Page) (*domain.TestimonialPage, error)
	GetComments(ctx context.Context, profile *domain.User, page domain.Page) (*domain.ProfileCommentPage, error)
	GetBadges(ctx context.Context, viewer, profile *domain.User, page domain.Page) (*domain.UserBadgePage, error)
	GetFavoriteBadges(ctx context.Context, profile *domain.User, page domain.Page) (*domain.FavoriteBadgePage, error)
	GetNotifications(ctx context.Context, profile *domain.User, page domain.Page) (*domain.NotificationPage, error)
	Feedback(ctx context.Context, message, appinfo string, screenshots []domain.Screenshot) error
}

type profileService struct {
	users      repos.UserRepo
	assertions repos.AssertionRepo
	badges     repos.BadgeRepo
	comments   repos.CommentRepo
	favors     repos.FavorRepo
	feedback   repos.FeedbackRepo
	agg        aggregates.Fetcher
	dir        directory.Client
	resolver   identityResolver
	log        *logger.Logger
}

func NewProfileService(
	users repos.UserRepo,
	assertions repos.AssertionRepo,
	badges repos.BadgeRepo,
	comments repos.CommentRepo,
	favors repos.FavorRepo,
	feedback repos.FeedbackRepo,
	agg aggregates.Fetcher,
	dir directory.Client,
	baseLog *logger.Logger,
) ProfileService {
	return &profileService{
		users:      users,
		assertions: assertions,
		badges:     badges,
		comments:   comments,
		favors:     favors,
		feedback:   feedback,
		agg:        agg,
		dir:        dir,
		resolver:   identityResolver{users: users, dir: dir},
		log:        baseLog.With("service", "ProfileService"),
	}
}

func (s *profileService) GetByIntranetID(ctx context.Context, intranetID string) (*domain.User, error) {
	return s.users.GetByIntranetID(ctx, intranetID)
}

func (s *profileService) GetDetail(ctx context.Context, profile *domain.User) (*domain.ProfileDetail, error) {
	var dirProfile *directory.Profile
	var badgeNum int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dirProfile, err = s.dir.QueryProfile(gctx, profile.IntranetID)
		return err
	})
	g.Go(func() error {
		var err error
		badgeNum, err = s.agg.BadgeNum(gctx, profile.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ProfileDetail{
		Name:     dirProfile.Name,
		Photo:    dirProfile.Photo,
		BadgeNum: badgeNum,
		JobName:  dirProfile.JobName,
		LocName:  dirProfile.JobLocation,
	}, nil
}

// GetTestimonials lists comments other users left on the profile user's
// assertions, joined with the badge image and the commenter identity.
func (s *profileService) GetTestimonials(ctx context.Context, profile *domain.User, order domain.Order, page domain.Page) (*domain.TestimonialPage, error) {
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}
	if !order.Valid() {
		return nil, apperr.Validation("order must be asc or desc")
	}

	own, err := s.assertions.ByUser(ctx, profile.ID, domain.Page{})
	if err != nil {
		return nil, err
	}
	out := &domain.TestimonialPage{PageNum: page.PageNum, PageSize: page.PageSize, Comments: []domain.Testimonial{}}
	if len(own) == 0 {
		return out, nil
	}

	badgeByAssertion := make(map[string]string, len(own))
	ownIDs := make([]string, 0, len(own))
	for _, a := range own {
		ownIDs = append(ownIDs, a.ID)
		badgeByAssertion[a.ID] = a.BadgeID
	}

	rows, err := s.comments.ByOthersOnAssertions(ctx, profile.ID, ownIDs, order, page)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return out, nil
	}

	commenterIDs := make([]string, 0, len(rows))
	badgeIDs := make([]string, 0, len(rows))
	for _, c := range rows {
		commenterIDs = append(commenterIDs, c.UserID)
		badgeIDs = append(badgeIDs, badgeByAssertion[c.AssertionID])
	}

	var idents map[string]identity
	var badges map[string]*domain.Badge
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		idents, err = s.resolver.resolve(gctx, commenterIDs)
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

	for _, c := range rows {
		ident := idents[c.UserID]
		badge := badges[badgeByAssertion[c.AssertionID]]
		out.Comments = append(out.Comments, domain.Testimonial{
			AssertionID: c.AssertionID,
			Image:       badge.Image,
			Comment: domain.TestimonialComment{
				ID:         c.ID,
				UserID:     c.UserID,
				IntranetID: ident.IntranetID,
				Name:       ident.Name,
				Photo:      ident.Photo,
				Content:    c.Comment,
				Time:       c.Time,
			},
		})
	}
	return out, nil
}

// GetComments lists comments the profile user wrote on other people's
// assertions.
func (s *profileService) GetComments(ctx context.Context, profile *domain.User, page domain.Page) (*domain.ProfileCommentPage, error) {
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}

	own, err := s.assertions.ByUser(ctx, profile.ID, domain.Page{})
	if err != nil {
		return nil, err
	}
	ownIDs := make([]string, 0, len(own))
	for _, a := range own {
		ownIDs = append(ownIDs, a.ID)
	}

	rows, err := s.comments.ByUserExcludingAssertions(ctx, profile.ID, ownIDs, page)
	if err != nil {
		return nil, err
	}
	out := &domain.ProfileCommentPage{PageNum: page.PageNum, PageSize: page.PageSize, Comments: []domain.ProfileComment{}}
	if len(rows) == 0 {
		return out, nil
	}

	assertionIDs := make([]string, 0, len(rows))
	for _, c := range rows {
		assertionIDs = append(assertionIDs, c.AssertionID)
	}
	linked, err := s.assertions.GetByIDs(ctx, dedupe(assertionIDs))
	if err != nil {
		return nil, err
	}
	assertionByID := make(map[string]*domain.BadgeAssertion, len(linked))
	badgeIDs := make([]string, 0, len(linked))
	for _, a := range linked {
		assertionByID[a.ID] = a
		badgeIDs = append(badgeIDs, a.BadgeID)
	}

	var ident identity
	var badges map[string]*domain.Badge
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idents, err := s.resolver.resolve(gctx, []string{profile.ID})
		if err != nil {
			return err
		}
		ident = idents[profile.ID]
		return nil
	})
	g.Go(func() error {
		var err error
		badges, err = s.badgeMap(gctx, badgeIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range rows {
		a, ok := assertionByID[c.AssertionID]
		if !ok {
			// The commented assertion was removed; skip the orphan.
			continue
		}
		badge := badges[a.BadgeID]
		out.Comments = append(out.Comments, domain.ProfileComment{
			AssertionID: a.ID,
			BadgeID:     a.BadgeID,
			IssuedOn:    a.IssuedOn,
			Name:        badge.Name,
			Origin:      badge.Origin,
			Image:       badge.Image,
			Comment: domain.TestimonialComment{
				ID:         c.ID,
				UserID:     c.UserID,
				IntranetID: ident.IntranetID,
				Name:       ident.Name,
				Photo:      ident.Photo,
				Content:    c.Comment,
				Time:       c.Time,
			},
		})
	}
	return out, nil
}

func (s *profileService) GetBadges(ctx context.Context, viewer, profile *domain.User, page domain.Page) (*domain.UserBadgePage, error) {
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}

	// Owners see every assertion they hold, visitors only published ones.
	var rows []*domain.BadgeAssertion
	var err error
	if viewer != nil && viewer.ID == profile.ID {
		rows, err = s.assertions.ByUser(ctx, profile.ID, page)
	} else {
		rows, err = s.assertions.PublishedByUser(ctx, profile.ID, page)
	}
	if err != nil {
		return nil, err
	}
	out := &domain.UserBadgePage{PageNum: page.PageNum, PageSize: page.PageSize, Badges: []domain.UserBadge{}}
	if len(rows) == 0 {
		return out, nil
	}

	badgeIDs := make([]string, 0, len(rows))
	for _, a := range rows {
		badgeIDs = append(badgeIDs, a.BadgeID)
	}
	badges, err := s.badgeMap(ctx, badgeIDs)
	if err != nil {
		return nil, err
	}

	items := make([]domain.UserBadge, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range rows {
		i, a := i, a
		g.Go(func() error {
			res, err := s.agg.Fetch(gctx,
				aggregates.Key{AssertionID: a.ID},
				aggregates.Flags{LikeNum: true, CommentNum: true})
			if err != nil {
				return err
			}
			badge := badges[a.BadgeID]
			items[i] = domain.UserBadge{
				AssertionID: a.ID,
				BadgeID:     a.BadgeID,
				IssuedOn:    a.IssuedOn,
				Expires:     a.Expires,
				LikeNum:     int64Value(res.LikeNum),
				CommentNum:  int64Value(res.CommentNum),
				Name:        badge.Name,
				Origin:      badge.Origin,
				Image:       badge.Image,
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

func (s *profileService) GetFavoriteBadges(ctx context.Context, profile *domain.User, page domain.Page) (*domain.FavoriteBadgePage, error) {
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}

	favors, err := s.favors.ByUser(ctx, profile.ID, page)
	if err != nil {
		return nil, err
	}
	out := &domain.FavoriteBadgePage{PageNum: page.PageNum, PageSize: page.PageSize, Badges: []domain.FavoriteBadge{}}
	if len(favors) == 0 {
		return out, nil
	}

	badgeIDs := make([]string, 0, len(favors))
	for _, f := range favors {
		badgeIDs = append(badgeIDs, f.BadgeID)
	}
	badges, err := s.badgeMap(ctx, badgeIDs)
	if err != nil {
		return nil, err
	}

	items := make([]domain.FavoriteBadge, len(favors))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range favors {
		i, f := i, f
		g.Go(func() error {
			res, err := s.agg.Fetch(gctx,
				aggregates.Key{BadgeID: f.BadgeID},
				aggregates.Flags{FavoriteNum: true, EarnerNum: true})
			if err != nil {
				return err
			}
			badge := badges[f.BadgeID]
			items[i] = domain.FavoriteBadge{
				BadgeID:     f.BadgeID,
				Time:        f.Time,
				FavoriteNum: int64Value(res.FavoriteNum),
				EarnerNum:   int64Value(res.EarnerNum),
				Name:        badge.Name,
				Origin:      badge.Origin,
				Image:       badge.Image,
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

// GetNotifications merges the profile user's own assertions with comments
// other people left on them, newest first. Assertion rows rank by issue
// time, comment rows by comment time; paging applies to the merged list.
func (s *profileService) GetNotifications(ctx context.Context, profile *domain.User, page domain.Page) (*domain.NotificationPage, error) {
	if !page.Bounded() {
		return nil, apperr.Validation("pageNum and pageSize must be positive integers")
	}

	own, err := s.assertions.ByUser(ctx, profile.ID, domain.Page{})
	if err != nil {
		return nil, err
	}
	out := &domain.NotificationPage{PageNum: page.PageNum, PageSize: page.PageSize, Notifications: []domain.Notification{}}
	if len(own) == 0 {
		return out, nil
	}

	assertionByID := make(map[string]*domain.BadgeAssertion, len(own))
	ownIDs := make([]string, 0, len(own))
	for _, a := range own {
		ownIDs = append(ownIDs, a.ID)
		assertionByID[a.ID] = a
	}

	commentRows, err := s.comments.ByOthersOnAssertions(ctx, profile.ID, ownIDs, domain.OrderDesc, domain.Page{})
	if err != nil {
		return nil, err
	}

	type row struct {
		key     int64
		a       *domain.BadgeAssertion
		comment *domain.BadgeComment
	}
	rows := make([]row, 0, len(own)+len(commentRows))
	for _, a := range own {
		rows = append(rows, row{key: a.IssuedOn, a: a})
	}
	for _, c := range commentRows {
		if a, ok := assertionByID[c.AssertionID]; ok {
			rows = append(rows, row{key: c.Time, a: a, comment: c})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].key > rows[j].key })

	start := (page.PageNum - 1) * page.PageSize
	if start >= len(rows) {
		return out, nil
	}
	end := start + page.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	rows = rows[start:end]

	badgeIDs := make([]string, 0, len(rows))
	commenterIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		badgeIDs = append(badgeIDs, r.a.BadgeID)
		if r.comment != nil {
			commenterIDs = append(commenterIDs, r.comment.UserID)
		}
	}

	var idents map[string]identity
	var badges map[string]*domain.Badge
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		idents, err = s.resolver.resolve(gctx, commenterIDs)
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

	for _, r := range rows {
		badge := badges[r.a.BadgeID]
		n := domain.Notification{
			Type:        domain.NotificationAssertion,
			BadgeID:     r.a.BadgeID,
			AssertionID: r.a.ID,
			IssuedOn:    r.a.IssuedOn,
			Name:        badge.Name,
			Origin:      badge.Origin,
			Image:       badge.Image,
		}
		if r.comment != nil {
			ident := idents[r.comment.UserID]
			n.Type = domain.NotificationComment
			n.IntranetID = ident.IntranetID
			n.Username = ident.Name
			n.Time = r.comment.Time
		}
		out.Notifications = append(out.Notifications, n)
	}
	return out, nil
}

func (s *profileService) Feedback(ctx context.Context, message, appinfo string, screenshots []domain.Screenshot) error {
	if strings.TrimSpace(message) == "" {
		return apperr.Validation("message must not be empty")
	}
	_, err := s.feedback.Create(ctx, &domain.Feedback{
		Message:     message,
		AppInfo:     appinfo,
		Screenshots: screenshots,
	})
	return err
}

func (s *profileService) badgeMap(ctx context.Context, ids []string) (map[string]*domain.Badge, error) {
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
