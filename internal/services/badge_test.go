package services

import (
	"context"
	"testing"

	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
)

func TestStreamVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.seedUser(t, "me@example.com")
	other := f.seedUser(t, "other@example.com")
	badge := f.seedBadge(t, "Explorer")

	// Own unpublished: visible.
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: me.ID, BadgeID: badge.ID, IssuedOn: 100, Expires: farFuture, Published: false,
	})
	// Other published: visible.
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: other.ID, BadgeID: badge.ID, IssuedOn: 200, Expires: farFuture, Published: true,
	})
	// Other unpublished: hidden.
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: other.ID, BadgeID: badge.ID, IssuedOn: 300, Expires: farFuture, Published: false,
	})
	// Expired, even though published: hidden.
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: other.ID, BadgeID: badge.ID, IssuedOn: 400, Expires: longPast, Published: true,
	})

	page, err := f.badge.Stream(ctx, me, domain.Page{PageNum: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(page.Badges) != 2 {
		t.Fatalf("expected 2 stream rows got %d", len(page.Badges))
	}
	// Newest first.
	if page.Badges[0].Badge.IssuedOn != 200 || page.Badges[1].Badge.IssuedOn != 100 {
		t.Fatalf("unexpected order: %d, %d", page.Badges[0].Badge.IssuedOn, page.Badges[1].Badge.IssuedOn)
	}
	if page.Badges[0].User.IntranetID != other.IntranetID {
		t.Fatalf("expected owner intranet id %q got %q", other.IntranetID, page.Badges[0].User.IntranetID)
	}
	if page.Badges[0].Badge.Name != "Explorer" {
		t.Fatalf("expected badge name joined, got %q", page.Badges[0].Badge.Name)
	}
}

func TestStreamPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.seedUser(t, "me@example.com")
	badge := f.seedBadge(t, "Explorer")

	for i := 1; i <= 12; i++ {
		f.seedAssertion(t, &domain.BadgeAssertion{
			UserID: me.ID, BadgeID: badge.ID, IssuedOn: int64(i * 100), Expires: farFuture,
		})
	}

	page, err := f.badge.Stream(ctx, me, domain.Page{PageNum: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(page.Badges) != 5 {
		t.Fatalf("expected 5 rows on page 2 got %d", len(page.Badges))
	}
	// Rows 6..10 of the desc order.
	if page.Badges[0].Badge.IssuedOn != 700 {
		t.Fatalf("expected first row issuedOn=700 got %d", page.Badges[0].Badge.IssuedOn)
	}

	last, err := f.badge.Stream(ctx, me, domain.Page{PageNum: 3, PageSize: 5})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(last.Badges) != 2 {
		t.Fatalf("expected 2 rows on page 3 got %d", len(last.Badges))
	}
}

func TestStreamRejectsUnboundedPage(t *testing.T) {
	f := newFixture(t)
	me := f.seedUser(t, "me@example.com")

	_, err := f.badge.Stream(context.Background(), me, domain.Page{PageNum: 0, PageSize: 10})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestLikeIsIdempotentAndBumpsCounterOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	liker := f.seedUser(t, "liker@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, IssuedOn: 100, Expires: farFuture, Published: true,
	})

	if err := f.badge.Like(ctx, liker, a); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := f.badge.Like(ctx, liker, a); err != nil {
		t.Fatalf("second like: %v", err)
	}

	got, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Like != 1 {
		t.Fatalf("expected counter=1 got %d", got.Like)
	}

	like, err := f.likes.Find(ctx, liker.ID, a.ID)
	if err != nil {
		t.Fatalf("find like: %v", err)
	}
	if like == nil {
		t.Fatalf("expected like document")
	}
}

func TestUnlikeWithoutLikeIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	viewer := f.seedUser(t, "viewer@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, IssuedOn: 100, Expires: farFuture, Published: true, Like: 3,
	})

	if err := f.badge.Unlike(ctx, viewer, a); err != nil {
		t.Fatalf("unlike: %v", err)
	}

	got, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Like != 3 {
		t.Fatalf("expected counter unchanged at 3, got %d", got.Like)
	}
}

func TestLikeUnlikeRoundtripRestoresCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	liker := f.seedUser(t, "liker@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, IssuedOn: 100, Expires: farFuture, Published: true,
	})

	if err := f.badge.Like(ctx, liker, a); err != nil {
		t.Fatalf("like: %v", err)
	}
	reloaded, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := f.badge.Unlike(ctx, liker, reloaded); err != nil {
		t.Fatalf("unlike: %v", err)
	}

	got, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Like != 0 {
		t.Fatalf("expected counter back to 0, got %d", got.Like)
	}
	like, err := f.likes.Find(ctx, liker.ID, a.ID)
	if err != nil {
		t.Fatalf("find like: %v", err)
	}
	if like != nil {
		t.Fatalf("expected like removed")
	}
}

func TestLikeOwnAssertionForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, Expires: farFuture, Published: true,
	})

	err := f.badge.Like(context.Background(), owner, a)
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestCommentRequiresPublishedAssertion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	commenter := f.seedUser(t, "commenter@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, Expires: farFuture, Published: false,
	})

	_, err := f.badge.Comment(ctx, commenter, a, "nice badge")
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden got %v", err)
	}
	if apperr.CodeOf(err) != apperr.CodeBadgeAssertionNotPublished {
		t.Fatalf("expected code %d got %d", apperr.CodeBadgeAssertionNotPublished, apperr.CodeOf(err))
	}

	if err := f.badge.Publish(ctx, owner, a); err != nil {
		t.Fatalf("publish: %v", err)
	}
	reloaded, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	created, err := f.badge.Comment(ctx, commenter, reloaded, "nice badge")
	if err != nil {
		t.Fatalf("comment after publish: %v", err)
	}
	if created.ID == "" || created.Time == 0 {
		t.Fatalf("expected stamped comment, got %+v", created)
	}
}

func TestPublishIsIdempotentAndOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	stranger := f.seedUser(t, "stranger@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, Expires: farFuture, Published: false,
	})

	if err := f.badge.Publish(ctx, stranger, a); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden for non-owner got %v", err)
	}

	if err := f.badge.Publish(ctx, owner, a); err != nil {
		t.Fatalf("publish: %v", err)
	}
	first, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !first.Published {
		t.Fatalf("expected published")
	}

	// Publishing an already published assertion writes nothing.
	if err := f.badge.Publish(ctx, owner, first); err != nil {
		t.Fatalf("second publish: %v", err)
	}
	second, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if second.Rev != first.Rev {
		t.Fatalf("expected rev unchanged on no-op publish: %d vs %d", second.Rev, first.Rev)
	}

	if err := f.badge.Unpublish(ctx, owner, second); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	final, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if final.Published {
		t.Fatalf("expected unpublished")
	}
}

func TestExpiredAssertionRejectsActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	viewer := f.seedUser(t, "viewer@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, Expires: longPast, Published: true,
	})

	if err := f.badge.Like(ctx, viewer, a); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden like got %v", err)
	}
	if _, err := f.badge.Comment(ctx, viewer, a, "hi"); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden comment got %v", err)
	}
	if err := f.badge.Publish(ctx, owner, a); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden publish got %v", err)
	}
}

func TestFavorIsIdempotentAndUnfavorNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, "viewer@example.com")
	badge := f.seedBadge(t, "Explorer")

	if err := f.badge.Favor(ctx, viewer, badge.ID); err != nil {
		t.Fatalf("favor: %v", err)
	}
	if err := f.badge.Favor(ctx, viewer, badge.ID); err != nil {
		t.Fatalf("second favor: %v", err)
	}
	ids, err := f.favors.BadgeIDsByUser(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("badge ids: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected single favor got %d", len(ids))
	}

	if err := f.badge.Unfavor(ctx, viewer, badge.ID); err != nil {
		t.Fatalf("unfavor: %v", err)
	}
	// Unfavoring again is a no-op.
	if err := f.badge.Unfavor(ctx, viewer, badge.ID); err != nil {
		t.Fatalf("second unfavor: %v", err)
	}
	ids, err = f.favors.BadgeIDsByUser(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("badge ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no favors got %d", len(ids))
	}
}

func TestGetDetailJoinsBadgeAndAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	liker := f.seedUser(t, "liker@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, IssuedOn: 100, Expires: farFuture, Published: true,
	})
	if err := f.badge.Like(ctx, liker, a); err != nil {
		t.Fatalf("like: %v", err)
	}
	f.seedComment(t, &domain.BadgeComment{AssertionID: a.ID, UserID: liker.ID, Time: 10, Comment: "nice"})

	detail, err := f.badge.GetDetail(ctx, liker, a)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Name != "Explorer" || detail.LikeNum != 1 || detail.CommentNum != 1 || detail.EarnerNum != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if !detail.Liked {
		t.Fatalf("expected liked=true for the liker")
	}
}

func TestGetDetailRequiresPublishedForOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	viewer := f.seedUser(t, "viewer@example.com")
	badge := f.seedBadge(t, "Explorer")
	a := f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, IssuedOn: 100, Expires: farFuture, Published: false,
	})

	_, err := f.badge.GetDetail(ctx, viewer, a)
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden got %v", err)
	}
	if apperr.CodeOf(err) != apperr.CodeBadgeAssertionNotPublished {
		t.Fatalf("expected code %d got %d", apperr.CodeBadgeAssertionNotPublished, apperr.CodeOf(err))
	}

	own, err := f.badge.GetDetail(ctx, owner, a)
	if err != nil {
		t.Fatalf("owner detail: %v", err)
	}
	if own.Published {
		t.Fatalf("expected unpublished detail for the owner, got %+v", own)
	}

	if err := f.badge.Publish(ctx, owner, a); err != nil {
		t.Fatalf("publish: %v", err)
	}
	reloaded, err := f.assertions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	detail, err := f.badge.GetDetail(ctx, viewer, reloaded)
	if err != nil {
		t.Fatalf("detail after publish: %v", err)
	}
	if detail.Name != "Explorer" || !detail.Published {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestGetEarnersDistinctWithBadgeNum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.seedUser(t, "u1@example.com")
	u2 := f.seedUser(t, "u2@example.com")
	badge := f.seedBadge(t, "Explorer")
	other := f.seedBadge(t, "Builder")

	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: u1.ID, BadgeID: badge.ID, IssuedOn: 100, Expires: farFuture, Published: true,
	})
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: u2.ID, BadgeID: badge.ID, IssuedOn: 200, Expires: farFuture, Published: true,
	})
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: u2.ID, BadgeID: other.ID, IssuedOn: 300, Expires: farFuture, Published: true,
	})

	earners, err := f.badge.GetEarners(ctx, u1, badge.ID, domain.OrderAsc)
	if err != nil {
		t.Fatalf("earners: %v", err)
	}
	if len(earners) != 2 {
		t.Fatalf("expected 2 earners got %d", len(earners))
	}
	if earners[0].IntranetID != u1.IntranetID {
		t.Fatalf("expected earliest earner first, got %q", earners[0].IntranetID)
	}
	if earners[1].BadgeNum != 2 {
		t.Fatalf("expected badgeNum=2 for second earner got %d", earners[1].BadgeNum)
	}

	_, err = f.badge.GetEarners(ctx, u1, "missing-badge", domain.OrderAsc)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for an unknown badge, got %v", err)
	}
}

func TestSearchFiltersAndExclusions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, "viewer@example.com")
	f.seedUser(t, "explorer fan")

	matching := f.seedBadge(t, "Cloud Explorer", "go", "cloud")
	favored := f.seedBadge(t, "Explorer Elite", "cloud")
	earned := f.seedBadge(t, "Explorer Basic", "cloud")
	f.seedBadge(t, "Data Wrangler", "sql")

	if err := f.badge.Favor(ctx, viewer, favored.ID); err != nil {
		t.Fatalf("favor: %v", err)
	}
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: viewer.ID, BadgeID: earned.ID, Expires: farFuture, Published: true,
	})

	page, err := f.badge.Search(ctx, viewer, "explorer", domain.SearchFilters{
		SearchUsers:           true,
		ExcludeFavoriteBadges: true,
		ExcludeEarnedBadges:   true,
	}, domain.Page{PageNum: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(page.Badges) != 1 || page.Badges[0].BadgeID != matching.ID {
		t.Fatalf("expected only the unfavored unearned badge, got %+v", page.Badges)
	}
	if len(page.Users) != 1 {
		t.Fatalf("expected 1 matching user got %d", len(page.Users))
	}

	// Skills narrow the badge clause.
	skillPage, err := f.badge.Search(ctx, viewer, "explorer", domain.SearchFilters{
		Skills: []string{"sql"},
	}, domain.Page{PageNum: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("search with skills: %v", err)
	}
	if len(skillPage.Badges) != 0 {
		t.Fatalf("expected no badges for sql skill, got %d", len(skillPage.Badges))
	}
}

func TestSearchRequiresCriteria(t *testing.T) {
	f := newFixture(t)
	viewer := f.seedUser(t, "viewer@example.com")

	_, err := f.badge.Search(context.Background(), viewer, "  ", domain.SearchFilters{}, domain.Page{PageNum: 1, PageSize: 10})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestGetUserBadge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner@example.com")
	badge := f.seedBadge(t, "Explorer")
	f.seedAssertion(t, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: badge.ID, IssuedOn: 123, Expires: farFuture, Published: true,
	})

	detail, err := f.badge.GetUserBadge(ctx, owner, badge)
	if err != nil {
		t.Fatalf("user badge: %v", err)
	}
	if detail.IssuedOn != 123 || detail.UID != badge.UID {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	other := f.seedBadge(t, "Builder")
	if _, err := f.badge.GetUserBadge(ctx, owner, other); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for unearned badge got %v", err)
	}
}

func TestDeleteCommentNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.badge.DeleteComment(context.Background(), "missing")
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found got %v", err)
	}
	if apperr.CodeOf(err) != apperr.CodeBadgeCommentNotExist {
		t.Fatalf("expected code %d got %d", apperr.CodeBadgeCommentNotExist, apperr.CodeOf(err))
	}
}
