package services

import (
	"time"

	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
)

// AssertionGuard is a precondition checked against an assertion before an
// action runs.
type AssertionGuard func(a *domain.BadgeAssertion, viewerID string) error

// NotExpired rejects assertions whose expiry has passed.
func NotExpired() AssertionGuard {
	return func(a *domain.BadgeAssertion, _ string) error {
		if a.Expires <= time.Now().UnixMilli() {
			return apperr.Forbidden("the badge has expired")
		}
		return nil
	}
}

// PublishedOnly rejects unpublished assertions with the domain error code
// social actions report.
func PublishedOnly() AssertionGuard {
	return func(a *domain.BadgeAssertion, _ string) error {
		if !a.Published {
			return apperr.ForbiddenCode(apperr.ModelBadgeAssertion, apperr.CodeBadgeAssertionNotPublished,
				"the badge is not published")
		}
		return nil
	}
}

// DenySelf rejects the assertion owner; used for like and unlike.
func DenySelf() AssertionGuard {
	return func(a *domain.BadgeAssertion, viewerID string) error {
		if a.UserID == viewerID {
			return apperr.Forbidden("the action is not allowed on your own badge")
		}
		return nil
	}
}

// AllowSelfOnly rejects everyone but the assertion owner; used for publish
// and unpublish.
func AllowSelfOnly() AssertionGuard {
	return func(a *domain.BadgeAssertion, viewerID string) error {
		if a.UserID != viewerID {
			return apperr.Forbidden("only the badge owner may do this")
		}
		return nil
	}
}

// CheckGuards applies guards in order and returns the first violation.
func CheckGuards(a *domain.BadgeAssertion, viewerID string, guards ...AssertionGuard) error {
	for _, g := range guards {
		if err := g(a, viewerID); err != nil {
			return err
		}
	}
	return nil
}
