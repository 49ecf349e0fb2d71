package services

import (
	"testing"

	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
)

func TestNotExpired(t *testing.T) {
	live := &domain.BadgeAssertion{Expires: farFuture}
	dead := &domain.BadgeAssertion{Expires: longPast}

	if err := CheckGuards(live, "u1", NotExpired()); err != nil {
		t.Fatalf("expected pass got %v", err)
	}
	if err := CheckGuards(dead, "u1", NotExpired()); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestPublishedOnlyCarriesDomainCode(t *testing.T) {
	a := &domain.BadgeAssertion{Expires: farFuture, Published: false}

	err := CheckGuards(a, "u1", PublishedOnly())
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden got %v", err)
	}
	if apperr.CodeOf(err) != apperr.CodeBadgeAssertionNotPublished {
		t.Fatalf("expected code %d got %d", apperr.CodeBadgeAssertionNotPublished, apperr.CodeOf(err))
	}

	a.Published = true
	if err := CheckGuards(a, "u1", PublishedOnly()); err != nil {
		t.Fatalf("expected pass got %v", err)
	}
}

func TestSelfGuards(t *testing.T) {
	a := &domain.BadgeAssertion{UserID: "owner", Expires: farFuture, Published: true}

	if err := CheckGuards(a, "owner", DenySelf()); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden for owner got %v", err)
	}
	if err := CheckGuards(a, "other", DenySelf()); err != nil {
		t.Fatalf("expected pass for other got %v", err)
	}

	if err := CheckGuards(a, "owner", AllowSelfOnly()); err != nil {
		t.Fatalf("expected pass for owner got %v", err)
	}
	if err := CheckGuards(a, "other", AllowSelfOnly()); !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden for other got %v", err)
	}
}

func TestCheckGuardsStopsAtFirstViolation(t *testing.T) {
	a := &domain.BadgeAssertion{UserID: "owner", Expires: longPast, Published: false}

	err := CheckGuards(a, "other", NotExpired(), PublishedOnly())
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected forbidden got %v", err)
	}
	// The expiry guard fires before the publish guard, so no domain code.
	if apperr.CodeOf(err) != 0 {
		t.Fatalf("expected no domain code got %d", apperr.CodeOf(err))
	}
}
