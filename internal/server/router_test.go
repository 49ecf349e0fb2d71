package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/clients/directory"
	"github.com/badgeboard/badgeboard-backend/internal/data/aggregates"
	"github.com/badgeboard/badgeboard-backend/internal/data/docstore"
	"github.com/badgeboard/badgeboard-backend/internal/data/repos"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/http/handlers"
	"github.com/badgeboard/badgeboard-backend/internal/http/middleware"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
	"github.com/badgeboard/badgeboard-backend/internal/services"
)

type testEnv struct {
	router     *gin.Engine
	store      *docstore.MemoryStore
	users      repos.UserRepo
	assertions repos.AssertionRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := docstore.NewMemoryStore()
	userRepo := repos.NewUserRepo(store, log)
	badgeRepo := repos.NewBadgeRepo(store, log)
	assertionRepo := repos.NewAssertionRepo(store, log)
	commentRepo := repos.NewCommentRepo(store, log)
	likeRepo := repos.NewLikeRepo(store, log)
	favorRepo := repos.NewFavorRepo(store, log)
	feedbackRepo := repos.NewFeedbackRepo(store, log)
	searchRepo := repos.NewSearchRepo(store, log)
	agg := aggregates.NewFetcher(store, log)
	dir := directory.NewStaticClient()

	authService := services.NewAuthService(userRepo, services.NewAllowAllChecker(), "testsecret", time.Hour, log)
	badgeService := services.NewBadgeService(assertionRepo, badgeRepo, userRepo, commentRepo, likeRepo, favorRepo, searchRepo, agg, dir, log)
	profileService := services.NewProfileService(userRepo, assertionRepo, badgeRepo, commentRepo, favorRepo, feedbackRepo, agg, dir, log)

	router := NewRouter(RouterConfig{
		Log:              log,
		AuthHandler:      handlers.NewAuthHandler(authService),
		BadgeHandler:     handlers.NewBadgeHandler(badgeService),
		ProfileHandler:   handlers.NewProfileHandler(profileService, badgeService),
		HealthHandler:    handlers.NewHealthHandler(),
		AuthMiddleware:   middleware.NewAuthMiddleware(log, authService),
		EntityMiddleware: middleware.NewEntityMiddleware(log, badgeService, profileService),
	})
	return &testEnv{router: router, store: store, users: userRepo, assertions: assertionRepo}
}

func (e *testEnv) seedUser(t *testing.T, intranetID string) *domain.User {
	t.Helper()
	u, err := e.users.Save(context.Background(), &domain.User{IntranetID: intranetID, Name: intranetID})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (e *testEnv) login(t *testing.T, intranetID string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": intranetID, "password": "pw"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return result.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthcheck(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/healthcheck", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/v1/badges?pageNum=1&pageSize=10", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestStreamEndToEnd(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	me := e.seedUser(t, "me@example.com")

	badgeDoc, err := docstore.NewDocument(domain.TypeBadge, &domain.Badge{
		UID: "explorer", Name: "Explorer", Origin: "acme", Image: "explorer.png",
	})
	if err != nil {
		t.Fatalf("badge doc: %v", err)
	}
	savedBadge, err := e.store.Save(ctx, badgeDoc)
	if err != nil {
		t.Fatalf("save badge: %v", err)
	}
	if _, err := e.assertions.Save(ctx, &domain.BadgeAssertion{
		UserID: me.ID, BadgeID: savedBadge.ID, IssuedOn: 100,
		Expires: time.Now().Add(time.Hour).UnixMilli(), Published: true,
	}); err != nil {
		t.Fatalf("save assertion: %v", err)
	}

	token := e.login(t, "me@example.com")
	w := e.do(t, http.MethodGet, "/api/v1/badges?pageNum=1&pageSize=10", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var page domain.StreamPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Badges) != 1 || page.Badges[0].Badge.Name != "Explorer" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestCommentOnUnpublishedReturnsDomainCode(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.seedUser(t, "owner@example.com")
	e.seedUser(t, "commenter@example.com")

	a, err := e.assertions.Save(ctx, &domain.BadgeAssertion{
		UserID: owner.ID, BadgeID: "b1",
		Expires: time.Now().Add(time.Hour).UnixMilli(), Published: false,
	})
	if err != nil {
		t.Fatalf("save assertion: %v", err)
	}

	token := e.login(t, "commenter@example.com")
	body, _ := json.Marshal(map[string]string{"comment": "nice"})
	w := e.do(t, http.MethodPost, "/api/v1/badge/"+a.ID+"/comments", token, body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d: %s", w.Code, w.Body.String())
	}
	var envelope struct {
		Error struct {
			DomainCode int `json:"domainCode"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.DomainCode != 3002 {
		t.Fatalf("expected domainCode 3002 got %d", envelope.Error.DomainCode)
	}
}

func TestEarnersAddressedByBadge(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	me := e.seedUser(t, "me@example.com")

	badgeDoc, err := docstore.NewDocument(domain.TypeBadge, &domain.Badge{
		UID: "explorer", Name: "Explorer", Origin: "acme",
	})
	if err != nil {
		t.Fatalf("badge doc: %v", err)
	}
	savedBadge, err := e.store.Save(ctx, badgeDoc)
	if err != nil {
		t.Fatalf("save badge: %v", err)
	}
	if _, err := e.assertions.Save(ctx, &domain.BadgeAssertion{
		UserID: me.ID, BadgeID: savedBadge.ID, IssuedOn: 100,
		Expires: time.Now().Add(time.Hour).UnixMilli(), Published: true,
	}); err != nil {
		t.Fatalf("save assertion: %v", err)
	}

	token := e.login(t, "me@example.com")
	w := e.do(t, http.MethodGet, "/api/v1/badges/"+savedBadge.ID+"/earners", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var result struct {
		Earners []domain.Earner `json:"earners"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Earners) != 1 {
		t.Fatalf("expected 1 earner got %d", len(result.Earners))
	}
}

func TestMissingAssertionReturns404(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "me@example.com")
	token := e.login(t, "me@example.com")

	w := e.do(t, http.MethodGet, "/api/v1/badge/ghost", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", w.Code, w.Body.String())
	}
}
