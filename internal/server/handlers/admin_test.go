package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/businesses"
	"github.com/bizdir/backend/internal/security"
	"github.com/bizdir/backend/internal/server/mw"
)

type adminFixture struct {
	engine  *gin.Engine
	repo    *fakeStore
	cache   *fakeCache
	revoker *fakeRevoker
	token   string
	claims  security.AdminClaims
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		repo:    seedStore(),
		cache:   newFakeCache(),
		revoker: &fakeRevoker{revoked: map[string]time.Duration{}},
	}
	jwtm := security.NewJWTManager("secret", time.Hour)
	tok, claims, err := jwtm.Issue("ops")
	require.NoError(t, err)
	f.token, f.claims = tok, claims

	h := NewAdminHandler(zap.NewNop(), testCatalog(t), f.repo, f.cache, jwtm, f.revoker)
	r := gin.New()
	g := r.Group("/v1/admin", mw.RequireAdmin(jwtm, nil, zap.NewNop()))
	g.POST("/businesses", h.Create)
	g.PATCH("/businesses/:id", h.Patch)
	g.DELETE("/businesses/:id", h.Delete)
	g.POST("/logout", h.Logout)
	f.engine = r
	return f
}

func (f *adminFixture) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *adminFixture) idOf(slug string) string {
	for id, b := range f.repo.byID {
		if b.Slug == slug {
			return id
		}
	}
	return ""
}

func TestCreateBusiness(t *testing.T) {
	f := newAdminFixture(t)

	w := f.do(http.MethodPost, "/v1/admin/businesses", map[string]any{
		"name":     "  Blue Bay Hotel ",
		"locality": "dubai",
		"category": "hotels",
		"phone":    "+971 4 123 4567",
		"website":  "bluebay.example",
		"email":    "Stay@BlueBay.example",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Business businesses.Business `json:"business"`
	}
	decode(t, w, &body)
	assert.Equal(t, "blue-bay-hotel", body.Business.Slug)
	assert.Equal(t, "Blue Bay Hotel", body.Business.Name)
	require.NotNil(t, body.Business.Phone)
	assert.Equal(t, "+97141234567", *body.Business.Phone)
	require.NotNil(t, body.Business.Website)
	assert.Equal(t, "https://bluebay.example", *body.Business.Website)
	require.NotNil(t, body.Business.Email)
	assert.Equal(t, "stay@bluebay.example", *body.Business.Email)
	assert.Equal(t, []string{"dubai"}, f.cache.invalidated)
}

func TestCreateBusinessValidation(t *testing.T) {
	f := newAdminFixture(t)

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing fields", map[string]any{"name": "X Co"}, http.StatusBadRequest},
		{"short name", map[string]any{"name": "X", "locality": "dubai", "category": "hotels"}, http.StatusBadRequest},
		{"bad locality", map[string]any{"name": "X Co", "locality": "Dubai City", "category": "hotels"}, http.StatusBadRequest},
		{"reserved locality v1", map[string]any{"name": "X Co", "locality": "v1", "category": "hotels"}, http.StatusBadRequest},
		{"reserved locality health", map[string]any{"name": "X Co", "locality": "health", "category": "hotels"}, http.StatusBadRequest},
		{"reserved locality business", map[string]any{"name": "X Co", "locality": "business", "category": "hotels"}, http.StatusBadRequest},
		{"unknown category", map[string]any{"name": "X Co", "locality": "dubai", "category": "spas"}, http.StatusBadRequest},
		{"bad slug", map[string]any{"name": "X Co", "slug": "X_Co", "locality": "dubai", "category": "hotels"}, http.StatusBadRequest},
		{"slug equals category", map[string]any{"name": "Hotels", "locality": "dubai", "category": "hotels"}, http.StatusBadRequest},
		{"bad phone", map[string]any{"name": "X Co", "locality": "dubai", "category": "hotels", "phone": "call us"}, http.StatusBadRequest},
		{"bad website", map[string]any{"name": "X Co", "locality": "dubai", "category": "hotels", "website": "ftp://x.example"}, http.StatusBadRequest},
		{"duplicate slug", map[string]any{"name": "Zuma", "locality": "dubai", "category": "restaurants"}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/v1/admin/businesses", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, f.cache.invalidated)
}

func TestSameSlugInAnotherLocality(t *testing.T) {
	f := newAdminFixture(t)
	w := f.do(http.MethodPost, "/v1/admin/businesses", map[string]any{
		"name": "Zuma", "locality": "abu-dhabi", "category": "restaurants",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestPatchBusiness(t *testing.T) {
	f := newAdminFixture(t)
	id := f.idOf("atlantis")

	w := f.do(http.MethodPatch, "/v1/admin/businesses/"+id, map[string]any{
		"rating":   4.8,
		"verified": true,
		"category": "restaurants",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Event    string              `json:"event"`
		Business businesses.Business `json:"business"`
	}
	decode(t, w, &body)
	assert.Equal(t, "updated", body.Event)
	assert.True(t, body.Business.Verified)
	assert.Equal(t, "restaurants", body.Business.Category)
	assert.Equal(t, []string{"dubai"}, f.cache.invalidated)
}

func TestPatchBusinessErrors(t *testing.T) {
	f := newAdminFixture(t)
	id := f.idOf("atlantis")

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/v1/admin/businesses/nope", map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/v1/admin/businesses/"+id, map[string]any{"rating": 6}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/v1/admin/businesses/"+id, map[string]any{"category": "Hotels"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPatch, "/v1/admin/businesses/"+id, map[string]any{"email": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPatch, "/v1/admin/businesses/"+uuid.NewString(), map[string]any{"name": "Fine"}).Code)
}

func TestDeleteBusiness(t *testing.T) {
	f := newAdminFixture(t)
	id := f.idOf("emirates-palace")

	w := f.do(http.MethodDelete, "/v1/admin/businesses/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"abu-dhabi"}, f.cache.invalidated)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/v1/admin/businesses/"+id, nil).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAdminFixture(t)

	w := f.do(http.MethodPost, "/v1/admin/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	ttl, ok := f.revoker.revoked[f.claims.ID]
	require.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
}

func TestAdminRequiresToken(t *testing.T) {
	f := newAdminFixture(t)
	f.token = ""
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/v1/admin/businesses", map[string]any{}).Code)
}
