package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/businesses"
	"github.com/bizdir/backend/internal/catalog"
	"github.com/bizdir/backend/internal/routing"
	"github.com/bizdir/backend/internal/security"
	"github.com/bizdir/backend/internal/server/mw"
	"github.com/bizdir/backend/internal/server/resp"
	"github.com/bizdir/backend/internal/util"
)

// Revoker is implemented by *store.TokenDenylist.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AdminHandler struct {
	logger     *zap.Logger
	catalog    *catalog.Catalog
	businesses BusinessStore
	cache      ListingCache
	jwtm       *security.JWTManager
	revoker    Revoker
}

// NewAdminHandler wires the directory write endpoints; cache and revoker may be nil.
func NewAdminHandler(logger *zap.Logger, cat *catalog.Catalog, repo BusinessStore, cache ListingCache, jwtm *security.JWTManager, revoker Revoker) *AdminHandler {
	return &AdminHandler{logger: logger, catalog: cat, businesses: repo, cache: cache, jwtm: jwtm, revoker: revoker}
}

type contactFields struct {
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Website     *string `json:"website,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type createBusinessReq struct {
	Slug     string `json:"slug"`
	Name     string `json:"name" binding:"required"`
	Locality string `json:"locality" binding:"required"`
	Category string `json:"category" binding:"required"`
	contactFields
}

type patchBusinessReq struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	OpeningHours *string  `json:"opening_hours,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Verified     *bool    `json:"verified,omitempty"`
	contactFields
}

// POST /v1/admin/businesses
func (h *AdminHandler) Create(c *gin.Context) {
	var req createBusinessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		resp.Error(c, http.StatusBadRequest, "name is too short")
		return
	}
	locality := strings.TrimSpace(req.Locality)
	if !util.ValidSlug(locality) {
		resp.Error(c, http.StatusBadRequest, "locality must be a lowercase slug")
		return
	}
	if routing.IsReservedLocality(locality) {
		resp.Error(c, http.StatusBadRequest, "locality name is reserved")
		return
	}
	if !h.catalog.Contains(req.Category) {
		resp.Error(c, http.StatusBadRequest, "unknown category")
		return
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = util.Slugify(name)
	}
	if !util.ValidSlug(slug) {
		resp.Error(c, http.StatusBadRequest, "slug must be lowercase kebab-case")
		return
	}
	// A business slug equal to a category slug would always route to the category page.
	if h.catalog.Contains(slug) {
		resp.Error(c, http.StatusBadRequest, "slug collides with a category")
		return
	}
	contact, msg := normalizeContact(req.contactFields)
	if msg != "" {
		resp.Error(c, http.StatusBadRequest, msg)
		return
	}

	b, err := h.businesses.Create(c.Request.Context(), businesses.NewBusiness{
		Slug:        slug,
		Name:        name,
		Locality:    locality,
		Category:    req.Category,
		Description: contact.Description,
		Phone:       contact.Phone,
		Website:     contact.Website,
		Email:       contact.Email,
		Address:     contact.Address,
		ImageURL:    contact.ImageURL,
	})
	if err != nil {
		if errors.Is(err, businesses.ErrSlugTaken) {
			resp.Error(c, http.StatusConflict, "slug already taken in this locality")
			return
		}
		h.logger.Error("create business failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	h.invalidate(c, b.Locality)
	resp.Created(c, gin.H{"business": b})
}

// PATCH /v1/admin/businesses/:id
func (h *AdminHandler) Patch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid id")
		return
	}
	var req patchBusinessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		if len(v) < 2 {
			resp.Error(c, http.StatusBadRequest, "name is too short")
			return
		}
		req.Name = &v
	}
	if req.Category != nil && !h.catalog.Contains(*req.Category) {
		resp.Error(c, http.StatusBadRequest, "unknown category")
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		resp.Error(c, http.StatusBadRequest, "rating must be between 0 and 5")
		return
	}
	if req.OpeningHours != nil {
		v := strings.TrimSpace(*req.OpeningHours)
		req.OpeningHours = &v
	}
	contact, msg := normalizeContact(req.contactFields)
	if msg != "" {
		resp.Error(c, http.StatusBadRequest, msg)
		return
	}

	b, err := h.businesses.Update(c.Request.Context(), id, businesses.Patch{
		Name:         req.Name,
		Category:     req.Category,
		Description:  contact.Description,
		Phone:        contact.Phone,
		Website:      contact.Website,
		Email:        contact.Email,
		Address:      contact.Address,
		ImageURL:     contact.ImageURL,
		OpeningHours: req.OpeningHours,
		Rating:       req.Rating,
		Verified:     req.Verified,
	})
	if err != nil {
		if errors.Is(err, businesses.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, "business not found")
			return
		}
		h.logger.Error("update business failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	h.invalidate(c, b.Locality)
	resp.OK(c, gin.H{"event": "updated", "business": b})
}

// DELETE /v1/admin/businesses/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid id")
		return
	}
	b, err := h.businesses.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, businesses.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, "business not found")
			return
		}
		h.logger.Error("delete business failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	h.invalidate(c, b.Locality)
	resp.OK(c, gin.H{"event": "deleted", "id": b.ID})
}

// POST /v1/admin/logout revokes the presented token.
func (h *AdminHandler) Logout(c *gin.Context) {
	claims, ok := mw.AdminClaimsFrom(c)
	if !ok {
		resp.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.revoker != nil {
		if err := h.revoker.Revoke(c.Request.Context(), claims.ID, h.jwtm.Remaining(claims)); err != nil {
			h.logger.Error("revoke token failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
	}
	resp.OK(c, gin.H{"event": "logged_out"})
}

func (h *AdminHandler) invalidate(c *gin.Context, locality string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateLocality(c.Request.Context(), locality); err != nil {
		h.logger.Warn("listing cache invalidation failed", zap.String("locality", locality), zap.Error(err))
	}
}

// normalizeContact trims free text and normalizes phone, website and email.
// A non-empty message means the payload is invalid.
func normalizeContact(in contactFields) (contactFields, string) {
	out := contactFields{
		Description: trimmed(in.Description),
		Address:     trimmed(in.Address),
		ImageURL:    trimmed(in.ImageURL),
	}
	if in.Phone != nil {
		v, err := util.NormalizePhone(*in.Phone)
		if err != nil {
			return out, err.Error()
		}
		out.Phone = &v
	}
	if in.Website != nil {
		v, err := util.NormalizeWebsite(*in.Website)
		if err != nil {
			return out, err.Error()
		}
		out.Website = &v
	}
	if in.Email != nil {
		v, err := util.NormalizeEmail(*in.Email)
		if err != nil {
			return out, err.Error()
		}
		out.Email = &v
	}
	return out, ""
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
