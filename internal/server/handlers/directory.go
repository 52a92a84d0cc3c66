package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/businesses"
	"github.com/bizdir/backend/internal/catalog"
	"github.com/bizdir/backend/internal/routing"
	"github.com/bizdir/backend/internal/server/resp"
	"github.com/bizdir/backend/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BusinessStore is implemented by *businesses.Repo.
type BusinessStore interface {
	FindBySlug(ctx context.Context, locality, slug string) (*businesses.Business, error)
	ListByCategory(ctx context.Context, locality, category string, limit, offset int) ([]businesses.Business, int, error)
	Localities(ctx context.Context) ([]businesses.Locality, error)
	Create(ctx context.Context, nb businesses.NewBusiness) (*businesses.Business, error)
	Update(ctx context.Context, id uuid.UUID, p businesses.Patch) (*businesses.Business, error)
	Delete(ctx context.Context, id uuid.UUID) (*businesses.Business, error)
}

// ListingCache is implemented by *store.ListingCache.
type ListingCache interface {
	Get(ctx context.Context, locality, category string, limit, offset int, dst any) error
	Put(ctx context.Context, locality, category string, limit, offset int, page any) error
	InvalidateLocality(ctx context.Context, locality string) error
}

// ListingPage is the body of a category view.
type ListingPage struct {
	View       string                `json:"view"`
	Locality   string                `json:"locality"`
	Category   catalog.Entry         `json:"category"`
	Total      int                   `json:"total"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
	Businesses []businesses.Business `json:"businesses"`
}

// ProfilePage is the body of a business profile view.
type ProfilePage struct {
	View     string               `json:"view"`
	Locality string               `json:"locality"`
	Business *businesses.Business `json:"business"`
}

type DirectoryHandler struct {
	logger     *zap.Logger
	catalog    *catalog.Catalog
	classifier *routing.Classifier
	businesses BusinessStore
	cache      ListingCache
}

// NewDirectoryHandler wires the page handlers; cache may be nil.
func NewDirectoryHandler(logger *zap.Logger, cat *catalog.Catalog, classifier *routing.Classifier, repo BusinessStore, cache ListingCache) *DirectoryHandler {
	return &DirectoryHandler{logger: logger, catalog: cat, classifier: classifier, businesses: repo, cache: cache}
}

// GET /business
func (h *DirectoryHandler) Index(c *gin.Context) {
	localities, err := h.businesses.Localities(c.Request.Context())
	if err != nil {
		h.logger.Error("list localities failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{
		"localities": localities,
		"categories": h.catalog.Entries(),
	})
}

// GET /:locality
func (h *DirectoryHandler) Locality(c *gin.Context) {
	h.dispatch(c, routing.WithoutSegment(c.Param("locality")))
}

// GET /:locality/:segment
func (h *DirectoryHandler) Page(c *gin.Context) {
	h.dispatch(c, routing.NewRequest(c.Param("locality"), c.Param("segment")))
}

func (h *DirectoryHandler) dispatch(c *gin.Context, req routing.Request) {
	d := h.classifier.Classify(req)
	switch d.View {
	case routing.CategoryView:
		h.category(c, d)
	case routing.ProfileView:
		h.profile(c, d)
	case routing.Redirect:
		h.logger.Warn("directory path without segment, redirecting",
			zap.String("locality", d.Locality),
			zap.String("target", d.Target),
		)
		c.Redirect(http.StatusFound, d.Target)
	default:
		resp.Error(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *DirectoryHandler) category(c *gin.Context, d routing.Decision) {
	limit, offset, ok := pagination(c)
	if !ok {
		resp.Error(c, http.StatusBadRequest, "invalid limit/offset")
		return
	}
	ctx := c.Request.Context()

	if h.cache != nil {
		var page ListingPage
		err := h.cache.Get(ctx, d.Locality, d.Segment, limit, offset, &page)
		if err == nil {
			resp.OK(c, page)
			return
		}
		if !errors.Is(err, store.ErrCacheMiss) {
			h.logger.Warn("listing cache read failed", zap.Error(err))
		}
	}

	list, total, err := h.businesses.ListByCategory(ctx, d.Locality, d.Segment, limit, offset)
	if err != nil {
		h.logger.Error("list businesses failed", zap.Error(err),
			zap.String("locality", d.Locality), zap.String("category", d.Segment))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	entry, _ := h.catalog.Lookup(d.Segment)
	page := ListingPage{
		View:       routing.CategoryView.String(),
		Locality:   d.Locality,
		Category:   entry,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		Businesses: list,
	}
	if h.cache != nil {
		if err := h.cache.Put(ctx, d.Locality, d.Segment, limit, offset, page); err != nil {
			h.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}
	resp.OK(c, page)
}

func (h *DirectoryHandler) profile(c *gin.Context, d routing.Decision) {
	b, err := h.businesses.FindBySlug(c.Request.Context(), d.Locality, d.Segment)
	if err != nil {
		if errors.Is(err, businesses.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, "business not found")
			return
		}
		h.logger.Error("find business failed", zap.Error(err),
			zap.String("locality", d.Locality), zap.String("slug", d.Segment))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, ProfilePage{View: routing.ProfileView.String(), Locality: d.Locality, Business: b})
}

func pagination(c *gin.Context) (limit, offset int, ok bool) {
	limit, offset = defaultPageSize, 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = min(n, maxPageSize)
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
