package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bizdir/backend/internal/catalog"
	"github.com/bizdir/backend/internal/server/resp"
)

// GET /health
func Health(c *gin.Context) {
	resp.OK(c, gin.H{"status": "ok"})
}

// Categories returns the handler for GET /v1/categories.
func Categories(cat *catalog.Catalog) gin.HandlerFunc {
	entries := cat.Entries()
	return func(c *gin.Context) {
		resp.OK(c, entries)
	}
}
