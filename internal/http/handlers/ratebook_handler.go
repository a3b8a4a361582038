// README: Admin rate-book inspection and cache invalidation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blackcar/internal/modules/pricing"
)

type RateBookHandler struct {
	store *pricing.Store
}

func NewRateBookHandler(store *pricing.Store) *RateBookHandler {
	return &RateBookHandler{store: store}
}

// Get returns the rate book as the engine currently sees it (cache included),
// so support can verify which configuration a disputed quote was priced with.
func (h *RateBookHandler) Get(c *gin.Context) {
	book, err := h.store.RateBook(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Invalidate drops the cached snapshot after rate edits in the admin tool.
func (h *RateBookHandler) Invalidate(c *gin.Context) {
	if err := h.store.InvalidateCache(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}
