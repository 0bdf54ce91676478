package nft

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// NftHandler handles REST API requests for the marketplace.
type NftHandler struct {
	svc domain.NftService
}

// NewNftHandler creates a new NftHandler with the given service.
func NewNftHandler(svc domain.NftService) *NftHandler {
	return &NftHandler{svc: svc}
}

// List handles GET /api/v1/nfts/collection.
func (h *NftHandler) List(c *gin.Context) {
	page, err := h.svc.ListNfts(c.Request.Context(), pkg.ParseListingQuery(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, page)
}

// Collection handles GET /api/v1/nfts/collections/:id.
func (h *NftHandler) Collection(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	col, err := h.svc.GetCollection(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, col)
}

// Get handles GET /api/v1/nfts/:id.
func (h *NftHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	viewer, _ := middleware.UserID(c)

	detail, err := h.svc.GetNft(c.Request.Context(), id, viewer)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, detail)
}

// Liked handles GET /api/v1/nfts/liked.
func (h *NftHandler) Liked(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	page, err := h.svc.ListLiked(c.Request.Context(), userID, pkg.ParseListingQuery(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, page)
}

// Like handles POST /api/v1/nfts/liked.
func (h *NftHandler) Like(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req LikeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	if err := h.svc.Like(c.Request.Context(), userID, req.NftID); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Unlike handles DELETE /api/v1/nfts/liked/:id.
func (h *NftHandler) Unlike(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.Unlike(c.Request.Context(), userID, id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Purchase handles POST /api/v1/nfts/:id/purchases.
func (h *NftHandler) Purchase(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req PurchaseRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	purchase, err := h.svc.RecordPurchase(c.Request.Context(), userID, id, req.TxSignature)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, purchase)
}
