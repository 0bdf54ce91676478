package nft

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/middleware"
)

// NftModule implements the app.Module interface for the marketplace.
type NftModule struct {
	handler *NftHandler
}

// NewModule creates a new NftModule with the given handler.
// Panics if h is nil.
func NewModule(h *NftHandler) *NftModule {
	if h == nil {
		panic("nft.NewModule: handler must not be nil")
	}
	return &NftModule{handler: h}
}

// RegisterRoutes registers marketplace API routes.
func (m *NftModule) RegisterRoutes(api *gin.RouterGroup) {
	nfts := api.Group("/nfts")
	nfts.GET("/collection", m.handler.List)
	nfts.GET("/collections/:id", m.handler.Collection)
	nfts.GET("/liked", middleware.RequireUser(), m.handler.Liked)
	nfts.POST("/liked", middleware.RequireUser(), m.handler.Like)
	nfts.DELETE("/liked/:id", middleware.RequireUser(), m.handler.Unlike)
	nfts.GET("/:id", m.handler.Get)
	nfts.POST("/:id/purchases", middleware.RequireUser(), m.handler.Purchase)
}
