package nft

// LikeRequest is the body of POST /nfts/liked.
type LikeRequest struct {
	NftID uint `json:"nftId" binding:"required,min=1"`
}

// PurchaseRequest is the body of POST /nfts/:id/purchases.
type PurchaseRequest struct {
	TxSignature string `json:"txSignature" binding:"required,max=128"`
}
