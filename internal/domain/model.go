package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Country is a reference entity used by profiles, artists and applications.
type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:2;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// Genre is a reference entity attached to tracks.
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
}

// Models lists every persisted type in dependency order, for AutoMigrate.
func Models() []any {
	return []any{
		&Country{}, &Genre{},
		&User{}, &Profile{},
		&Artist{}, &ArtistApplication{},
		&Album{}, &Track{},
		&Collection{}, &Nft{}, &NftLike{}, &NftPurchase{},
		&Referral{}, &Milestone{}, &MilestoneClaim{},
	}
}
