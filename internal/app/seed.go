package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/soundmint/internal/domain"
)

var seedMilestones = []domain.Milestone{
	{Name: "First friend", Threshold: 1, Reward: "Bronze listener badge"},
	{Name: "Five friends", Threshold: 5, Reward: "Silver listener badge"},
	{Name: "Ten friends", Threshold: 10, Reward: "Gold listener badge"},
	{Name: "Twenty-five friends", Threshold: 25, Reward: "Free NFT mint"},
}

var seedGenres = []string{
	"Ambient", "Classical", "Electronic", "Folk", "Hip-Hop", "Jazz", "Pop", "Rock", "Techno",
}

var seedCountries = []domain.Country{
	{Code: "AR", Name: "Argentina"},
	{Code: "BR", Name: "Brazil"},
	{Code: "DE", Name: "Germany"},
	{Code: "FR", Name: "France"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "JP", Name: "Japan"},
	{Code: "NG", Name: "Nigeria"},
	{Code: "NO", Name: "Norway"},
	{Code: "US", Name: "United States"},
}

// migrate creates the schema and inserts the reference rows. Existing rows
// are left untouched, so it is safe to run on every start.
func migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	genres := make([]domain.Genre, 0, len(seedGenres))
	for _, name := range seedGenres {
		genres = append(genres, domain.Genre{Name: name})
	}
	milestones := append([]domain.Milestone(nil), seedMilestones...)
	countries := append([]domain.Country(nil), seedCountries...)

	for name, rows := range map[string]any{
		"milestones": &milestones,
		"genres":     &genres,
		"countries":  &countries,
	} {
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error; err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}
