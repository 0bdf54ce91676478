// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/token"
)

// Secret signs tokens issued by NewIssuer.
const Secret = "test-secret-0123456789abcdef-ABCDEF"

// OpenDB returns a migrated in-memory SQLite database with foreign keys on.
// The pool is pinned to one connection because every :memory: connection
// is a separate database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewIssuer returns a token issuer signing with Secret.
func NewIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	iss, err := token.NewIssuer(Secret, time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	t.Cleanup(iss.Close)
	return iss
}

// Bearer returns an Authorization header value for a user with id and role.
func Bearer(t *testing.T, iss *token.Issuer, id uint, role domain.Role) string {
	t.Helper()
	u := &domain.User{Role: role}
	u.ID = id
	raw, _, err := iss.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return "Bearer " + raw
}

// CreateUser inserts a user with a unique referral code.
func CreateUser(t *testing.T, db *gorm.DB, name string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:         name,
		Email:        domain.StringPtr(name + "@example.com"),
		Role:         role,
		ReferralCode: domain.NewReferralCode(),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}
