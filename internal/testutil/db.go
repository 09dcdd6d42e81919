// Package testutil provides database fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/database"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// SetupTestDB returns a migrated, isolated in-memory sqlite database
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateTestUser inserts a user with an unhashed placeholder password
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Password: "not-a-hash",
		Email:    username + "@example.com",
		Role:     domain.RoleSales,
		Name:     username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestLead inserts a lead in the given stage
func CreateTestLead(t *testing.T, db *gorm.DB, company string, stage domain.LeadStage, value string) *domain.Lead {
	t.Helper()
	lead := &domain.Lead{
		CompanyName:    company,
		ContactPerson:  "Asha Rao",
		Email:          "contact@example.com",
		Capacity:       decimal.RequireFromString("1.50"),
		EstimatedValue: decimal.RequireFromString(value),
		Stage:          stage,
		ProjectType:    domain.ProjectTypeRooftop,
		Source:         domain.LeadSourceManual,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

// CreateTestProject inserts a project with the given status
func CreateTestProject(t *testing.T, db *gorm.DB, name string, status domain.ProjectStatus, capacity string) *domain.Project {
	t.Helper()
	project := &domain.Project{
		Name:          name,
		Client:        name + " Client",
		Capacity:      decimal.RequireFromString(capacity),
		ContractValue: decimal.RequireFromString("100000.00"),
		ProjectType:   domain.ProjectTypeRooftop,
		Status:        status,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestVendor inserts an active vendor
func CreateTestVendor(t *testing.T, db *gorm.DB, name string) *domain.Vendor {
	t.Helper()
	vendor := &domain.Vendor{
		Name:          name,
		ContactPerson: "Ravi",
		Email:         "sales@example.com",
		Category:      "modules",
		Tier:          domain.VendorTier2,
		IsActive:      true,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}
