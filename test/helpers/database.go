package helpers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/persistence"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory database closed at the end of the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { database.Close(db) })
	return db
}

// SharedTestDB is opened once for the BDD suite; scenarios clear it with TruncateAllTables
var SharedTestDB *gorm.DB

func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables deletes every row of every persisted model
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	session := SharedTestDB.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range persistence.AllModels() {
		if err := session.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to truncate %T: %w", model, err)
		}
	}
	return nil
}

func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	err := database.Close(SharedTestDB)
	SharedTestDB = nil
	return err
}
