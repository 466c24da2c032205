package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"health-insurance-web/internal/config"
)

func testSMTP(host string) config.SMTPConfig {
	return config.SMTPConfig{Host: host, Port: "587", Username: "relay", Password: "secret", From: "noreply@example.com"}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}
