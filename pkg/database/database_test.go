package database

import (
	"testing"

	"quizclash_backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	cfg := &config.Config{}

	cfg.Server.Mode = "debug"
	assert.True(t, shouldMigrate(cfg), "debug mode migrates on every start")

	cfg.Server.Mode = "release"
	assert.False(t, shouldMigrate(cfg), "release mode skips migration by default")

	cfg.ForceMigrate = true
	assert.True(t, shouldMigrate(cfg), "-migrate forces migration even in release mode")
}
