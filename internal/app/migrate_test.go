package app

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(embedMigrations, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(embedMigrations, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}

	body, err := fs.ReadFile(embedMigrations, migrationsDir+"/00001_create_users_and_tokens.sql")
	require.NoError(t, err)
	for _, col := range []string{`"ownedById"`, "token", "type", "scopes", `"deviceName"`, `"deviceIp"`, `"createdAt"`, `"updatedAt"`, `"expiresAt"`} {
		assert.True(t, strings.Contains(string(body), col), "missing column %s", col)
	}

	body, err = fs.ReadFile(embedMigrations, migrationsDir+"/00002_lowercase_user_email.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CHECK (email = lower(email))")
	assert.Contains(t, string(body), "ON users (lower(email))")
}

func TestRunMigrations_BadURL(t *testing.T) {
	err := RunMigrations(context.Background(), "://not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}
