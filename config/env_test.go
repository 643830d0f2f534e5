package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFiles_MergeOrder(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"db_driver":"postgres","app_port":9000,"jwt_secret":"from-json"}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nJWT_SECRET=\"from-env\"\nMONGO_DATABASE=shop\n"), 0o644))
	t.Setenv("MONGO_DATABASE", "from-process")
	t.Setenv("MAIL_HOST", "smtp.example.com")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "9000", get("APP_PORT", ""))
	assert.Equal(t, "from-env", get("JWT_SECRET", ""))
	assert.Equal(t, "from-process", get("MONGO_DATABASE", ""))
	assert.Equal(t, "smtp.example.com", get("MAIL_HOST", ""))
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".nope")))

	assert.Equal(t, defaultDatabaseDriver, get("DB_DRIVER", ""))
	assert.Equal(t, defaultMongoURI, get("MONGO_URI", ""))
}

func TestTypedGetters(t *testing.T) {
	Set("DB_DRIVER", "MongoDB")
	assert.Equal(t, "mongo", DatabaseDriver())

	Set("DB_DRIVER", "oracle")
	assert.Equal(t, "mongo", DatabaseDriver())

	Set("DB_DRIVER", "mysql")
	Set("DATABASE_DSN", "")
	assert.Equal(t, defaultMySQLDSN, DatabaseDSN())

	Set("JWT_TTL", "not-a-duration")
	assert.Equal(t, 7*24*time.Hour, JWTTTL())
	Set("JWT_TTL", "1h")
	assert.Equal(t, time.Hour, JWTTTL())

	Set("PHOTO_MAX_BYTES", "-4")
	assert.Equal(t, int64(1_000_000), PhotoMaxBytes())

	Set("CORS_ORIGINS", "https://a.example, https://b.example ,")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSOrigins())
}
