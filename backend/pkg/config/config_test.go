package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "GRAPH_SOURCE", "DATASET_PATH", "ENRICH_LIMIT", "SESSION_TTL", "LITELLM_URL", "FETCH_ALLOW_PRIVATE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceMemory, cfg.GraphSource)
	assert.Equal(t, 5, cfg.EnrichLimit)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.NarrationEnabled())
	assert.False(t, cfg.FetchPrivate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("GRAPH_SOURCE", SourceMemory)
	t.Setenv("ENRICH_LIMIT", "12")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")
	t.Setenv("LITELLM_URL", "http://litellm:4000")
	t.Setenv("FETCH_ALLOW_PRIVATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12, cfg.EnrichLimit)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout, "unparsable values fall back to the default")
	assert.True(t, cfg.NarrationEnabled())
	assert.True(t, cfg.FetchPrivate)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{GraphSource: SourceMemory, SessionTTL: time.Minute, EnrichLimit: 1}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.GraphSource = SourceNeo4j
	assert.Error(t, c.Validate(), "neo4j mode needs credentials")
	c.Neo4jURI, c.Neo4jUser, c.Neo4jPassword = "bolt://db:7687", "neo4j", "secret"
	assert.NoError(t, c.Validate())

	c = valid()
	c.GraphSource = "sqlite"
	assert.Error(t, c.Validate())

	c = valid()
	c.SessionTTL = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.EnrichLimit = 0
	assert.Error(t, c.Validate())
}
