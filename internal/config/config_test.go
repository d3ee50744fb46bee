package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempConfig writes YAML content into a temp dir and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err, "failed to write temp config file")
	return configPath
}

func TestLoadConfigMergesFileOverDefaults(t *testing.T) {
	// 1. Write a partial config file that only overrides a few fields.
	yamlContent := `
server:
  address: ":9090"
mysql:
  host: "db.internal"
  port: 3307
ranking:
  skill_weight: 0.25
  experience_weight: 0.25
  education_weight: 0.25
  certification_weight: 0.25
  factor_blend: 0.7
  semantic_blend: 0.3
  workers: 2
`
	configPath := writeTempConfig(t, yamlContent)

	// 2. Load it.
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// 3. Overridden fields take the file values.
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "db.internal", cfg.MySQL.Host)
	assert.Equal(t, 3307, cfg.MySQL.Port)
	assert.Equal(t, 0.25, cfg.Ranking.SkillWeight)
	assert.Equal(t, 2, cfg.Ranking.Workers)

	// 4. Untouched fields keep their defaults.
	assert.Equal(t, "smart_recruit", cfg.MySQL.Database)
	assert.Equal(t, "cv-originals", cfg.MinIO.OriginalsBucket)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, 0.8, cfg.Audit.FourFifthsRatio)
}

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err, "a missing config file should fall back to defaults")
	require.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 0.40, cfg.Ranking.SkillWeight)
}

func TestLoadConfigMissingFileIsValidated(t *testing.T) {
	// The fallback path goes through the same override-then-validate sequence
	// as a loaded file, so the returned config is always a validated one.
	t.Setenv("SMARTRECRUIT_MYSQL_PASSWORD", "from-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.MySQL.Password)
	assert.NoError(t, cfg.Ranking.Validate())
}

func TestLoadConfigRejectsInvalidWeights(t *testing.T) {
	// Factor weights sum to 1.1, which breaks the scoring contract.
	yamlContent := `
ranking:
  skill_weight: 0.5
  experience_weight: 0.3
  education_weight: 0.2
  certification_weight: 0.1
  factor_blend: 0.8
  semantic_blend: 0.2
`
	configPath := writeTempConfig(t, yamlContent)

	cfg, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "factor weights must sum to 1.0")
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	configPath := writeTempConfig(t, "server:\n  address: [:::")

	cfg, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestEnvOverridesInjectSecrets(t *testing.T) {
	t.Setenv("SMARTRECRUIT_MYSQL_PASSWORD", "from-env")
	t.Setenv("SMARTRECRUIT_RABBITMQ_URL", "amqp://env:env@mq:5672/")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.MySQL.Password)
	assert.Equal(t, "amqp://env:env@mq:5672/", cfg.RabbitMQ.URL)
}

func TestRankingConfigValidate(t *testing.T) {
	valid := DefaultConfig().Ranking
	assert.NoError(t, valid.Validate())

	negative := valid
	negative.SkillWeight = -0.1
	negative.ExperienceWeight = 0.8
	assert.Error(t, negative.Validate(), "negative weights must be rejected")

	badBlend := valid
	badBlend.FactorBlend = 0.5
	badBlend.SemanticBlend = 0.3
	assert.Error(t, badBlend.Validate(), "blend weights must sum to 1.0")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5e9, float64(GetDuration("5s", 0)))
	assert.Equal(t, 3e9, float64(GetDuration("", 3e9)))
	assert.Equal(t, 3e9, float64(GetDuration("not-a-duration", 3e9)))
}
