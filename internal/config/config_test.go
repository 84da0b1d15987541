package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAndValidate_Defaults(t *testing.T) {
	cfg, res := NormalizeAndValidate(Config{})
	require.True(t, res.OK(), "zero config must normalize cleanly: %v", res.Errors)

	assert.Equal(t, 8090, cfg.App.Port)
	assert.Equal(t, 500, cfg.Signals.MaxPerIdentity)
	assert.Equal(t, 90, cfg.Signals.MaxAgeDays)
	assert.Equal(t, []string{"INBOX"}, cfg.Email.Mailboxes)
	assert.Equal(t, 3000, cfg.Classifier.TimeoutMS)
}

func TestNormalizeAndValidate_RiskTermsLowered(t *testing.T) {
	var in Config
	in.Scoring.RiskTerms = []string{" Data Entry ", "CRUISE", "data entry"}
	cfg, res := NormalizeAndValidate(in)
	require.True(t, res.OK())
	assert.Equal(t, []string{"data entry", "cruise"}, cfg.Scoring.RiskTerms)
}

func TestNormalizeAndValidate_EmailRequirements(t *testing.T) {
	var in Config
	in.Email.Enabled = true
	_, res := NormalizeAndValidate(in)
	assert.False(t, res.OK())
}

func TestSaveAtomicAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	var cfg Config
	cfg.App.Port = 9000
	cfg.Scoring.RiskTerms = []string{"cruise"}
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, loaded.App.Port)
	assert.Equal(t, []string{"cruise"}, loaded.Scoring.RiskTerms)
}

func TestEnsureUserConfig_GeneratesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir, filepath.Join(dir, "no-such-default.yml"))
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.App.Port)
}
