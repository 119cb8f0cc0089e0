package verify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kiranshivaraju/jobscout/internal/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRules_EmptyPathReturnsDefaults(t *testing.T) {
	rules, err := verify.LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, verify.DefaultRules(), rules)
}

func TestLoadRules_OverlaysFileOnDefaults(t *testing.T) {
	path := writeRules(t, `
blockedWords: [pyramid, mlm]
maxPayAmount: 500000
`)

	rules, err := verify.LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pyramid", "mlm"}, rules.BlockedWords)
	assert.Equal(t, int64(500000), rules.MaxPayAmount)
	assert.Equal(t, verify.DefaultRules().PayPhrases, rules.PayPhrases)
	assert.Equal(t, 3, rules.MinTitleLength)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := verify.LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRules_InvalidYAML(t *testing.T) {
	_, err := verify.LoadRules(writeRules(t, "blockedWords: [unterminated"))
	require.Error(t, err)
}

func TestLoadRules_RejectsNegativeCeiling(t *testing.T) {
	_, err := verify.LoadRules(writeRules(t, "maxPayAmount: -1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxPayAmount")
}

func TestLoadRules_RejectsEmptyWord(t *testing.T) {
	_, err := verify.LoadRules(writeRules(t, `blockedWords: ["scam", ""]`))
	require.Error(t, err)
}
