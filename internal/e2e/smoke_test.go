package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/bnema/wallet-resources/internal/adapters/chain/rpc/rpctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	node := rpctest.NewNode(t)
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeConfigFixture(home, node.URL))

	stdout, stderr, err := runWR(t, binaryPath, home, "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.NotEmpty(t, stdout)

	stdout, stderr, err = runWR(t, binaryPath, home, "account", "alice")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "42.5000 EOS")
	assert.FileExists(t, filepath.Join(home, ".cache", "wr", "accounts.toml"))

	_, stderr, err = runWR(t, binaryPath, home, "account", "alice")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Equal(t, int64(1), node.Requests("get_account"), "second run should hit the cache file")

	stdout, stderr, err = runWR(t, binaryPath, home, "resources", "--account", "alice")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Resource Markets")
	assert.Contains(t, stdout, "Account alice")

	stdout, stderr, err = runWR(t, binaryPath, home, "quote", "rex", "--ms", "100")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "40.0000 EOS")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "wr-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wr")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build wr binary: %s", string(output))
	return binaryPath
}

func runWR(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"XDG_CACHE_HOME="+filepath.Join(home, ".cache"),
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeConfigFixture(home, chainURL string) error {
	configDir := filepath.Join(home, ".config", "wr")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	config := `[chain]
url = "` + chainURL + `"

[sample]
account = "sampler"

[log]
level = "error"
`

	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o644)
}
