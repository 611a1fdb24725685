package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/wallet-resources/internal/adapters/chain/rpc/rpctest"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T, chainURL string) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("WR_CHAIN_URL", chainURL)
	t.Setenv("WR_CHAIN_ID", "")
	t.Setenv("WR_CACHE_PATH", filepath.Join(home, "accounts.toml"))
	t.Setenv("WR_CACHE_BACKEND", "")
	t.Setenv("WR_SAMPLE_ACCOUNT", "sampler")
	t.Setenv("WR_BALANCES_ACCOUNT", "")
	t.Setenv("WR_PRICES_SCOPE", "")
	t.Setenv("WR_LOG_LEVEL", "error")
	return home
}

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionDoesNotNeedConfiguration(t *testing.T) {
	setupEnv(t, "")

	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestMissingChainURL(t *testing.T) {
	setupEnv(t, "")

	_, _, err := executeCLI(t, "resources")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain.url is required")
}

func TestUnknownCacheBackend(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	_, _, err := executeCLI(t, "account", "alice", "--cache-backend", "sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache backend")
}

func TestAccountIsFetchedOnceAndCachedOnDisk(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	stdout, _, err := executeCLI(t, "account", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "alice")
	assert.Contains(t, stdout, "42.5000 EOS")
	assert.Contains(t, stdout, "250 / 1000 us")
	assert.NotContains(t, stdout, "[stale]")

	stdout, _, err = executeCLI(t, "account", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "42.5000 EOS")
	assert.Equal(t, int64(1), node.Requests("get_account"))

	_, _, err = executeCLI(t, "account", "alice", "--refresh")
	require.NoError(t, err)
	assert.Equal(t, int64(2), node.Requests("get_account"))
}

func TestAccountWithMemoryBackendFetchesEveryRun(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	for range 2 {
		_, _, err := executeCLI(t, "account", "alice", "--cache-backend", "memory")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), node.Requests("get_account"))
}

func TestAccountJSONOutput(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	stdout, _, err := executeCLI(t, "account", "alice", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var out accountOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "alice", string(out.Account.Name))
	assert.False(t, out.Stale)
	assert.Empty(t, out.Error)
}

func TestAccountUnknownOnChain(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	_, _, err := executeCLI(t, "account", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load account nobody")
	assert.Contains(t, err.Error(), "unknown key")
}

func TestAccountRequiresName(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	_, _, err := executeCLI(t, "account")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQuoteREX(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	stdout, _, err := executeCLI(t, "quote", "rex", "--ms", "100")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rex: 40.0000 EOS for 100 ms")
	assert.Contains(t, stdout, "shifted ratio 1.00%")
}

func TestQuotePowerUpJSON(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	stdout, _, err := executeCLI(t, "quote", "powerup", "--ms", "10", "--json")
	require.NoError(t, err)

	var out quoteOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "powerup", out.Model)
	assert.Equal(t, 10.0, out.MsToRent)
	assert.Contains(t, out.Fee, " EOS")
}

func TestQuoteRejectsUnknownModel(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	_, _, err := executeCLI(t, "quote", "stake")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown quote model \"stake\"")
}

func TestQuoteREXWithoutSampleAccount(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)
	t.Setenv("WR_SAMPLE_ACCOUNT", "")

	_, _, err := executeCLI(t, "quote", "rex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot available")
}

func TestResourcesRendersMarketsAndAccount(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	stdout, _, err := executeCLI(t, "resources", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Resource Markets")
	assert.Contains(t, stdout, "PowerUp")
	assert.Contains(t, stdout, "REX")
	assert.Contains(t, stdout, "sampled from sampler")
	assert.Contains(t, stdout, "Account alice")
	assert.Contains(t, stdout, "liquid: 42.5000 EOS")
}

func TestStatusAliasWithBalancesAndPrices(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)
	t.Setenv("WR_BALANCES_ACCOUNT", "alice")
	t.Setenv("WR_PRICES_SCOPE", "eosusd")

	stdout, _, err := executeCLI(t, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Tokens")
	assert.Contains(t, stdout, "42.5000 EOS")
	assert.Contains(t, stdout, "@ 0.7500")
	assert.Equal(t, int64(1), node.Requests("get_currency_balance"))
}

func TestResourcesJSONOutput(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	stdout, _, err := executeCLI(t, "resources", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"chain_id\": \""+rpctest.ChainID+"\"")
	assert.Contains(t, stdout, "\"PowerUp\"")
}

func TestResourcesReportsProgressPerMarket(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)
	node.SetDelay(100 * time.Millisecond)

	_, stderr, err := executeCLI(t, "resources")
	require.NoError(t, err)
	assert.Contains(t, stderr, "✓ PowerUp")
	assert.Contains(t, stderr, "✓ REX")
	assert.Contains(t, stderr, "✓ staking sample")
}

func TestResourcesReportsUnreachableMarkets(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(failing.Close)

	setupEnv(t, failing.URL)
	t.Setenv("WR_CHAIN_ID", rpctest.ChainID)

	_, _, err := executeCLI(t, "resources")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh resource markets")
}

func TestChainIDResolutionFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(failing.Close)

	setupEnv(t, failing.URL)

	_, _, err := executeCLI(t, "account", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve chain id")
}

func TestServeStartsAndStopsOnCancel(t *testing.T) {
	node := rpctest.NewNode(t)
	setupEnv(t, node.URL)

	app, err := wireApp(context.Background(), &rootOptions{viper: viper.New()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, app, "127.0.0.1:0")
	}()

	require.Eventually(t, func() bool {
		_, err := app.service.Quote("powerup", 1)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
