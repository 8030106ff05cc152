package budget

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/config"
	"budget/internal/log"
	"budget/internal/settings"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DBPath:            filepath.Join(dir, "data", "budget.db"),
		SettingsPath:      filepath.Join(dir, "data", "settings.env"),
		LogLevel:          "error",
		CategoryCacheSize: 4,
		CategoryCacheTTL:  time.Minute,
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	app, err := Open(ctx, cfg, log.Discard())
	require.NoError(t, err)

	assert.Len(t, app.Budget.Categories(ctx), 13)
	assert.Nil(t, app.Budget.User(ctx))
	assert.Equal(t, settings.Defaults(), app.Settings.Get())
	assert.NotEmpty(t, app.Avatars())

	_, err = app.Budget.RecordTransaction(ctx, TransactionInput{Title: "Pay", Amount: "100", Kind: Income})
	require.NoError(t, err)
	require.NoError(t, app.Settings.SetTheme(settings.ThemeDark))
	require.NoError(t, app.Close())

	// Everything survives a reopen.
	app, err = Open(ctx, cfg, log.Discard())
	require.NoError(t, err)
	defer app.Close()

	d := app.Budget.Dashboard(ctx)
	assert.Equal(t, "100", d.Summary.TotalBalance.String())
	assert.Equal(t, settings.ThemeDark, app.Settings.Get().Theme)
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "loud"

	_, err := Open(context.Background(), cfg, log.Discard())
	assert.Error(t, err)

	_, err = Open(context.Background(), nil, nil)
	assert.Error(t, err)
}
