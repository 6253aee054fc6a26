package alert

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteLedger_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := NewSQLiteLedger(path)
	require.NoError(t, err)
	require.NoError(t, l.MarkFired("r1", "2026-03-02"))
	require.NoError(t, l.Close())

	// A process restart within the same day must still see the firing.
	reopened, err := NewSQLiteLedger(path)
	require.NoError(t, err)
	defer reopened.Close()

	fired, err := reopened.WasFired("r1", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, fired, "firing record must survive reopen")

	fired, err = reopened.WasFired("r1", "2026-03-03")
	require.NoError(t, err)
	assert.False(t, fired)

	fired, err = reopened.WasFired("r2", "2026-03-02")
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestSQLiteLedger_MarkFiredIsIdempotent(t *testing.T) {
	l, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.MarkFired("r1", "2026-03-02"))
	require.NoError(t, l.MarkFired("r1", "2026-03-02"))

	fired, err := l.WasFired("r1", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestSQLiteLedger_PruneDropsOldDays(t *testing.T) {
	l, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.MarkFired("r1", "2026-02-27"))
	require.NoError(t, l.MarkFired("r1", "2026-03-01"))

	require.NoError(t, l.Prune("2026-03-01"))

	old, err := l.WasFired("r1", "2026-02-27")
	require.NoError(t, err)
	assert.False(t, old)

	kept, err := l.WasFired("r1", "2026-03-01")
	require.NoError(t, err)
	assert.True(t, kept)
}
