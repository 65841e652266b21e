package cli

import (
	"bytes"
	"os"
	"testing"

	"pilates-studio/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Tree(t *testing.T) {
	root := NewRootCommand("test")

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"orders", "recent"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("DATABASE_URL", "")

	root := NewRootCommand("test")
	root.SetArgs([]string{"migrate", "status"})
	root.SetOut(&bytes.Buffer{})

	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestPrintOrders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printOrders(&buf, nil))
	assert.Equal(t, "No orders recorded yet\n", buf.String())

	buf.Reset()
	require.NoError(t, printOrders(&buf, []*repositories.OrderRecord{
		{StripeSessionID: "cs_test_1", Status: "recorded", CustomerEmail: "jo@example.com", TotalAmount: decimal.RequireFromString("35.5")},
	}))

	out := buf.String()
	assert.Contains(t, out, "SESSION")
	assert.Contains(t, out, "cs_test_1")
	assert.Contains(t, out, "jo@example.com")
	assert.Contains(t, out, "35.50")
}
