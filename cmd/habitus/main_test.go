package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/arnold/habitus-api/internal/config"
	"github.com/arnold/habitus-api/internal/kv"
	"github.com/arnold/habitus-api/internal/models"
	"github.com/arnold/habitus-api/internal/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportGoalsPrintsSeed(t *testing.T) {
	local := store.NewLocal(kv.NewMemory())
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	var buf bytes.Buffer
	require.NoError(t, exportGoals(cmd, local, &buf))

	var list []models.Goal
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "1", list[0].ID)
}

func TestOpenBackendSelectsMock(t *testing.T) {
	c := &config.Config{
		DataBackend: config.BackendMock,
		KVDriver:    config.KVFile,
		KVPath:      t.TempDir(),
		StorageKey:  "mockGoals",
		MockSeed:    true,
	}

	b, closeFn, err := openBackend(context.Background(), c, nil, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, "mock", b.Name())
}

func TestOpenRedisWithoutAddr(t *testing.T) {
	assert.Nil(t, openRedis(&config.Config{}))
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate", "goals"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
