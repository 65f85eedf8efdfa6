package cron

import (
	"Hearth/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCron_SkipsWhenUnconfigured(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{}, nil, nil)
	require.NoError(t, InitCron(mgr))
	assert.Empty(t, mgr.engine.Entries())
}

func TestInitCron_RegistersConfiguredJobs(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{DirtyRecount: "0 */5 * * * *"}, nil, nil)
	require.NoError(t, InitCron(mgr))
	defer mgr.Stop()
	assert.Len(t, mgr.engine.Entries(), 1)
}

func TestInitCron_RejectsBadExpression(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{FullRecount: "every now and then"}, nil, nil)
	err := InitCron(mgr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register cron jobs")
}
