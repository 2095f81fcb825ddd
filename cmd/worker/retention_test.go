package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCleaner struct {
	calls     int
	retention time.Duration
	err       error
}

func (m *mockCleaner) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	m.calls++
	m.retention = retention
	return 0, m.err
}

func TestNewRetentionJob(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		expectedErr bool
	}{
		{name: "descriptor", schedule: "@daily"},
		{name: "standard expression", schedule: "30 3 * * *"},
		{name: "every interval", schedule: "@every 1h"},
		{name: "invalid", schedule: "every day", expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewRetentionJob(tt.schedule, time.Hour, &mockCleaner{}, zap.NewNop())

			if tt.expectedErr {
				assert.Error(t, err)
				assert.Nil(t, job)
				return
			}
			require.NoError(t, err)
			assert.Len(t, job.cron.Entries(), 1)
		})
	}
}

func TestRetentionJob_Run(t *testing.T) {
	cleaner := &mockCleaner{}
	job, err := NewRetentionJob("@daily", 30*24*time.Hour, cleaner, zap.NewNop())
	require.NoError(t, err)

	job.Run()
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 30*24*time.Hour, cleaner.retention)

	cleaner.err = errors.New("db down")
	assert.NotPanics(t, job.Run)
	assert.Equal(t, 2, cleaner.calls)
}

func TestRetentionJob_StartStop(t *testing.T) {
	job, err := NewRetentionJob("@daily", time.Hour, &mockCleaner{}, zap.NewNop())
	require.NoError(t, err)

	job.Start()
	job.Stop()
}
