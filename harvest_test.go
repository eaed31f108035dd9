package harvest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/harvest/connector"
	connmock "github.com/poiesic/harvest/connector/mock"
	"github.com/poiesic/harvest/core"
)

func mockConnectors() []connector.Connector {
	return []connector.Connector{
		connmock.NewConnector("web-search", core.SourceTypeWeb),
		connmock.NewConnector("arxiv-search", core.SourceTypeAcademic),
		connmock.NewConnector("pubmed-search", core.SourceTypeLiterature),
	}
}

func TestNewService(t *testing.T) {
	t.Run("create new service", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "cache_db")
		svc, err := NewService(tmpDir, WithConnectors(mockConnectors()...))
		require.NoError(t, err)
		require.NotNil(t, svc)
		defer svc.Close()

		assert.NotNil(t, svc.builder)
		assert.NotNil(t, svc.orchestrator)
		assert.NotNil(t, svc.cache)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		svc, err := NewService(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestServiceBuildPlan(t *testing.T) {
	svc, err := NewService("", WithInMemoryCache(), WithConnectors(mockConnectors()...))
	require.NoError(t, err)
	defer svc.Close()

	plan, err := svc.BuildPlan("machine learning healthcare", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "machine learning healthcare", plan.Topic)
	assert.Len(t, plan.Sources, 3)
}

func TestServiceIngest(t *testing.T) {
	svc, err := NewService("", WithInMemoryCache(), WithConnectors(mockConnectors()...))
	require.NoError(t, err)
	defer svc.Close()

	result, err := svc.Ingest(context.Background(), "machine learning healthcare", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.SourcesCompleted)
	assert.NotEmpty(t, result.Items)
}

func TestServiceHealth(t *testing.T) {
	svc, err := NewService("", WithInMemoryCache(), WithConnectors(mockConnectors()...))
	require.NoError(t, err)
	defer svc.Close()

	report := svc.Health(context.Background())
	assert.True(t, report.Healthy)
	assert.Len(t, report.Connectors, 3)
}

func TestServiceClearCache(t *testing.T) {
	svc, err := NewService("", WithInMemoryCache(), WithConnectors(mockConnectors()...))
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Ingest(context.Background(), "quantum computing", nil)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCache(context.Background()))

	report := svc.Health(context.Background())
	assert.Equal(t, 0, report.CacheStats.Entries)
}

func TestServiceClose(t *testing.T) {
	svc, err := NewService("", WithInMemoryCache(), WithConnectors(mockConnectors()...))
	require.NoError(t, err)
	require.NoError(t, svc.Close())
}
