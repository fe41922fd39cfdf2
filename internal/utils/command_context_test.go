package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandContextAccessorRoundTrip(t *testing.T) {
	accessor := NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/home/ana/.gitsync/config.yaml")
	executionContext = accessor.WithRepositoryPath(executionContext, "/media/usb/diario")

	configurationFilePath, configurationFound := accessor.ConfigurationFilePath(executionContext)
	require.True(t, configurationFound)
	require.Equal(t, "/home/ana/.gitsync/config.yaml", configurationFilePath)

	repositoryPath, repositoryFound := accessor.RepositoryPath(executionContext)
	require.True(t, repositoryFound)
	require.Equal(t, "/media/usb/diario", repositoryPath)
}

func TestCommandContextAccessorMissingValues(t *testing.T) {
	accessor := NewCommandContextAccessor()

	_, configurationFound := accessor.ConfigurationFilePath(context.Background())
	require.False(t, configurationFound)

	_, repositoryFound := accessor.RepositoryPath(accessor.WithRepositoryPath(nil, "  "))
	require.False(t, repositoryFound)
}
