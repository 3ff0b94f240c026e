package oci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastertools/hokusai/pkg/types"
)

func TestECRRegistry(t *testing.T) {
	assert.Equal(t, "123456789012.dkr.ecr.us-west-2.amazonaws.com", ECRRegistry("123456789012", "us-west-2"))
}

func TestImageReference(t *testing.T) {
	id := types.NewProjectIdentity("shop", "123456789012", "us-east-1")

	staging, err := ImageReference(id, types.Staging)
	require.NoError(t, err)
	assert.Equal(t, "123456789012.dkr.ecr.us-east-1.amazonaws.com/shop:staging", staging)

	production, err := ImageReference(id, types.Production)
	require.NoError(t, err)
	assert.Equal(t, "123456789012.dkr.ecr.us-east-1.amazonaws.com/shop:production", production)

	assert.NotEqual(t, staging, production)
}

func TestRepositoryURI(t *testing.T) {
	id := types.NewProjectIdentity("My_Shop", "123456789012", "eu-central-1")
	uri, err := RepositoryURI(id)
	require.NoError(t, err)
	assert.Equal(t, "123456789012.dkr.ecr.eu-central-1.amazonaws.com/my-shop", uri)
}

func TestRepositoryErrors(t *testing.T) {
	tests := []struct {
		name   string
		id     types.ProjectIdentity
		errMsg string
	}{
		{"missing account", types.ProjectIdentity{Name: "shop", RegistryRegion: "us-east-1"}, "account id is required"},
		{"missing region", types.ProjectIdentity{Name: "shop", RegistryAccountID: "1"}, "region is required"},
		{"bad repository", types.ProjectIdentity{Name: "Shop Front", RegistryAccountID: "1", RegistryRegion: "us-east-1"}, "invalid repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImageReference(tt.id, types.Staging)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
