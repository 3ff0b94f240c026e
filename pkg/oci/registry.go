package oci

import (
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/fastertools/hokusai/pkg/types"
)

// ECRRegistry returns the registry host for an AWS account and region
func ECRRegistry(accountID, region string) string {
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", accountID, region)
}

// Repository returns the project's image repository
func Repository(id types.ProjectIdentity) (name.Repository, error) {
	if strings.TrimSpace(id.RegistryAccountID) == "" {
		return name.Repository{}, fmt.Errorf("registry account id is required")
	}
	if strings.TrimSpace(id.RegistryRegion) == "" {
		return name.Repository{}, fmt.Errorf("registry region is required")
	}

	ref := ECRRegistry(id.RegistryAccountID, id.RegistryRegion) + "/" + id.Name
	repo, err := name.NewRepository(ref, name.StrictValidation)
	if err != nil {
		return name.Repository{}, fmt.Errorf("invalid repository %s: %w", ref, err)
	}
	return repo, nil
}

// RepositoryURI returns the repository as a string, e.g. for the project config
func RepositoryURI(id types.ProjectIdentity) (string, error) {
	repo, err := Repository(id)
	if err != nil {
		return "", err
	}
	return repo.Name(), nil
}

// ImageReference returns the tagged image a remote environment deploys.
// The tag is the environment name.
func ImageReference(id types.ProjectIdentity, env types.Environment) (string, error) {
	repo, err := Repository(id)
	if err != nil {
		return "", err
	}

	ref := repo.Name() + ":" + string(env)
	tag, err := name.NewTag(ref, name.StrictValidation)
	if err != nil {
		return "", fmt.Errorf("invalid image reference %s: %w", ref, err)
	}
	return tag.Name(), nil
}
