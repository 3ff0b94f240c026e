package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectIdentity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "my-app", "my-app"},
		{"uppercase", "MyApp", "myapp"},
		{"underscores", "my_cool_app", "my-cool-app"},
		{"surrounding space", "  web_API ", "web-api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewProjectIdentity(tt.input, " 123456789012 ", "us-east-1")
			assert.Equal(t, tt.expected, id.Name)
			assert.Equal(t, "123456789012", id.RegistryAccountID)
			assert.Equal(t, "us-east-1", id.RegistryRegion)
		})
	}
}

func TestSecretName(t *testing.T) {
	id := NewProjectIdentity("shop", "1", "eu-west-1")
	assert.Equal(t, "shop-secrets", id.SecretName())
}

func TestAddonSelection(t *testing.T) {
	var sel AddonSelection
	assert.False(t, sel.Any())

	require.NoError(t, sel.Set(Redis, true))
	require.NoError(t, sel.Set(Postgres, true))
	assert.True(t, sel.Any())
	assert.True(t, sel.Enabled(Redis))
	assert.True(t, sel.Enabled(Postgres))
	assert.False(t, sel.Enabled(Memcached))
	assert.False(t, sel.Enabled(Addon("cassandra")))

	err := sel.Set(Addon("cassandra"), true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown add-on")
}

func TestEnvVar(t *testing.T) {
	lit := Literal("NODE_ENV", "test")
	assert.False(t, lit.IsSecret())
	assert.Equal(t, "NODE_ENV=test", lit.String())

	ref := FromSecret("REDIS_URL", "shop-secrets", "REDIS_URL")
	assert.True(t, ref.IsSecret())
	assert.Empty(t, ref.Value)
	assert.Equal(t, "shop-secrets", ref.SecretRef.Name)
	assert.Equal(t, "REDIS_URL", ref.SecretRef.Key)
}

func TestCopyEnvIsIndependent(t *testing.T) {
	orig := []EnvVar{Literal("A", "1"), FromSecret("B", "s", "B")}
	cp := CopyEnv(orig)
	cp[0].Value = "changed"
	cp[1].SecretRef.Key = "changed"
	cp = append(cp, Literal("C", "3"))

	assert.Equal(t, "1", orig[0].Value)
	assert.Equal(t, "B", orig[1].SecretRef.Key)
	assert.Len(t, orig, 2)
}

func TestValidateLocalEnvironments(t *testing.T) {
	require.NoError(t, ValidateLocalEnvironments(LocalEnvironments))

	err := ValidateLocalEnvironments([]LocalEnvironment{
		{Name: Development, Slot: 0},
		{Name: Test, Slot: 0},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "share slot 0")

	err = ValidateLocalEnvironments([]LocalEnvironment{
		{Name: Development, Slot: 0},
		{Name: Development, Slot: 1},
	})
	assert.Error(t, err)
}

func TestFrameworkProfileValidate(t *testing.T) {
	valid := func() *FrameworkProfile {
		return &FrameworkProfile{
			Framework:          NodeJS,
			BuildTemplateName:  "Dockerfile-node",
			BaseImage:          "node:latest",
			RunCommand:         "node index.js",
			DevelopmentCommand: "node index.js",
			TestCommand:        "npm test",
			EnvironmentSeeds: map[Environment][]EnvVar{
				Development: {Literal("NODE_ENV", "development")},
				Test:        {Literal("NODE_ENV", "test")},
				Staging:     {Literal("NODE_ENV", "staging")},
				Production:  {Literal("NODE_ENV", "production")},
			},
		}
	}

	require.NoError(t, valid().Validate())

	p := valid()
	delete(p.EnvironmentSeeds, Staging)
	err := p.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "staging")

	p = valid()
	p.TestCommand = ""
	assert.Error(t, p.Validate())

	p = valid()
	assert.Equal(t, "node index.js", p.CommandFor(Development))
	assert.Equal(t, "npm test", p.CommandFor(Test))
	assert.Equal(t, "node index.js", p.CommandFor(Production))
}

func TestFrameworkProfileClone(t *testing.T) {
	p := &FrameworkProfile{
		Framework: Rack,
		EnvironmentSeeds: map[Environment][]EnvVar{
			Development: {Literal("RACK_ENV", "development")},
		},
	}
	c := p.Clone()
	c.EnvironmentSeeds[Development][0].Value = "mutated"
	c.EnvironmentSeeds[Test] = []EnvVar{Literal("X", "y")}

	assert.Equal(t, "development", p.EnvironmentSeeds[Development][0].Value)
	assert.NotContains(t, p.EnvironmentSeeds, Test)
}

func TestComposeDocument(t *testing.T) {
	doc := NewComposeDocument()
	assert.Equal(t, "2", doc.Version)

	require.NoError(t, doc.Add(&Service{Name: "app"}))
	require.NoError(t, doc.Add(&Service{Name: "app-redis"}))

	err := doc.Add(&Service{Name: "app"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")

	assert.Equal(t, []string{"app", "app-redis"}, doc.Names())
	assert.NotNil(t, doc.Service("app-redis"))
	assert.Nil(t, doc.Service("missing"))
}
