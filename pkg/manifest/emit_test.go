package manifest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/fastertools/hokusai/pkg/types"
)

func sampleDocument() *types.ComposeDocument {
	doc := types.NewComposeDocument()
	_ = doc.Add(&types.Service{
		Name:        "shop",
		Extends:     &types.Extends{File: "common.yml", Service: "shop"},
		Command:     "node index.js",
		Ports:       []string{"3000:3000"},
		Environment: []types.EnvVar{types.Literal("NODE_ENV", "development"), types.Literal("REDIS_URL", "redis://shop-redis:6379/0")},
		DependsOn:   []string{"shop-redis"},
	})
	_ = doc.Add(&types.Service{
		Name:  "shop-redis",
		Image: "redis:3.2-alpine",
		Ports: []string{"6379:6379"},
	})
	return doc
}

func TestEncodeCompose(t *testing.T) {
	data, err := EncodeCompose(sampleDocument())
	require.NoError(t, err)

	expected := Header + `version: "2"
services:
  shop:
    extends:
      file: common.yml
      service: shop
    command: node index.js
    ports:
      - "3000:3000"
    environment:
      - NODE_ENV=development
      - REDIS_URL=redis://shop-redis:6379/0
    depends_on:
      - shop-redis
  shop-redis:
    image: redis:3.2-alpine
    ports:
      - "6379:6379"
`
	if diff := cmp.Diff(expected, string(data)); diff != "" {
		t.Errorf("compose output mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeCompose_BuildContextAndNoDependencies(t *testing.T) {
	doc := types.NewComposeDocument()
	require.NoError(t, doc.Add(&types.Service{Name: "shop", Build: &types.BuildContext{Context: "../"}}))

	data, err := EncodeCompose(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header))

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "2", parsed["version"])

	services := parsed["services"].(map[string]interface{})
	shop := services["shop"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"context": "../"}, shop["build"])
	assert.NotContains(t, shop, "depends_on")
	assert.NotContains(t, shop, "ports")
}

func TestEncodeCompose_Deterministic(t *testing.T) {
	first, err := EncodeCompose(sampleDocument())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := EncodeCompose(sampleDocument())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEncodeCompose_Errors(t *testing.T) {
	_, err := EncodeCompose(nil)
	assert.Error(t, err)

	_, err = EncodeCompose(&types.ComposeDocument{})
	assert.Error(t, err)
}

func TestEncodeObjects(t *testing.T) {
	objects := []runtime.Object{
		&corev1.Service{
			TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
			ObjectMeta: metav1.ObjectMeta{Name: "shop"},
			Spec:       corev1.ServiceSpec{Type: corev1.ServiceTypeLoadBalancer},
		},
		&corev1.Service{
			TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
			ObjectMeta: metav1.ObjectMeta{Name: "shop-redis"},
			Spec:       corev1.ServiceSpec{Type: corev1.ServiceTypeClusterIP},
		},
	}

	data, err := EncodeObjects(objects)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, Header+DocumentSeparator))
	assert.Equal(t, 2, strings.Count(text, DocumentSeparator))
	assert.Less(t, strings.Index(text, "name: shop\n"), strings.Index(text, "name: shop-redis\n"))

	again, err := EncodeObjects(objects)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	decoder := yaml.NewDecoder(strings.NewReader(text))
	var kinds []string
	for {
		var doc map[string]interface{}
		if err := decoder.Decode(&doc); err != nil {
			break
		}
		kinds = append(kinds, doc["kind"].(string))
	}
	assert.Equal(t, []string{"Service", "Service"}, kinds)
}

func TestEncodeObjects_Empty(t *testing.T) {
	data, err := EncodeObjects(nil)
	require.NoError(t, err)
	assert.Equal(t, Header, string(data))

	_, err = EncodeObject(nil)
	assert.Error(t, err)
}
