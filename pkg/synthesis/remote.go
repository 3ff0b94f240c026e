package synthesis

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/fastertools/hokusai/pkg/oci"
	"github.com/fastertools/hokusai/pkg/types"
)

// RemoteDocument is the ordered list of objects for one remote environment:
// application deployment, application service, then a deployment and
// service per enabled add-on in catalog order.
type RemoteDocument struct {
	Environment types.Environment
	Objects     []runtime.Object
}

// RemoteDocuments holds one document per remote environment
type RemoteDocuments struct {
	Environments map[types.Environment]*RemoteDocument
}

// Staging returns the staging document
func (d *RemoteDocuments) Staging() *RemoteDocument {
	return d.Environments[types.Staging]
}

// Production returns the production document
func (d *RemoteDocuments) Production() *RemoteDocument {
	return d.Environments[types.Production]
}

// Remote builds the staging and production manifests
func (s *Synthesizer) Remote(sel types.AddonSelection) (*RemoteDocuments, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	docs := &RemoteDocuments{Environments: make(map[types.Environment]*RemoteDocument, len(types.RemoteEnvironments))}
	for _, env := range types.RemoteEnvironments {
		doc, err := s.remoteEnvironment(env, sel)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", env, err)
		}
		docs.Environments[env] = doc
	}
	return docs, nil
}

func (s *Synthesizer) remoteEnvironment(env types.Environment, sel types.AddonSelection) (*RemoteDocument, error) {
	image, err := oci.ImageReference(s.identity, env)
	if err != nil {
		return nil, err
	}

	enabled := s.enabled(sel)

	environment := s.profile.Seeds(env)
	for _, def := range enabled {
		environment = append(environment, def.SecretEnvVar(s.identity))
	}

	app := types.Workload{
		Name:        s.identity.Name,
		Image:       image,
		Port:        s.port,
		Environment: environment,
		AlwaysPull:  true,
		External:    true,
	}

	doc := &RemoteDocument{Environment: env}
	doc.Objects = append(doc.Objects, buildDeployment(app), buildService(app))

	seen := map[string]bool{app.Name: true}
	for _, def := range enabled {
		w := def.Workload(s.identity.Name)
		if seen[w.Name] {
			return nil, fmt.Errorf("%w: workload %q already defined", ErrServiceCollision, w.Name)
		}
		seen[w.Name] = true
		doc.Objects = append(doc.Objects, buildDeployment(w), buildService(w))
	}
	return doc, nil
}

func buildDeployment(w types.Workload) *appsv1.Deployment {
	labels := map[string]string{"app": w.Name}
	replicas := int32(1)

	container := corev1.Container{
		Name:  w.Name,
		Image: w.Image,
		Ports: []corev1.ContainerPort{{ContainerPort: int32(w.Port)}},
		Env:   kubeEnv(w.Environment),
	}
	if w.AlwaysPull {
		container.ImagePullPolicy = corev1.PullAlways
	}

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   w.Name,
			Labels: labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
				},
			},
		},
	}
}

func buildService(w types.Workload) *corev1.Service {
	labels := map[string]string{"app": w.Name}

	serviceType := corev1.ServiceTypeClusterIP
	if w.External {
		serviceType = corev1.ServiceTypeLoadBalancer
	}

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   w.Name,
			Labels: labels,
		},
		Spec: corev1.ServiceSpec{
			Type:     serviceType,
			Selector: labels,
			Ports: []corev1.ServicePort{{
				Protocol:   corev1.ProtocolTCP,
				Port:       int32(w.Port),
				TargetPort: intstr.FromInt32(int32(w.Port)),
			}},
		},
	}
}

// kubeEnv converts environment variables; secret references become
// secretKeyRef sources and never carry a literal value
func kubeEnv(env []types.EnvVar) []corev1.EnvVar {
	out := make([]corev1.EnvVar, 0, len(env))
	for _, v := range env {
		if v.IsSecret() {
			out = append(out, corev1.EnvVar{
				Name: v.Name,
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{Name: v.SecretRef.Name},
						Key:                  v.SecretRef.Key,
					},
				},
			})
			continue
		}
		out = append(out, corev1.EnvVar{Name: v.Name, Value: v.Value})
	}
	return out
}
