package operator

import (
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

// The synthesizer is pure: given an aggregate and its matched satellites it
// produces the specs of the child objects, with no cluster reads or writes.
// The apply engine copies these specs into live objects.

// childName returns the deterministic name shared by the Deployment, Service,
// and Ingress synthesized for a server.
func childName(server *mcpv1alpha1.MCPServer) string {
	return ChildNamePrefix + server.Name
}

// configMapName returns the deterministic name of the catalog ConfigMap.
func configMapName(server *mcpv1alpha1.MCPServer) string {
	return childName(server) + ConfigMapNameSuffix
}

// childLabels is the full label set stamped on every synthesized child.
func childLabels(server *mcpv1alpha1.MCPServer) map[string]string {
	return map[string]string{
		LabelName:      LabelNameValue,
		LabelInstance:  server.Name,
		LabelManagedBy: LabelManagedByValue,
		LabelServer:    server.Name,
	}
}

// podSelectorLabels is the immutable subset used as the Deployment's pod
// selector and the Service's selector.
func podSelectorLabels(server *mcpv1alpha1.MCPServer) map[string]string {
	return map[string]string{
		LabelName:     LabelNameValue,
		LabelInstance: server.Name,
	}
}

func serverReplicas(server *mcpv1alpha1.MCPServer) *int32 {
	if server.Spec.Replicas != nil {
		return server.Spec.Replicas
	}
	replicas := int32(DefaultReplicas)
	return &replicas
}

func serverImage(server *mcpv1alpha1.MCPServer) string {
	if server.Spec.Image != "" {
		return server.Spec.Image
	}
	return DefaultImage
}

// buildPodEnv assembles the environment for the server container: the backing
// store address plus runtime tunables from spec.config.
func buildPodEnv(server *mcpv1alpha1.MCPServer) []corev1.EnvVar {
	env := []corev1.EnvVar{
		{Name: "REDIS_HOST", Value: server.Spec.Redis.ServiceName},
		{Name: "MCP_CONFIG_DIR", Value: ConfigMountPath},
	}

	timeout := DefaultRequestTimeout
	maxConcurrent := int32(DefaultMaxConcurrentRequests)
	if server.Spec.Config != nil {
		if server.Spec.Config.RequestTimeout != "" {
			timeout = server.Spec.Config.RequestTimeout
		}
		if server.Spec.Config.MaxConcurrentRequests > 0 {
			maxConcurrent = server.Spec.Config.MaxConcurrentRequests
		}
	}
	env = append(env,
		corev1.EnvVar{Name: "REQUEST_TIMEOUT", Value: timeout},
		corev1.EnvVar{Name: "MAX_CONCURRENT_REQUESTS", Value: strconv.Itoa(int(maxConcurrent))},
	)
	return env
}

// buildDeploymentSpec synthesizes the Deployment spec for a server. The pod
// template mounts the catalog ConfigMap at ConfigMountPath.
func buildDeploymentSpec(server *mcpv1alpha1.MCPServer) appsv1.DeploymentSpec {
	return appsv1.DeploymentSpec{
		Replicas: serverReplicas(server),
		Selector: &metav1.LabelSelector{
			MatchLabels: podSelectorLabels(server),
		},
		Template: corev1.PodTemplateSpec{
			ObjectMeta: metav1.ObjectMeta{
				Labels: childLabels(server),
			},
			Spec: corev1.PodSpec{
				Containers: []corev1.Container{
					{
						Name:            "server",
						Image:           serverImage(server),
						ImagePullPolicy: corev1.PullIfNotPresent,
						Ports: []corev1.ContainerPort{
							{
								Name:          "http",
								ContainerPort: MCPPort,
								Protocol:      corev1.ProtocolTCP,
							},
						},
						Env: buildPodEnv(server),
						VolumeMounts: []corev1.VolumeMount{
							{
								Name:      "catalog",
								MountPath: ConfigMountPath,
								ReadOnly:  true,
							},
						},
						LivenessProbe: &corev1.Probe{
							ProbeHandler: corev1.ProbeHandler{
								TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt32(MCPPort)},
							},
							InitialDelaySeconds: 5,
							PeriodSeconds:       10,
						},
						ReadinessProbe: &corev1.Probe{
							ProbeHandler: corev1.ProbeHandler{
								TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt32(MCPPort)},
							},
							InitialDelaySeconds: 3,
							PeriodSeconds:       5,
						},
					},
				},
				Volumes: []corev1.Volume{
					{
						Name: "catalog",
						VolumeSource: corev1.VolumeSource{
							ConfigMap: &corev1.ConfigMapVolumeSource{
								LocalObjectReference: corev1.LocalObjectReference{
									Name: configMapName(server),
								},
							},
						},
					},
				},
			},
		},
	}
}

// buildServiceSpec synthesizes the ClusterIP Service spec for a server on the
// fixed MCP port.
func buildServiceSpec(server *mcpv1alpha1.MCPServer) corev1.ServiceSpec {
	return corev1.ServiceSpec{
		Type:     corev1.ServiceTypeClusterIP,
		Selector: podSelectorLabels(server),
		Ports: []corev1.ServicePort{
			{
				Name:       "http",
				Port:       MCPPort,
				TargetPort: intstr.FromInt32(MCPPort),
				Protocol:   corev1.ProtocolTCP,
			},
		},
	}
}

// buildIngressSpec synthesizes the Ingress spec for a server. Returns nil when
// the spec has no ingress block; host, path prefix, and TLS secret are passed
// through from the spec without transformation.
func buildIngressSpec(server *mcpv1alpha1.MCPServer) *networkingv1.IngressSpec {
	cfg := server.Spec.Ingress
	if cfg == nil {
		return nil
	}

	pathPrefix := cfg.PathPrefix
	if pathPrefix == "" {
		pathPrefix = DefaultPathPrefix
	}
	pathType := networkingv1.PathTypePrefix

	spec := &networkingv1.IngressSpec{
		Rules: []networkingv1.IngressRule{
			{
				Host: cfg.Host,
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{
						Paths: []networkingv1.HTTPIngressPath{
							{
								Path:     pathPrefix,
								PathType: &pathType,
								Backend: networkingv1.IngressBackend{
									Service: &networkingv1.IngressServiceBackend{
										Name: childName(server),
										Port: networkingv1.ServiceBackendPort{
											Number: MCPPort,
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	if cfg.TLSSecretName != "" {
		tls := networkingv1.IngressTLS{SecretName: cfg.TLSSecretName}
		if cfg.Host != "" {
			tls.Hosts = []string{cfg.Host}
		}
		spec.TLS = []networkingv1.IngressTLS{tls}
	}

	return spec
}
