package main

import (
	"flag"
	"os"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics/server"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
	"mcp-operator/internal/operator"
	"mcp-operator/internal/statestore"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(mcpv1alpha1.AddToScheme(scheme))
}

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		setupLog.Error(err, "failed to parse flags")
		os.Exit(1)
	}

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&cfg.zapOptions)))

	operatorCfg := operator.LoadOperatorConfig()

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), newManagerOptions(cfg))
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	var stateStore operator.StateStorePinger
	if operatorCfg.ProbeBackingStore {
		stateStore = &statestore.Pinger{}
		setupLog.Info("backing store probing enabled")
	}

	if err = (&operator.MCPServerReconciler{
		Client:     mgr.GetClient(),
		Scheme:     mgr.GetScheme(),
		Config:     operatorCfg,
		StateStore: stateStore,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "MCPServer")
		os.Exit(1)
	}
	if err = (&operator.MCPToolReconciler{
		Client: mgr.GetClient(),
		Scheme: mgr.GetScheme(),
		Config: operatorCfg,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "MCPTool")
		os.Exit(1)
	}
	if err = (&operator.MCPPromptReconciler{
		Client: mgr.GetClient(),
		Scheme: mgr.GetScheme(),
		Config: operatorCfg,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "MCPPrompt")
		os.Exit(1)
	}
	if err = (&operator.MCPResourceReconciler{
		Client: mgr.GetClient(),
		Scheme: mgr.GetScheme(),
		Config: operatorCfg,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "MCPResource")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}

type operatorFlags struct {
	metricsAddr          string
	probeAddr            string
	enableLeaderElection bool
	zapOptions           zap.Options
}

func parseConfig(fs *flag.FlagSet, args []string) (*operatorFlags, error) {
	cfg := operatorFlags{
		zapOptions: zap.Options{
			Development: true,
		},
	}

	fs.StringVar(&cfg.metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	fs.StringVar(&cfg.probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	fs.BoolVar(&cfg.enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager.")
	cfg.zapOptions.BindFlags(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func newManagerOptions(cfg *operatorFlags) ctrl.Options {
	return ctrl.Options{
		Scheme:                 scheme,
		Metrics:                server.Options{BindAddress: cfg.metricsAddr},
		HealthProbeBindAddress: cfg.probeAddr,
		LeaderElection:         cfg.enableLeaderElection,
		LeaderElectionID:       "mcp-operator.mcpoperator.org",
	}
}
