// Copyright 2026 The ETOS Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/andmat900/etos-suite-runner/internal/clients/kubernetes"
	"github.com/andmat900/etos-suite-runner/internal/config"
	"github.com/andmat900/etos-suite-runner/internal/eventrepository"
	"github.com/andmat900/etos-suite-runner/internal/logging"
	"github.com/andmat900/etos-suite-runner/internal/parameters"
)

func main() {
	// Bootstrap logger for early initialization.
	bootstrapLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		bootstrapLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	opts := parameters.Options{
		Logger:     logger,
		HTTPClient: httpClient,
	}
	if cfg.GraphQLServer != "" {
		opts.Artifacts = eventrepository.New(cfg.GraphQLServer, httpClient, logger)
	}

	// The Kubernetes client is only needed when testrun resources exist,
	// i.e. when running as a part of the ETOS controller.
	_, controller := os.LookupEnv(parameters.EnvIdentifier)
	_, testrun := os.LookupEnv(parameters.EnvTestRun)
	if controller || testrun {
		k8sClient, err := kubernetes.NewClient()
		if err != nil {
			logger.Error("Failed to create Kubernetes client", "error", err)
			os.Exit(1)
		}
		opts.Cluster = parameters.NewClusterSource(k8sClient, cfg.Namespace, logger)
	}

	params := parameters.New(opts)
	if err := run(context.Background(), logger, params); err != nil {
		logger.Error("Suite runner failed to start", "error", err)
		params.SetStatus(parameters.StateFailed, err.Error())
		os.Exit(1)
	}
}

// run resolves the parameters of the testrun this process shall execute
// and logs the resolved run. Suite execution is handed over to the test
// runners through the environments created for each main suite.
func run(ctx context.Context, logger *slog.Logger, params *parameters.Parameters) error {
	testrunID, err := params.TestRunID()
	if err != nil {
		return err
	}
	logger = logging.WithIdentifier(logger, testrunID)
	ctx = logging.NewContext(ctx, logger)

	params.SetStatus(parameters.StateRunning, "")

	suites, err := params.TestSuites(ctx)
	if err != nil {
		return err
	}
	mainSuiteIDs, err := params.MainSuiteIDs(ctx)
	if err != nil {
		return err
	}

	artifactID, err := params.ArtifactID(ctx)
	if err != nil {
		return err
	}
	product, err := params.Product(ctx)
	if err != nil {
		return err
	}

	logger.Info("Resolved testrun parameters",
		"testrun-id", testrunID,
		"artifact", artifactID,
		"product", product,
		"suites", len(suites),
		"controller-mode", params.ClusterController(),
	)
	for i, suite := range suites {
		mainSuiteID := ""
		if i < len(mainSuiteIDs) {
			mainSuiteID = mainSuiteIDs[i]
		}
		logger.Info("Starting test suite",
			"suite", suite.Name,
			"main-suite-id", mainSuiteID,
			"tests", len(suite.Tests),
		)
	}

	params.SetStatus(parameters.StateDone, "")
	return nil
}
