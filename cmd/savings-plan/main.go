package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/savings-plan/internal/config"
	"github.com/iwvelando/savings-plan/internal/logging"
	"github.com/iwvelando/savings-plan/internal/plan"
	"github.com/iwvelando/savings-plan/pkg/constants"
	"github.com/iwvelando/savings-plan/pkg/output"
	"github.com/iwvelando/savings-plan/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// readRequest loads a request file. YAML documents are bridged to JSON so
// that both formats go through the same decoding and validation.
func readRequest(path string) (plan.Request, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return plan.Request{}, fmt.Errorf("failed to read request file %s: %w", path, err)
	}

	if strings.ToLower(filepath.Ext(path)) != ".json" {
		var document map[string]interface{}
		if err := yaml.Unmarshal(raw, &document); err != nil {
			return plan.Request{}, fmt.Errorf("failed to parse request file %s: %w", path, err)
		}
		if raw, err = json.Marshal(document); err != nil {
			return plan.Request{}, fmt.Errorf("failed to convert request file %s: %w", path, err)
		}
	}

	return plan.DecodeRequest(bytes.NewReader(raw))
}

func main() {
	requestLocation := flag.String("request", constants.DefaultRequestFile, "path to request file (yaml or json)")
	outputFormat := flag.String("output-format", constants.OutputFormatPretty, "type of output: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	logger, err := logging.New(config.LoggingConfig{Format: "console"}, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := validation.ValidateOutputFormat(*outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	req, err := readRequest(*requestLocation)
	if err != nil {
		logger.Fatal("invalid request",
			zap.String("op", "main"),
			zap.String("request", *requestLocation),
			zap.Error(err),
		)
	}

	result, err := plan.BuildPlan(req)
	if err != nil {
		logger.Fatal("failed to compute savings plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Debug("savings plan computed", zap.String("op", "main"), zap.Any("result", result))

	switch *outputFormat {
	case constants.OutputFormatPretty:
		err = output.Pretty(os.Stdout, req, result)
	case constants.OutputFormatCSV:
		err = output.CSV(os.Stdout, req, result)
	case constants.OutputFormatJSON:
		err = output.JSON(os.Stdout, result)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
