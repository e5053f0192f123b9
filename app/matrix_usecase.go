package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/treesim/domain"
	svc "github.com/ludo-technologies/treesim/service"
)

// MatrixUseCase orchestrates the pairwise comparison workflow
type MatrixUseCase struct {
	service      domain.MatrixService
	formatter    domain.OutputFormatter
	configLoader domain.MatrixConfigurationLoader
	output       domain.ReportWriter
}

// NewMatrixUseCase creates a new matrix use case
func NewMatrixUseCase(service domain.MatrixService, formatter domain.OutputFormatter, configLoader domain.MatrixConfigurationLoader) *MatrixUseCase {
	return &MatrixUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// Execute merges the configuration into req, compares every pair of the
// collected files and writes the report. Pairs that fail are part of the
// report, not an error.
func (uc *MatrixUseCase) Execute(ctx context.Context, req domain.MatrixRequest) (*domain.MatrixResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	finalReq := &req
	if uc.configLoader != nil {
		configReq, err := uc.configLoader.LoadMatrixConfig(req.ConfigPath)
		if err != nil {
			return nil, err
		}
		finalReq = uc.configLoader.MergeMatrixConfig(configReq, &req)
	}

	response, err := uc.service.BuildMatrix(ctx, finalReq)
	if err != nil {
		return nil, err
	}

	var out io.Writer
	if finalReq.OutputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, finalReq.OutputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.WriteMatrix(response, finalReq.OutputFormat, w)
	}); err != nil {
		return nil, domain.NewOutputError("failed to write output", err)
	}
	return response, nil
}

func (uc *MatrixUseCase) validateRequest(req domain.MatrixRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer or output path is required")
	}
	return nil
}

// WithOutputWriter replaces the report writer
func (uc *MatrixUseCase) WithOutputWriter(w domain.ReportWriter) *MatrixUseCase {
	uc.output = w
	return uc
}
