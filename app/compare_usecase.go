package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/treesim/domain"
	svc "github.com/ludo-technologies/treesim/service"
)

// CompareUseCase orchestrates the two-file comparison workflow
type CompareUseCase struct {
	service      domain.CompareService
	formatter    domain.OutputFormatter
	configLoader domain.CompareConfigurationLoader
	output       domain.ReportWriter
}

// NewCompareUseCase creates a new compare use case. A nil config loader
// skips configuration files.
func NewCompareUseCase(service domain.CompareService, formatter domain.OutputFormatter, configLoader domain.CompareConfigurationLoader) *CompareUseCase {
	return &CompareUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// Execute merges the configuration into req, compares the two files and
// writes the report
func (uc *CompareUseCase) Execute(ctx context.Context, req domain.CompareRequest) error {
	if err := uc.validateRequest(req); err != nil {
		return domain.NewInvalidInputError("invalid request", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return err
	}

	response, err := uc.service.Compare(ctx, finalReq)
	if err != nil {
		return err
	}

	var out io.Writer
	if finalReq.OutputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, finalReq.OutputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.WriteCompare(response, finalReq.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

func (uc *CompareUseCase) validateRequest(req domain.CompareRequest) error {
	if req.FirstPath == "" || req.SecondPath == "" {
		return fmt.Errorf("two graph paths are required")
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer or output path is required")
	}
	return nil
}

// loadAndMergeConfig loads configuration and merges req over it
func (uc *CompareUseCase) loadAndMergeConfig(req domain.CompareRequest) (*domain.CompareRequest, error) {
	if uc.configLoader == nil {
		return &req, nil
	}

	configReq, err := uc.configLoader.LoadCompareConfig(req.ConfigPath)
	if err != nil {
		return nil, err
	}
	return uc.configLoader.MergeCompareConfig(configReq, &req), nil
}

// CompareUseCaseBuilder provides a fluent builder for CompareUseCase
type CompareUseCaseBuilder struct {
	service      domain.CompareService
	formatter    domain.OutputFormatter
	configLoader domain.CompareConfigurationLoader
	output       domain.ReportWriter
}

func NewCompareUseCaseBuilder() *CompareUseCaseBuilder { return &CompareUseCaseBuilder{} }

func (b *CompareUseCaseBuilder) WithService(s domain.CompareService) *CompareUseCaseBuilder {
	b.service = s
	return b
}

func (b *CompareUseCaseBuilder) WithFormatter(f domain.OutputFormatter) *CompareUseCaseBuilder {
	b.formatter = f
	return b
}

func (b *CompareUseCaseBuilder) WithConfigLoader(l domain.CompareConfigurationLoader) *CompareUseCaseBuilder {
	b.configLoader = l
	return b
}

func (b *CompareUseCaseBuilder) WithOutputWriter(w domain.ReportWriter) *CompareUseCaseBuilder {
	b.output = w
	return b
}

// Build creates the CompareUseCase; the service and formatter are required
func (b *CompareUseCaseBuilder) Build() (*CompareUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("compare service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewCompareUseCase(b.service, b.formatter, b.configLoader)
	if b.output != nil {
		uc.output = b.output
	}
	return uc, nil
}
