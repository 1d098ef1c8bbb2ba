package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/bookdiff/internal/align"
	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/classify"
	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/model"
	"github.com/nao1215/bookdiff/internal/pages"
)

// Step names, in the order DefaultPipeline runs them.
const (
	StepFingerprintOld = "fingerprint_old"
	StepFingerprintNew = "fingerprint_new"
	StepAlign          = "align"
	StepRecoverMoves   = "recover_moves"
	StepClassify       = "classify"
	StepSaveHistory    = "save_history"
)

// FingerprintStep lists the pages of one version and fingerprints them.
type FingerprintStep struct {
	side          model.Side
	order         pages.SortOrder
	fingerprinter *Fingerprinter
	logger        *slog.Logger
}

// NewFingerprintStep creates a FingerprintStep for side.
func NewFingerprintStep(side model.Side, order pages.SortOrder, fp *Fingerprinter, logger *slog.Logger) *FingerprintStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FingerprintStep{
		side:          side,
		order:         order,
		fingerprinter: fp,
		logger:        logger,
	}
}

// Name returns the step name.
func (s *FingerprintStep) Name() string {
	if s.side == model.SideOld {
		return StepFingerprintOld
	}
	return StepFingerprintNew
}

// Do fills cmp.Old or cmp.New. An empty source is valid and yields an empty
// sequence.
func (s *FingerprintStep) Do(ctx context.Context, cmp *model.Comparison) error {
	source := cmp.OldSource
	if s.side == model.SideNew {
		source = cmp.NewSource
	}

	pgs, err := pages.List(ctx, source, s.order)
	if err != nil {
		return fmt.Errorf("list %s pages: %w", s.side, err)
	}
	if len(pgs) == 0 {
		s.logger.Warn("no pages found", "side", s.side.String(), "source", source)
	}

	seq, err := s.fingerprinter.Fingerprint(ctx, s.side, pgs)
	if err != nil {
		return err
	}

	if s.side == model.SideOld {
		cmp.Old = seq
	} else {
		cmp.New = seq
	}
	return nil
}

// AlignStep computes the edit script between the two sequences.
type AlignStep struct {
	cm align.CostModel
}

// NewAlignStep creates an AlignStep with the given cost model.
func NewAlignStep(cm align.CostModel) *AlignStep {
	return &AlignStep{cm: cm}
}

// Name returns the step name.
func (s *AlignStep) Name() string {
	return StepAlign
}

// Do sets cmp.Ops and cmp.Threshold.
func (s *AlignStep) Do(_ context.Context, cmp *model.Comparison) error {
	if err := s.cm.Validate(); err != nil {
		return err
	}
	if w := cmp.Old.Width(); w > 0 && cmp.New.Width() > 0 && w != cmp.New.Width() {
		return fmt.Errorf("%w: old %d bits, new %d bits", model.ErrWidthMismatch, w, cmp.New.Width())
	}
	cmp.Threshold = s.cm.Threshold
	cmp.Ops = align.Align(cmp.Old, cmp.New, s.cm)
	return nil
}

// RecoverMovesStep pairs DELETE and INSERT ops of the same page.
type RecoverMovesStep struct {
	cm     align.CostModel
	logger *slog.Logger
}

// NewRecoverMovesStep creates a RecoverMovesStep.
func NewRecoverMovesStep(cm align.CostModel, logger *slog.Logger) *RecoverMovesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecoverMovesStep{cm: cm, logger: logger}
}

// Name returns the step name.
func (s *RecoverMovesStep) Name() string {
	return StepRecoverMoves
}

// Do rewrites cmp.Ops.
func (s *RecoverMovesStep) Do(_ context.Context, cmp *model.Comparison) error {
	before := len(cmp.Ops)
	cmp.Ops = align.RecoverMoves(cmp.Ops, cmp.Old, cmp.New, s.cm)
	if moved := before - len(cmp.Ops); moved > 0 {
		s.logger.Debug("recovered moved pages", "count", moved)
	}
	return nil
}

// ClassifyStep turns the edit script into the DiffReport.
type ClassifyStep struct{}

// NewClassifyStep creates a ClassifyStep.
func NewClassifyStep() *ClassifyStep {
	return &ClassifyStep{}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return StepClassify
}

// Do sets cmp.Report.
func (s *ClassifyStep) Do(_ context.Context, cmp *model.Comparison) error {
	cmp.Report = classify.Classify(cmp.Ops, cmp.Old, cmp.New)
	return nil
}

// SaveHistoryStep stores the finished comparison in the cache database.
// A failed write is logged and does not fail the comparison.
type SaveHistoryStep struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// NewSaveHistoryStep creates a SaveHistoryStep.
func NewSaveHistoryStep(c *cache.Cache, logger *slog.Logger) *SaveHistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveHistoryStep{cache: c, logger: logger}
}

// Name returns the step name.
func (s *SaveHistoryStep) Name() string {
	return StepSaveHistory
}

// Do saves cmp.
func (s *SaveHistoryStep) Do(ctx context.Context, cmp *model.Comparison) error {
	id, err := s.cache.SaveComparison(ctx, cmp)
	if err != nil {
		s.logger.Warn("failed to save comparison history", "error", err)
		return nil
	}
	s.logger.Debug("comparison saved", "id", id)
	return nil
}

// CostModel returns the alignment cost model described by cfg.
func CostModel(cfg *config.Config) align.CostModel {
	return align.NewCostModel(cfg.Threshold).WithBand(cfg.Band)
}

// DefaultPipeline creates the pipeline for cfg.
// The recover_moves step is added when cfg.DetectMoves is set, and
// save_history when history is non-nil.
func DefaultPipeline(cfg *config.Config, fp *Fingerprinter, history *cache.Cache, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	cm := CostModel(cfg)

	p := New(WithLogger(logger))
	p.AddSteps(
		NewFingerprintStep(model.SideOld, cfg.SortOrder, fp, logger),
		NewFingerprintStep(model.SideNew, cfg.SortOrder, fp, logger),
		NewAlignStep(cm),
	)
	if cfg.DetectMoves {
		p.AddStep(NewRecoverMovesStep(cm, logger))
	}
	p.AddStep(NewClassifyStep())
	if history != nil {
		p.AddStep(NewSaveHistoryStep(history, logger))
	}
	return p
}
