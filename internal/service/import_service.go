package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"detran-quiz/internal/classify"
	"detran-quiz/internal/config"
	"detran-quiz/internal/domain"
	"detran-quiz/internal/extract"
	"detran-quiz/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	StrategyText   = "text"
	StrategyScript = "script"

	progressLogEvery = 50
)

// QuestionClassifier assigns a topic and optional subtopic to question text.
type QuestionClassifier interface {
	Classify(text string) classify.Result
}

// FileReport counts one fixture's outcome. Err is set when extraction aborted the file.
type FileReport struct {
	Path       string
	Strategy   string
	Found      int
	Accepted   int
	Inserted   int
	Duplicates int
	Failed     int
	Err        error
}

// ImportReport aggregates the file reports in input order.
type ImportReport struct {
	Files      []FileReport
	Found      int
	Accepted   int
	Inserted   int
	Duplicates int
	Failed     int
}

// FailedFiles counts files whose extraction failed.
func (r *ImportReport) FailedFiles() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// ImportService loads quiz fixtures into the question store.
type ImportService interface {
	Import(ctx context.Context, paths []string) (*ImportReport, error)
}

type importService struct {
	questionRepo domain.QuestionRepository
	classifier   QuestionClassifier
	cfg          config.ImportConfig
	logger       *zap.Logger
}

// NewImportService creates a new instance of importService.
func NewImportService(
	questionRepo domain.QuestionRepository,
	classifier QuestionClassifier,
	cfg config.ImportConfig,
	logger *zap.Logger,
) ImportService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &importService{
		questionRepo: questionRepo,
		classifier:   classifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// extraction is the per-file result of the concurrent phase.
type extraction struct {
	strategy string
	drafts   []extract.Draft
	found    int
	script   *extract.ScriptData
	err      error
}

// Import extracts all files concurrently, then inserts their questions strictly in file
// order and, within a file, in source order. Row failures are counted and logged; an
// extraction failure skips only its file. The returned error is set only when ctx ends.
func (s *importService) Import(ctx context.Context, paths []string) (*ImportReport, error) {
	start := time.Now()
	s.logger.Info("Starting question import", zap.Int("files", len(paths)), zap.Bool("dedup", s.cfg.Dedup))

	extractions := make([]extraction, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				extractions[i] = extraction{err: err}
				return nil
			}
			extractions[i] = s.extractFile(path)
			return nil
		})
	}
	_ = g.Wait()

	report := &ImportReport{Files: make([]FileReport, 0, len(paths))}
	inserted := 0
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ex := extractions[i]
		fr := FileReport{Path: path, Strategy: ex.strategy, Found: ex.found, Accepted: len(ex.drafts)}

		if ex.err != nil {
			fr.Err = domain.NewExtractionError(path, ex.err)
			metrics.ImportedFiles.WithLabelValues(ex.strategy, "error").Inc()
			s.logger.Error("Skipping file, extraction failed", zap.String("file", path), zap.String("strategy", ex.strategy), zap.Error(ex.err))
			report.add(fr)
			continue
		}

		s.logger.Info("Extracted questions",
			zap.String("file", path),
			zap.String("strategy", ex.strategy),
			zap.Int("found", fr.Found),
			zap.Int("accepted", fr.Accepted))
		metrics.ImportedQuestions.WithLabelValues(metrics.OutcomeFound).Add(float64(fr.Found))
		metrics.ImportedQuestions.WithLabelValues(metrics.OutcomeAccepted).Add(float64(fr.Accepted))

		for _, d := range ex.drafts {
			if err := ctx.Err(); err != nil {
				report.add(fr)
				return report, err
			}
			switch s.persist(ctx, path, d, ex.script) {
			case metrics.OutcomeInserted:
				fr.Inserted++
				inserted++
				if inserted%progressLogEvery == 0 {
					s.logger.Info("Import progress", zap.Int("inserted", inserted))
				}
			case metrics.OutcomeDuplicate:
				fr.Duplicates++
			default:
				fr.Failed++
			}
		}

		metrics.ImportedFiles.WithLabelValues(ex.strategy, "ok").Inc()
		report.add(fr)
	}

	s.logger.Info("Question import finished",
		zap.Int("found", report.Found),
		zap.Int("accepted", report.Accepted),
		zap.Int("inserted", report.Inserted),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("failed", report.Failed),
		zap.Int("failed_files", report.FailedFiles()),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// extractFile picks exactly one strategy from the page content.
func (s *importService) extractFile(path string) extraction {
	raw, err := os.ReadFile(path)
	if err != nil {
		return extraction{strategy: StrategyText, err: fmt.Errorf("failed to read file: %w", err)}
	}
	page := string(raw)

	if extract.HasEmbeddedQuestions(page) {
		data, err := extract.EvaluateScript(page, s.cfg.DOMMarker)
		if err != nil {
			return extraction{strategy: StrategyScript, err: err}
		}
		drafts := data.Drafts()
		return extraction{strategy: StrategyScript, found: len(drafts), drafts: extract.Finalize(drafts), script: data}
	}

	lines, err := extract.TextLines(strings.NewReader(page))
	if err != nil {
		return extraction{strategy: StrategyText, err: err}
	}
	drafts := extract.ParseLines(lines)
	return extraction{strategy: StrategyText, found: len(drafts), drafts: extract.Finalize(drafts)}
}

// persist classifies and stores one draft, returning the metrics outcome it produced.
func (s *importService) persist(ctx context.Context, path string, d extract.Draft, script *extract.ScriptData) string {
	class := s.classifier.Classify(d.Text)
	q := &domain.Question{
		TopicID:       class.TopicID,
		SubtopicID:    class.SubtopicID,
		Text:          d.Text,
		Options:       d.Options,
		CorrectOption: d.CorrectIndex,
		Explanation:   s.cfg.Explanation,
		TrickTip:      s.cfg.TrickTip,
	}
	if script != nil {
		q.ImageURL = script.ResolveImage(d.Code)
	}
	q.ContentHash = q.ComputeContentHash()

	outcome := s.store(ctx, path, d, q)
	metrics.ImportedQuestions.WithLabelValues(outcome).Inc()
	return outcome
}

func (s *importService) store(ctx context.Context, path string, d extract.Draft, q *domain.Question) string {
	if s.cfg.Dedup {
		exists, err := s.questionRepo.ExistsByContentHash(ctx, q.ContentHash)
		if err != nil {
			s.logger.Error("Failed to check for duplicate question",
				zap.String("file", path), zap.String("number", d.Number), zap.Error(err))
			return metrics.OutcomeFailed
		}
		if exists {
			s.logger.Debug("Skipping duplicate question", zap.String("file", path), zap.String("number", d.Number))
			return metrics.OutcomeDuplicate
		}
	}

	if err := s.questionRepo.SaveQuestion(ctx, q); err != nil {
		s.logger.Error("Failed to insert question",
			zap.String("file", path), zap.String("number", d.Number), zap.Error(err))
		return metrics.OutcomeFailed
	}
	return metrics.OutcomeInserted
}

func (r *ImportReport) add(fr FileReport) {
	r.Files = append(r.Files, fr)
	r.Found += fr.Found
	r.Accepted += fr.Accepted
	r.Inserted += fr.Inserted
	r.Duplicates += fr.Duplicates
	r.Failed += fr.Failed
}
