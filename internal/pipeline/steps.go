package pipeline

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/slashannots/internal/redact"
)

// RedactedSuffix is inserted before the extension of default output names.
const RedactedSuffix = ".redacted"

// ErrOutputIsInput is returned when a job would overwrite its own input.
var ErrOutputIsInput = errors.New("output path must differ from input path")

// DefaultOutputPath returns "<dir>/<stem>.redacted.pdf" for input "<dir>/<stem>.<ext>".
func DefaultOutputPath(input string) string {
	dir, base := filepath.Split(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+RedactedSuffix+".pdf")
}

// SamePath reports whether a and b name the same file location.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// digest returns the hex SHA3-256 digest of data.
func digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadStep loads and decodes the input document.
type ReadStep struct {
	codec  Codec
	logger *slog.Logger
}

// NewReadStep creates a ReadStep decoding with codec.
func NewReadStep(codec Codec, logger *slog.Logger) *ReadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadStep{codec: codec, logger: logger}
}

// Name implements Step.
func (s *ReadStep) Name() string {
	return "read"
}

// Do implements Step.
func (s *ReadStep) Do(_ context.Context, run *Run) error {
	data, err := os.ReadFile(run.Job.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	run.Report.InputDigest = digest(data)

	doc, err := s.codec.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", run.Job.InputPath, err)
	}
	run.Document = doc
	run.Report.Pages = doc.PageCount()

	s.logger.Debug("document loaded",
		"input", run.Job.InputPath,
		"pages", run.Report.Pages,
		"bytes", len(data),
	)
	return nil
}

// RedactStep applies the run's policy with a redaction engine.
type RedactStep struct {
	engine *redact.Engine
}

// NewRedactStep creates a RedactStep.
func NewRedactStep(engine *redact.Engine) *RedactStep {
	return &RedactStep{engine: engine}
}

// Name implements Step.
func (s *RedactStep) Name() string {
	return "redact"
}

// Do implements Step. Stats collected before a failure stay in the report.
func (s *RedactStep) Do(ctx context.Context, run *Run) error {
	if run.Document == nil {
		return errors.New("no document loaded")
	}
	return s.engine.RedactInto(ctx, run.Document, run.Policy, run.Report.Stats)
}

// WriteStep encodes the redacted document to the output path.
// The document is written to a temporary file in the output directory and
// renamed into place, so the output path never holds a partial file.
type WriteStep struct {
	logger *slog.Logger
}

// NewWriteStep creates a WriteStep.
func NewWriteStep(logger *slog.Logger) *WriteStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteStep{logger: logger}
}

// Name implements Step.
func (s *WriteStep) Name() string {
	return "write"
}

// Do implements Step.
func (s *WriteStep) Do(_ context.Context, run *Run) error {
	if run.Document == nil {
		return errors.New("no document loaded")
	}
	output := run.Job.OutputPath
	if SamePath(output, run.Job.InputPath) {
		return ErrOutputIsInput
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), filepath.Base(output)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once renamed.
		_ = os.Remove(tmpName) //nolint:errcheck
	}()

	hash := sha3.New256()
	if err := run.Document.Encode(io.MultiWriter(tmp, hash)); err != nil {
		_ = tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary output file: %w", err)
	}
	if err := os.Rename(tmpName, output); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	run.Report.OutputPath = output
	run.Report.OutputDigest = hex.EncodeToString(hash.Sum(nil))

	s.logger.Debug("document written", "output", output)
	return nil
}

// NewRedactionPipeline builds the read, redact and write pipeline.
func NewRedactionPipeline(codec Codec, engine *redact.Engine, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewReadStep(codec, p.logger),
		NewRedactStep(engine),
		NewWriteStep(p.logger),
	)
	return p
}
