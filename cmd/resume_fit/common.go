package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/config"
	"github.com/jonathan/resume-fit/internal/extraction"
	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/logger"
	"github.com/jonathan/resume-fit/internal/observability"
	"github.com/jonathan/resume-fit/internal/schemas"
	"github.com/jonathan/resume-fit/internal/store"
	"github.com/jonathan/resume-fit/internal/tailoring"
	"github.com/jonathan/resume-fit/internal/types"
)

// Schema files checked against command output
const (
	schemaJobContext = "job_context.schema.json"
	schemaAnalysis   = "job_analysis.schema.json"
	schemaAnalytics  = "resume_analytics.schema.json"
)

// app carries the configuration and logger shared by every command.
// Human-readable reports go to errOut so stdout only carries JSON.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	verbose bool
	errOut  io.Writer
}

func newApp(cfg *config.Config, log *zap.Logger, verbose bool, errOut io.Writer) *app {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return &app{cfg: cfg, log: log, verbose: verbose, errOut: errOut}
}

func (a *app) printer() *observability.Printer {
	if !a.verbose {
		return nil
	}
	return observability.NewPrinter(a.errOut)
}

// jobInput selects the posting for a command: a text or HTML file, or a
// previously extracted job context JSON file
type jobInput struct {
	jobFile     string
	contextFile string
	title       string
}

func (in jobInput) provided() bool {
	return in.jobFile != "" || in.contextFile != ""
}

// load returns the job context and the cleaned posting text. The text is
// empty when the context came from a context file.
func (in jobInput) load(a *app) (*types.JobContext, string, error) {
	if in.jobFile != "" && in.contextFile != "" {
		return nil, "", fmt.Errorf("cannot use --job with --job-context")
	}

	if in.contextFile != "" {
		data, err := os.ReadFile(in.contextFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read job context file: %w", err)
		}
		if err := a.checkSchema(schemaJobContext, data); err != nil {
			return nil, "", fmt.Errorf("job context file %s: %w", in.contextFile, err)
		}
		var jobCtx types.JobContext
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&jobCtx); err != nil {
			return nil, "", fmt.Errorf("failed to decode job context: %w", err)
		}
		if in.title != "" {
			jobCtx.JobTitle = in.title
		}
		return &jobCtx, "", nil
	}

	if in.jobFile == "" {
		return nil, "", fmt.Errorf("--job or --job-context is required")
	}
	text, meta, err := ingestion.LoadJobText(in.jobFile)
	if err != nil {
		return nil, "", err
	}
	a.log.Debug("loaded job posting",
		zap.String("source", meta.Source),
		zap.String("format", string(meta.Format)),
		zap.String("hash", meta.Hash))

	jobCtx := extraction.ExtractJobContext(text, in.title)
	a.log.Debug("extracted job context",
		zap.String(logger.FieldJobTitle, jobCtx.JobTitle),
		zap.Int("required_skills", len(jobCtx.RequiredSkills)),
		zap.Int("preferred_skills", len(jobCtx.PreferredSkills)))
	return jobCtx, text, nil
}

// checkSchema validates data against a schema under schemas/. A document
// that violates the schema is an error; a schema that cannot be found or
// loaded only produces a warning.
func (a *app) checkSchema(schemaFile string, data []byte) error {
	schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", schemaFile))
	if schemaPath == "" {
		a.log.Debug("schema not found, skipping validation", zap.String("schema", schemaFile))
		return nil
	}

	err := schemas.ValidateBytes(schemaPath, data)
	if err == nil {
		return nil
	}
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Errorf("JSON does not validate against schema: %w", err)
	}
	a.log.Warn("could not validate against schema", zap.String("schema", schemaFile), zap.Error(err))
	return nil
}

// writeJSON renders v as indented JSON, checks it against schemaFile when one
// is given and writes it to outPath, or to out when outPath is empty.
func (a *app) writeJSON(out io.Writer, outPath string, v any, schemaFile string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if schemaFile != "" {
		if err := a.checkSchema(schemaFile, data); err != nil {
			return fmt.Errorf("generated output: %w", err)
		}
	}
	data = append(data, '\n')

	if outPath == "" {
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.log.Info("wrote output", zap.String("path", outPath))
	return nil
}

// openStore connects to the configured database and applies migrations
func (a *app) openStore(ctx context.Context) (*store.DB, error) {
	if a.cfg.Database.URL == "" {
		return nil, errors.New("database URL is required (set RESUME_FIT_DATABASE_URL or DATABASE_URL)")
	}
	db, err := store.Connect(ctx, a.cfg.Database.URL, a.log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// savePosting stores a posting and its extracted context
func (a *app) savePosting(ctx context.Context, text string, jobCtx *types.JobContext) error {
	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveJobPosting(ctx, jobCtx.JobTitle, text, jobCtx)
	if err != nil {
		return err
	}
	a.log.Info("saved job posting", zap.String("posting_id", id.String()), zap.String(logger.FieldJobTitle, jobCtx.JobTitle))
	return nil
}

// saveResult stores a command result together with its posting and profile
func (a *app) saveResult(ctx context.Context, kind, text string, jobCtx *types.JobContext, profile *types.CandidateProfile, payload any) error {
	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var postingID, profileID uuid.UUID
	if text != "" && jobCtx != nil {
		if postingID, err = db.SaveJobPosting(ctx, jobCtx.JobTitle, text, jobCtx); err != nil {
			return err
		}
	}
	if profile != nil {
		if profileID, err = db.SaveProfile(ctx, profile); err != nil {
			return err
		}
	}
	id, err := db.SaveAnalysis(ctx, postingID, profileID, kind, payload)
	if err != nil {
		return err
	}
	a.log.Info("saved result", zap.String("kind", kind), zap.String(logger.FieldAnalysisID, id.String()))
	return nil
}

// newPolisher builds the suggestion polisher when the LLM is enabled. The
// returned close func is always safe to call.
func (a *app) newPolisher(ctx context.Context) (*tailoring.Polisher, func(), error) {
	if !a.cfg.LLM.Enabled {
		return nil, func() {}, nil
	}
	client, err := llm.NewClient(ctx, a.cfg.LLMClientConfig(), a.cfg.LLM.APIKey, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			a.log.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	return tailoring.NewPolisher(client).WithTimeout(a.cfg.LLM.Timeout), closeFn, nil
}

// expandProfilePaths replaces directories with the .json files they contain,
// in name order
func expandProfilePaths(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		found := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
