package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/logger"
	"github.com/jonathan/resume-fit/internal/types"
)

// Analysis kinds
const (
	KindJobContext = "job_context"
	KindMatch      = "match"
	KindTailor     = "tailor"
	KindAnalytics  = "analytics"
)

// maxListedAnalyses caps ListAnalyses results
const maxListedAnalyses = 100

// Analysis is a stored result. PostingID and ProfileID are nil when the
// result was not tied to a stored posting or profile.
type Analysis struct {
	ID        uuid.UUID       `json:"id"`
	PostingID *uuid.UUID      `json:"posting_id,omitempty"`
	ProfileID *uuid.UUID      `json:"profile_id,omitempty"`
	Kind      string          `json:"kind"`
	Score     *int            `json:"score,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaveJobPosting stores a posting and its extracted context. Postings are
// deduplicated by content hash: saving the same text again refreshes the
// title and context and returns the existing id.
func (db *DB) SaveJobPosting(ctx context.Context, title, text string, jobCtx *types.JobContext) (uuid.UUID, error) {
	contextJSON, err := marshalNullable(jobCtx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal job context: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (job_title, raw_text, content_hash, context)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (content_hash) DO UPDATE
		   SET job_title = EXCLUDED.job_title, context = EXCLUDED.context, updated_at = NOW()
		 RETURNING id`,
		title, text, ingestion.ContentHash(text), contextJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save job posting: %w", err)
	}

	db.logger.Debug("job posting saved", zap.String("id", id.String()), zap.String(logger.FieldJobTitle, title))
	return id, nil
}

// SaveProfile stores a candidate profile. A profile whose ID is a UUID
// replaces the stored copy with that id; otherwise a new id is assigned.
func (db *DB) SaveProfile(ctx context.Context, profile *types.CandidateProfile) (uuid.UUID, error) {
	if profile == nil {
		return uuid.Nil, errors.New("profile must not be nil")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	name := displayName(profile)
	var id uuid.UUID
	if existing, parseErr := uuid.Parse(profile.ID); parseErr == nil {
		err = db.pool.QueryRow(ctx,
			`INSERT INTO candidate_profiles (id, display_name, profile)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE
			   SET display_name = EXCLUDED.display_name, profile = EXCLUDED.profile, updated_at = NOW()
			 RETURNING id`,
			existing, name, data,
		).Scan(&id)
	} else {
		err = db.pool.QueryRow(ctx,
			`INSERT INTO candidate_profiles (display_name, profile) VALUES ($1, $2) RETURNING id`,
			name, data,
		).Scan(&id)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return id, nil
}

// SaveAnalysis stores a result payload of the given kind. uuid.Nil for
// postingID or profileID stores no reference.
func (db *DB) SaveAnalysis(ctx context.Context, postingID, profileID uuid.UUID, kind string, payload any) (uuid.UUID, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO analyses (posting_id, profile_id, kind, score, payload)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		nullableUUID(postingID), nullableUUID(profileID), kind, scoreOf(payload), data,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save %s analysis: %w", kind, err)
	}

	db.logger.Debug("analysis saved", zap.String(logger.FieldAnalysisID, id.String()), zap.String("kind", kind))
	return id, nil
}

// GetAnalysis retrieves a stored result by id. It returns nil, nil when no
// such result exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	a, err := scanAnalysis(db.pool.QueryRow(ctx,
		`SELECT id, posting_id, profile_id, kind, score, payload, created_at
		 FROM analyses WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses returns the newest results for a posting, at most 100
func (db *DB) ListAnalyses(ctx context.Context, postingID uuid.UUID) ([]Analysis, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, posting_id, profile_id, kind, score, payload, created_at
		 FROM analyses WHERE posting_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		postingID, maxListedAnalyses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	out := make([]Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return out, nil
}

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	var payload []byte
	if err := row.Scan(&a.ID, &a.PostingID, &a.ProfileID, &a.Kind, &a.Score, &payload, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Payload = json.RawMessage(payload)
	return &a, nil
}

// scoreOf extracts the headline score of known result types
func scoreOf(payload any) *int {
	var score int
	switch v := payload.(type) {
	case *types.JobAnalysisResult:
		if v == nil {
			return nil
		}
		score = v.OverallMatchScore
	case *types.TailoringResult:
		if v == nil || v.Analysis == nil {
			return nil
		}
		score = v.Analysis.OverallMatchScore
	case *types.ResumeAnalytics:
		if v == nil {
			return nil
		}
		score = v.OverallScore
	default:
		return nil
	}
	return &score
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// marshalNullable encodes v, mapping a nil pointer to SQL NULL
func marshalNullable(v *types.JobContext) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func displayName(profile *types.CandidateProfile) string {
	return strings.TrimSpace(profile.Personal.FirstName + " " + profile.Personal.LastName)
}
