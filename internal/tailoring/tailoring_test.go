package tailoring

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-fit/internal/llm"
	"github.com/jonathan/resume-fit/internal/matching"
	"github.com/jonathan/resume-fit/internal/types"
)

func backendContext() *types.JobContext {
	return &types.JobContext{
		RequiredSkills:   []string{"Go", "Kubernetes", "PostgreSQL"},
		PreferredSkills:  []string{"Terraform"},
		TechnicalSkills:  []string{"Go", "Kubernetes", "PostgreSQL", "Terraform"},
		SoftSkills:       []string{"Communication", "Leadership"},
		MustHaveKeywords: []string{"AWS", "CI/CD"},
		JobTitle:         "Backend Engineer",
		Responsibilities: []string{"Design and build backend services", "Operate production clusters", "Mentor engineers"},
		Qualifications:   []string{"AWS certification is a plus"},
		SkillMatchWeight: 0.4,
		ExperienceWeight: 0.25,
		EducationWeight:  0.15,
		KeywordWeight:    0.2,
	}
}

func backendProfile() *types.CandidateProfile {
	return &types.CandidateProfile{
		Summary: "Backend developer building APIs.",
		Skills:  []string{"Python", "Go", "Communication"},
		Experience: []types.Experience{
			{Title: "Software Engineer", Company: "Acme", StartDate: "2020-01", IsCurrent: true},
		},
		Projects: []types.Project{{Name: "cli-tool"}},
	}
}

func analyze(t *testing.T, profile *types.CandidateProfile, jobCtx *types.JobContext) *types.JobAnalysisResult {
	t.Helper()
	result, err := matching.MatchProfileToJob(profile, jobCtx)
	require.NoError(t, err)
	return result
}

func titles(suggestions []types.TailoringSuggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Title
	}
	return out
}

func TestGenerateTailoringSuggestions_AllKinds(t *testing.T) {
	profile := backendProfile()
	result := analyze(t, profile, backendContext())

	suggestions, err := GenerateTailoringSuggestions(profile, result)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Add 2 Required Skills",
		"Emphasize Relevant Experience",
		"Optimize Professional Summary",
		"Align Experience with Job Responsibilities",
		"Reorder Skills by Job Priority",
		"Add Soft Skills",
		"Emphasize Relevant Projects",
		"Consider Relevant Certifications",
	}, titles(suggestions))

	add := suggestions[0]
	assert.Equal(t, types.SuggestionAdd, add.Type)
	assert.Equal(t, types.SectionSkills, add.Section)
	assert.Equal(t, types.PriorityCritical, add.Priority)
	assert.Equal(t, "The job requires: Kubernetes, PostgreSQL. Consider adding these if you have experience with them.", add.Description)
	assert.Equal(t, "Kubernetes, PostgreSQL", add.After)
	assert.Empty(t, add.Before)

	summary := suggestions[2]
	assert.Equal(t, "Backend developer building APIs.", summary.Before)
	assert.Equal(t, "Include these keywords naturally: AWS, CI/CD", summary.Description)

	aligned := suggestions[3]
	assert.Equal(t, "Match your experience descriptions to: Design and build backend services; Operate production clusters", aligned.Description)

	soft := suggestions[5]
	assert.Equal(t, "Consider adding: Leadership", soft.Description)

	assert.Equal(t, types.PriorityLow, suggestions[7].Priority)
}

func TestGenerateTailoringSuggestions_SortedByPriority(t *testing.T) {
	profile := backendProfile()
	suggestions, err := GenerateTailoringSuggestions(profile, analyze(t, profile, backendContext()))
	require.NoError(t, err)

	for i := 1; i < len(suggestions); i++ {
		assert.LessOrEqual(t, suggestions[i-1].Priority.Rank(), suggestions[i].Priority.Rank())
	}
}

func TestGenerateTailoringSuggestions_NoSummaryPlaceholder(t *testing.T) {
	profile := backendProfile()
	profile.Summary = "   "

	suggestions, err := GenerateTailoringSuggestions(profile, analyze(t, profile, backendContext()))
	require.NoError(t, err)

	for _, s := range suggestions {
		if s.Title == "Optimize Professional Summary" {
			assert.Equal(t, "(No summary)", s.Before)
			return
		}
	}
	t.Fatal("summary suggestion not emitted")
}

func TestGenerateTailoringSuggestions_EmptyContext(t *testing.T) {
	profile := &types.CandidateProfile{Skills: []string{"Go"}}
	suggestions, err := GenerateTailoringSuggestions(profile, analyze(t, profile, &types.JobContext{}))
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestGenerateTailoringSuggestions_Deterministic(t *testing.T) {
	profile := backendProfile()
	result := analyze(t, profile, backendContext())

	first, err := GenerateTailoringSuggestions(profile, result)
	require.NoError(t, err)
	second, err := GenerateTailoringSuggestions(profile, result)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	ids := make(map[string]bool)
	for _, s := range first {
		assert.NotEmpty(t, s.ID)
		assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
		ids[s.ID] = true
	}
}

func TestGenerateTailoringSuggestions_InvalidArguments(t *testing.T) {
	profile := backendProfile()
	result := analyze(t, profile, backendContext())

	tests := []struct {
		name    string
		profile *types.CandidateProfile
		result  *types.JobAnalysisResult
	}{
		{"nil profile", nil, result},
		{"nil result", profile, nil},
		{"nil context", profile, &types.JobAnalysisResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateTailoringSuggestions(tt.profile, tt.result)
			assert.ErrorIs(t, err, matching.ErrInvalidArgument)
		})
	}
}

func TestApplyAutoTailoring(t *testing.T) {
	profile := backendProfile()
	result := analyze(t, profile, backendContext())

	tailored, err := ApplyAutoTailoring(profile, result)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL", "Python", "Communication", "Terraform"}, tailored.Skills)
	assert.Equal(t, "Backend developer building APIs. Experienced with AWS, CI/CD.", tailored.Summary)

	// input untouched
	assert.Equal(t, []string{"Python", "Go", "Communication"}, profile.Skills)
	assert.Equal(t, "Backend developer building APIs.", profile.Summary)
}

func TestApplyAutoTailoring_Idempotent(t *testing.T) {
	profile := backendProfile()
	result := analyze(t, profile, backendContext())

	once, err := ApplyAutoTailoring(profile, result)
	require.NoError(t, err)
	twice, err := ApplyAutoTailoring(once, result)
	require.NoError(t, err)

	assert.Equal(t, once.Skills, twice.Skills)
	assert.Equal(t, once.Summary, twice.Summary)
}

func TestApplyAutoTailoring_EmptySummaryUnchanged(t *testing.T) {
	profile := backendProfile()
	profile.Summary = ""

	tailored, err := ApplyAutoTailoring(profile, analyze(t, profile, backendContext()))
	require.NoError(t, err)
	assert.Empty(t, tailored.Summary)
}

func TestApplyAutoTailoring_CapsAddedSkills(t *testing.T) {
	jobCtx := &types.JobContext{
		RequiredSkills: []string{"A1", "B2", "C3", "D4", "E5", "F6", "G7"},
	}
	profile := &types.CandidateProfile{}

	tailored, err := ApplyAutoTailoring(profile, analyze(t, profile, jobCtx))
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2", "C3", "D4", "E5"}, tailored.Skills)
	assert.Nil(t, profile.Skills)
}

func TestTailorResumeToJob(t *testing.T) {
	jobText := `Senior Backend Engineer

Requirements:
Must have Go and Kubernetes experience.
Strong communication skills.

Nice to have:
Terraform`

	profile := &types.CandidateProfile{
		Summary: "Engineer.",
		Skills:  []string{"Go"},
	}

	result, err := TailorResumeToJob(profile, jobText, "", true)
	require.NoError(t, err)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "Senior Backend Engineer", result.Analysis.Context.JobTitle)
	assert.Contains(t, result.TailoredProfile.Skills, "Kubernetes")
	assert.LessOrEqual(t, len(result.KeywordGaps), 10)
	assert.LessOrEqual(t, len(result.StrengthAreas), 5)
	assert.Contains(t, result.StrengthAreas, "Go")
	assert.NotEmpty(t, result.Suggestions)
	assert.Equal(t, []string{"Go"}, profile.Skills)

	plain, err := TailorResumeToJob(profile, jobText, "", false)
	require.NoError(t, err)
	assert.Equal(t, profile.Skills, plain.TailoredProfile.Skills)
	assert.NotSame(t, profile, plain.TailoredProfile)
}

func TestTailorResumeToJob_NilProfile(t *testing.T) {
	_, err := TailorResumeToJob(nil, "Required: Go", "", true)
	assert.ErrorIs(t, err, matching.ErrInvalidArgument)
}

func TestGenerateOptimizedSummary(t *testing.T) {
	tests := []struct {
		name    string
		profile *types.CandidateProfile
		jobCtx  *types.JobContext
		want    string
	}{
		{
			name: "all parts",
			profile: &types.CandidateProfile{
				Summary:    "I build reliable systems.",
				Skills:     []string{"Go", "SQL", "Docker", "AWS", "Linux", "Bash"},
				Experience: []types.Experience{{Title: "Staff Engineer"}},
			},
			jobCtx: &types.JobContext{MustHaveKeywords: []string{"AWS", "CI/CD", "SRE", "GCP"}},
			want:   "Staff Engineer with expertise in Go, SQL, Docker, AWS, Linux. AWS, CI/CD, SRE. I build reliable systems.",
		},
		{
			name:    "empty profile",
			profile: &types.CandidateProfile{},
			jobCtx:  &types.JobContext{},
			want:    "Professional.",
		},
		{
			name:    "skills only",
			profile: &types.CandidateProfile{Skills: []string{"Go"}},
			jobCtx:  &types.JobContext{},
			want:    "Professional with expertise in Go.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateOptimizedSummary(tt.profile, tt.jobCtx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := GenerateOptimizedSummary(nil, &types.JobContext{})
	assert.ErrorIs(t, err, matching.ErrInvalidArgument)
}

type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
}

func (f *fakeCompleter) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func TestPolisher_RewritesDescriptions(t *testing.T) {
	fake := &fakeCompleter{respond: func(string) (string, error) {
		return "```json\n{\"description\": \"Lead with Go and Kubernetes.\"}\n```", nil
	}}
	input := []types.TailoringSuggestion{
		{ID: "a", Title: "Add Skills", Section: types.SectionSkills, Description: "templated a"},
		{ID: "b", Title: "Emphasize", Section: types.SectionExperience, Description: "templated b"},
	}

	out, err := NewPolisher(fake).Polish(context.Background(), "Backend Engineer", input)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Lead with Go and Kubernetes.", out[0].Description)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "templated a", input[0].Description)
	assert.Len(t, fake.prompts, 2)
	assert.Contains(t, fake.prompts[0], "Backend Engineer")
}

func TestPolisher_FallsBackOnFailure(t *testing.T) {
	fake := &fakeCompleter{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "templated bad") {
			return "", errors.New("provider down")
		}
		if strings.Contains(prompt, "templated junk") {
			return "not json", nil
		}
		return `{"description": "polished"}`, nil
	}}
	input := []types.TailoringSuggestion{
		{ID: "ok", Description: "templated ok"},
		{ID: "bad", Description: "templated bad"},
		{ID: "junk", Description: "templated junk"},
	}

	out, err := NewPolisher(fake).Polish(context.Background(), "Engineer", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
	assert.Equal(t, "polished", out[0].Description)
	assert.Equal(t, "templated bad", out[1].Description)
	assert.Equal(t, "templated junk", out[2].Description)
}

func TestPolisher_NilIsPassThrough(t *testing.T) {
	input := []types.TailoringSuggestion{{ID: "a", Description: "templated"}}

	var p *Polisher
	out, err := p.Polish(context.Background(), "Engineer", input)
	require.NoError(t, err)
	assert.Equal(t, input, out)

	out, err = NewPolisher(nil).Polish(context.Background(), "Engineer", input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

type blockingCompleter struct{}

func (blockingCompleter) GenerateJSON(ctx context.Context, _ string, _ llm.ModelTier) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestPolisher_WithTimeout(t *testing.T) {
	input := []types.TailoringSuggestion{{ID: "a", Description: "templated"}}

	out, err := NewPolisher(blockingCompleter{}).WithTimeout(10*time.Millisecond).Polish(context.Background(), "Engineer", input)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "templated", out[0].Description)
}

func TestPolisher_RewriteSummary(t *testing.T) {
	fake := &fakeCompleter{respond: func(string) (string, error) {
		return `{"summary": "Backend engineer shipping Go and Kubernetes services."}`, nil
	}}

	got, err := NewPolisher(fake).RewriteSummary(context.Background(), "Backend Engineer", "Engineer.", []string{"Go", "Kubernetes"})
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer shipping Go and Kubernetes services.", got)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Keywords to include naturally: Go, Kubernetes")
}

func TestPolisher_RewriteSummaryFallback(t *testing.T) {
	tests := []struct {
		name    string
		respond func(string) (string, error)
		summary string
		wantErr bool
	}{
		{name: "provider error", respond: func(string) (string, error) { return "", errors.New("down") }, summary: "Engineer.", wantErr: true},
		{name: "malformed", respond: func(string) (string, error) { return "nope", nil }, summary: "Engineer.", wantErr: true},
		{name: "empty rewrite", respond: func(string) (string, error) { return `{"summary": " "}`, nil }, summary: "Engineer.", wantErr: true},
		{name: "blank summary skips the model", respond: func(string) (string, error) { panic("called") }, summary: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPolisher(&fakeCompleter{respond: tt.respond}).RewriteSummary(context.Background(), "Engineer", tt.summary, nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.summary, got)
		})
	}
}

func TestSummaryKeywords(t *testing.T) {
	tests := []struct {
		name   string
		jobCtx *types.JobContext
		want   []string
	}{
		{name: "nil context", jobCtx: nil, want: nil},
		{
			name:   "keywords first without repeats",
			jobCtx: &types.JobContext{MustHaveKeywords: []string{"AWS", "Go", " "}, RequiredSkills: []string{"go", "PostgreSQL"}},
			want:   []string{"AWS", "Go", "PostgreSQL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummaryKeywords(tt.jobCtx))
		})
	}
}
