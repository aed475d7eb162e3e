package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-fit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchContext() *types.JobContext {
	return &types.JobContext{
		RequiredSkills:   []string{"Go", "SQL", "Docker"},
		TechnicalSkills:  []string{"Go", "SQL", "Docker"},
		SkillMatchWeight: 0.4,
		ExperienceWeight: 0.25,
		EducationWeight:  0.15,
		KeywordWeight:    0.2,
	}
}

func TestMatchBatch_PreservesOrder(t *testing.T) {
	profiles := []*types.CandidateProfile{
		{Skills: []string{"Go"}},
		{Skills: []string{"Go", "SQL"}},
		{Skills: []string{"Go", "SQL", "Docker"}},
		{},
		{Skills: []string{"Docker"}},
	}

	for _, workers := range []int{0, 1, 2, 8} {
		results, err := MatchBatch(context.Background(), profiles, batchContext(), workers)
		require.NoError(t, err)
		require.Len(t, results, len(profiles))

		for i, profile := range profiles {
			single, err := MatchProfileToJob(profile, batchContext())
			require.NoError(t, err)
			assert.Equal(t, single.StrongMatches, results[i].StrongMatches, "workers=%d index=%d", workers, i)
			assert.Equal(t, single.OverallMatchScore, results[i].OverallMatchScore)
		}
	}
}

func TestMatchBatch_Empty(t *testing.T) {
	results, err := MatchBatch(context.Background(), nil, batchContext(), 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profiles := []*types.CandidateProfile{{Skills: []string{"Go"}}, {Skills: []string{"SQL"}}}
	results, err := MatchBatch(ctx, profiles, batchContext(), 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestMatchBatch_InvalidArguments(t *testing.T) {
	_, err := MatchBatch(context.Background(), []*types.CandidateProfile{{}}, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = MatchBatch(context.Background(), []*types.CandidateProfile{{}, nil}, batchContext(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 1, batchErr.Index)
}
