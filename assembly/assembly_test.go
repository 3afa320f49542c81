package assembly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/store"
)

type fakeProfileStore struct {
	profiles map[string]store.Profile
	err      error
}

func (f *fakeProfileStore) FetchProfiles(ctx context.Context, candidateIDs []string) ([]store.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]store.Profile, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func finalResult(id string, score float64) shortlist.FinalResult {
	return shortlist.FinalResult{CandidateID: id, FinalScore: score}
}

func TestIsDomainRelevantKnownDomainKeywordMatch(t *testing.T) {
	assert.True(t, isDomainRelevant("Senior Go Backend Engineer", "backend development"))
}

func TestIsDomainRelevantEmptyDomainAlwaysPasses(t *testing.T) {
	assert.True(t, isDomainRelevant("Anything at all", ""))
}

func TestIsDomainRelevantUnknownDomainFallsBackToWordOverlap(t *testing.T) {
	assert.True(t, isDomainRelevant("Quantum Computing Researcher", "quantum computing"))
	assert.False(t, isDomainRelevant("Unrelated Chef", "quantum computing"))
}

func TestRunStrongMatchPath(t *testing.T) {
	profiles := &fakeProfileStore{profiles: map[string]store.Profile{
		"a": {CandidateID: "a", Name: "Alice", Headline: "Backend Engineer"},
	}}
	stage := &Stage{Profiles: profiles, MinRelevanceScore: 20, HardFilterEnabled: true, MaxResults: 25}

	results, quality := stage.Run(context.Background(), []shortlist.FinalResult{finalResult("a", 80)}, nil, shortlist.MissionSpec{CoreDomain: "backend development"}, shortlist.NullEventSink{})
	assert.Equal(t, shortlist.MatchStrong, quality)
	require.Len(t, results, 1)
	assert.Equal(t, "Alice", results[0].Name)
}

func TestRunScoreFilterExcludesLowScores(t *testing.T) {
	profiles := &fakeProfileStore{profiles: map[string]store.Profile{"a": {CandidateID: "a"}}}
	stage := &Stage{Profiles: profiles, MinRelevanceScore: 50, HardFilterEnabled: true, MaxResults: 25}

	results, quality := stage.Run(context.Background(), []shortlist.FinalResult{finalResult("a", 10)}, nil, shortlist.MissionSpec{}, shortlist.NullEventSink{})
	assert.Equal(t, shortlist.MatchWeak, quality, "filtered to zero strong matches")
	assert.Len(t, results, 1, "weak fallback should still surface the candidate")
}

func TestRunDomainFilterExcludesOffDomain(t *testing.T) {
	profiles := &fakeProfileStore{profiles: map[string]store.Profile{
		"a": {CandidateID: "a", Headline: "Pastry Chef"},
	}}
	stage := &Stage{Profiles: profiles, MinRelevanceScore: 0, HardFilterEnabled: true, MaxResults: 25}

	results, quality := stage.Run(context.Background(), []shortlist.FinalResult{finalResult("a", 90)}, nil, shortlist.MissionSpec{CoreDomain: "backend development"}, shortlist.NullEventSink{})
	assert.Equal(t, shortlist.MatchWeak, quality)
	assert.Len(t, results, 1, "weak fallback should still surface the candidate")
}

func TestRunNoCandidatesYieldsNoneQuality(t *testing.T) {
	stage := &Stage{Profiles: &fakeProfileStore{}, MinRelevanceScore: 20, HardFilterEnabled: true, MaxResults: 25}
	results, quality := stage.Run(context.Background(), nil, nil, shortlist.MissionSpec{}, shortlist.NullEventSink{})
	assert.Equal(t, shortlist.MatchNone, quality)
	assert.Empty(t, results)
}

func TestRunWeakMatchLimitedToTen(t *testing.T) {
	var finals []shortlist.FinalResult
	profiles := map[string]store.Profile{}
	for i := 0; i < 15; i++ {
		id := string(rune('a' + i))
		finals = append(finals, finalResult(id, 5))
		profiles[id] = store.Profile{CandidateID: id}
	}
	stage := &Stage{Profiles: &fakeProfileStore{profiles: profiles}, MinRelevanceScore: 20, HardFilterEnabled: true, MaxResults: 25}

	results, quality := stage.Run(context.Background(), finals, nil, shortlist.MissionSpec{}, shortlist.NullEventSink{})
	require.Equal(t, shortlist.MatchWeak, quality)
	assert.Len(t, results, 10, "weak limit")
}

func TestRunHardFilterDisabledSkipsFilters(t *testing.T) {
	profiles := &fakeProfileStore{profiles: map[string]store.Profile{"a": {CandidateID: "a", Headline: "Pastry Chef"}}}
	stage := &Stage{Profiles: profiles, MinRelevanceScore: 90, HardFilterEnabled: false, MaxResults: 25}

	results, quality := stage.Run(context.Background(), []shortlist.FinalResult{finalResult("a", 1)}, nil, shortlist.MissionSpec{CoreDomain: "backend development"}, shortlist.NullEventSink{})
	assert.Equal(t, shortlist.MatchStrong, quality, "filters disabled")
	assert.Len(t, results, 1)
}
