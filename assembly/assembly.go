// Package assembly implements §4.6: profile enrichment, hard filtering,
// match-quality classification, and ShortlistResponse construction.
//
// Grounded on original_source/agents/assembly.go, including its
// DOMAIN_KEYWORDS lexicon (§12 of SPEC_FULL.md).
package assembly

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/resonantlabs/shortlist/shortlist"
	"github.com/resonantlabs/shortlist/store"
)

// domainKeywords is the fixed fourteen-domain lexicon used by
// isDomainRelevant when core_domain names a known domain.
var domainKeywords = map[string][]string{
	"digital marketing":     {"marketing", "seo", "sem", "ppc", "content", "brand", "advertising", "media", "campaign", "crm", "growth"},
	"python development":    {"python", "django", "flask", "fastapi", "backend"},
	"data engineering":      {"data engineer", "etl", "pipeline", "spark", "airflow", "warehouse"},
	"frontend development":  {"frontend", "react", "angular", "vue", "css", "javascript", "typescript", "ui"},
	"backend development":   {"backend", "api", "server", "microservice", "nodejs", "java", "go"},
	"machine learning":      {"machine learning", "ml", "deep learning", "ai", "neural", "nlp", "computer vision", "model"},
	"devops":                {"devops", "ci/cd", "kubernetes", "docker", "terraform", "infrastructure", "sre"},
	"data science":          {"data scien", "analytics", "statistics", "jupyter", "pandas", "tableau", "visualization"},
	"product management":    {"product manager", "roadmap", "stakeholder", "agile", "scrum"},
	"cloud engineering":     {"cloud", "aws", "azure", "gcp", "infrastructure"},
	"mobile development":    {"mobile", "ios", "android", "swift", "kotlin", "flutter", "react native"},
	"cybersecurity":         {"security", "penetration", "vulnerability", "compliance", "soc", "firewall"},
	"qa engineering":        {"qa", "quality assurance", "testing", "automation test", "selenium"},
	"ui/ux design":          {"design", "ux", "ui", "figma", "sketch", "wireframe", "prototype", "user research"},
}

// isDomainRelevant implements §4.6 hard filter 2's matching rule.
func isDomainRelevant(headline, coreDomain string) bool {
	if coreDomain == "" {
		return true
	}
	headlineLower := strings.ToLower(headline)
	domainLower := strings.ToLower(coreDomain)

	if strings.Contains(headlineLower, domainLower) {
		return true
	}

	keywords, known := domainKeywords[domainLower]
	if !known {
		words := strings.Fields(domainLower)
		return lo.SomeBy(words, func(w string) bool {
			return len(w) > 2 && strings.Contains(headlineLower, w)
		})
	}
	return lo.SomeBy(keywords, func(kw string) bool { return strings.Contains(headlineLower, kw) })
}

// Stage is the §4.6 Assembly stage handler.
type Stage struct {
	Profiles store.ProfileStore

	MinRelevanceScore float64
	HardFilterEnabled bool
	MaxResults        int
}

func buildResult(r shortlist.FinalResult, profile shortlist.CandidateProfile, pack shortlist.EvidencePack) shortlist.ShortlistResult {
	headline := profile.Headline
	if headline == "" {
		headline = "No title available"
	}
	return shortlist.ShortlistResult{
		CandidateID: r.CandidateID,
		Name:        profile.Name,
		FinalScore:  r.FinalScore,
		ScoreBreakdown: shortlist.ScoreBreakdown{
			RRFScore:    r.RRFScore,
			RerankScore: r.RerankScore,
			DenseRank:   r.DenseRank,
			SparseRank:  r.SparseRank,
		},
		EvidencePack:    pack,
		Highlights:      pack.Highlights,
		Headline:        headline,
		TotalYOE:        profile.TotalYOE,
		LocationCountry: profile.LocationCountry,
		LocationCity:    profile.LocationCity,
		Summary:         profile.Summary,
		MatchedSkills:   r.MatchedSkills,
	}
}

// Run applies §4.6 end to end and returns the final result list and its
// match quality; the pipeline orchestrator builds the ShortlistResponse
// around them.
func (s *Stage) Run(ctx context.Context, finalResults []shortlist.FinalResult, evidencePacks map[string]shortlist.EvidencePack, mission shortlist.MissionSpec, sink shortlist.EventSink) (results []shortlist.ShortlistResult, matchQuality shortlist.MatchQuality) {
	_ = sink.AgentStart("Assembly", shortlist.StageAssembly, fmt.Sprintf("Assembling final shortlist with %d candidates", len(finalResults)))

	fetchCount := s.MaxResults * 2
	if fetchCount <= 0 {
		fetchCount = len(finalResults)
	}
	candidateIDs := lo.Map(limitSlice(finalResults, fetchCount), func(r shortlist.FinalResult, _ int) string { return r.CandidateID })

	_ = sink.ToolCall("Assembly", "fetch_candidate_profiles", fmt.Sprintf("Enriching %d candidates with profile data", len(candidateIDs)))
	profiles, err := s.Profiles.FetchProfiles(ctx, candidateIDs)
	if err != nil {
		_ = sink.AgentThought("Assembly", fmt.Sprintf("Profile enrichment failed: %v", err))
		profiles = nil
	}
	_ = sink.ToolResult("Assembly", "fetch_candidate_profiles", fmt.Sprintf("Loaded %d candidate profiles", len(profiles)))

	profileByID := make(map[string]shortlist.CandidateProfile, len(profiles))
	for _, p := range profiles {
		profileByID[p.CandidateID] = shortlist.CandidateProfile{
			CandidateID:     p.CandidateID,
			Name:            p.Name,
			Summary:         p.Summary,
			TotalYOE:        p.TotalYOE,
			LocationCountry: p.LocationCountry,
			LocationCity:    p.LocationCity,
			Headline:        p.Headline,
		}
	}

	build := func(r shortlist.FinalResult) shortlist.ShortlistResult {
		profile := profileByID[r.CandidateID]
		pack, ok := evidencePacks[r.CandidateID]
		if !ok {
			pack = shortlist.EvidencePack{CandidateID: r.CandidateID}
		}
		return buildResult(r, profile, pack)
	}

	var strongResults []shortlist.ShortlistResult
	filtered, scoreFiltered, domainFiltered := 0, 0, 0

	maxResults := s.MaxResults
	if maxResults <= 0 {
		maxResults = len(finalResults)
	}

	for _, r := range finalResults {
		headline := profileByID[r.CandidateID].Headline
		if headline == "" {
			headline = "No title available"
		}

		if s.HardFilterEnabled && r.FinalScore < s.MinRelevanceScore {
			scoreFiltered++
			filtered++
			continue
		}
		if s.HardFilterEnabled && mission.CoreDomain != "" && !isDomainRelevant(headline, mission.CoreDomain) {
			domainFiltered++
			filtered++
			continue
		}

		strongResults = append(strongResults, build(r))
		if len(strongResults) >= maxResults {
			break
		}
	}

	if filtered > 0 {
		_ = sink.AgentThought("Assembly", fmt.Sprintf(
			"Filtered out %d candidates (%d below %.0f%% score, %d outside '%s' domain)",
			filtered, scoreFiltered, s.MinRelevanceScore, domainFiltered, orNone(mission.CoreDomain)))
	}

	matchQuality = shortlist.MatchStrong
	results = strongResults

	switch {
	case len(strongResults) == 0 && len(finalResults) > 0:
		matchQuality = shortlist.MatchWeak
		weakLimit := min(10, maxResults)
		results = nil
		for _, r := range finalResults[:min(weakLimit, len(finalResults))] {
			results = append(results, build(r))
		}
		_ = sink.AgentThought("Assembly", fmt.Sprintf("No strong matches found. Returning top %d as weak matches", len(results)))
	case len(finalResults) == 0:
		matchQuality = shortlist.MatchNone
		_ = sink.AgentThought("Assembly", "No candidates found in the database matching this query")
	}

	return results, matchQuality
}

func limitSlice(s []shortlist.FinalResult, n int) []shortlist.FinalResult {
	if n < len(s) {
		return s[:n]
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
