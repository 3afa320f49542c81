// Package skills canonicalizes free-text skill tokens into the normalized
// vocabulary the rest of the pipeline keys on (must_have, nice_to_have,
// matched_skills, the resume_skills collection's skillCanonical field).
//
// Grounded on original_source/agents/tools.py's SKILL_ALIASES table and
// normalize_skill/normalize_skills functions — the alias list is carried
// over verbatim since it encodes real-world vocabulary decisions (k8s,
// js, react.js, ...) rather than anything specific to this repo.
package skills

import (
	"strings"
	"unicode"
)

// aliases maps a lowercased, punctuation-trimmed skill token to its
// canonical form. A token not present here is its own canonical form.
var aliases = map[string]string{
	"ml": "machine learning", "js": "javascript", "ts": "typescript",
	"py": "python", "c#": "csharp", "c sharp": "csharp", "c++": "cpp",
	"golang": "go", "dl": "deep learning", "nlp": "natural language processing",
	"cv": "computer vision", "ai": "artificial intelligence",
	"llm": "large language models", "llms": "large language models",
	"genai": "generative ai", "gen ai": "generative ai",
	"sklearn": "scikit-learn", "scikit learn": "scikit-learn",
	"tf": "tensorflow", "react.js": "react", "reactjs": "react",
	"vue.js": "vue", "vuejs": "vue", "angular.js": "angular",
	"angularjs": "angular", "next.js": "nextjs", "node.js": "nodejs",
	"node js": "nodejs", "node": "nodejs", "express.js": "express",
	"expressjs": "express", "fast api": "fastapi",
	"postgres": "postgresql", "pg": "postgresql", "mongo": "mongodb",
	"amazon web services": "aws", "gcp": "google cloud platform",
	"google cloud": "google cloud platform", "k8s": "kubernetes",
	"html5": "html", "css3": "css",
}

// Normalize canonicalizes a single raw skill token: trim, lowercase, strip
// trailing punctuation, then apply the alias table. It is idempotent —
// Normalize(Normalize(x)) == Normalize(x) — since a canonical form is
// either absent from the alias table or maps to itself.
func Normalize(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.TrimRightFunc(cleaned, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(".,;:", r)
	})
	if canon, ok := aliases[cleaned]; ok {
		return canon
	}
	return cleaned
}

// NormalizeAll canonicalizes a list of raw tokens, dropping empties and
// deduplicating while preserving first-seen order.
func NormalizeAll(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		canon := Normalize(r)
		if canon == "" {
			continue
		}
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
	}
	return out
}
