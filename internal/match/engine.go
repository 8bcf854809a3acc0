// Package match implements the candidate/job scoring algorithm. Everything
// here is pure: embeddings arrive as vectors, text rendering is
// deterministic, and the score blend has no hidden state.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

const (
	similarityWeight = 0.7
	overlapWeight    = 0.3
)

// Score fuses semantic similarity with direct skill overlap:
// final = 0.7*similarity + 0.3*overlap. Overlap is the case-insensitive
// fraction of the job's skills the candidate covers, 0 when the job lists
// none.
func Score(similarity float64, jobSkills, candidateSkills []string) (float64, pipeline.MatchingDetails) {
	jobSet := toSet(jobSkills)
	candSet := toSet(candidateSkills)

	var matching []string
	for skill := range jobSet {
		if candSet[skill] {
			matching = append(matching, skill)
		}
	}
	sort.Strings(matching)
	if matching == nil {
		matching = []string{}
	}

	overlap := 0.0
	if len(jobSet) > 0 {
		overlap = float64(len(matching)) / float64(len(jobSet))
	}

	details := pipeline.MatchingDetails{
		MatchingSkills:       matching,
		SkillMatchPercentage: overlap,
		OverallSimilarity:    similarity,
	}
	return similarityWeight*similarity + overlapWeight*overlap, details
}

func toSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	return set
}

// Cosine is the similarity of two embedding vectors. Zero or mismatched
// vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// JobText renders the normalized job profile the similarity signal is
// computed over: title, qualifications, skills, responsibilities.
func JobText(jd *store.JobDescription) string {
	return fmt.Sprintf(
		"Job Title: %s\n\nRequirements:\n%s\n\nSkills Required:\n%s\n\nResponsibilities:\n%s",
		jd.JobTitle,
		strings.Join(jd.Qualifications, " "),
		strings.Join(jd.Skills, " "),
		strings.Join(jd.Responsibilities, " "),
	)
}

// ResumeText renders the candidate's side: skills, experience, education.
func ResumeText(parsed *pipeline.ParsedResume) string {
	var experience []string
	for _, exp := range parsed.Experience {
		experience = append(experience, fmt.Sprintf("%s at %s: %s", exp.Role, exp.Company, exp.Description))
	}
	var education []string
	for _, edu := range parsed.Education {
		education = append(education, fmt.Sprintf("%s from %s", edu.Degree, edu.Institution))
	}

	return fmt.Sprintf(
		"Skills:\n%s\n\nExperience:\n%s\n\nEducation:\n%s",
		strings.Join(parsed.Skills, " "),
		strings.Join(experience, " "),
		strings.Join(education, " "),
	)
}
