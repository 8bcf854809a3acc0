// Package pipeline defines the typed payloads that cross queue boundaries and
// the outcome contract every stage handler reports. Payload field names are the
// wire format; renaming one is a breaking change for every running worker.
package pipeline

import (
	"errors"
	"fmt"
)

var ErrMissingField = errors.New("missing required field")

// Contact is the reachable-identity block of a parsed resume.
type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

type Experience struct {
	Role        string `json:"role,omitempty"`
	Company     string `json:"company,omitempty"`
	Years       string `json:"years,omitempty"`
	Description string `json:"description,omitempty"`
}

// ParsedResume is the structured profile the resume parser extracts.
type ParsedResume struct {
	Name           string       `json:"name,omitempty"`
	Contact        Contact      `json:"contact"`
	Education      []Education  `json:"education,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	Achievements   []string     `json:"achievements,omitempty"`
}

// MatchingDetails explains a single (job, candidate) score.
type MatchingDetails struct {
	MatchingSkills       []string `json:"matching_skills"`
	SkillMatchPercentage float64  `json:"skill_match_percentage"`
	OverallSimilarity    float64  `json:"overall_similarity"`
}

// JobDescMessage rides job_desc_queue: one raw job posting per message.
type JobDescMessage struct {
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title,omitempty"`
	RawText       string `json:"raw_text"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func (m *JobDescMessage) Validate() error {
	if m.JobID == "" {
		return fmt.Errorf("%w: job_id", ErrMissingField)
	}
	if m.RawText == "" {
		return fmt.Errorf("%w: raw_text", ErrMissingField)
	}
	return nil
}

// JDSummaryMessage rides jd_summary_queue: the summarized job profile.
type JDSummaryMessage struct {
	JobID            string   `json:"job_id"`
	JobTitle         string   `json:"job_title"`
	Summary          string   `json:"summary"`
	Skills           []string `json:"skills"`
	Responsibilities []string `json:"responsibilities"`
	Qualifications   []string `json:"qualifications"`
	CorrelationID    string   `json:"correlation_id,omitempty"`
}

func (m *JDSummaryMessage) Validate() error {
	if m.JobID == "" {
		return fmt.Errorf("%w: job_id", ErrMissingField)
	}
	return nil
}

// ResumeMessage rides resume_queue: a resume file waiting to be parsed.
type ResumeMessage struct {
	ResumePath    string `json:"resume_path"`
	CandidateID   int64  `json:"candidate_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func (m *ResumeMessage) Validate() error {
	if m.ResumePath == "" {
		return fmt.Errorf("%w: resume_path", ErrMissingField)
	}
	return nil
}

// ResumeProfileMessage rides resume_profile_queue: the parsed candidate.
type ResumeProfileMessage struct {
	CandidateID   int64        `json:"candidate_id"`
	ResumePath    string       `json:"resume_path"`
	ParsedResume  ParsedResume `json:"parsed_resume"`
	CorrelationID string       `json:"correlation_id,omitempty"`
}

func (m *ResumeProfileMessage) Validate() error {
	if m.CandidateID == 0 {
		return fmt.Errorf("%w: candidate_id", ErrMissingField)
	}
	if m.ResumePath == "" {
		return fmt.Errorf("%w: resume_path", ErrMissingField)
	}
	return nil
}

// MatchEntry is one evaluated job within the aggregate result.
type MatchEntry struct {
	JobID           string          `json:"job_id"`
	Score           float64         `json:"score"`
	MatchingDetails MatchingDetails `json:"matching_details"`
	Qualified       bool            `json:"qualified"`
}

// MatchResultMessage rides match_queue: every evaluation for one candidate,
// qualifying or not. Published exactly once per candidate run.
type MatchResultMessage struct {
	CandidateID   int64        `json:"candidate_id"`
	Matches       []MatchEntry `json:"matches"`
	CorrelationID string       `json:"correlation_id,omitempty"`
}

func (m *MatchResultMessage) Validate() error {
	if m.CandidateID == 0 {
		return fmt.Errorf("%w: candidate_id", ErrMissingField)
	}
	return nil
}

// EmailMessage rides email_queue: one qualifying match to notify.
type EmailMessage struct {
	MatchID         int64           `json:"match_id"`
	JobID           int64           `json:"job_id"`
	JobTitle        string          `json:"job_title"`
	CandidateID     int64           `json:"candidate_id"`
	CandidateName   string          `json:"candidate_name"`
	CandidateEmail  string          `json:"candidate_email"`
	Score           float64         `json:"score"`
	MatchingDetails MatchingDetails `json:"matching_details"`
	CorrelationID   string          `json:"correlation_id,omitempty"`
}

func (m *EmailMessage) Validate() error {
	if m.MatchID == 0 {
		return fmt.Errorf("%w: match_id", ErrMissingField)
	}
	if m.CandidateEmail == "" {
		return fmt.Errorf("%w: candidate_email", ErrMissingField)
	}
	if m.JobTitle == "" {
		return fmt.Errorf("%w: job_title", ErrMissingField)
	}
	return nil
}
