package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"talentflow/internal/pipeline"
)

// ErrUnparseable marks oracle output that cannot be decoded. Callers treat it
// as a permanent failure for the message, not a transient one.
var ErrUnparseable = fmt.Errorf("unparseable oracle output")

// JobSummary is the structured result of summarizing a raw job description.
type JobSummary struct {
	Summary          string
	JobTitle         string
	Skills           []string
	Responsibilities []string
	Qualifications   []string
}

const summarizePrompt = `You are a hiring specialist AI tasked with summarizing job descriptions.
Given the job description below, extract these elements:

1. Job Title
2. A short summary paragraph
3. Key Responsibilities (main tasks and duties)
4. Required Skills (technical skills, tools, languages)
5. Required Qualifications (education, certifications, experience level)

Respond with a single JSON object with exactly these fields:
{"job_title": string, "summary": string, "responsibilities": [string], "skills": [string], "qualifications": [string]}

Job Description:
%s
`

func (c *Client) SummarizeJob(ctx context.Context, rawText string) (*JobSummary, error) {
	out, err := c.generate(ctx, fmt.Sprintf(summarizePrompt, rawText))
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return parseJobSummary(out)
}

func parseJobSummary(out string) (*JobSummary, error) {
	doc := stripFences(out)
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: summary is not JSON", ErrUnparseable)
	}
	res := gjson.Parse(doc)
	js := &JobSummary{
		Summary:          res.Get("summary").String(),
		JobTitle:         res.Get("job_title").String(),
		Skills:           stringSlice(res.Get("skills")),
		Responsibilities: stringSlice(res.Get("responsibilities")),
		Qualifications:   stringSlice(res.Get("qualifications")),
	}
	if js.Summary == "" {
		return nil, fmt.Errorf("%w: summary field missing", ErrUnparseable)
	}
	return js, nil
}

const parseResumePrompt = `You are a resume parsing AI. Given the resume text below, extract:

1. Full name
2. Contact information (email and phone)
3. Education (degree, institution, year)
4. Work experience (role, company, years, description of key achievements)
5. Skills (technical skills, languages, tools)
6. Certifications (if any)
7. Notable achievements (if any)

Respond with a single JSON object with exactly these fields:
{"name": string, "contact": {"email": string, "phone": string},
 "education": [{"degree": string, "institution": string, "year": string}],
 "experience": [{"role": string, "company": string, "years": string, "description": string}],
 "skills": [string], "certifications": [string], "achievements": [string]}

Resume Text:
%s
`

func (c *Client) ParseResume(ctx context.Context, resumeText string) (*pipeline.ParsedResume, error) {
	out, err := c.generate(ctx, fmt.Sprintf(parseResumePrompt, resumeText))
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}
	return parseResumeOutput(out)
}

func parseResumeOutput(out string) (*pipeline.ParsedResume, error) {
	doc := stripFences(out)
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: parsed resume is not JSON", ErrUnparseable)
	}
	res := gjson.Parse(doc)

	parsed := &pipeline.ParsedResume{
		Name: res.Get("name").String(),
		Contact: pipeline.Contact{
			Email: res.Get("contact.email").String(),
			Phone: res.Get("contact.phone").String(),
		},
		Skills:         stringSlice(res.Get("skills")),
		Certifications: stringSlice(res.Get("certifications")),
		Achievements:   stringSlice(res.Get("achievements")),
	}
	res.Get("education").ForEach(func(_, v gjson.Result) bool {
		parsed.Education = append(parsed.Education, pipeline.Education{
			Degree:      v.Get("degree").String(),
			Institution: v.Get("institution").String(),
			Year:        v.Get("year").String(),
		})
		return true
	})
	res.Get("experience").ForEach(func(_, v gjson.Result) bool {
		parsed.Experience = append(parsed.Experience, pipeline.Experience{
			Role:        v.Get("role").String(),
			Company:     v.Get("company").String(),
			Years:       v.Get("years").String(),
			Description: v.Get("description").String(),
		})
		return true
	})
	return parsed, nil
}

const invitationPrompt = `You are a recruiting coordinator at %s. Write a short, warm interview
invitation email body (no subject line) for the candidate below. Mention the
role, one or two of the matching skills, and invite them to schedule an
interview. Plain text only.

Candidate name: %s
Role: %s
Matching skills: %s
`

// GenerateInvitation produces the body of an interview-invitation email.
func (c *Client) GenerateInvitation(ctx context.Context, company, candidateName, jobTitle string, details pipeline.MatchingDetails) (string, error) {
	prompt := fmt.Sprintf(invitationPrompt, company, candidateName, jobTitle, strings.Join(details.MatchingSkills, ", "))
	out, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate invitation: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// stripFences removes markdown code-fence wrappers LLMs like to add around
// JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func stringSlice(res gjson.Result) []string {
	var out []string
	res.ForEach(func(_, v gjson.Result) bool {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}
