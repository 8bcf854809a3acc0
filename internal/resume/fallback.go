package resume

import (
	"regexp"
	"strings"
)

// BasicInfo is the regex-extracted fallback for fields the parsing oracle may
// miss.
type BasicInfo struct {
	Name  string
	Email string
	Phone string
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Most specific first: the bare pattern would otherwise match the tail
	// of an international number and drop its country code.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,2}[-.\s]?\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`), // +1 123-456-7890
		regexp.MustCompile(`\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}\b`),             // (123) 456-7890
		regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),               // 123-456-7890
	}

	phoneLike = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// ExtractBasicInfo scans resume text for an email, a phone number, and a
// plausible name. Name detection assumes resumes lead with the candidate's
// name within the first few lines.
func ExtractBasicInfo(text string) BasicInfo {
	var info BasicInfo

	if email := emailPattern.FindString(text); email != "" {
		info.Email = email
	}

	for _, p := range phonePatterns {
		if phone := p.FindString(text); phone != "" {
			info.Phone = phone
			break
		}
	}

	lines := strings.Split(text, "\n")
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.Contains(line, "@") || phoneLike.MatchString(line) {
			continue
		}
		if len(strings.Fields(line)) <= 4 {
			info.Name = line
			break
		}
	}

	return info
}
