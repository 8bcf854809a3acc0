package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

func TestScore_Blend(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		jobSkills  []string
		candSkills []string
		wantScore  float64
		wantFrac   float64
	}{
		{
			name:       "partial overlap below threshold",
			similarity: 0.9,
			jobSkills:  []string{"python", "sql"},
			candSkills: []string{"python", "java"},
			wantScore:  0.78, // 0.7*0.9 + 0.3*0.5
			wantFrac:   0.5,
		},
		{
			name:       "full overlap above threshold",
			similarity: 0.9,
			jobSkills:  []string{"python", "sql"},
			candSkills: []string{"python", "sql"},
			wantScore:  0.93, // 0.7*0.9 + 0.3*1.0
			wantFrac:   1.0,
		},
		{
			name:       "no job skills means zero overlap",
			similarity: 1.0,
			jobSkills:  nil,
			candSkills: []string{"python", "go", "rust"},
			wantScore:  0.7,
			wantFrac:   0,
		},
		{
			name:       "zero similarity full overlap",
			similarity: 0,
			jobSkills:  []string{"go"},
			candSkills: []string{"go"},
			wantScore:  0.3,
			wantFrac:   1.0,
		},
		{
			name:       "case insensitive intersection",
			similarity: 0.5,
			jobSkills:  []string{"Python", "SQL"},
			candSkills: []string{"python", "sql"},
			wantScore:  0.65,
			wantFrac:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, details := Score(tt.similarity, tt.jobSkills, tt.candSkills)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.InDelta(t, tt.wantFrac, details.SkillMatchPercentage, 1e-9)
			assert.Equal(t, tt.similarity, details.OverallSimilarity)
		})
	}
}

func TestScore_MatchingSkillsSortedAndLowercased(t *testing.T) {
	_, details := Score(0.5, []string{"SQL", "Python", "Go"}, []string{"go", "PYTHON"})
	assert.Equal(t, []string{"go", "python"}, details.MatchingSkills)
}

func TestScore_NoIntersectionIsEmptyNotNil(t *testing.T) {
	_, details := Score(0.5, []string{"sql"}, []string{"go"})
	assert.NotNil(t, details.MatchingSkills)
	assert.Empty(t, details.MatchingSkills)
}

func TestCosine(t *testing.T) {
	t.Run("Identical", func(t *testing.T) {
		v := []float32{0.3, 0.4, 0.5}
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
	})

	t.Run("Orthogonal", func(t *testing.T) {
		assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("Opposite", func(t *testing.T) {
		assert.InDelta(t, -1.0, Cosine([]float32{1, 2}, []float32{-1, -2}), 1e-6)
	})

	t.Run("Scale Invariant", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{10, 20, 30}
		assert.InDelta(t, 1.0, Cosine(a, b), 1e-6)
	})

	t.Run("Zero Vector", func(t *testing.T) {
		assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	})

	t.Run("Mismatched Lengths", func(t *testing.T) {
		assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.0, Cosine(nil, nil))
	})
}

func TestJobText(t *testing.T) {
	jd := &store.JobDescription{
		JobTitle:         "Data Engineer",
		Qualifications:   []string{"BSc", "3 years experience"},
		Skills:           []string{"python", "sql"},
		Responsibilities: []string{"Build pipelines"},
	}
	text := JobText(jd)
	assert.Contains(t, text, "Job Title: Data Engineer")
	assert.Contains(t, text, "BSc 3 years experience")
	assert.Contains(t, text, "python sql")
	assert.Contains(t, text, "Build pipelines")
}

func TestResumeText(t *testing.T) {
	parsed := &pipeline.ParsedResume{
		Skills: []string{"go", "sql"},
		Experience: []pipeline.Experience{
			{Role: "Engineer", Company: "Acme", Description: "Built pipelines"},
		},
		Education: []pipeline.Education{
			{Degree: "BSc CS", Institution: "MIT"},
		},
	}
	text := ResumeText(parsed)
	assert.Contains(t, text, "go sql")
	assert.Contains(t, text, "Engineer at Acme: Built pipelines")
	assert.Contains(t, text, "BSc CS from MIT")
}

func TestScore_ExactBlendProperty(t *testing.T) {
	// final = 0.7s + 0.3f with no clamping for inputs in range.
	for _, s := range []float64{0, 0.25, 0.5, 0.77, 1} {
		for _, f := range []float64{0, 1} {
			jobSkills := []string{"a", "b"}
			var candSkills []string
			if f == 1 {
				candSkills = jobSkills
			}
			score, _ := Score(s, jobSkills, candSkills)
			assert.False(t, math.Signbit(score))
			assert.InDelta(t, 0.7*s+0.3*f, score, 1e-12)
		}
	}
}
