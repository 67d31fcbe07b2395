package profile

import "time"

// Seniority is the experience level inferred from a résumé or a job title.
type Seniority string

const (
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
)

// Profile is the structured result of analyzing one résumé text. It is
// immutable once produced; re-extraction returns a new value.
type Profile struct {
	// Skills holds matched vocabulary terms in vocabulary order,
	// deduplicated and lower-cased.
	Skills     []string
	Seniority  Seniority
	Industry   string
	Keywords   []string
	Confidence float64
	Provenance Provenance
}

// Provenance records how the profile was derived from its input.
type Provenance struct {
	ExtractedAt    time.Time
	Truncated      bool
	SourceLength   int
	AnalyzedLength int
}
