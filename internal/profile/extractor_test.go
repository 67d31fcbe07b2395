package profile

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const sampleCV = `Senior Python developer with 8 years of experience.
Built REST APIs with Django and FastAPI, deployed on AWS with Docker
and Kubernetes. Led a backend team of five engineers.`

func TestExtractRejectsEmptyText(t *testing.T) {
	e := New(zap.NewNop())

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		_, err := e.Extract(text)
		if !errors.Is(err, ErrEmptyText) {
			t.Fatalf("Extract(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestExtractSampleCV(t *testing.T) {
	p, err := New(zap.NewNop()).Extract(sampleCV)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	for _, skill := range []string{"python", "django", "fastapi", "aws", "docker", "kubernetes"} {
		if !containsString(p.Skills, skill) {
			t.Errorf("skills = %v, want to contain %q", p.Skills, skill)
		}
	}
	if p.Seniority != SenioritySenior {
		t.Errorf("seniority = %q, want %q", p.Seniority, SenioritySenior)
	}
	if p.Industry != "software_engineering" {
		t.Errorf("industry = %q, want software_engineering", p.Industry)
	}
	if p.Confidence <= 0 || p.Confidence > 1 {
		t.Errorf("confidence = %v, want in (0, 1]", p.Confidence)
	}
	if p.Provenance.Truncated {
		t.Errorf("provenance reports truncation for short input")
	}
	if p.Provenance.SourceLength != len([]rune(sampleCV)) {
		t.Errorf("provenance source length = %d, want %d", p.Provenance.SourceLength, len([]rune(sampleCV)))
	}
}

func TestExtractSeniorityLadder(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Seniority
	}{
		{"senior marker", "Staff engineer working on infrastructure", SenioritySenior},
		{"senior beats junior", "Lead mentor for junior developers", SenioritySenior},
		{"junior marker", "Recent graduate looking for an entry level role", SeniorityJunior},
		{"no marker defaults to mid", "Software developer shipping web applications", SeniorityMid},
	}

	e := New(zap.NewNop())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := e.Extract(tc.text)
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if p.Seniority != tc.want {
				t.Fatalf("seniority = %q, want %q", p.Seniority, tc.want)
			}
		})
	}
}

func TestExtractConfidenceNeverZero(t *testing.T) {
	p, err := New(zap.NewNop()).Extract("zzzz qqqq wwww")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(p.Skills) != 0 {
		t.Fatalf("skills = %v, want none", p.Skills)
	}
	if p.Confidence <= 0 {
		t.Fatalf("confidence = %v, want > 0 for non-empty input", p.Confidence)
	}
	if p.Industry != defaultIndustry {
		t.Fatalf("industry = %q, want %q", p.Industry, defaultIndustry)
	}
}

func TestExtractTruncatesLongInput(t *testing.T) {
	head := "python developer "
	text := head + strings.Repeat("x", 100) + " terraform"

	p, err := New(zap.NewNop(), WithMaxLength(len([]rune(head)))).Extract(text)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if !p.Provenance.Truncated {
		t.Fatalf("provenance.Truncated = false, want true")
	}
	if p.Provenance.AnalyzedLength != len([]rune(head)) {
		t.Errorf("analyzed length = %d, want %d", p.Provenance.AnalyzedLength, len([]rune(head)))
	}
	if p.Provenance.SourceLength != len([]rune(text)) {
		t.Errorf("source length = %d, want %d", p.Provenance.SourceLength, len([]rune(text)))
	}
	if !containsString(p.Skills, "python") {
		t.Errorf("skills = %v, want head skill python", p.Skills)
	}
	if containsString(p.Skills, "terraform") {
		t.Errorf("skills = %v, must not contain skill beyond the cap", p.Skills)
	}
}

func TestExtractKeywords(t *testing.T) {
	text := "Payment systems built with python. Payment reconciliation and settlement pipelines."

	p, err := New(zap.NewNop(), WithKeywordCap(3)).Extract(text)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(p.Keywords) > 3 {
		t.Fatalf("keywords = %v, want at most 3", p.Keywords)
	}
	if len(p.Keywords) == 0 || p.Keywords[0] != "payment" {
		t.Fatalf("keywords = %v, want most frequent token first", p.Keywords)
	}
	for _, kw := range p.Keywords {
		if kw == "python" {
			t.Fatalf("keywords = %v, must not repeat matched skills", p.Keywords)
		}
		if kw == "with" || kw == "and" {
			t.Fatalf("keywords = %v, must not contain stopwords", p.Keywords)
		}
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	e := New(zap.NewNop())

	first, err := e.Extract(sampleCV)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	for i := 0; i < 5; i++ {
		next, err := e.Extract(sampleCV)
		if err != nil {
			t.Fatalf("Extract returned error: %v", err)
		}
		if !reflect.DeepEqual(next.Skills, first.Skills) {
			t.Fatalf("skills differ between runs: %v vs %v", next.Skills, first.Skills)
		}
		if !reflect.DeepEqual(next.Keywords, first.Keywords) {
			t.Fatalf("keywords differ between runs: %v vs %v", next.Keywords, first.Keywords)
		}
		if next.Confidence != first.Confidence {
			t.Fatalf("confidence differs between runs: %v vs %v", next.Confidence, first.Confidence)
		}
	}
}

func TestDetectSeniority(t *testing.T) {
	cases := []struct {
		text       string
		want       Seniority
		wantMarker bool
	}{
		{"senior backend engineer", SenioritySenior, true},
		{"head of data", SenioritySenior, true},
		{"internship in marketing", SeniorityJunior, true},
		{"backend developer", SeniorityMid, false},
	}

	for _, tc := range cases {
		got, marker := DetectSeniority(tc.text)
		if got != tc.want || marker != tc.wantMarker {
			t.Errorf("DetectSeniority(%q) = %q, %v, want %q, %v", tc.text, got, marker, tc.want, tc.wantMarker)
		}
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
