package letter

import (
	"strings"

	_ "embed"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
	"github.com/lucaslondon8/jobhunterGPT/internal/profile"
)

//go:embed letter.tmpl
var letterTemplate string

const maxTemplateSkills = 3

// renderTemplate produces the offline fallback letter from posting and
// profile fields. It has no external dependency and always succeeds.
func renderTemplate(prof *profile.Profile, posting *jobs.Posting) string {
	template := letterTemplate
	if strings.TrimSpace(template) == "" {
		template = "Dear Hiring Manager,\n\nI am writing to express my interest in the {{TITLE}} position at {{COMPANY}}.\n\nBest regards,\n[Your Name]"
	}

	title := strings.TrimSpace(posting.Title)
	if title == "" {
		title = "advertised"
	}
	company := strings.TrimSpace(posting.Company)
	if company == "" {
		company = "your company"
	}

	out := strings.ReplaceAll(template, "{{TITLE}}", title)
	out = strings.ReplaceAll(out, "{{COMPANY}}", company)
	out = strings.ReplaceAll(out, "{{SKILLS}}", skillsPhrase(prof.Skills))

	return strings.TrimSpace(out)
}

// skillsPhrase renders the top profile skills as prose for the letter body,
// falling back to a generic line when extraction found none.
func skillsPhrase(skills []string) string {
	if len(skills) == 0 {
		return "the key qualifications mentioned in your job posting"
	}

	if len(skills) > maxTemplateSkills {
		skills = skills[:maxTemplateSkills]
	}
	if len(skills) == 1 {
		return skills[0]
	}

	return strings.Join(skills[:len(skills)-1], ", ") + " and " + skills[len(skills)-1]
}
