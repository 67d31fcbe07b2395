package jobs

import (
	"encoding/json"
	"os"
)

// Postings is a collection of normalized postings with reporting helpers.
type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByKey(key string) *Posting {
	for _, posting := range p.Items {
		if posting.Key() == key {
			return posting
		}
	}
	return nil
}

// DumpToTmpFile writes the collection as indented JSON to a temporary file
// and returns its name.
func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportBySource groups postings under their source name for a quick
// human-readable overview.
func (p *Postings) ReportBySource() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range p.Items {
		entry := map[string]string{
			"title":   posting.Title,
			"company": posting.Company,
			"url":     posting.URL,
			"salary":  posting.Salary,
		}
		if !posting.PostedAt.IsZero() {
			entry["posted"] = posting.PostedAt.UTC().Format("2006-01-02")
		}
		if posting.ContactEmail != "" {
			entry["contact_email"] = posting.ContactEmail
		}
		report[posting.Source] = append(report[posting.Source], entry)
	}
	return report
}
