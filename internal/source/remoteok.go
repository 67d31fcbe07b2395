package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"

	"go.uber.org/zap"
)

const (
	remoteokName   = "remoteok"
	remoteokAPIURL = "https://remoteok.com/api"
)

// RemoteOK fetches the RemoteOK JSON feed. The API returns the complete
// listing in one response, so there is only ever a single page; search is
// applied client-side against title, description and tags.
type RemoteOK struct {
	APIURL string

	client *client
	logger *zap.Logger
}

func NewRemoteOK(logger *zap.Logger) *RemoteOK {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteOK{
		APIURL: remoteokAPIURL,
		client: newClient(logger, ""),
		logger: logger,
	}
}

func (r *RemoteOK) Name() string { return remoteokName }

// remoteokJob is the feed entry shape. IDs arrive as either numbers or
// strings depending on the posting age.
type remoteokJob struct {
	ID          stringID `json:"id"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	SalaryMin   int      `json:"salary_min"`
	SalaryMax   int      `json:"salary_max"`
	Date        string   `json:"date"`
}

func (r *RemoteOK) FetchPage(ctx context.Context, query Query, _ PageToken) (*Page, error) {
	var raw []json.RawMessage
	if err := r.client.getJSON(ctx, r.APIURL, nil, &raw); err != nil {
		return nil, unavailable(remoteokName, err)
	}

	// The first array element is the API legend, not a posting.
	if len(raw) > 0 {
		raw = raw[1:]
	}

	page := &Page{}
	for _, msg := range raw {
		var rj remoteokJob
		if err := json.Unmarshal(msg, &rj); err != nil {
			r.logger.Debug("skipping malformed feed entry", zap.Error(err))
			continue
		}
		if rj.Position == "" {
			continue
		}
		if !queryMatches(query, rj.Position, rj.Description, joinTags(rj.Tags)) {
			continue
		}
		page.Postings = append(page.Postings, rj.toPosting())
	}

	return page, nil
}

func (rj *remoteokJob) toPosting() *jobs.Posting {
	location := rj.Location
	if location == "" {
		location = "Remote"
	}

	salary := jobs.FormatSalary(rj.SalaryMin, rj.SalaryMax, "USD")
	if salary == jobs.SalaryNotSpecified {
		salary = jobs.ExtractSalary(rj.Description)
	}

	var postedAt time.Time
	if t, err := time.Parse(time.RFC3339, rj.Date); err == nil {
		postedAt = t.UTC()
	}

	return &jobs.Posting{
		Source:       remoteokName,
		NativeID:     string(rj.ID),
		Title:        rj.Position,
		Company:      rj.Company,
		Location:     location,
		Salary:       salary,
		Description:  rj.Description,
		Tags:         rj.Tags,
		URL:          rj.URL,
		ContactEmail: jobs.ExtractEmail(rj.Description),
		PostedAt:     postedAt,
	}
}
