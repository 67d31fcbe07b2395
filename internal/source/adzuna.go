package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"

	"go.uber.org/zap"
)

const (
	adzunaName    = "adzuna"
	adzunaAPIURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaCountry = "gb"
	adzunaPerPage = 50
)

// Adzuna searches the Adzuna aggregator API. Pages are 1-based and encoded
// in the URL path; the token carries the next page number and pagination
// stops once the reported total count is covered.
type Adzuna struct {
	APIURL  string
	Country string

	appID  string
	appKey string
	client *client
	logger *zap.Logger
}

// NewAdzuna requires the application credentials issued by Adzuna. The
// caller gates construction on their presence.
func NewAdzuna(logger *zap.Logger, appID, appKey string) *Adzuna {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adzuna{
		APIURL:  adzunaAPIURL,
		Country: adzunaCountry,
		appID:   appID,
		appKey:  appKey,
		client:  newClient(logger, ""),
		logger:  logger,
	}
}

func (a *Adzuna) Name() string { return adzunaName }

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
	Count   int         `json:"count"`
}

type adzunaJob struct {
	ID          stringID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
		Tag   string `json:"tag"`
	} `json:"category"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	RedirectURL string  `json:"redirect_url"`
	Created     string  `json:"created"`
}

func (a *Adzuna) FetchPage(ctx context.Context, query Query, token PageToken) (*Page, error) {
	pageNum, err := pageFromToken(token)
	if err != nil {
		return nil, unavailable(adzunaName, err)
	}

	q := url.Values{}
	q.Set("app_id", a.appID)
	q.Set("app_key", a.appKey)
	q.Set("results_per_page", strconv.Itoa(adzunaPerPage))
	if query.Text != "" {
		q.Set("what", query.Text)
	}
	if query.Location != "" {
		q.Set("where", query.Location)
	}

	searchURL := fmt.Sprintf("%s/%s/search/%d", a.APIURL, a.Country, pageNum)

	var resp adzunaResponse
	if err := a.client.getJSON(ctx, searchURL, q, &resp); err != nil {
		return nil, unavailable(adzunaName, err)
	}

	page := &Page{}
	for i := range resp.Results {
		aj := &resp.Results[i]
		if aj.Title == "" {
			continue
		}
		page.Postings = append(page.Postings, aj.toPosting())
	}

	if pageNum*adzunaPerPage < resp.Count {
		page.Next = PageToken(strconv.Itoa(pageNum + 1))
	}

	return page, nil
}

func (aj *adzunaJob) toPosting() *jobs.Posting {
	var tags []string
	if aj.Category.Tag != "" {
		tags = []string{aj.Category.Tag}
	}

	var postedAt time.Time
	if t, err := time.Parse(time.RFC3339, aj.Created); err == nil {
		postedAt = t.UTC()
	}

	return &jobs.Posting{
		Source:       adzunaName,
		NativeID:     string(aj.ID),
		Title:        aj.Title,
		Company:      aj.Company.DisplayName,
		Location:     aj.Location.DisplayName,
		Salary:       jobs.FormatSalary(int(aj.SalaryMin), int(aj.SalaryMax), ""),
		Description:  aj.Description,
		Tags:         tags,
		URL:          aj.RedirectURL,
		ContactEmail: jobs.ExtractEmail(aj.Description),
		PostedAt:     postedAt,
	}
}
