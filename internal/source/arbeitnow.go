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
	arbeitnowName   = "arbeitnow"
	arbeitnowAPIURL = "https://www.arbeitnow.com/api/job-board-api"
)

// Arbeitnow pages through the Arbeitnow job board API. The API has no
// text-search parameter, so the query is applied client-side; page tokens
// carry the next page number and the listing is exhausted when the
// response stops advertising a next link.
type Arbeitnow struct {
	APIURL string

	client *client
	logger *zap.Logger
}

func NewArbeitnow(logger *zap.Logger) *Arbeitnow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arbeitnow{
		APIURL: arbeitnowAPIURL,
		client: newClient(logger, ""),
		logger: logger,
	}
}

func (a *Arbeitnow) Name() string { return arbeitnowName }

type arbeitnowResponse struct {
	Data  []arbeitnowJob `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
	CreatedAt   int64    `json:"created_at"`
}

func (a *Arbeitnow) FetchPage(ctx context.Context, query Query, token PageToken) (*Page, error) {
	pageNum, err := pageFromToken(token)
	if err != nil {
		return nil, unavailable(arbeitnowName, err)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(pageNum))

	var resp arbeitnowResponse
	if err := a.client.getJSON(ctx, a.APIURL, q, &resp); err != nil {
		return nil, unavailable(arbeitnowName, err)
	}

	page := &Page{}
	for i := range resp.Data {
		aj := &resp.Data[i]
		if aj.Title == "" {
			continue
		}
		if !queryMatches(query, aj.Title, aj.Description, joinTags(aj.Tags)) {
			continue
		}
		page.Postings = append(page.Postings, aj.toPosting())
	}

	if resp.Links.Next != "" {
		page.Next = PageToken(strconv.Itoa(pageNum + 1))
	}

	return page, nil
}

func (aj *arbeitnowJob) toPosting() *jobs.Posting {
	tags := aj.Tags
	if len(tags) == 0 {
		tags = aj.JobTypes
	}

	var postedAt time.Time
	if aj.CreatedAt > 0 {
		postedAt = time.Unix(aj.CreatedAt, 0).UTC()
	}

	return &jobs.Posting{
		Source:       arbeitnowName,
		NativeID:     aj.Slug,
		Title:        aj.Title,
		Company:      aj.CompanyName,
		Location:     aj.Location,
		Salary:       jobs.ExtractSalary(aj.Description),
		Description:  aj.Description,
		Tags:         tags,
		URL:          aj.URL,
		ContactEmail: jobs.ExtractEmail(aj.Description),
		PostedAt:     postedAt,
	}
}

// pageFromToken decodes a numeric page token; the empty token is page 1.
func pageFromToken(token PageToken) (int, error) {
	if token == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(string(token))
	if err != nil || page < 1 {
		return 0, fmt.Errorf("bad page token %q", token)
	}
	return page, nil
}
