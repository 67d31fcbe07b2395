package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	headhunterName   = "headhunter"
	headhunterAPIURL = "https://api.hh.ru/vacancies"
	headhunterLayout = "2006-01-02T15:04:05-0700"

	// Max value for search per page.
	headhunterPerPage = "100"
)

// HeadHunter searches the HH.ru vacancy API. Pages are 0-based; the
// response reports the total page count and the token carries the next
// page number. An OAuth token is optional for search.
type HeadHunter struct {
	APIURL string

	client *client
	logger *zap.Logger
}

func NewHeadHunter(logger *zap.Logger, token string) *HeadHunter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeadHunter{
		APIURL: headhunterAPIURL,
		client: newClient(logger, token),
		logger: logger,
	}
}

func (h *HeadHunter) Name() string { return headhunterName }

// headhunterResponse keeps Items loosely typed: the API mixes nested
// objects and nulls freely, so entries are decoded in a second pass and
// malformed ones dropped individually.
type headhunterResponse struct {
	Items []interface{} `json:"items"`
	Found int           `json:"found"`
	Pages int           `json:"pages"`
	Page  int           `json:"page"`
}

type headhunterVacancy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Area struct {
		Name string `json:"name"`
	} `json:"area"`
	Salary struct {
		From     int    `json:"from"`
		To       int    `json:"to"`
		Currency string `json:"currency"`
	} `json:"salary"`
	Employer struct {
		Name string `json:"name"`
	} `json:"employer"`
	Snippet struct {
		Requirement    string `json:"requirement"`
		Responsibility string `json:"responsibility"`
	} `json:"snippet"`
	ProfessionalRoles []struct {
		Name string `json:"name"`
	} `json:"professional_roles"`
	AlternateURL string `json:"alternate_url"`
	PublishedAt  string `json:"published_at"`
}

func (h *HeadHunter) FetchPage(ctx context.Context, query Query, token PageToken) (*Page, error) {
	pageNum := 0
	if token != "" {
		n, err := strconv.Atoi(string(token))
		if err != nil || n < 0 {
			return nil, unavailable(headhunterName, fmt.Errorf("bad page token %q", token))
		}
		pageNum = n
	}

	q := url.Values{}
	q.Set("text", query.Text)
	q.Set("per_page", headhunterPerPage)
	q.Set("page", strconv.Itoa(pageNum))

	var resp headhunterResponse
	if err := h.client.getJSON(ctx, h.APIURL, q, &resp); err != nil {
		return nil, unavailable(headhunterName, err)
	}

	h.logger.Debug("got response from HH.ru",
		zap.Int("found", resp.Found),
		zap.Int("pages", resp.Pages),
		zap.Int("page", resp.Page),
	)

	page := &Page{}
	for _, item := range resp.Items {
		var v headhunterVacancy
		cfg := &mapstructure.DecoderConfig{
			Result:  &v,
			TagName: "json",
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, unavailable(headhunterName, err)
		}
		if err := decoder.Decode(item); err != nil {
			h.logger.Debug("skipping malformed vacancy", zap.Error(err))
			continue
		}
		if v.Name == "" {
			continue
		}
		page.Postings = append(page.Postings, v.toPosting())
	}

	if resp.Page < resp.Pages-1 {
		page.Next = PageToken(strconv.Itoa(resp.Page + 1))
	}

	return page, nil
}

func (v *headhunterVacancy) toPosting() *jobs.Posting {
	description := strings.TrimSpace(strings.TrimSpace(v.Snippet.Requirement) + " " + strings.TrimSpace(v.Snippet.Responsibility))

	var tags []string
	for _, role := range v.ProfessionalRoles {
		if role.Name != "" {
			tags = append(tags, role.Name)
		}
	}

	var postedAt time.Time
	if t, err := time.Parse(headhunterLayout, v.PublishedAt); err == nil {
		postedAt = t.UTC()
	}

	return &jobs.Posting{
		Source:       headhunterName,
		NativeID:     v.ID,
		Title:        v.Name,
		Company:      v.Employer.Name,
		Location:     v.Area.Name,
		Salary:       jobs.FormatSalary(v.Salary.From, v.Salary.To, v.Salary.Currency),
		Description:  description,
		Tags:         tags,
		URL:          v.AlternateURL,
		ContactEmail: jobs.ExtractEmail(description),
		PostedAt:     postedAt,
	}
}
