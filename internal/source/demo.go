package source

import (
	"context"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/jobs"
)

const demoName = "demo"

// Demo serves a fixed two-page set of postings without any network I/O.
// It never fails, which makes it the fallback source for offline runs and
// a stable fixture for end-to-end testing.
type Demo struct {
	now func() time.Time
}

func NewDemo() *Demo {
	return &Demo{now: time.Now}
}

func (d *Demo) Name() string { return demoName }

func (d *Demo) FetchPage(_ context.Context, _ Query, token PageToken) (*Page, error) {
	now := d.now().UTC()

	switch token {
	case "":
		return &Page{
			Postings: []*jobs.Posting{
				{
					Source:       demoName,
					NativeID:     "demo-1",
					Title:        "Senior Python Backend Engineer",
					Company:      "Northwind Labs",
					Location:     "Remote",
					Salary:       "90000 - 120000 USD",
					Description:  "Design and run Python services on AWS. Terraform and Docker experience expected. Reach out at careers@northwindlabs.example.com.",
					Tags:         []string{"python", "aws", "backend"},
					URL:          "https://jobs.example.com/northwind/senior-python-backend",
					ContactEmail: "careers@northwindlabs.example.com",
					PostedAt:     now.AddDate(0, 0, -2),
				},
				{
					Source:      demoName,
					NativeID:    "demo-2",
					Title:       "Frontend Developer",
					Company:     "Quartz Systems",
					Location:    "Berlin, Germany",
					Salary:      "55000 - 70000 EUR",
					Description: "React and TypeScript product work with a small cross-functional team.",
					Tags:        []string{"react", "typescript"},
					URL:         "https://jobs.example.com/quartz/frontend-developer",
					PostedAt:    now.AddDate(0, 0, -5),
				},
				{
					Source:      demoName,
					NativeID:    "demo-3",
					Title:       "DevOps Engineer",
					Company:     "Helix Cloud",
					Location:    "London, UK",
					Salary:      jobs.SalaryNotSpecified,
					Description: "Own the Kubernetes platform, CI/CD pipelines and Terraform modules.",
					Tags:        []string{"kubernetes", "terraform", "ci/cd"},
					URL:         "https://jobs.example.com/helix/devops-engineer",
					PostedAt:    now.AddDate(0, 0, -12),
				},
			},
			Next: "2",
		}, nil

	case "2":
		return &Page{
			Postings: []*jobs.Posting{
				{
					Source:       demoName,
					NativeID:     "demo-4",
					Title:        "Data Engineer",
					Company:      "Bluefin Data",
					Location:     "Remote",
					Salary:       "from 80000 USD",
					Description:  "Build ETL pipelines with Python, Airflow and Spark. Apply via hiring@bluefin.example.com.",
					Tags:         []string{"python", "airflow", "spark"},
					URL:          "https://jobs.example.com/bluefin/data-engineer",
					ContactEmail: "hiring@bluefin.example.com",
					PostedAt:     now,
				},
				{
					Source:      demoName,
					NativeID:    "demo-5",
					Title:       "Junior QA Analyst",
					Company:     "Acme Analytics",
					Location:    "Manchester, UK",
					Salary:      jobs.SalaryNotSpecified,
					Description: "Manual and automated testing for a reporting product.",
					Tags:        []string{"testing"},
					URL:         "https://jobs.example.com/acme/junior-qa",
					PostedAt:    now.AddDate(0, 0, -40),
				},
			},
		}, nil

	default:
		return &Page{}, nil
	}
}
