package profile

// skillVocabulary is scanned in order against the normalized résumé text;
// the resulting skill list keeps this order. Terms must survive
// normalization (lower-case words and digits), so "C++" style names are
// spelled out.
var skillVocabulary = []string{
	"python", "java", "javascript", "typescript", "golang", "rust", "ruby",
	"php", "swift", "kotlin", "scala", "sql", "html", "css",
	"react", "angular", "vue", "svelte", "node.js", "express", "django",
	"flask", "fastapi", "spring", "rails", "laravel",
	"graphql", "rest", "grpc",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible",
	"jenkins", "gitlab", "github actions", "ci/cd", "linux", "bash", "git",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "kafka",
	"rabbitmq", "spark", "hadoop", "airflow",
	"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch",
	"machine learning", "deep learning", "data analysis", "etl",
	"tableau", "power bi", "excel",
	"jira", "agile", "scrum", "product management",
	"seo", "google analytics", "content marketing",
	"figma", "photoshop", "user research",
}

// seniorMarkers and juniorMarkers form the seniority ladder; senior terms
// are checked first, junior terms second, and "mid" is the default.
var (
	seniorMarkers = []string{"senior", "lead", "principal", "staff", "architect", "head of"}
	juniorMarkers = []string{"junior", "intern", "internship", "graduate", "trainee", "entry level"}
)

// industryRule associates an industry with its indicator terms. Rules are
// evaluated in order so ties resolve deterministically.
type industryRule struct {
	name  string
	terms []string
}

const defaultIndustry = "general"

var industryRules = []industryRule{
	{
		name: "software_engineering",
		terms: []string{
			"software", "developer", "engineer", "backend", "frontend",
			"full stack", "web", "api", "microservices",
		},
	},
	{
		name: "devops_cloud",
		terms: []string{
			"devops", "cloud", "infrastructure", "sre", "reliability",
			"deployment", "automation", "monitoring",
		},
	},
	{
		name: "data_science",
		terms: []string{
			"data", "analytics", "machine learning", "statistics",
			"model", "dataset", "visualization",
		},
	},
	{
		name: "marketing",
		terms: []string{
			"marketing", "seo", "campaign", "content", "brand",
			"social media", "growth",
		},
	},
	{
		name: "finance",
		terms: []string{
			"finance", "financial", "accounting", "trading",
			"investment", "banking", "audit",
		},
	},
	{
		name: "design",
		terms: []string{
			"design", "designer", "ux", "ui", "prototype",
			"wireframe", "user research",
		},
	},
}

// stopwords are skipped when collecting free-form keywords.
var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "all": {}, "also": {}, "and": {}, "any": {},
	"are": {}, "been": {}, "before": {}, "being": {}, "between": {},
	"both": {}, "but": {}, "can": {}, "could": {}, "did": {}, "does": {},
	"during": {}, "each": {}, "for": {}, "from": {}, "had": {}, "has": {},
	"have": {}, "her": {}, "his": {}, "how": {}, "into": {}, "its": {},
	"more": {}, "most": {}, "new": {}, "not": {}, "other": {}, "our": {},
	"out": {}, "over": {}, "such": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "through": {}, "under": {}, "use": {},
	"used": {}, "using": {}, "very": {}, "was": {}, "were": {}, "where": {},
	"which": {}, "while": {}, "will": {}, "with": {}, "within": {},
	"work": {}, "worked": {}, "working": {}, "would": {}, "year": {},
	"years": {}, "you": {}, "your": {},
}
