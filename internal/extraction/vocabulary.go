package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-fit/internal/types"
)

// technicalSkills is the fixed technical vocabulary scanned in job postings.
// Order matters: detected skills are reported in vocabulary order.
var technicalSkills = []string{
	// Frontend
	"React", "Vue", "Angular", "JavaScript", "TypeScript", "HTML", "CSS", "SASS", "LESS",
	"Webpack", "Vite", "Next.js", "Nuxt.js", "Redux", "MobX", "Tailwind", "Bootstrap",
	// Backend
	"Node.js", "Python", "Java", "Go", "Rust", "C#", "PHP", "Ruby", "Scala", "Kotlin",
	"Django", "Flask", "FastAPI", "Express", "Spring Boot", "Laravel", "Rails",
	// Databases
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "DynamoDB", "Cassandra",
	"SQL", "NoSQL", "GraphQL", "Prisma", "TypeORM", "Sequelize",
	// Cloud and DevOps
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins",
	"GitLab CI", "GitHub Actions", "CircleCI", "ArgoCD", "Helm",
	// Data and ML
	"TensorFlow", "PyTorch", "Scikit-learn", "Pandas", "NumPy", "Jupyter", "Spark",
	"Airflow", "Kafka", "Machine Learning", "Deep Learning", "NLP", "Computer Vision",
	// Mobile
	"React Native", "Flutter", "Swift", "iOS", "Android",
	// Tools and practices
	"Git", "JIRA", "Confluence", "Figma", "Postman", "Swagger", "REST API", "Microservices",
	"Agile", "Scrum", "CI/CD", "TDD", "Unit Testing", "Integration Testing",
}

// softSkills is the fixed soft-skill vocabulary
var softSkills = []string{
	"Leadership", "Communication", "Teamwork", "Problem Solving", "Critical Thinking",
	"Time Management", "Adaptability", "Creativity", "Collaboration", "Project Management",
	"Stakeholder Management", "Mentoring", "Coaching", "Decision Making", "Strategic Thinking",
	"Analytical Skills", "Attention to Detail", "Self-Motivated", "Proactive", "Organized",
}

// cultureKeywords are company-culture tags matched as whole words
var cultureKeywords = []string{
	"fast-paced", "collaborative", "innovative", "agile", "flexible",
	"entrepreneurial", "data-driven", "customer-focused", "diverse",
	"inclusive", "transparent", "autonomous", "growth-oriented",
	"mission-driven", "impact-focused", "work-life balance",
}

// industryTerms are domain terms matched as whole words
var industryTerms = []string{
	"SaaS", "B2B", "B2C", "API", "SDK", "Fintech", "Edtech", "Healthtech",
	"E-commerce", "Marketplace", "Platform", "Infrastructure", "HIPAA", "GDPR",
	"SOC 2", "ISO", "Compliance", "Security", "Scalability", "Performance",
}

// departments are checked in order; the first one mentioned wins
var departments = []string{
	"Engineering", "Product", "Design", "Marketing", "Sales", "Operations", "Data", "Finance", "HR",
}

// keywordBand pairs a class value with the lowercase phrases that select it
type keywordBand[T any] struct {
	value    T
	keywords []string
}

var experienceBands = []keywordBand[types.ExperienceLevel]{
	{types.LevelEntry, []string{"entry level", "junior", "0-2 years", "graduate", "associate", "recent graduate"}},
	{types.LevelMid, []string{"mid level", "intermediate", "2-5 years", "3-5 years", "experienced"}},
	{types.LevelSenior, []string{"senior", "5+ years", "5-8 years", "7+ years", "expert", "advanced"}},
	{types.LevelLead, []string{"lead", "principal", "staff", "8+ years", "10+ years", "tech lead", "team lead"}},
	{types.LevelExecutive, []string{"executive", "director", "vp", "head of", "chief", "c-level"}},
}

var companySizeBands = []keywordBand[types.CompanySize]{
	{types.CompanyStartup, []string{"startup", "early stage", "seed", "series a", "small team", "< 50 employees"}},
	{types.CompanyScaleup, []string{"scale-up", "growing", "series b", "series c", "50-500 employees", "scaling"}},
	{types.CompanyEnterprise, []string{"enterprise", "fortune 500", "large company", "500+ employees", "established", "multinational"}},
}

var workStyleBands = []keywordBand[types.WorkStyle]{
	{types.WorkRemote, []string{"remote", "work from home", "wfh", "fully remote", "100% remote", "distributed"}},
	{types.WorkHybrid, []string{"hybrid", "flexible", "remote-friendly", "office optional", "partial remote"}},
	{types.WorkOnsite, []string{"onsite", "on-site", "in-office", "office-based", "local"}},
	{types.WorkFlexible, []string{"flexible", "your choice", "flexible location", "location independent"}},
}

// firstBand returns the value of the first band with a keyword contained in
// lowerText, or fallback when none match
func firstBand[T any](lowerText string, bands []keywordBand[T], fallback T) T {
	for _, band := range bands {
		for _, kw := range band.keywords {
			if strings.Contains(lowerText, kw) {
				return band.value
			}
		}
	}
	return fallback
}

// vocabularyMatcher holds a precompiled whole-word pattern per term
type vocabularyMatcher struct {
	terms    []string
	patterns []*regexp.Regexp
}

func newVocabularyMatcher(terms []string) *vocabularyMatcher {
	m := &vocabularyMatcher{}
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		m.terms = append(m.terms, term)
		m.patterns = append(m.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(strings.ToLower(term))+`\b`))
	}
	return m
}

// Find returns the vocabulary terms occurring in text as whole words, in vocabulary order
func (m *vocabularyMatcher) Find(text string) []string {
	found := make([]string, 0)
	for i, re := range m.patterns {
		if re.MatchString(text) {
			found = append(found, m.terms[i])
		}
	}
	return found
}

var (
	technicalMatcher = newVocabularyMatcher(technicalSkills)
	softMatcher      = newVocabularyMatcher(softSkills)
	cultureMatcher   = newVocabularyMatcher(cultureKeywords)
	industryMatcher  = newVocabularyMatcher(industryTerms)
)
