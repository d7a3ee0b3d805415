package resume

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownRole is returned by Analyze for roles missing from the table.
var ErrUnknownRole = errors.New("invalid or unsupported job role")

var roleSkills = map[string][]string{
	"data scientist":            {"python", "machine learning", "data analysis", "pandas", "numpy", "tensorflow", "statistics"},
	"machine learning engineer": {"python", "machine learning", "tensorflow", "scikit-learn", "deep learning", "pytorch"},
	"ai engineer":               {"python", "neural networks", "nlp", "computer vision", "tensorflow", "keras", "pytorch"},
	"web developer":             {"html", "css", "javascript", "react", "nodejs", "express", "mongodb"},
	"frontend developer":        {"html", "css", "javascript", "react", "redux", "tailwind"},
	"backend developer":         {"python", "flask", "django", "rest api", "postgresql", "mysql"},
	"full stack developer":      {"html", "css", "javascript", "nodejs", "react", "mongodb", "express", "flask"},
	"software engineer":         {"data structures", "algorithms", "oop", "python", "java", "c++"},
	"data analyst":              {"excel", "sql", "power bi", "tableau", "python", "pandas"},
	"devops engineer":           {"linux", "docker", "kubernetes", "jenkins", "aws", "terraform", "ci/cd"},
	"cloud engineer":            {"aws", "azure", "gcp", "devops", "linux", "cloudformation"},
	"mobile app developer":      {"flutter", "react native", "android", "ios", "dart", "kotlin", "swift"},
	"android developer":         {"kotlin", "java", "android studio", "xml"},
	"ios developer":             {"swift", "objective-c", "xcode"},
	"ui ux designer":            {"figma", "adobe xd", "sketch", "wireframing", "prototyping"},
	"qa engineer":               {"test cases", "selenium", "manual testing", "automation", "pytest"},
	"security analyst":          {"network security", "firewall", "vulnerability scanning", "siem", "linux"},
	"network engineer":          {"ccna", "routing", "switching", "tcp/ip", "firewalls"},
	"blockchain developer":      {"solidity", "ethereum", "smart contracts", "web3", "ganache"},
	"game developer":            {"unity", "unreal engine", "c#", "3d modeling", "blender"},
	"database administrator":    {"sql", "mysql", "postgresql", "oracle", "backup", "tuning"},
}

var skillSuggestions = map[string]string{
	"python":           "Enhance Python by building small projects or solving problems on LeetCode.",
	"machine learning": "Take an ML course on Coursera or Udemy.",
	"tensorflow":       "Practice TensorFlow by building a neural network model.",
	"pytorch":          "Use PyTorch for building deep learning models; check tutorials from official docs.",
	"docker":           "Learn Docker by containerizing a sample app.",
	"aws":              "Start with AWS Free Tier and deploy a basic application.",
	"html":             "Build a simple portfolio website to showcase your HTML/CSS skills.",
	"css":              "Experiment with Flexbox, Grid, and animations in CSS.",
	"javascript":       "Make interactive web pages with JS, like a calculator or to-do list.",
	"react":            "Build a React-based UI project like a blog or resume site.",
	"nodejs":           "Create a simple backend API with Node.js and Express.",
	"sql":              "Practice SQL queries using online playgrounds like Mode Analytics or W3Schools.",
	"excel":            "Master formulas and pivot tables in Excel.",
	"flutter":          "Create a simple mobile app with Flutter and Dart.",
	"java":             "Build an OOP-based app like a library system using Java.",
	"c++":              "Improve C++ by solving problems on HackerRank or Codeforces.",
	"oop":              "Understand object-oriented concepts with small examples.",
	"linux":            "Use Linux CLI and try setting up a basic server.",
	"figma":            "Design a simple mobile or web app UI using Figma.",
	"selenium":         "Automate browser actions using Selenium WebDriver.",
	"blockchain":       "Explore smart contract development with Solidity and Remix IDE.",
	"unity":            "Build a 2D game using Unity's basic features.",
}

// Analysis compares a resume's skills with a role's required skills.
type Analysis struct {
	Role            string   `json:"role"`
	Score           float64  `json:"score"`
	FoundKeywords   []string `json:"found_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
}

// Roles lists the supported job roles in alphabetical order.
func Roles() []string {
	out := make([]string, 0, len(roleSkills))
	for r := range roleSkills {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// RequiredSkills returns a copy of the skills role asks for.
func RequiredSkills(role string) ([]string, bool) {
	req, ok := roleSkills[normalizeRole(role)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), req...), true
}

// Analyze scores skills against role. Matching is exact after lower-casing;
// Score is the matched share of required skills as a percentage rounded to
// two decimals.
func Analyze(role string, skills []string) (Analysis, error) {
	role = normalizeRole(role)
	required, ok := roleSkills[role]
	if !ok {
		return Analysis{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	want := make(map[string]bool, len(required))
	for _, s := range required {
		want[s] = true
	}

	found := make([]string, 0, len(required))
	seen := make(map[string]bool, len(required))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if want[s] && !seen[s] {
			seen[s] = true
			found = append(found, s)
		}
	}

	missing := make([]string, 0, len(required))
	suggestions := make([]string, 0, len(required))
	for _, s := range required {
		if seen[s] {
			continue
		}
		missing = append(missing, s)
		suggestions = append(suggestions, suggestionFor(s))
	}

	score := float64(len(found)) / float64(len(required)) * 100
	return Analysis{
		Role:            role,
		Score:           math.Round(score*100) / 100,
		FoundKeywords:   found,
		MissingKeywords: missing,
		Suggestions:     suggestions,
	}, nil
}

func suggestionFor(skill string) string {
	if s, ok := skillSuggestions[skill]; ok {
		return s
	}
	return fmt.Sprintf("Consider learning %s to improve your profile.", skill)
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
