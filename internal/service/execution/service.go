package execution

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/codeview/codeview-server/internal/store"
)

// Result is the outcome of a simulated run.
type Result struct {
	Output        string
	Error         string
	ExecutionTime int // milliseconds
}

// Service simulates running candidate code. It mimics the latency and output
// of a sandboxed runner without executing anything: trivial typo and
// structure checks per language, plus canned output extracted from print
// statements.
type Service struct {
	// sleep is swappable so tests don't wait out the simulated delay.
	sleep func(time.Duration)
}

// NewService creates a mock execution service.
func NewService() *Service {
	return &Service{sleep: time.Sleep}
}

// Run simulates executing code in the given language.
func (s *Service) Run(ctx context.Context, code, language, stdin string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.sleep(time.Duration(500+rand.Intn(1000)) * time.Millisecond)

	if msg := detectErrors(code, language); msg != "" {
		return &Result{Error: msg, ExecutionTime: 50 + rand.Intn(150)}, nil
	}

	return &Result{
		Output:        generateOutput(code, language),
		ExecutionTime: 50 + rand.Intn(250),
	}, nil
}

func detectErrors(code, language string) string {
	if len(strings.TrimSpace(code)) < 10 {
		return "Error: No executable code found"
	}

	switch language {
	case store.LangJavaScript:
		if strings.Contains(code, "cosole.log") {
			return "ReferenceError: cosole is not defined"
		}
		if strings.Count(code, "{") != strings.Count(code, "}") {
			return "SyntaxError: Unexpected end of input"
		}
		if strings.Count(code, "(") != strings.Count(code, ")") {
			return "SyntaxError: Unexpected token"
		}
	case store.LangPython:
		if strings.Contains(code, "pirnt(") {
			return "NameError: name 'pirnt' is not defined"
		}
	case store.LangJava:
		if !strings.Contains(code, "class ") {
			return "Error: No class definition found"
		}
		if !strings.Contains(code, "public static void main") {
			return "Error: Main method not found"
		}
	case store.LangCPP:
		if !strings.Contains(code, "#include") {
			return "Error: Missing include statements"
		}
		if strings.Count(code, "{") != strings.Count(code, "}") {
			return "Error: Unmatched braces"
		}
	case store.LangGo:
		if !strings.Contains(code, "package main") {
			return "Error: Missing package main"
		}
		if !strings.Contains(code, "func main()") {
			return "Error: Missing main function"
		}
	case store.LangRuby:
		if strings.Contains(code, "pust ") {
			return "NoMethodError: undefined method 'pust'"
		}
	}
	return ""
}

var printPatterns = map[string][]*regexp.Regexp{
	store.LangJavaScript: {
		regexp.MustCompile(`console\.log\(["'](.+?)["']\)`),
		regexp.MustCompile(`console\.log\((.+?)\)`),
	},
	store.LangPython: {
		regexp.MustCompile(`print\(["'](.+?)["']\)`),
		regexp.MustCompile(`print\((.+?)\)`),
	},
	store.LangJava: {
		regexp.MustCompile(`System\.out\.println\(["'](.+?)["']\)`),
	},
	store.LangCPP: {
		regexp.MustCompile(`cout\s*<<\s*["'](.+?)["']`),
	},
	store.LangGo: {
		regexp.MustCompile(`fmt\.Println\(["'](.+?)["']\)`),
	},
	store.LangRuby: {
		regexp.MustCompile(`puts\s+["'](.+?)["']`),
		regexp.MustCompile(`puts\s+(.+)`),
	},
}

var fallbackOutputs = []string{
	"Program executed successfully",
	"No output",
	"Execution completed",
}

func generateOutput(code, language string) string {
	var lines []string
	for _, pattern := range printPatterns[language] {
		for _, match := range pattern.FindAllStringSubmatch(code, -1) {
			value := match[1]
			if strings.Contains(value, "Hello") {
				lines = append(lines, "Hello, World!")
			} else {
				lines = append(lines, value)
			}
		}
	}

	if len(lines) == 0 {
		return fallbackOutputs[rand.Intn(len(fallbackOutputs))]
	}
	return strings.Join(lines, "\n")
}
