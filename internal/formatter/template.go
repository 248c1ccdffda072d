// Package formatter provides {{name}} template parsing and substitution for endpoint URLs,
// the queue-view link and alert titles.
package formatter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Escaper transforms the resolved value of variable name before it is inserted into a template.
type Escaper func(name, value string) string

// NoEscape inserts values verbatim.
func NoEscape(_, value string) string { return value }

// QueryEscape makes every value safe inside a URL query string.
func QueryEscape(_, value string) string { return url.QueryEscape(value) }

// QueryEscapeExcept is QueryEscape for every variable except the raw ones, which are
// inserted verbatim (a host with its port, for instance).
func QueryEscapeExcept(raw ...string) Escaper {
	skip := make(map[string]bool, len(raw))
	for _, name := range raw {
		skip[name] = true
	}
	return func(name, value string) string {
		if skip[name] {
			return value
		}
		return url.QueryEscape(value)
	}
}

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns a list of variables found in the template.
	Parse(template string) ([]string, error)

	// Substitute replaces variables in the template with values from vars.
	Substitute(template string, vars Variables) (string, error)

	// SubstituteEscaped is Substitute with every value passed through esc first.
	SubstituteEscaped(template string, vars Variables, esc Escaper) (string, error)
}

// templateEngine implements TemplateEngine interface.
type templateEngine struct {
	variablePattern *regexp.Regexp
}

// NewTemplateEngine creates a new template engine instance.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\{\{([a-z0-9_-]+)\}\}`),
	}
}

// Parse identifies all variables in a template string using {{variable_name}} syntax.
// Returns a list of variable names found, without duplicates.
func (te *templateEngine) Parse(template string) ([]string, error) {
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	variables := []string{}
	if template == "" {
		return variables, nil
	}

	seen := make(map[string]bool)
	for _, match := range te.variablePattern.FindAllStringSubmatch(template, -1) {
		if name := match[1]; !seen[name] {
			variables = append(variables, name)
			seen[name] = true
		}
	}
	return variables, nil
}

// Substitute replaces all variables in the template with values from vars.
func (te *templateEngine) Substitute(template string, vars Variables) (string, error) {
	return te.SubstituteEscaped(template, vars, NoEscape)
}

func (te *templateEngine) SubstituteEscaped(template string, vars Variables, esc Escaper) (string, error) {
	if err := ValidateTemplate(template); err != nil {
		return "", err
	}
	if esc == nil {
		esc = NoEscape
	}

	var missing error
	result := te.variablePattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[2 : len(token)-2]
		value, err := vars.Resolve(name)
		if err != nil {
			if missing == nil {
				missing = err
			}
			return token
		}
		return esc(name, value)
	})
	if missing != nil {
		return "", missing
	}
	return result, nil
}

// ValidateTemplate checks that variable delimiters are balanced.
func ValidateTemplate(template string) error {
	openCount := strings.Count(template, "{{")
	closeCount := strings.Count(template, "}}")
	if openCount != closeCount {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", openCount, closeCount)
	}
	return nil
}
