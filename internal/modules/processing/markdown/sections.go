package markdown

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Section is one "## " block of a document.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SplitSections cuts a document at level-two headings. Text before the first heading
// becomes a section with an empty heading. Headings inside code fences are ignored.
func SplitSections(text string) []Section {
	var (
		sections []Section
		current  Section
		body     strings.Builder
		inFence  bool
		started  bool
	)
	flush := func() {
		current.Body = strings.TrimSpace(body.String())
		if current.Heading != "" || current.Body != "" {
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence && strings.HasPrefix(line, "## ") {
			if started || body.Len() > 0 {
				flush()
			}
			current = Section{Heading: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			started = true
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()
	if sections == nil {
		return []Section{}
	}
	return sections
}

// FrontMatter is the YAML header written above a generated draft.
type FrontMatter struct {
	Title       string    `yaml:"title"`
	Date        time.Time `yaml:"date"`
	Tags        []string  `yaml:"tags,omitempty"`
	Draft       bool      `yaml:"draft"`
	GeneratedBy string    `yaml:"generated_by,omitempty"`
}

// Document assembles front matter and body into one markdown file.
func Document(meta FrontMatter, text string) (string, error) {
	header, err := yaml.Marshal(meta)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString(strings.TrimSpace(string(header)))
	sb.WriteString("\n---\n\n")
	sb.WriteString(strings.TrimSpace(text))
	sb.WriteString("\n")
	return sb.String(), nil
}
