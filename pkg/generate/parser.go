package generate

import (
	"regexp"
	"strings"

	"site-cloner/pkg/models"
)

// pathToken matches a filename-looking token: at least one character, a dot,
// and a short extension, with optional directory separators. Rejects bare
// language words like "html" or "tsx".
var pathToken = regexp.MustCompile(`^[\w\-./]*[\w\-]+\.[A-Za-z0-9]{1,10}$`)

// commentedPath strips comment markers a model might wrap a path in on the
// first line of a block ("// src/App.tsx", "<!-- index.html -->", "# x.py").
var commentedPath = regexp.MustCompile(`^(?://|#|/\*|<!--)?\s*([\w\-./]+\.[A-Za-z0-9]{1,10})\s*(?:\*/|-->)?$`)

// ParseGeneratedFiles recovers project files from a model response by
// scanning fenced code blocks line by line. The fence info string names the
// file; when it only carries a language word, the first non-empty content
// line is checked for a commented path instead.
//
// Malformed output degrades, it never errors: unterminated fences are
// dropped, blocks with no recoverable path or empty content are skipped,
// and duplicate paths are kept as-is for the caller to resolve.
func ParseGeneratedFiles(response string) []models.GeneratedFile {
	lines := strings.Split(response, "\n")
	files := []models.GeneratedFile{}

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "```") || strings.TrimSpace(strings.TrimPrefix(trimmed, "```")) == "" {
			i++
			continue
		}
		info := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))

		// Collect content lines until the closing fence
		var content []string
		closed := false
		j := i + 1
		for ; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "```" {
				closed = true
				break
			}
			content = append(content, lines[j])
		}
		if !closed {
			// Unterminated fence: drop the block and stop scanning
			break
		}

		path, content := resolvePath(info, content)
		body := strings.TrimRight(strings.Join(content, "\n"), "\n")
		if path != "" && strings.TrimSpace(body) != "" {
			files = append(files, models.GeneratedFile{
				Path:    path,
				Content: body,
				Type:    "file",
			})
		}

		i = j + 1
	}

	return files
}

// resolvePath determines the file path for a fenced block. The last field of
// the info string wins when it looks like a path ("```tsx src/App.tsx" and
// "```src/App.tsx" both work); otherwise the first non-empty content line is
// consumed if it is a commented path.
func resolvePath(info string, content []string) (string, []string) {
	fields := strings.Fields(info)
	if len(fields) > 0 {
		last := fields[len(fields)-1]
		if pathToken.MatchString(last) {
			return last, content
		}
	}

	for idx, line := range content {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if m := commentedPath.FindStringSubmatch(s); m != nil && pathToken.MatchString(m[1]) {
			rest := append([]string{}, content[:idx]...)
			rest = append(rest, content[idx+1:]...)
			return m[1], rest
		}
		break
	}
	return "", content
}
