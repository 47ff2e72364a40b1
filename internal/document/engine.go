package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches {tokenName} placeholders embedded in a template's
// markup parts.
var tokenPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Engine merges a flat data map into a template archive. A template is a
// zip archive of XML parts (a DOCX document); every {token} placeholder in
// an XML part is replaced by its value from the data map.
//
// The engine holds no state between calls and is safe for concurrent use
// with different template/data pairs.
type Engine struct{}

// NewEngine creates a rendering Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Render substitutes placeholders in the template archive and returns the
// re-serialized archive. Tokens present in the template but absent from
// data fail the render with a RenderError: a partially filled legal
// document must never be produced silently. Data keys the template does not
// reference are ignored.
func (e *Engine) Render(template []byte, data map[string]string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, &RenderError{Err: fmt.Errorf("template is not a valid archive: %w", err)}
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	unresolved := make(map[string]struct{})

	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, &RenderError{Err: fmt.Errorf("failed to open archive part %s: %w", file.Name, err)}
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, &RenderError{Err: fmt.Errorf("failed to read archive part %s: %w", file.Name, err)}
		}

		if isMarkupPart(file.Name) {
			content = substituteTokens(content, data, unresolved)
		}

		part, err := writer.Create(file.Name)
		if err != nil {
			return nil, &RenderError{Err: fmt.Errorf("failed to write archive part %s: %w", file.Name, err)}
		}
		if _, err := part.Write(content); err != nil {
			return nil, &RenderError{Err: fmt.Errorf("failed to write archive part %s: %w", file.Name, err)}
		}
	}

	if len(unresolved) > 0 {
		tokens := make([]string, 0, len(unresolved))
		for t := range unresolved {
			tokens = append(tokens, t)
		}
		sort.Strings(tokens)
		return nil, &RenderError{UnresolvedTokens: tokens}
	}

	if err := writer.Close(); err != nil {
		return nil, &RenderError{Err: fmt.Errorf("failed to finalize archive: %w", err)}
	}
	return out.Bytes(), nil
}

// isMarkupPart reports whether an archive entry is an XML markup part that
// may carry placeholder tokens. Binary parts (images, fonts) pass through
// untouched.
func isMarkupPart(name string) bool {
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels")
}

func substituteTokens(content []byte, data map[string]string, unresolved map[string]struct{}) []byte {
	return tokenPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		token := string(match[1 : len(match)-1])
		value, ok := data[token]
		if !ok {
			unresolved[token] = struct{}{}
			return match
		}
		return []byte(xmlEscape(value))
	})
}

// xmlEscape escapes the XML special characters in a substitution value so a
// tenant name like "R&D" cannot corrupt the document markup.
func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
