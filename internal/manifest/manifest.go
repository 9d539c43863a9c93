// Package manifest parses the SKILL.md manifest format: a delimited metadata
// block of key/value pairs followed by freeform body text. The metadata block
// is fenced by --- markers (YAML) or +++ markers (TOML). The body is opaque
// to the loader and is always returned verbatim.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/openskills/internal/model"
)

// Sentinel errors for the manifest failure taxonomy. All parse failures wrap
// exactly one of these so callers can classify with errors.Is.
var (
	// ErrMissingMetadataBlock means the document has no opening delimiter,
	// or the opening delimiter is never closed.
	ErrMissingMetadataBlock = errors.New("missing metadata block")

	// ErrMissingRequiredField means the metadata block lacks a non-empty
	// name or description.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrMalformedField means a metadata line is not parseable as a
	// key/value pair, has an empty key, or carries a non-scalar value.
	ErrMalformedField = errors.New("malformed field")
)

// DiagnosticCode maps a parse or validation error to its diagnostic code.
// Returns false if the error is not part of the manifest taxonomy.
func DiagnosticCode(err error) (model.DiagnosticCode, bool) {
	switch {
	case errors.Is(err, ErrMissingMetadataBlock):
		return model.CodeMissingMetadataBlock, true
	case errors.Is(err, ErrMissingRequiredField):
		return model.CodeMissingRequiredField, true
	case errors.Is(err, ErrMalformedField):
		return model.CodeMalformedField, true
	default:
		return "", false
	}
}

// SplitResult contains the raw metadata block and remaining body.
type SplitResult struct {
	// Metadata contains the raw bytes between the delimiters.
	Metadata []byte
	// Body contains the text after the closing delimiter, verbatim.
	Body string
	// HasMetadata indicates whether a complete delimited block was found.
	HasMetadata bool
	// Delimiter is the fence marker that opened the block ("---" or "+++").
	Delimiter string
}

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

// Split extracts the leading metadata block from a manifest document.
// Both --- (YAML) and +++ (TOML) fences are recognized, and Windows line
// endings are tolerated. An unclosed fence yields HasMetadata == false.
func Split(content []byte) SplitResult {
	if bytes.HasPrefix(content, []byte(yamlDelimiter+"\n")) || bytes.HasPrefix(content, []byte(yamlDelimiter+"\r\n")) {
		return splitAt(content, yamlDelimiter)
	}
	if bytes.HasPrefix(content, []byte(tomlDelimiter+"\n")) || bytes.HasPrefix(content, []byte(tomlDelimiter+"\r\n")) {
		return splitAt(content, tomlDelimiter)
	}

	return SplitResult{Body: string(content)}
}

// splitAt extracts the block between a pair of delimiter lines.
func splitAt(content []byte, delimiter string) SplitResult {
	delim := []byte(delimiter)
	remaining := content[len(delim):]

	if bytes.HasPrefix(remaining, []byte("\r\n")) {
		remaining = remaining[2:]
	} else if bytes.HasPrefix(remaining, []byte("\n")) {
		remaining = remaining[1:]
	}

	metadata, body, closed := splitClosingFence(remaining, delim)
	if !closed {
		// Opening fence without a closing fence. The caller decides whether
		// that is an error; Split only reports that no block was found.
		return SplitResult{Body: string(content)}
	}

	cleanMetadata := bytes.ReplaceAll(metadata, []byte("\r\n"), []byte("\n"))
	cleanMetadata = bytes.TrimRight(cleanMetadata, "\r")

	return SplitResult{
		Metadata:    cleanMetadata,
		Body:        string(body),
		HasMetadata: true,
		Delimiter:   delimiter,
	}
}

// splitClosingFence scans remaining (the text after the opening fence line)
// for the closing delimiter and returns the metadata before it and the body
// after it. Only a full delimiter line closes the block: a line that merely
// starts with the delimiter, such as ----, is metadata.
func splitClosingFence(remaining, delim []byte) (metadata, body []byte, closed bool) {
	// Empty metadata block: the closing fence is the first line.
	if rest, ok := fenceLine(remaining, delim); ok {
		return []byte{}, rest, true
	}

	marker := append([]byte("\n"), delim...)
	offset := 0
	for {
		idx := bytes.Index(remaining[offset:], marker)
		if idx == -1 {
			return nil, nil, false
		}
		lineStart := offset + idx + 1
		if rest, ok := fenceLine(remaining[lineStart:], delim); ok {
			// The byte before lineStart is the newline ending the metadata;
			// a preceding \r is trimmed by the caller.
			return remaining[:lineStart-1], rest, true
		}
		offset = lineStart
	}
}

// fenceLine reports whether b begins with a delimiter line (the delimiter
// followed by end of input or a line break) and returns the text after it.
func fenceLine(b, delim []byte) ([]byte, bool) {
	if !bytes.HasPrefix(b, delim) {
		return nil, false
	}
	rest := b[len(delim):]
	switch {
	case len(rest) == 0:
		return rest, true
	case bytes.HasPrefix(rest, []byte("\r\n")):
		return rest[2:], true
	case rest[0] == '\n':
		return rest[1:], true
	default:
		return nil, false
	}
}

// Parse parses a complete SKILL.md document into a manifest and its verbatim
// body. Errors wrap one of the package sentinels.
func Parse(content []byte) (model.Manifest, string, error) {
	result := Split(content)
	if !result.HasMetadata {
		if bytes.HasPrefix(content, []byte(yamlDelimiter)) || bytes.HasPrefix(content, []byte(tomlDelimiter)) {
			return model.Manifest{}, "", fmt.Errorf("%w: opening delimiter is never closed", ErrMissingMetadataBlock)
		}
		return model.Manifest{}, "", fmt.Errorf("%w: document does not begin with a metadata delimiter", ErrMissingMetadataBlock)
	}

	fields, err := decodeFields(result.Metadata, result.Delimiter)
	if err != nil {
		return model.Manifest{}, "", err
	}

	m := model.Manifest{Extra: make(map[string]string)}
	for key, value := range fields {
		switch key {
		case "name":
			m.Name = value
		case "description":
			m.Description = value
		default:
			m.Extra[key] = value
		}
	}
	if len(m.Extra) == 0 {
		m.Extra = nil
	}

	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)

	if m.Name == "" {
		return model.Manifest{}, "", fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if m.Description == "" {
		return model.Manifest{}, "", fmt.Errorf("%w: description", ErrMissingRequiredField)
	}

	return m, result.Body, nil
}

// decodeFields decodes the raw metadata block into scalar string fields.
func decodeFields(metadata []byte, delimiter string) (map[string]string, error) {
	raw := make(map[string]any)

	switch delimiter {
	case tomlDelimiter:
		if err := toml.Unmarshal(metadata, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedField, err)
		}
	default:
		if err := yaml.Unmarshal(metadata, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedField, err)
		}
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: empty key", ErrMalformedField)
		}
		scalar, err := scalarString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformedField, key, err)
		}
		fields[key] = scalar
	}

	return fields, nil
}

// scalarString converts a decoded metadata value to its string form.
// Nested structures are rejected; the manifest format is scalar-only.
func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprintf("%v", v), nil
	case []any, map[string]any, map[any]any:
		return "", errors.New("value must be a scalar")
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// Render reconstructs a metadata block plus body into SKILL.md document form.
// The two required fields always lead the block; extra fields follow in
// sorted order. Parse(Render(m, body)) is lossless for name and description.
func Render(m model.Manifest, body string) []byte {
	var buf bytes.Buffer
	buf.WriteString(yamlDelimiter + "\n")
	writeField(&buf, "name", m.Name)
	writeField(&buf, "description", m.Description)

	keys := make([]string, 0, len(m.Extra))
	for key := range m.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		writeField(&buf, key, m.Extra[key])
	}

	buf.WriteString(yamlDelimiter + "\n")
	buf.WriteString(body)
	return buf.Bytes()
}

// writeField writes one key/value line, quoting values YAML would otherwise
// reinterpret.
func writeField(buf *bytes.Buffer, key, value string) {
	if needsQuoting(value) {
		quoted, _ := yaml.Marshal(value)
		buf.WriteString(key + ": " + strings.TrimRight(string(quoted), "\n") + "\n")
		return
	}
	buf.WriteString(key + ": " + value + "\n")
}

func needsQuoting(value string) bool {
	if value == "" {
		return true
	}
	return strings.ContainsAny(value, ":#\n\"'") ||
		strings.TrimSpace(value) != value
}

// ValidateName checks if a skill name is usable as a registry key.
// Valid names contain only alphanumeric characters, hyphens, and underscores.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("skill name cannot be empty")
	}

	if strings.TrimSpace(name) != name {
		return fmt.Errorf("skill name cannot have leading/trailing whitespace: %q", name)
	}

	for _, r := range name {
		if !isValidNameChar(r) {
			return fmt.Errorf("skill name contains invalid character %q: %q", r, name)
		}
	}

	return nil
}

// isValidNameChar returns true if the rune is valid in a skill name.
func isValidNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}
