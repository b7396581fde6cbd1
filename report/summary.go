package report

// summary.go contains the post-render patch of the report summary document.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/perfgo/reportkeeper/model"
)

// SummaryPath returns the location of the summary document inside a
// rendered report directory.
func SummaryPath(artifactDir string) string {
	return filepath.Join(artifactDir, "widgets", "summary.json")
}

// ReadSummary decodes the summary document at path. A missing file is a
// parse error: the summary only exists once the renderer has run.
func ReadSummary(path string) (*model.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, parseError(path, err)
	}
	var summary model.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, parseError(path, err)
	}
	return &summary, nil
}

type member struct {
	key   string
	value json.RawMessage
}

// SetTitle sets reportName in the summary document at path and rewrites it in
// place. All other top-level members keep their position and raw value; a
// missing reportName is appended.
func SetTitle(path, title string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return parseError(path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return ioError("set title", path, err)
	}

	// reject documents whose known fields have the wrong shape
	var summary model.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return parseError(path, err)
	}
	members, err := decodeObject(data)
	if err != nil {
		return parseError(path, err)
	}

	titleJSON, err := marshalJSON(title)
	if err != nil {
		return ioError("set title", path, err)
	}
	found := false
	for i := range members {
		if members[i].key == "reportName" {
			members[i].value = titleJSON
			found = true
		}
	}
	if !found {
		members = append(members, member{key: "reportName", value: titleJSON})
	}

	out, err := encodeObject(members)
	if err != nil {
		return ioError("set title", path, err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return ioError("set title", path, err)
	}
	return nil
}

// decodeObject splits a JSON object into its members in document order.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("summary is not a JSON object")
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("member %q: %w", key, err)
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after summary object")
	}
	return members, nil
}

func encodeObject(members []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
