// Package questions loads and validates question sets from JSON or YAML files.
package questions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/asake/internal/model"
)

// fileQuestion is the on-disk question schema.
type fileQuestion struct {
	ID          int      `json:"id" yaml:"id"`
	Type        string   `json:"type" yaml:"type"`
	Question    string   `json:"question" yaml:"question"`
	Topic       string   `json:"topic" yaml:"topic"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Correct     any      `json:"correct" yaml:"correct"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// Load reads, parses, and validates a question file. Files ending in .json are
// parsed as JSON, everything else as YAML.
func Load(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return Parse(data, isJSON(path))
}

// Parse decodes and validates question data.
func Parse(data []byte, asJSON bool) ([]model.Question, error) {
	var (
		raw []fileQuestion
		err error
	)
	if asJSON {
		raw, err = parseJSON(data)
	} else {
		raw, err = parseYAML(data)
	}
	if err != nil {
		return nil, err
	}
	return normalize(raw)
}

func isJSON(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

func parseJSON(data []byte) ([]fileQuestion, error) {
	var raw []fileQuestion
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return raw, nil
}

func parseYAML(data []byte) ([]fileQuestion, error) {
	var raw []fileQuestion
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return raw, nil
}

// Marshal encodes questions back into the file schema, as JSON or YAML.
func Marshal(qs []model.Question, asJSON bool) ([]byte, error) {
	raw := make([]fileQuestion, 0, len(qs))
	for _, q := range qs {
		fq := fileQuestion{
			ID:          q.ID,
			Type:        string(q.Variant),
			Question:    q.Prompt,
			Topic:       q.Topic,
			Options:     q.Options,
			Explanation: q.Explanation,
		}
		switch q.Variant {
		case model.MultipleChoice:
			fq.Correct = q.CorrectIndex
		case model.TrueFalse:
			fq.Correct = q.CorrectTruth
		default:
			fq.Correct = q.AcceptedAnswers
		}
		raw = append(raw, fq)
	}
	if asJSON {
		return json.MarshalIndent(raw, "", "  ")
	}
	return yaml.Marshal(raw)
}
