package common

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed embedded_topics.yaml
var defaultTopicsYAML []byte

// DefaultTopicRequired is the required density used when a topic omits one
const DefaultTopicRequired = 80

// Topic is a named capability group used by the topic-density radar
type Topic struct {
	Name     string   `yaml:"name" json:"name"`
	Required int      `yaml:"required,omitempty" json:"required"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Validate checks a topic definition
func (t *Topic) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("topic name cannot be empty")
	}
	if len(t.Keywords) == 0 {
		return fmt.Errorf("topic %q has no keywords", t.Name)
	}
	if t.Required < 0 || t.Required > 100 {
		return fmt.Errorf("topic %q required must be between 0 and 100, got %d", t.Name, t.Required)
	}
	return nil
}

// Matches reports whether a skill name contains any of the topic's keywords
func (t *Topic) Matches(skill string) bool {
	lower := strings.ToLower(skill)
	for _, kw := range t.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func normalizeTopics(topics []*Topic) []*Topic {
	for _, t := range topics {
		if t.Required == 0 {
			t.Required = DefaultTopicRequired
		}
	}
	return topics
}

// LoadTopicsFromFile loads topics from a single YAML file
func LoadTopicsFromFile(filename string) ([]*Topic, error) {
	if err := validateTopicFilePath(filename); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	// #nosec G304 - path is validated above
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Single topic first, then a list
	var topic Topic
	if err := yaml.Unmarshal(data, &topic); err == nil && topic.Name != "" {
		return normalizeTopics([]*Topic{&topic}), nil
	}

	var topics []*Topic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return normalizeTopics(topics), nil
}

// LoadTopicsFromDirectory loads every .yaml/.yml file in a directory, in name order
func LoadTopicsFromDirectory(dir string) ([]*Topic, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var all []*Topic
	for _, name := range names {
		topics, err := LoadTopicsFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		all = append(all, topics...)
	}
	return all, nil
}

// validateTopicFilePath validates that a topic file path is safe to read
func validateTopicFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("topic files must have .yaml or .yml extension")
	}

	return nil
}

// LoadDefaultTopics loads the embedded capability topics
func LoadDefaultTopics() ([]*Topic, error) {
	var topics []*Topic
	if err := yaml.Unmarshal(defaultTopicsYAML, &topics); err != nil {
		return nil, fmt.Errorf("failed to parse embedded default topics: %w", err)
	}
	return normalizeTopics(topics), nil
}

// LoadTopicsWithFallback loads topics from the given directories, falling back to
// the embedded defaults when none are configured or none yield topics
func LoadTopicsWithFallback(directories []string) ([]*Topic, error) {
	var all []*Topic
	for _, dir := range directories {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		topics, err := LoadTopicsFromDirectory(dir)
		if err != nil {
			return nil, err
		}
		all = append(all, topics...)
	}
	if len(all) == 0 {
		return LoadDefaultTopics()
	}
	return all, nil
}
