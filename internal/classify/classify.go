// Package classify assigns imported questions to a topic and an optional subtopic
// using an ordered keyword table.
package classify

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// TopicDef is a static topic row.
type TopicDef struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// SubtopicRule is a subtopic row plus the keywords that select it.
type SubtopicRule struct {
	ID       int64    `yaml:"id"`
	TopicID  int64    `yaml:"topic_id"`
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// TopicFallback selects a whole topic when no subtopic rule matched.
type TopicFallback struct {
	TopicID  int64    `yaml:"topic_id"`
	Keywords []string `yaml:"keywords"`
}

type ruleFile struct {
	DefaultTopicID int64           `yaml:"default_topic_id"`
	Topics         []TopicDef      `yaml:"topics"`
	Subtopics      []SubtopicRule  `yaml:"subtopics"`
	TopicFallbacks []TopicFallback `yaml:"topic_fallbacks"`
}

// Result is the classification of one question. SubtopicID is nil for whole-topic matches.
type Result struct {
	TopicID    int64
	SubtopicID *int64
}

// Classifier is immutable after Load and safe for concurrent use.
type Classifier struct {
	defaultTopicID int64
	topics         []TopicDef
	subtopics      []SubtopicRule
	fallbacks      []TopicFallback
}

// Default returns the classifier built from the embedded table.
func Default() *Classifier {
	c, err := Load(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("classify: embedded rules are invalid: %v", err))
	}
	return c
}

// Load parses a YAML rule table. Keywords are lowercased once here; list order is kept.
func Load(data []byte) (*Classifier, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse classification rules: %w", err)
	}

	c := &Classifier{
		defaultTopicID: rf.DefaultTopicID,
		topics:         rf.Topics,
	}
	if c.defaultTopicID == 0 {
		c.defaultTopicID = 1
	}

	known := make(map[int64]bool, len(rf.Topics))
	for _, t := range rf.Topics {
		known[t.ID] = true
	}
	if len(known) > 0 && !known[c.defaultTopicID] {
		return nil, fmt.Errorf("default_topic_id %d is not a declared topic", c.defaultTopicID)
	}

	lower := cases.Lower(language.BrazilianPortuguese)
	seen := make(map[int64]bool, len(rf.Subtopics))
	for _, s := range rf.Subtopics {
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate subtopic id %d", s.ID)
		}
		seen[s.ID] = true
		if len(known) > 0 && !known[s.TopicID] {
			return nil, fmt.Errorf("subtopic %d references unknown topic %d", s.ID, s.TopicID)
		}
		s.Keywords = normalize(lower, s.Keywords)
		c.subtopics = append(c.subtopics, s)
	}
	for _, f := range rf.TopicFallbacks {
		f.Keywords = normalize(lower, f.Keywords)
		c.fallbacks = append(c.fallbacks, f)
	}
	return c, nil
}

func normalize(lower cases.Caser, keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(lower.String(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Classify is total: every text gets a topic. The first matching rule wins, not the best one.
func (c *Classifier) Classify(text string) Result {
	// Caser values keep state and are not safe for concurrent use.
	lower := cases.Lower(language.BrazilianPortuguese).String(text)

	for _, rule := range c.subtopics {
		if containsAny(lower, rule.Keywords) {
			id := rule.ID
			return Result{TopicID: rule.TopicID, SubtopicID: &id}
		}
	}
	for _, f := range c.fallbacks {
		if containsAny(lower, f.Keywords) {
			return Result{TopicID: f.TopicID}
		}
	}
	return Result{TopicID: c.defaultTopicID}
}

// Topics returns the static topic set in table order.
func (c *Classifier) Topics() []TopicDef {
	return append([]TopicDef(nil), c.topics...)
}

// Subtopics returns the subtopic rules in priority order.
func (c *Classifier) Subtopics() []SubtopicRule {
	return append([]SubtopicRule(nil), c.subtopics...)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
