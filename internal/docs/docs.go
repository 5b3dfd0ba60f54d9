// Package docs holds the help topics shown by `ekman docs` and the TUI help
// overlay.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topics lists topic names, keys first since it is what the TUI opens.
func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return nil
	}
	var topics []string
	for _, p := range entries {
		topics = append(topics, strings.TrimSuffix(path.Base(p), ".md"))
	}
	sort.Slice(topics, func(i, j int) bool {
		if (topics[i] == "keys") != (topics[j] == "keys") {
			return topics[i] == "keys"
		}
		return topics[i] < topics[j]
	})
	return topics
}

func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" || strings.ContainsAny(topic, `/\`) {
		return "", false
	}
	b, err := contentFS.ReadFile(path.Join("content", topic+".md"))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Title is the first markdown heading of a topic.
func Title(topic string) string {
	body, ok := Get(topic)
	if !ok {
		return topic
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return topic
}

// All concatenates every topic in Topics order.
func All() string {
	var sb strings.Builder
	for i, t := range Topics() {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		body, _ := Get(t)
		sb.WriteString(strings.TrimSpace(body))
	}
	return sb.String()
}
