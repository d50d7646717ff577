package services

import (
	"regexp"
	"strings"
)

var (
	mentionPattern     = regexp.MustCompile(`@(\w+)`)
	documentRefPattern = regexp.MustCompile(`#([A-Za-z0-9]+)`)
)

// TaskTriggerPhrases mark a message as an actionable request.
var TaskTriggerPhrases = []string{
	"te rog să",
	"îmi poți",
	"poți să",
	"ai putea să",
}

type Annotations struct {
	Mentions        []string
	DocumentRefs    []string
	IsTaskCandidate bool
}

// Annotate runs once per outgoing message, edits do not re-run it.
func Annotate(content string) Annotations {
	return Annotations{
		Mentions:        ExtractMentions(content),
		DocumentRefs:    ExtractDocumentRefs(content),
		IsTaskCandidate: DetectTaskTrigger(content),
	}
}

// ExtractMentions returns mentioned names without the @ prefix,
// in order of appearance and with duplicates kept.
func ExtractMentions(content string) []string {
	return captureAll(mentionPattern, content)
}

// ExtractDocumentRefs returns referenced document identifiers without the # prefix.
func ExtractDocumentRefs(content string) []string {
	return captureAll(documentRefPattern, content)
}

func DetectTaskTrigger(content string) bool {
	lowered := strings.ToLower(content)
	for _, phrase := range TaskTriggerPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func captureAll(pattern *regexp.Regexp, content string) []string {
	matches := pattern.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match[1])
	}
	return out
}
