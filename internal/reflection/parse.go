package reflection

import (
	"strconv"
	"strings"

	"github.com/emergentmind/hive/internal/models"
)

// BeliefEntry is one parsed belief adjustment from a reflection response.
type BeliefEntry struct {
	Key        string
	Hypothesis string
	Confidence float64
}

// Parsed is the structured content of a reflection response.
type Parsed struct {
	Beliefs []BeliefEntry
	Reasons []string
}

// Parse extracts belief adjustments and reasons from a reflection
// response. The expected shape is:
//
//	BELIEFS:
//	- key: <belief_key>
//	  hypothesis: <one line>
//	  confidence: <0..1>
//	REASONS:
//	- <one line>
//
// Malformed or partial entries are skipped; Parse never fails.
func Parse(text string) Parsed {
	var parsed Parsed

	section := ""
	var current *BeliefEntry

	flush := func() {
		if current != nil && current.Key != "" && current.Hypothesis != "" {
			parsed.Beliefs = append(parsed.Beliefs, *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "BELIEFS:"):
			flush()
			section = "beliefs"
			continue
		case strings.HasPrefix(upper, "REASONS:"):
			flush()
			section = "reasons"
			continue
		}

		switch section {
		case "beliefs":
			if key, ok := fieldValue(line, "key"); ok {
				flush()
				current = &BeliefEntry{Key: key, Confidence: -1}
				continue
			}
			if current == nil {
				continue
			}
			if hyp, ok := fieldValue(line, "hypothesis"); ok {
				current.Hypothesis = hyp
				continue
			}
			if confStr, ok := fieldValue(line, "confidence"); ok {
				conf, err := strconv.ParseFloat(confStr, 64)
				if err != nil {
					// Unparseable confidence invalidates the entry.
					current = nil
					continue
				}
				current.Confidence = models.Clamp01(conf)
			}
		case "reasons":
			reason := strings.TrimPrefix(line, "-")
			reason = strings.TrimSpace(reason)
			if reason != "" {
				parsed.Reasons = append(parsed.Reasons, reason)
			}
		}
	}
	flush()

	// Entries that never saw a confidence line are partial: drop them.
	complete := parsed.Beliefs[:0]
	for _, entry := range parsed.Beliefs {
		if entry.Confidence >= 0 {
			complete = append(complete, entry)
		}
	}
	parsed.Beliefs = complete

	return parsed
}

// fieldValue matches lines of the form "- key: value" or "key: value"
// (case-insensitive field name) and returns the trimmed value.
func fieldValue(line, field string) (string, bool) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(line, "-"))
	lower := strings.ToLower(trimmed)
	prefix := field + ":"
	if !strings.HasPrefix(lower, prefix) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(prefix):]), true
}
