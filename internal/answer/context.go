package answer

import (
	"sort"
	"strings"
)

// Message is a single chat-history entry. Ordering within the supplied
// history is significant and defines chronological order.
type Message struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

const (
	// similarityThreshold is the minimum Jaccard score (exclusive) for a
	// history line to be considered relevant to the query.
	similarityThreshold = 0.1

	// maxContextLines caps how many history lines are carried into the
	// generation prompt.
	maxContextLines = 10
)

// scoredLine is a history line tagged with its sender and relevance score.
type scoredLine struct {
	score  float64
	sender string
	line   string
}

// ExtractContext selects the history lines most relevant to query and
// re-assembles them into a prompt-ready block. Selection is score-ordered
// (Jaccard similarity against the query, top maxContextLines above
// similarityThreshold) but the rendered lines keep their original
// chronological order. Returns "" when history is empty or nothing scores
// above the threshold.
func ExtractContext(query string, history []Message) string {
	if len(history) == 0 {
		return ""
	}

	queryTokens := tokenize(query)

	// Flatten every message into its non-blank lines, preserving message
	// order and, within a message, line order.
	var all []scoredLine
	for _, msg := range history {
		for _, raw := range strings.Split(msg.Text, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			all = append(all, scoredLine{
				score:  jaccard(queryTokens, tokenize(line)),
				sender: msg.Sender,
				line:   line,
			})
		}
	}

	var kept []scoredLine
	for _, sl := range all {
		if sl.score > similarityThreshold {
			kept = append(kept, sl)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	if len(kept) > maxContextLines {
		kept = kept[:maxContextLines]
	}

	// Restore chronological order. The key is the first occurrence of the
	// line's text in the flattened history, so exact duplicate lines from
	// different messages may collapse onto the same position. That is the
	// accepted behavior, not something to dedup away.
	sort.SliceStable(kept, func(i, j int) bool {
		return firstOccurrence(all, kept[i].line) < firstOccurrence(all, kept[j].line)
	})

	var b strings.Builder
	prevSender := ""
	for i, sl := range kept {
		if i > 0 {
			b.WriteByte('\n')
			if sl.sender != prevSender {
				b.WriteByte('\n')
			}
		}
		b.WriteString(sl.sender)
		b.WriteString(": ")
		b.WriteString(sl.line)
		prevSender = sl.sender
	}
	return b.String()
}

// firstOccurrence returns the index of the first flattened line whose text
// equals line.
func firstOccurrence(all []scoredLine, line string) int {
	for i, sl := range all {
		if sl.line == line {
			return i
		}
	}
	return len(all)
}
