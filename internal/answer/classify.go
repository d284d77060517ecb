package answer

import "strings"

// QueryType is a coarse intent label assigned to a user question.
type QueryType string

// The fixed query-type enumeration.
const (
	TypeGeneral       QueryType = "general"
	TypeLatestNews    QueryType = "latest_news"
	TypeHistorical    QueryType = "historical"
	TypeStatistics    QueryType = "statistics"
	TypeCausesEffects QueryType = "causes_effects"
	TypeSolutions     QueryType = "solutions"
	TypeComparison    QueryType = "comparison"
	TypeDefinition    QueryType = "definition"
	TypeLocation      QueryType = "location"
	TypeProcess       QueryType = "process"
	TypeStatus        QueryType = "status"
)

// intentPattern maps a query type to the phrases that signal it.
type intentPattern struct {
	qtype    QueryType
	keywords []string
}

// intentPatterns is the fixed classification table. Its order defines the
// order of the classifier's output: a query matching several types always
// yields them in table order, not in the order the matches were found.
var intentPatterns = []intentPattern{
	{TypeLatestNews, []string{"latest", "recent", "new", "updates", "news"}},
	{TypeHistorical, []string{"history", "historical", "past", "evolution", "timeline"}},
	{TypeStatistics, []string{"statistics", "numbers", "data", "figures", "count"}},
	{TypeCausesEffects, []string{"causes", "effects", "impact", "influence", "affect"}},
	{TypeSolutions, []string{"solutions", "measures", "steps", "actions", "how to", "prevent"}},
	{TypeComparison, []string{"compare", "difference", "versus", "vs", "better"}},
	{TypeDefinition, []string{"what is", "define", "meaning", "explain", "description"}},
	{TypeLocation, []string{"where", "location", "place", "area", "region", "habitat"}},
	{TypeProcess, []string{"how does", "process", "mechanism", "way", "method"}},
	{TypeStatus, []string{"status", "condition", "state", "situation", "current"}},
}

// Classify matches query against the intent-pattern table and returns the
// matched query types in table order. A query matching nothing degrades to
// exactly [TypeGeneral], so the result is never empty.
func Classify(query string) []QueryType {
	lower := strings.ToLower(query)

	var matched []QueryType
	for _, p := range intentPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, p.qtype)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []QueryType{TypeGeneral}
	}
	return matched
}
