package answer

import "strings"

// Task keys. Each planned task produces one section of the final answer.
const (
	TaskSummary            = "summary"
	TaskRecentDevelopments = "recent_developments"
	TaskHistorical         = "historical_background"
	TaskStatistics         = "statistics"
	TaskCausesEffects      = "causes_effects"
	TaskSolutions          = "solutions"
	TaskComparison         = "comparison"
	TaskDefinition         = "definition"
	TaskLocation           = "location"
	TaskProcess            = "process"
	TaskStatus             = "status"
	TaskRecommendations    = "recommendations"
)

// Template pairs a task key with its prompt format. The format contains a
// "{query}" placeholder substituted at generation time.
type Template struct {
	Task   string
	Prompt string
}

// templates is the fixed process-wide template table, keyed by task name.
var templates = map[string]Template{
	TaskSummary: {TaskSummary,
		"Provide a clear and concise summary of the following topic: {query}"},
	TaskRecentDevelopments: {TaskRecentDevelopments,
		"Describe the latest developments, recent findings, and current news regarding: {query}"},
	TaskHistorical: {TaskHistorical,
		"Outline the historical background, past trends, and evolution over time of: {query}"},
	TaskStatistics: {TaskStatistics,
		"Present the key statistics, figures, and quantitative data available on: {query}"},
	TaskCausesEffects: {TaskCausesEffects,
		"Explain the main causes and effects, including ecological and human impact, of: {query}"},
	TaskSolutions: {TaskSolutions,
		"Describe practical solutions, conservation measures, and actionable steps addressing: {query}"},
	TaskComparison: {TaskComparison,
		"Compare the relevant alternatives or perspectives, highlighting key differences, for: {query}"},
	TaskDefinition: {TaskDefinition,
		"Define and explain the concept, including essential background, of: {query}"},
	TaskLocation: {TaskLocation,
		"Describe the locations, regions, and habitats relevant to: {query}"},
	TaskProcess: {TaskProcess,
		"Explain the process or mechanism by which the following occurs: {query}"},
	TaskStatus: {TaskStatus,
		"Summarize the current status, condition, and situation of: {query}"},
	TaskRecommendations: {TaskRecommendations,
		"Give actionable recommendations, aligned with established conservation practice, concerning: {query}"},
}

// taskForType maps a matched query type to its generation task.
// TypeGeneral has no task of its own; it only influences section ordering.
var taskForType = map[QueryType]string{
	TypeLatestNews:    TaskRecentDevelopments,
	TypeHistorical:    TaskHistorical,
	TypeStatistics:    TaskStatistics,
	TypeCausesEffects: TaskCausesEffects,
	TypeSolutions:     TaskSolutions,
	TypeComparison:    TaskComparison,
	TypeDefinition:    TaskDefinition,
	TypeLocation:      TaskLocation,
	TypeProcess:       TaskProcess,
	TypeStatus:        TaskStatus,
}

// Plan turns the matched query types into an ordered, duplicate-free list
// of generation tasks. The plan always starts with the summary task and
// always contains the recommendations task; a latest_news match without a
// status match additionally pulls in the status task. First occurrence of
// a task key wins; relative order of first occurrences is preserved.
func Plan(matched []QueryType) []Template {
	var plan []Template
	seen := make(map[string]struct{})

	add := func(task string) {
		if _, dup := seen[task]; dup {
			return
		}
		tpl, ok := templates[task]
		if !ok {
			return
		}
		seen[task] = struct{}{}
		plan = append(plan, tpl)
	}

	add(TaskSummary)

	matchedStatus := false
	matchedNews := false
	for _, qt := range matched {
		if qt == TypeStatus {
			matchedStatus = true
		}
		if qt == TypeLatestNews {
			matchedNews = true
		}
		if task, ok := taskForType[qt]; ok {
			add(task)
		}
	}

	if matchedNews && !matchedStatus {
		add(TaskStatus)
	}

	add(TaskRecommendations)

	return plan
}

// fillQuery substitutes the query into a prompt format.
func fillQuery(format, query string) string {
	return strings.ReplaceAll(format, "{query}", query)
}
