package answer

import "strings"

// sectionHeaders maps task keys to their display headers.
var sectionHeaders = map[string]string{
	TaskSummary:            "Summary",
	TaskRecentDevelopments: "Recent Developments",
	TaskHistorical:         "Historical Background",
	TaskStatistics:         "Statistics & Data",
	TaskCausesEffects:      "Causes & Effects",
	TaskSolutions:          "Solutions & Measures",
	TaskComparison:         "Comparison",
	TaskDefinition:         "Definition & Overview",
	TaskLocation:           "Location & Habitat",
	TaskProcess:            "Process & Mechanism",
	TaskStatus:             "Current Status",
	TaskRecommendations:    "Recommendations",
}

// sectionOrders maps the primary query type to the presentation order of
// its sections. Used only for final assembly, never for generation.
// Types missing from the table fall back to the general order.
var sectionOrders = map[QueryType][]string{
	TypeGeneral: {
		TaskSummary, TaskDefinition, TaskStatistics, TaskCausesEffects,
		TaskRecentDevelopments, TaskHistorical, TaskStatus, TaskLocation,
		TaskProcess, TaskComparison, TaskSolutions, TaskRecommendations,
	},
	TypeLatestNews: {
		TaskSummary, TaskRecentDevelopments, TaskStatus, TaskStatistics,
		TaskCausesEffects, TaskSolutions, TaskRecommendations,
	},
	TypeHistorical: {
		TaskSummary, TaskHistorical, TaskStatistics, TaskCausesEffects,
		TaskRecentDevelopments, TaskRecommendations,
	},
	TypeStatistics: {
		TaskSummary, TaskStatistics, TaskRecentDevelopments, TaskHistorical,
		TaskCausesEffects, TaskRecommendations,
	},
	TypeCausesEffects: {
		TaskSummary, TaskCausesEffects, TaskStatistics, TaskSolutions,
		TaskRecommendations,
	},
	TypeSolutions: {
		TaskSummary, TaskSolutions, TaskCausesEffects, TaskStatistics,
		TaskRecommendations,
	},
	TypeComparison: {
		TaskSummary, TaskComparison, TaskStatistics, TaskCausesEffects,
		TaskRecommendations,
	},
	TypeDefinition: {
		TaskSummary, TaskDefinition, TaskProcess, TaskStatistics,
		TaskRecommendations,
	},
	TypeLocation: {
		TaskSummary, TaskLocation, TaskStatistics, TaskStatus,
		TaskRecommendations,
	},
	TypeProcess: {
		TaskSummary, TaskProcess, TaskCausesEffects, TaskStatistics,
		TaskRecommendations,
	},
	TypeStatus: {
		TaskSummary, TaskStatus, TaskStatistics, TaskRecentDevelopments,
		TaskRecommendations,
	},
}

// Assemble orders, headers, and concatenates the per-task results into the
// final answer text. Sections follow the primary query type's order table;
// tasks absent from that table are appended afterwards in result order.
// Tasks whose content is empty after trimming are omitted entirely.
func Assemble(results []TaskResult, matched []QueryType) string {
	primary := TypeGeneral
	if len(matched) > 0 {
		primary = matched[0]
	}
	order, ok := sectionOrders[primary]
	if !ok {
		order = sectionOrders[TypeGeneral]
	}

	content := make(map[string]string, len(results))
	for _, r := range results {
		content[r.Task] = strings.TrimSpace(r.Text)
	}

	var sections []string
	emitted := make(map[string]struct{})

	for _, task := range order {
		text, ok := content[task]
		if !ok || text == "" {
			continue
		}
		sections = append(sections, sectionHeaders[task]+":\n"+text)
		emitted[task] = struct{}{}
	}

	// Anything the order table missed, in the results' own order.
	for _, r := range results {
		if _, done := emitted[r.Task]; done {
			continue
		}
		text := content[r.Task]
		if text == "" {
			continue
		}
		sections = append(sections, sectionHeaders[r.Task]+":\n"+text)
		emitted[r.Task] = struct{}{}
	}

	return strings.Join(sections, "\n\n")
}
