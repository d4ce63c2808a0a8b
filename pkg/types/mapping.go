// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GoalRecord relates one objective to its trilha and the activities that
// serve it.
type GoalRecord struct {
	ObjectiveCode string `json:"objective_code" yaml:"objective_code"`
	ObjectiveName string `json:"objective_name" yaml:"objective_name"`
	TrackID       string `json:"track_id" yaml:"track_id"`
	Dimension     string `json:"dimension" yaml:"dimension"`

	// RelatedActivityCodes is deduplicated and sorted.
	RelatedActivityCodes []string `json:"related_activity_codes" yaml:"related_activity_codes"`

	// TrackLevelCodes is the sorted subset of RelatedActivityCodes whose
	// provenance is track-level.
	TrackLevelCodes []string `json:"track_level_codes" yaml:"track_level_codes"`
}

// GoalCategory groups the goals of one dimension.
type GoalCategory struct {
	Goals             []string `json:"goals" yaml:"goals"`
	PrimaryActivities []string `json:"primary_activities" yaml:"primary_activities"`
}

// TrilhaLevels lists the level codes of one base trilha by stage.
type TrilhaLevels struct {
	Basic        []string `json:"basic" yaml:"basic"`
	Intermediate []string `json:"intermediate" yaml:"intermediate"`
	Advanced     []string `json:"advanced" yaml:"advanced"`
}

// MappingStatistics summarizes goal coverage.
type MappingStatistics struct {
	TotalGoals            int     `json:"total_goals" yaml:"total_goals"`
	TotalMappedActivities int     `json:"total_mapped_activities" yaml:"total_mapped_activities"`
	CoveragePercentage    float64 `json:"coverage_percentage" yaml:"coverage_percentage"`
}

// ValidationReport lists consistency violations (errors) and survivable
// data-quality issues (warnings) found in one run.
type ValidationReport struct {
	Errors     []string          `json:"errors" yaml:"errors"`
	Warnings   []string          `json:"warnings" yaml:"warnings"`
	Statistics MappingStatistics `json:"statistics" yaml:"statistics"`
}

// HasErrors reports whether any violation was recorded.
func (r ValidationReport) HasErrors() bool {
	return len(r.Errors) > 0
}

// MappingDocument is the derived goal-mapping output built from a Result.
type MappingDocument struct {
	Version     string `json:"version" yaml:"version"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	GoalTrilhaMapping   map[string]GoalRecord   `json:"goal_trilha_mapping" yaml:"goal_trilha_mapping"`
	ActivityGoalMapping map[string][]string     `json:"activity_goal_mapping" yaml:"activity_goal_mapping"`
	GoalCategories      map[string]GoalCategory `json:"goal_categories" yaml:"goal_categories"`
	TrilhaHierarchy     map[string]TrilhaLevels `json:"trilha_hierarchy" yaml:"trilha_hierarchy"`
	ValidationReport    ValidationReport        `json:"validation_report" yaml:"validation_report"`
}
