package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/fmidev/mapdesc/internal/generator"
)

// Check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a project health check",
		Long: `Check that a generate run would succeed and flag likely mistakes:

- Input: the table list can be read and every row is well formed
- Output: the output directory and every schema directory exist, and no two
  rows write the same file
- Database: the discover target is configured and reachable

The report ends with a health score (0-100) and recommendations.
Nothing is written.`,
		Example: `  # Run health check
  mapdesc doctor

  # Output as JSON
  mapdesc doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.Context(), NewCommandContext(cmd))
		},
	}

	return cmd
}

// DoctorOutput is the structured output of the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary" yaml:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks" yaml:"health_checks"`
	Score           int            `json:"score" yaml:"score"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
	IssueCount      int            `json:"issue_count" yaml:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Rows        int `json:"rows" yaml:"rows"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Schemas     int `json:"schemas" yaml:"schemas"`
	Descriptors int `json:"descriptors" yaml:"descriptors"`
	Collisions  int `json:"collisions" yaml:"collisions"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     string   `json:"status" yaml:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
}

func newCheck(id, name, group string, severity string, details []string) HealthCheck {
	status := statusPass
	if len(details) > 0 {
		status = severity
	}
	return HealthCheck{
		RuleID:     id,
		Name:       name,
		Group:      group,
		Status:     status,
		IssueCount: len(details),
		Details:    details,
	}
}

func runDoctor(ctx context.Context, cc *CommandContext) error {
	out := buildDoctorOutput(ctx, cc)

	r := cc.Renderer
	if r.EffectiveMode().IsStructured() {
		return r.Structured(out)
	}
	renderDoctorText(cc, out)
	return nil
}

func buildDoctorOutput(ctx context.Context, cc *CommandContext) *DoctorOutput {
	cfg := cc.Cfg
	var checks []HealthCheck
	summary := ProjectSummary{}

	// Malformed rows are reported by IN02 even when generate runs strict.
	opts := cc.GeneratorOptions(nil)
	opts.Strict = false
	plan, planErr := generator.BuildPlan(opts)
	if planErr != nil {
		checks = append(checks, newCheck("IN01", "table-list-readable", "input", statusError, []string{planErr.Error()}))
	} else {
		checks = append(checks, newCheck("IN01", "table-list-readable", "input", statusError, nil))

		var malformed []string
		for _, s := range plan.Skipped {
			malformed = append(malformed, s.Reason)
		}
		checks = append(checks, newCheck("IN02", "rows-well-formed", "input", statusWarn, malformed))

		summary.Rows = len(plan.Entries)
		summary.Skipped = len(plan.Skipped)
		summary.Collisions = plan.Collisions()
	}

	var outDir []string
	if err := cfg.ValidateDirectories(); err != nil {
		outDir = []string{err.Error()}
	}
	checks = append(checks, newCheck("OUT01", "output-directory", "output", statusError, outDir))

	if plan != nil {
		schemas := map[string]bool{}
		paths := map[string]bool{}
		var missing, collisions []string
		for _, e := range plan.Entries {
			paths[e.Path] = true
			if e.Overwrites != 0 {
				collisions = append(collisions, fmt.Sprintf("line %d overwrites line %d: %s", e.Row.Line, e.Overwrites, e.Path))
			}
			if schemas[e.Row.Schema] {
				continue
			}
			schemas[e.Row.Schema] = true
			dir := filepath.Join(cfg.OutputDir, e.Row.Schema)
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				missing = append(missing, dir)
			}
		}
		sort.Strings(missing)
		summary.Schemas = len(schemas)
		summary.Descriptors = len(paths)

		// Missing directories are created on demand with create_dirs.
		severity := statusError
		if cfg.CreateDirs {
			severity = statusWarn
		}
		checks = append(checks, newCheck("OUT02", "schema-directories", "output", severity, missing))
		checks = append(checks, newCheck("OUT03", "path-collisions", "output", statusWarn, collisions))
	}

	checks = append(checks, checkDatabase(ctx, cc))

	// Sort health checks by group then by rule ID
	sort.SliceStable(checks, func(i, j int) bool {
		if checks[i].Group != checks[j].Group {
			return checks[i].Group < checks[j].Group
		}
		return checks[i].RuleID < checks[j].RuleID
	})

	issues := 0
	for _, c := range checks {
		issues += c.IssueCount
	}

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Rows),
		Recommendations: generateRecommendations(checks),
		IssueCount:      issues,
	}
}

func checkDatabase(ctx context.Context, cc *CommandContext) HealthCheck {
	target := cc.Cfg.Target
	if target == nil {
		return newCheck("DB01", "database-target", "database", statusWarn, []string{"no target configured, discover is unavailable"})
	}

	cat, err := openCatalog(ctx, target, cc.Logger)
	if err != nil {
		return newCheck("DB01", "database-target", "database", statusError, []string{err.Error()})
	}
	_ = cat.Close()
	return newCheck("DB01", "database-target", "database", statusError, nil)
}

// calculateHealthScore computes a health score from 0-100.
// Each warning costs a base penalty and each error twice that; the penalty
// shrinks for larger table lists.
func calculateHealthScore(checks []HealthCheck, rowCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if rowCount > 10 {
		basePenalty = 3.0
	}
	if rowCount > 50 {
		basePenalty = 2.0
	}
	if rowCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case statusError:
			score -= float64(check.IssueCount) * basePenalty * 2
		case statusWarn:
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}

		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "IN01":
		return "Create the table list or point --tables at it"
	case "IN02":
		return "Fix malformed rows: each line needs exactly \"schema table\" separated by one space"
	case "OUT01":
		return "Create the output directory or use --output-dir"
	case "OUT02":
		return "Create the missing schema directories or run generate with --create-dirs"
	case "OUT03":
		return "Remove duplicate rows or rename tables that reduce to the same short name"
	case "DB01":
		return "Set target.database and credentials in mapdesc.yaml to use discover"
	default:
		return ""
	}
}

func renderDoctorText(cc *CommandContext, out *DoctorOutput) {
	r := cc.Renderer
	styles := r.Styles()

	r.Header(1, "mapdesc project health report")
	r.Println("")

	r.Header(2, "Project Summary")
	r.Printf("   Rows: %d | Skipped: %d | Schemas: %d\n", out.Summary.Rows, out.Summary.Skipped, out.Summary.Schemas)
	r.Printf("   Descriptors: %d | Collisions: %d\n", out.Summary.Descriptors, out.Summary.Collisions)
	r.Println("")

	r.Header(2, "Health Checks")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("")
			r.Println("   " + titleCaser.String(currentGroup))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		status := "success"
		switch check.Status {
		case statusWarn:
			status = "warning"
		case statusError:
			status = "error"
		}
		detail := ""
		if check.IssueCount > 0 {
			detail = fmt.Sprintf("(%d issues)", check.IssueCount)
		}
		r.StatusLine(check.RuleID+": "+check.Name, status, detail)

		// Show first 3 details for issues
		for i, d := range check.Details {
			if i >= 3 {
				r.Muted(fmt.Sprintf("       ... and %d more", len(check.Details)-3))
				break
			}
			r.Muted("       - " + d)
		}
	}
	r.Println("")

	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))

	if len(out.Recommendations) > 0 {
		r.Println("")
		r.Header(2, "Recommendations")
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
	}
}
