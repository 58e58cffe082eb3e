package models

// Classification vocabularies for the course catalog. These are opaque to the
// entitlement engine; they exist for catalog filtering and form dropdowns.

var SolutionAreas = []string{
	"AI Business Solutions (ABS)",
	"Azure - Cloud & AI Platform",
	"Security",
}

var SolutionPlays = []string{
	"AI Business Process",
	"AI Workforce",
	"Innovate with Azure AI Apps and Agents",
	"Migrate and Modernize Your estate",
	"Unify Your Data Platform",
	"Data Security",
	"Modern SecOps with Unified Platform",
}

var CourseTypes = []string{
	"Tech Deal Ready",
	"Sales Ready",
	"Project Ready",
	"Project Ready with Labs",
	"Credential Ready",
}

var Levels = []string{"Beginner", "Intermediate", "Advanced"}

var Languages = []string{
	"English (US)", "中文 (简体字)", "Deutsch", "Español",
	"Français", "Italiano", "日本語", "한국어", "Português", "中文 (繁體字)",
}

var TargetRoles = []string{"Technical", "Sales", "Pre-Sales", "Project Ready"}

var ContentCategories = []string{"GPS Solution Areas", "Event-based content"}

var FileTypes = []string{
	"Trainer Presentation (PPTX)",
	"Change Log (PDF)",
	"Train the Trainer Guide (PDF)",
	"Video Recording (MP4)",
	"Caption File (VTT/SRT)",
	"Lab Guide (Word/PDF)",
	"Lab Files (ZIP)",
}

var PartnerTypes = []string{"CSP", "ESI", "MPL", "GSI"}

var UserRoles = []string{
	string(RolePartner),
	string(RoleContentAdmin),
	string(RoleStakeholder),
	string(RoleAdmin),
}

// Metadata bundles the vocabularies for the metadata endpoint.
func Metadata() map[string]interface{} {
	return map[string]interface{}{
		"solution_areas":     SolutionAreas,
		"solution_plays":     SolutionPlays,
		"course_types":       CourseTypes,
		"levels":             Levels,
		"languages":          Languages,
		"target_roles":       TargetRoles,
		"content_categories": ContentCategories,
		"file_types":         FileTypes,
		"user_roles":         UserRoles,
		"partner_types":      PartnerTypes,
	}
}
