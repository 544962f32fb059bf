package timeline

import (
	"strings"

	"github.com/planline/planline/pkg/models"
)

// Keyword sets are checked as substring matches in priority order;
// backend wins over web, web over mobile, mobile over testing.
var (
	backendKeywords  = []string{"backend", "api", "server", "database", "auth", "integration", "microservice"}
	frontendKeywords = []string{"frontend", "ui", "user interface", "react", "vue", "angular", "design", "css", "html", "web"}
	mobileKeywords   = []string{"mobile", "app", "ios", "android", "smartphone", "tablet"}
	testingKeywords  = []string{"test", "testing", "qa", "quality", "automation", "validation"}
)

// ClassifyTeam assigns a delivery team to an epic. The tie-break policy
// is fixed: an explicit epic-level assignment always wins, then the
// project's declared type, then keyword inference over the epic's title
// and description, then the platform fallback.
func ClassifyTeam(epic *models.Epic, project *models.Project) models.Team {
	if epic.Team != "" {
		return epic.Team
	}

	if project != nil {
		projectType := strings.ToLower(project.Type)

		switch {
		case strings.Contains(projectType, "web"), strings.Contains(projectType, "frontend"):
			return models.TeamWeb
		case strings.Contains(projectType, "mobile"), strings.Contains(projectType, "app"):
			return models.TeamMobile
		case strings.Contains(projectType, "backend"), strings.Contains(projectType, "api"):
			return models.TeamBackend
		}
	}

	content := strings.ToLower(epic.Title + " " + epic.Description)

	switch {
	case containsAny(content, backendKeywords):
		return models.TeamBackend
	case containsAny(content, frontendKeywords):
		return models.TeamWeb
	case containsAny(content, mobileKeywords):
		return models.TeamMobile
	case containsAny(content, testingKeywords):
		return models.TeamTesting
	}

	return models.TeamPlatform
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}

	return false
}
