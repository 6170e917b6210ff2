package dropbox

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	notAvailable = "N/A"

	planTypeBusiness = "Business"
	licenseTypeTeam  = "Team"
)

// PlanLicense is the plan and license summary derived from /2/team/get_info.
type PlanLicense struct {
	TeamName        string `json:"team_name"`
	PlanType        string `json:"plan_type"`
	TeamMemberLimit int    `json:"team_member_limit"`
	UsedLicenses    int    `json:"used_licenses"`
	LicenseType     string `json:"license_type"`
}

func (p PlanLicense) String() string {
	return fmt.Sprintf("Team Name: %s, Plan Type: %s, Team Member Limit: %d, Used Licenses: %d, License Type: %s",
		p.TeamName, p.PlanType, p.TeamMemberLimit, p.UsedLicenses, p.LicenseType)
}

// textField returns v as text, or def when v is absent or null.
func textField(v any, def string) string {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		return t
	case map[string]any, []any:
		return def
	default:
		return fmt.Sprint(t)
	}
}

// intField returns v as an int, or def when v is absent or not numeric.
// Numeric strings are accepted and fractional values are truncated.
func intField(v any, def int) int {
	var s string
	switch t := v.(type) {
	case fmt.Stringer:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return def
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}
