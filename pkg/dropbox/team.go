package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"
)

// PlanAndLicense fetches team info and extracts the plan and license summary.
// Fields missing from the response fall back to "N/A" or 0.
func (c *Client) PlanAndLicense(ctx context.Context, token string) (PlanLicense, error) {
	body, err := c.TeamInfo(ctx, token)
	if err != nil {
		return PlanLicense{}, err
	}

	pl, err := parsePlanLicense(body)
	if err != nil {
		return PlanLicense{}, err
	}

	c.logger.Debug().
		Str("team", pl.TeamName).
		Int("licensed", pl.TeamMemberLimit).
		Int("used", pl.UsedLicenses).
		Msg("plan and license extracted")

	return pl, nil
}

func parsePlanLicense(body []byte) (PlanLicense, error) {
	var root any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	// An empty 2xx body carries no fields, so every value takes its default.
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return PlanLicense{}, fmt.Errorf("failed to decode team info response: %w", err)
	}

	// A non-object top level (e.g. null) behaves as if every field is missing.
	fields, _ := root.(map[string]any)

	var displayName any
	if name, ok := fields["name"].(map[string]any); ok {
		displayName = name["display_name"]
	}

	return PlanLicense{
		TeamName:        norm.NFC.String(textField(displayName, notAvailable)),
		PlanType:        planTypeBusiness,
		TeamMemberLimit: intField(fields["num_licensed_users"], 0),
		UsedLicenses:    intField(fields["num_used_licenses"], 0),
		LicenseType:     licenseTypeTeam,
	}, nil
}
