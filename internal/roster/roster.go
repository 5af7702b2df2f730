// Package roster loads the fixed representative roster the daily analysis
// runs against. The roster is configuration, not data: it changes when the
// sales team changes, so it lives in a YAML file next to the deployment
// rather than in the database.
package roster

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"salespulse_backend/platform/apperr"
	"salespulse_backend/platform/validator"
)

// Rep is one representative on the roster. Key is the canonical short name
// used in logs, metric rows and report headings. Aliases cover the spelling
// variants that appear in the cumulative master sheet.
type Rep struct {
	Key               string   `yaml:"key" validate:"required"`
	DisplayName       string   `yaml:"display_name" validate:"required"`
	Aliases           []string `yaml:"aliases"`
	BookingUserID     string   `yaml:"booking_user_id" validate:"required"`
	ConferencingEmail string   `yaml:"conferencing_email" validate:"required,email"`
	SlackUserID       string   `yaml:"slack_user_id"`
}

// Roster holds the full team plus names excluded from ledger aggregation
// (rows attributed to managers who demo occasionally but are not measured).
type Roster struct {
	Reps          []Rep    `yaml:"reps" validate:"required,min=1,dive"`
	ExcludedNames []string `yaml:"excluded_names"`
}

// Load reads and validates a roster file.
func Load(path string, val *validator.Validator) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, fmt.Sprintf("reading roster file %s", path), err)
	}

	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, apperr.Validation(fmt.Sprintf("parsing roster file %s: %v", path, err))
	}

	if err := val.Struct(&r); err != nil {
		return nil, apperr.Validation(fmt.Sprintf("invalid roster: %v", err))
	}

	seen := make(map[string]bool, len(r.Reps))
	for _, rep := range r.Reps {
		key := strings.ToLower(rep.Key)
		if seen[key] {
			return nil, apperr.Validation(fmt.Sprintf("duplicate roster key %q", rep.Key))
		}
		seen[key] = true
	}

	return &r, nil
}

// ByKey finds a representative by canonical key, case-insensitively.
func (r *Roster) ByKey(key string) (Rep, bool) {
	for _, rep := range r.Reps {
		if strings.EqualFold(rep.Key, key) {
			return rep, true
		}
	}
	return Rep{}, false
}

// NameVariants returns every name a representative may appear under in
// external data: display name, canonical key and all aliases.
func (rep Rep) NameVariants() []string {
	variants := make([]string, 0, len(rep.Aliases)+2)
	variants = append(variants, rep.DisplayName, rep.Key)
	variants = append(variants, rep.Aliases...)
	return variants
}

// IsExcluded reports whether a ledger name belongs to the exclusion list.
func (r *Roster) IsExcluded(name string) bool {
	for _, excluded := range r.ExcludedNames {
		if strings.EqualFold(strings.TrimSpace(excluded), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
