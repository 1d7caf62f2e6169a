package tracker

import (
	"regexp"
	"strings"

	"github.com/nhle/airdrop-tracker/internal/model"
)

var urlPattern = regexp.MustCompile(`^https?://.+`)

// ValidateDraft checks a new airdrop before it is dispatched.
func ValidateDraft(d model.AirdropDraft) error {
	fields := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		fields["name"] = "required"
	}
	if u := strings.TrimSpace(d.URL); u != "" && !urlPattern.MatchString(u) {
		fields["url"] = "must start with http:// or https://"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidatePatch checks the fields a partial update sets.
func ValidatePatch(p model.AirdropPatch) error {
	fields := map[string]string{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fields["name"] = "required"
	}
	if p.URL != nil {
		if u := strings.TrimSpace(*p.URL); u != "" && !urlPattern.MatchString(u) {
			fields["url"] = "must start with http:// or https://"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validateTitle trims a task title and rejects blank ones.
func validateTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", &ValidationError{Fields: map[string]string{"title": "required"}}
	}
	return t, nil
}
