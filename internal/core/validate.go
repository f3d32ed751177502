package core

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/inovacc/patchtracker/internal/application"
	"github.com/inovacc/patchtracker/internal/model"
	"golang.org/x/text/encoding/charmap"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 32
)

// CheckPasswordLength enforces the [6, 32] character bound on passwords
func CheckPasswordLength(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return &ValidationError{
			Message: fmt.Sprintf("PASSWORD: Password length must be between %d and %d",
				minPasswordLength, maxPasswordLength),
		}
	}

	return nil
}

// CheckCredentials verifies that user and password are Latin-1 encodable
func CheckCredentials(creds model.Credentials) error {
	if !isLatin1(creds.User) {
		return &ValidationError{Message: "ERROR: user: only latin1 character set are allowed."}
	}

	if !isLatin1(creds.Password) {
		return &ValidationError{Message: "ERROR: password: Only latin1 character set are allowed."}
	}

	return nil
}

func isLatin1(s string) bool {
	_, err := charmap.ISO8859_1.NewEncoder().String(s)
	return err == nil
}

// MissingFields returns every required field that is empty, in report order
func MissingFields(req model.TrackingRequest) []string {
	var missing []string

	for _, name := range model.RequiredTrackingFields {
		if req.Field(name) == "" {
			missing = append(missing, name)
		}
	}

	return missing
}

// CheckPresence fails with a listing of all missing required fields
func CheckPresence(req model.TrackingRequest) error {
	missing := MissingFields(req)
	if len(missing) == 0 {
		return nil
	}

	return &ValidationError{
		Message: fmt.Sprintf("%s add: error: the following arguments are required: --%s",
			application.AppName, strings.Join(missing, ", --")),
	}
}

// CheckValues validates the enumerated fields of a tracking request
func CheckValues(req model.TrackingRequest) error {
	if !slices.Contains(model.EnabledValues, req.Enabled) {
		return &ValidationError{
			Message: fmt.Sprintf("error: enabled: invalid value: '%s' (choose from %s)",
				req.Enabled, quoteList(model.EnabledValues)),
			ShowUsage: true,
		}
	}

	if !slices.Contains(model.VersionControls, model.VersionControl(req.VersionControl)) {
		names := make([]string, 0, len(model.VersionControls))
		for _, vc := range model.VersionControls {
			names = append(names, string(vc))
		}

		return &ValidationError{
			Message: fmt.Sprintf("error: version_control: invalid value: '%s' (choose from %s)",
				req.VersionControl, quoteList(names)),
			ShowUsage: true,
		}
	}

	return nil
}

// CheckTable validates a query table name
func CheckTable(table model.Table) error {
	if slices.Contains(model.Tables, table) {
		return nil
	}

	return &ValidationError{Message: fmt.Sprintf("table %s not found", table)}
}

// ValidateTracking runs the presence, value and credential checks in order
func ValidateTracking(req model.TrackingRequest, creds model.Credentials) error {
	if err := CheckPresence(req); err != nil {
		return err
	}

	if err := CheckValues(req); err != nil {
		return err
	}

	return CheckCredentials(creds)
}

// EnabledBool converts the enabled literal into the value sent to the server
func EnabledBool(enabled string) bool {
	return strings.ToLower(enabled) == "true"
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, "'"+v+"'")
	}

	return strings.Join(quoted, ", ")
}
