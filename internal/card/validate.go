package card

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field length bounds for the activation form.
const (
	maxNameLength     = 120
	maxResidentLength = 200
)

// iraqiMobilePattern accepts Iraqi mobile numbers in three spellings: local
// (07 plus nine digits), international without the plus (9647 plus nine
// digits), and international with the plus prefix.
var iraqiMobilePattern = regexp.MustCompile(`^(?:07\d{9}|9647\d{9}|\+9647\d{9})$`)

// Validation errors reported to the activation form. Each maps to a
// translation key so the client renders it in the active language.
var (
	// ErrNameInvalid indicates an empty or overlong holder name.
	ErrNameInvalid = errors.New("validation.name.empty")
	// ErrPhoneInvalid indicates a phone number outside the accepted Iraqi mobile formats.
	ErrPhoneInvalid = errors.New("validation.phone.invalid")
	// ErrResidentInvalid indicates an empty or overlong residence.
	ErrResidentInvalid = errors.New("validation.location.empty")
)

// Activation carries the holder-supplied profile fields for card activation.
type Activation struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Resident string `json:"resident"`
}

// Validate checks the activation fields in declaration order and returns the
// first failure. Name and resident are compared after trimming; the phone is
// matched as submitted, with no normalization.
func (a Activation) Validate() error {
	name := strings.TrimSpace(a.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameInvalid
	}
	if !iraqiMobilePattern.MatchString(a.Phone) {
		return ErrPhoneInvalid
	}
	resident := strings.TrimSpace(a.Resident)
	if resident == "" || utf8.RuneCountInString(resident) > maxResidentLength {
		return ErrResidentInvalid
	}
	return nil
}
