package payment

import (
	"errors"
	"regexp"
	"strings"
)

// Card brands inferred from the number prefix. Display-only; brand never
// gates validation.
type Brand string

const (
	BrandVisa       Brand = "VISA"
	BrandMastercard Brand = "Mastercard"
	BrandAmex       Brand = "AMEX"
	BrandUnknown    Brand = ""
)

// Distinct failures for each step of the manual validation pipeline, so
// the UI can point at the exact field.
var (
	ErrNameRequired    = errors.New("cardholder name is required")
	ErrPostalRequired  = errors.New("postal code is required")
	ErrCountryRequired = errors.New("country must be selected")
	ErrInvalidNumber   = errors.New("invalid card number")
	ErrInvalidExpiry   = errors.New("invalid expiry date, expected MM/YY")
	ErrInvalidCVC      = errors.New("invalid CVC, expected 3-4 digits")
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvcPattern    = regexp.MustCompile(`^\d{3,4}$`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
)

// Luhn runs the standard checksum over a card number with spaces already
// stripped: double every second digit from the right, subtract 9 when the
// double exceeds 9, and require the digit sum to be divisible by 10.
func Luhn(number string) bool {
	if number == "" || !digitsOnly.MatchString(number) {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectBrand infers the display brand from the number prefix.
func DetectBrand(number string) Brand {
	n := stripSpaces(number)
	switch {
	case strings.HasPrefix(n, "4"):
		return BrandVisa
	case len(n) >= 2 && n[0] == '5' && n[1] >= '1' && n[1] <= '5':
		return BrandMastercard
	case len(n) >= 2 && n[0] == '2' && n[1] >= '2' && n[1] <= '5':
		return BrandMastercard
	case strings.HasPrefix(n, "34") || strings.HasPrefix(n, "37"):
		return BrandAmex
	default:
		return BrandUnknown
	}
}

// FormatNumber keeps only digits and regroups them four at a time, the
// way the input field displays while typing.
func FormatNumber(v string) string {
	var digits strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	var out strings.Builder
	for i, r := range s {
		if i > 0 && i%4 == 0 {
			out.WriteByte(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// CardForm is the transient manual-entry state of the checkout page.
type CardForm struct {
	Name       string
	PostalCode string
	Country    string
	Number     string
	Expiry     string
	CVC        string
}

// ValidateManual runs the full pipeline in order and returns the first
// failing step's error.
func (f CardForm) ValidateManual() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(f.PostalCode) == "" {
		return ErrPostalRequired
	}
	if f.Country == "" {
		return ErrCountryRequired
	}
	num := stripSpaces(f.Number)
	if len(num) < 12 || !Luhn(num) {
		return ErrInvalidNumber
	}
	if !expiryPattern.MatchString(f.Expiry) {
		return ErrInvalidExpiry
	}
	if !cvcPattern.MatchString(f.CVC) {
		return ErrInvalidCVC
	}
	return nil
}

// ValidateHosted only checks the fields collected locally; number, expiry
// and CVC live inside the hosted SDK widget.
func (f CardForm) ValidateHosted() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(f.PostalCode) == "" {
		return ErrPostalRequired
	}
	return nil
}

// Brand reports the live display brand for the form's current number.
func (f CardForm) Brand() Brand {
	return DetectBrand(f.Number)
}
