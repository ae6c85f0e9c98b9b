package antrag

import (
	"regexp"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// identifierPattern matches a code prefix followed by a three digit number
// and an optional suffix character. Trailing text is ignored.
var identifierPattern = regexp.MustCompile(`^([A-Z"Ä]+)(\d\d\d\w?)`)

// Identifier is a parsed motion id such as "WP038" or "SÄA013a".
type Identifier struct {
	Code   string
	Number string
}

// String joins code and number.
func (id Identifier) String() string {
	return id.Code + id.Number
}

// ParseIdentifier splits raw into code and number.
func ParseIdentifier(raw string) (Identifier, error) {
	m := identifierPattern.FindStringSubmatch(raw)
	if m == nil {
		return Identifier{}, errors.NewMalformedIdentifierError(raw)
	}
	return Identifier{Code: m[1], Number: m[2]}, nil
}

// Translate replaces the code using table. Unknown codes stay unchanged.
func (id Identifier) Translate(table map[string]string) Identifier {
	if translated, ok := table[id.Code]; ok {
		id.Code = translated
	}
	return id
}

// NormalizeID parses raw and applies the profile's code translation.
func (p *Profile) NormalizeID(raw string) (string, error) {
	id, err := ParseIdentifier(raw)
	if err != nil {
		return "", err
	}
	return id.Translate(p.CodeTranslation).String(), nil
}
