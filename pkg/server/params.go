package server

import (
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/polisai/skillicons/pkg/config"
	"github.com/polisai/skillicons/pkg/domain"
)

// User-facing messages for rejected requests.
const (
	msgMissingIcons    = "You didn't specify any icons!"
	msgInvalidTheme    = `Theme must be either "light" or "dark"`
	msgInvalidPerLine  = "Icons per line must be a number between 1 and 50"
	msgNothingResolved = "You didn't format the icons param correctly!"
)

// Request is a validated /icons request.
type Request struct {
	Icons   string
	Theme   domain.Theme
	PerLine int
}

// ParseRequest extracts and validates the /icons query parameters. The short
// names i and t take precedence over icons and theme. Validation of theme and
// perline happens here so the resolver and composer only see legal values.
func ParseRequest(q url.Values, defaults config.RenderConfig) (Request, error) {
	req := Request{
		Icons: firstParam(q, "i", "icons"),
		Theme: domain.Theme(firstParam(q, "t", "theme")),
	}

	if req.Icons == "" {
		return Request{}, domain.NewUserInputError(domain.CodeMissingIcons, msgMissingIcons)
	}

	if err := validation.Validate(req.Theme, validation.In(domain.ThemeLight, domain.ThemeDark)); err != nil {
		return Request{}, &domain.UserInputError{Code: domain.CodeInvalidTheme, Message: msgInvalidTheme, Err: err}
	}
	if req.Theme == "" {
		req.Theme = domain.Theme(defaults.DefaultTheme).OrDefault()
	}

	perLine, err := parsePerLine(q.Get("perline"), defaults.DefaultPerLine)
	if err != nil {
		return Request{}, &domain.UserInputError{Code: domain.CodeInvalidPerLine, Message: msgInvalidPerLine, Err: err}
	}
	req.PerLine = perLine

	return req, nil
}

func parsePerLine(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if fallback == 0 {
			fallback = config.DefaultPerLine
		}
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	// Required rejects 0, which Min treats as an empty value.
	if err := validation.Validate(n, validation.Required, validation.Min(config.MinPerLine), validation.Max(config.MaxPerLine)); err != nil {
		return 0, err
	}
	return n, nil
}

func firstParam(q url.Values, names ...string) string {
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}
	return ""
}
