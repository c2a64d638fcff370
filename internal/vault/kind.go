package vault

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidFormat = errors.New("credential value failed format validation")

// Kind is the tagged variant of credential formats. The zero value is
// KindGeneric; callers wanting name-based selection run ClassifyName
// explicitly.
type Kind int

const (
	KindGeneric Kind = iota
	KindAPIKey
	KindToken
	KindURL
	KindEmail
)

func (k Kind) String() string {
	switch k {
	case KindAPIKey:
		return "api-key"
	case KindToken:
		return "token"
	case KindURL:
		return "url"
	case KindEmail:
		return "email"
	default:
		return "generic"
	}
}

// ClassifyName picks a kind from a credential name: "api"+"key"
// selects API-key rules, then "token", "url", and "email" in that
// order. Anything else is generic.
func ClassifyName(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "api") && strings.Contains(lower, "key"):
		return KindAPIKey
	case strings.Contains(lower, "token"):
		return KindToken
	case strings.Contains(lower, "url"):
		return KindURL
	case strings.Contains(lower, "email"):
		return KindEmail
	default:
		return KindGeneric
	}
}

// Validate checks a value against the kind's format rules.
func (k Kind) Validate(value string) error {
	if value == "" {
		return fmt.Errorf("%w: value is empty", ErrInvalidFormat)
	}

	switch k {
	case KindAPIKey:
		if len(value) < 16 {
			return fmt.Errorf("%w: api key shorter than 16 characters", ErrInvalidFormat)
		}
		if strings.ContainsAny(value, " \t\n") {
			return fmt.Errorf("%w: api key contains whitespace", ErrInvalidFormat)
		}
	case KindToken:
		if len(value) < 8 {
			return fmt.Errorf("%w: token shorter than 8 characters", ErrInvalidFormat)
		}
		if strings.ContainsAny(value, " \t\n") {
			return fmt.Errorf("%w: token contains whitespace", ErrInvalidFormat)
		}
	case KindURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: not a valid http(s) url", ErrInvalidFormat)
		}
	case KindEmail:
		local, domain, ok := strings.Cut(value, "@")
		if !ok || local == "" || domain == "" || !strings.Contains(domain, ".") || strings.Contains(domain, "@") {
			return fmt.Errorf("%w: not a valid email address", ErrInvalidFormat)
		}
	}
	return nil
}
