package verifier

import (
	"linkvault/pkg/serrors"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/idna"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint: gochecknoglobals

// Normalize turns free-form user input into an absolute http(s) URL.
//
// The input is trimmed and "https://" is prepended unless it already starts
// with "http://" or "https://" (in any letter case). The result must then
// parse as a URL with an http or https scheme, a host and no user info. An
// explicit port must be within 1..65535. The host may be an IP literal;
// otherwise it must not contain underscores and, after IDNA conversion, must
// be a fully qualified domain name with an alphabetic top-level label, so
// "localhost" or "myhost" are rejected.
//
// Apart from the scheme prefix the input is returned as is, which makes
// Normalize idempotent. Errors are of kind serrors.ErrBadRequest.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", serrors.With(serrors.ErrBadRequest, "empty URL")
	}

	if !hasHTTPPrefix(s) {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "could not parse URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", serrors.With(serrors.ErrBadRequest, "unsupported scheme %q", u.Scheme)
	}
	if u.User != nil {
		return "", serrors.With(serrors.ErrBadRequest, "user info is not allowed")
	}

	host := u.Hostname()
	if host == "" {
		return "", serrors.With(serrors.ErrBadRequest, "missing host")
	}
	if err := validateHost(host); err != nil {
		return "", err
	}
	// url.Parse only checks that the port is numeric
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err != nil || n < 1 || n > 65535 {
			return "", serrors.With(serrors.ErrBadRequest, "port %q out of range", p)
		}
	}

	return s, nil
}

func hasHTTPPrefix(s string) bool {
	l := strings.ToLower(s)

	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func validateHost(host string) error {
	if net.ParseIP(host) != nil {
		return nil
	}
	if strings.Contains(host, "_") {
		return serrors.With(serrors.ErrBadRequest, "underscore in host %q", host)
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid host %q", host)
	}
	if err := validate.Var(ascii, "fqdn"); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "host %q is not a fully qualified domain name", host)
	}

	return nil
}
