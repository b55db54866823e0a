package registry

import (
	"errors"
	"net"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyTarget = errors.New("target is required")
	ErrMissingHost = errors.New("target url has no host")
)

// trackingParams never change what a page renders.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {}, "utm_content": {},
	"gclid": {}, "fbclid": {}, "mc_cid": {}, "mc_eid": {},
}

// CanonicalTarget returns the form a target is stored in. Local paths are
// cleaned. URLs get a lowercase scheme and host (IDN hosts as punycode),
// no default port, no credentials or fragment, no tracking parameters and a
// sorted query. The trailing slash is kept: "/a" and "/a/" can serve
// different documents.
func CanonicalTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyTarget
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare path, or "C:\..." with a one-letter scheme
		return filepath.Clean(raw), nil
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "file" {
		u.Path = path.Clean(u.Path)
		return u.String(), nil
	}
	if u.Host == "" {
		return "", &url.Error{Op: "canonicalize", URL: raw, Err: ErrMissingHost}
	}

	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	port := u.Port()
	switch {
	case (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443"):
		u.Host = host
	case port != "":
		u.Host = net.JoinHostPort(host, port)
	default:
		u.Host = host
	}
	u.User = nil
	u.Fragment = ""

	if u.Path != "" {
		clean := path.Clean(u.Path)
		if strings.HasSuffix(u.Path, "/") && clean != "/" {
			clean += "/"
		}
		u.Path = clean
	}

	q := u.Query()
	for k := range q {
		if _, ok := trackingParams[strings.ToLower(k)]; ok {
			q.Del(k)
		}
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := url.Values{}
	for _, k := range keys {
		values := q[k]
		sort.Strings(values)
		for _, v := range values {
			ordered.Add(k, v)
		}
	}
	u.RawQuery = ordered.Encode()

	return u.String(), nil
}
