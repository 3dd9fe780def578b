package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkDiscoverer selects the anchors worth following: same host as the base
// URL (unless disabled) and a path containing one of the allow-listed fragments.
type LinkDiscoverer struct {
	allowedPaths []string
	base         *url.URL
	baseHost     string
	sameHostOnly bool
}

// NewLinkDiscoverer creates a discoverer from the crawler configuration.
// The config must have been validated.
func NewLinkDiscoverer(config *CrawlerConfig) *LinkDiscoverer {
	paths := make([]string, 0, len(config.AllowedPaths))
	for _, p := range config.AllowedPaths {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			paths = append(paths, p)
		}
	}

	d := &LinkDiscoverer{
		allowedPaths: paths,
		sameHostOnly: config.SameHostOnly,
	}
	if u, err := url.Parse(config.BaseURL); err == nil {
		d.base = u
		d.baseHost = strings.ToLower(u.Hostname())
	}
	return d
}

// DiscoverLinks returns the normalized absolute URLs of the allow-listed anchors
// in doc, resolved against the base URL, in document order and without repeats.
// Anchors inside elements already removed from doc are not seen.
func (d *LinkDiscoverer) DiscoverLinks(doc *goquery.Document) []string {
	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, ok := d.resolve(href)
		if !ok {
			return
		}
		link := NormalizeURL(u)
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	return links
}

func (d *LinkDiscoverer) resolve(href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"mailto:", "javascript:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return nil, false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	u := ref
	if d.base != nil {
		u = d.base.ResolveReference(ref)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if d.sameHostOnly && !strings.EqualFold(u.Hostname(), d.baseHost) {
		return nil, false
	}
	if !d.IsAllowedPath(u.Path) {
		return nil, false
	}
	return u, true
}

// IsAllowedPath reports whether the lower-cased path contains an allow-listed fragment.
func (d *LinkDiscoverer) IsAllowedPath(path string) bool {
	path = strings.ToLower(path)
	for _, p := range d.allowedPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// NormalizeURL is the key used by the visited set and the URL that gets fetched:
// lower-case scheme, host and path, no fragment, no trailing slash except for
// the root path.
func NormalizeURL(u *url.URL) string {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)
	if lower := strings.ToLower(n.Path); lower != n.Path {
		n.Path = lower
		n.RawPath = ""
	}
	n.Fragment = ""
	n.RawFragment = ""
	if n.Path == "" {
		n.Path = "/"
		n.RawPath = ""
	} else if len(n.Path) > 1 && strings.HasSuffix(n.Path, "/") {
		n.Path = strings.TrimRight(n.Path, "/")
		if n.Path == "" {
			n.Path = "/"
		}
		n.RawPath = ""
	}
	return n.String()
}

// NormalizeRawURL parses and normalizes rawURL.
func NormalizeRawURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return NormalizeURL(u), nil
}
