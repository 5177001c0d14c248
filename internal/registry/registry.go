// Package registry is the HTTP client wrapper that talks to a module
// registry's NuGet v3-style registration API. Grounded on
// guget/Nugetservice.go's NugetService/getJSON/httpStatusError trio,
// generalised to the registration-index/page/leaf wire contract in full
// and configured for HTTP/2 multiplexing via golang.org/x/net/http2, the
// way Keyhole-Koro-InsightifyCore wires the same package on its server
// side.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/http2"

	"logger"

	"github.com/nulifyer/modget/internal/modgeterr"
)

// userAgent is sent on every request. The registry may emit a smaller,
// dependency-only registration document to clients that identify
// themselves; omitting it degrades to the full document, not an error.
const userAgent = "modget/1 (+https://github.com/nulifyer/modget)"

// Credentials is a static Basic Auth pair for a single registry source.
// Unlike the teacher's authTransport, this client does not shell out to
// an external credential-provider process on 401 — that is host/IDE
// integration outside this module's scope; a 401 is surfaced as a
// TransportError instead.
type Credentials struct {
	Username string
	Password string
}

type authTransport struct {
	base  http.RoundTripper
	creds Credentials
	mu    sync.RWMutex
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.RLock()
	user, pass := t.creds.Username, t.creds.Password
	t.mu.RUnlock()

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}
	return t.base.RoundTrip(req)
}

// Client talks to a single registry source, identified by its base URL
// (the service-index or registration-index endpoint, as given to New).
type Client struct {
	source string
	http   *http.Client
}

// New constructs a Client configured for connection reuse and HTTP/2
// multiplexing, falling back to HTTP/1.1 with up to 100 connections per
// origin when the server does not negotiate HTTP/2.
func New(source string, creds Credentials) (*Client, error) {
	transport := &http.Transport{
		MaxConnsPerHost:     100,
		MaxIdleConnsPerHost: 100,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, &modgeterr.InternalError{Reason: fmt.Sprintf("configuring HTTP/2 transport: %v", err)}
	}
	at := &authTransport{base: transport, creds: creds}
	return &Client{
		source: strings.TrimSuffix(source, "/"),
		http:   &http.Client{Transport: at},
	}, nil
}

// indexBase strips any trailing *.json path component from source, per
// §4.3's index-URL construction rule.
func indexBase(source string) string {
	if idx := strings.LastIndex(source, "/"); idx != -1 && strings.HasSuffix(source, ".json") {
		return source[:idx]
	}
	return source
}

// registrationIndex is the top-level document at
// {base}/registration/{name}/index.json.
type registrationIndex struct {
	Count int                `json:"count"`
	Items []RegistrationPage `json:"items"`
}

// RegistrationPage is a contiguous version bucket, inlined or linked.
type RegistrationPage struct {
	ID    string             `json:"@id"`
	Lower string             `json:"lower"`
	Upper string             `json:"upper"`
	Items []RegistrationLeaf `json:"items,omitempty"`
}

// RegistrationLeaf is a single version's catalog entry plus its archive
// location. PackageContent is copied onto CatalogEntry by the resolver
// as it consumes a page, per §4.5 step 2; this type stores it alongside
// rather than nested, mirroring the wire shape directly.
type RegistrationLeaf struct {
	CatalogEntry   CatalogEntry `json:"catalogEntry"`
	PackageContent string       `json:"packageContent"`
}

// CatalogEntry describes one module version and its declared
// dependencies.
type CatalogEntry struct {
	ID               string            `json:"id"`
	Version          string            `json:"version"`
	Listed           *bool             `json:"listed"`
	ProjectURL       string            `json:"projectUrl"`
	DependencyGroups []DependencyGroup `json:"dependencyGroups"`

	// PackageContent is populated by the resolver from the sibling leaf
	// field, not unmarshalled directly from this struct's own JSON.
	PackageContent string `json:"-"`
}

// DependencyGroup is a per-target-framework list of dependency ranges.
// The framework axis itself is not modelled further; every group's
// dependencies are treated uniformly (see SPEC_FULL.md's dropped
// framework-filtering note).
type DependencyGroup struct {
	Dependencies []Dependency `json:"dependencies"`
}

// Dependency is a single "id:range" declaration as it appears on the
// wire (range already split into its own field here, unlike the
// colon-joined form other hosts use on disk).
type Dependency struct {
	ID    string `json:"id"`
	Range string `json:"range"`
}

// IsInlined reports whether a page's leaves are materialised directly
// in the index document, as opposed to requiring a follow-up fetch of
// its @id.
func (p RegistrationPage) IsInlined() bool { return p.Items != nil }

// FetchRegistrationIndex fetches the registration index for name against
// source's base endpoint (trailing *.json stripped). HTTP 404 maps to
// NotFoundError; other failures are wrapped as TransportError or
// InvalidRegistryResponseError.
func (c *Client) FetchRegistrationIndex(ctx context.Context, name string) ([]RegistrationPage, error) {
	u := fmt.Sprintf("%s/registration/%s/index.json", indexBase(c.source), strings.ToLower(name))
	logger.Debug("fetching registration index for %q: %s", name, u)
	var idx registrationIndex
	if err := c.getJSON(ctx, u, &idx, name); err != nil {
		logger.Debug("registration index fetch failed for %q: %v", name, err)
		return nil, err
	}
	if idx.Count == 0 || len(idx.Items) == 0 {
		return nil, &modgeterr.InvalidRegistryResponseError{URL: u, Reason: "registration index has no pages"}
	}
	logger.Trace("registration index for %q has %d page(s)", name, len(idx.Items))
	return idx.Items, nil
}

// FetchRegistrationPage fetches a single page by its absolute @id URI,
// used when a page's leaves were not inlined in the index document.
func (c *Client) FetchRegistrationPage(ctx context.Context, pageURI string) (RegistrationPage, error) {
	logger.Trace("fetching registration page: %s", pageURI)
	var page RegistrationPage
	if err := c.getJSON(ctx, pageURI, &page, ""); err != nil {
		return RegistrationPage{}, err
	}
	return page, nil
}

// OpenArchiveStream issues a GET against uri and returns the in-flight
// response so the installer can stream the archive body directly to
// disk. The caller owns resp.Body and must close it.
func (c *Client) OpenArchiveStream(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &modgeterr.TransportError{Name: uri, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &modgeterr.TransportError{Name: uri, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		logger.Warn("archive fetch got HTTP %d for %s", resp.StatusCode, uri)
		return nil, &modgeterr.TransportError{Name: uri, Err: &httpStatusError{Code: resp.StatusCode, URL: uri}}
	}
	return resp.Body, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst any, moduleName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &modgeterr.TransportError{Name: u, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &modgeterr.CancelledError{Err: ctx.Err()}
		}
		return &modgeterr.TransportError{Name: moduleName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		if moduleName != "" {
			return &modgeterr.NotFoundError{Name: moduleName}
		}
		return &modgeterr.InvalidRegistryResponseError{URL: u, Reason: "404 Not Found"}
	}
	if resp.StatusCode != http.StatusOK {
		return &modgeterr.TransportError{Name: moduleName, Err: &httpStatusError{Code: resp.StatusCode, URL: u}}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &modgeterr.InvalidRegistryResponseError{URL: u, Reason: err.Error()}
	}
	return nil
}

type httpStatusError struct {
	Code int
	URL  string
}

func (e *httpStatusError) Error() string { return fmt.Sprintf("HTTP %d for %s", e.Code, e.URL) }
