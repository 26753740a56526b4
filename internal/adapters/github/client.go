// Package github implements the remote content store on top of the GitHub contents API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// etagCacheSize bounds the number of conditional-request bodies kept in memory.
	etagCacheSize = 256

	apiVersion    = "2022-11-28"
	mediaTypeJSON = "application/vnd.github+json"
	mediaTypeRaw  = "application/vnd.github.raw+json"
)

// Client implements ports.ContentStore.
type Client struct {
	httpClient *http.Client
	apiBase    string
	owner      string
	repo       string
	branch     string
	root       string
	bodies     *lru.Cache[string, cachedBody]
}

type cachedBody struct {
	etag string
	data []byte
}

// New creates a Client for the configured repository.
func New(cfg domain.RemoteConfig) (*Client, error) {
	return NewWithClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithClient creates a Client using the given http client.
func NewWithClient(cfg domain.RemoteConfig, httpClient *http.Client) (*Client, error) {
	bodies, err := lru.New[string, cachedBody](etagCacheSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create response cache")
	}
	return &Client{
		httpClient: httpClient,
		apiBase:    strings.TrimRight(cfg.APIBase, "/"),
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		branch:     cfg.Branch,
		root:       strings.Trim(cfg.Root, "/"),
		bodies:     bodies,
	}, nil
}

// Probe reports whether path exists. Only a 404 answer means absent.
func (c *Client) Probe(ctx context.Context, token, path string) (bool, error) {
	target, err := c.contentsURL(path)
	if err != nil {
		return false, err
	}

	resp, err := c.do(ctx, http.MethodHead, target, token, mediaTypeJSON, nil, nil)
	if err != nil {
		return false, err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, statusErr(domain.ErrRemoteUnavailable, resp.StatusCode, path)
	}
}

// Read returns the raw content at path.
// Bodies served with an ETag are revalidated with If-None-Match on later reads.
func (c *Client) Read(ctx context.Context, token, path string) ([]byte, error) {
	target, err := c.contentsURL(path)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	cached, hasCached := c.bodies.Get(target)
	if hasCached {
		header.Set("If-None-Match", cached.etag)
	}

	resp, err := c.do(ctx, http.MethodGet, target, token, mediaTypeRaw, header, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNotModified && hasCached:
		return bytes.Clone(cached.data), nil
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrRemoteUnavailable, err.Error()), "path", path)
		}
		if etag := resp.Header.Get("ETag"); etag != "" {
			c.bodies.Add(target, cachedBody{etag: etag, data: bytes.Clone(data)})
		}
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		c.bodies.Remove(target)
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "remote read"), "path", path)
	default:
		return nil, statusErr(domain.ErrRemoteUnavailable, resp.StatusCode, path)
	}
}

type contentMeta struct {
	SHA string `json:"sha"`
}

type deleteRequest struct {
	Message string `json:"message"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch,omitempty"`
}

// Delete removes the file at path. The API needs the blob sha, so it is looked up first.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	target, err := c.contentsURL(path)
	if err != nil {
		return err
	}

	sha, err := c.lookupSHA(ctx, target, token, path)
	if err != nil {
		return err
	}

	body, err := json.Marshal(deleteRequest{
		Message: "Delete " + path,
		SHA:     sha,
		Branch:  c.branch,
	})
	if err != nil {
		return zerr.Wrap(err, "failed to encode delete request")
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	resp, err := c.do(ctx, http.MethodDelete, target, token, mediaTypeJSON, header, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer drain(resp)

	c.bodies.Remove(target)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return zerr.With(zerr.Wrap(domain.ErrNotFound, "remote delete"), "path", path)
	default:
		return statusErr(domain.ErrDeleteFailed, resp.StatusCode, path)
	}
}

func (c *Client) lookupSHA(ctx context.Context, target, token, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, target, token, mediaTypeJSON, nil, nil)
	if err != nil {
		return "", err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return "", zerr.With(zerr.Wrap(domain.ErrNotFound, "remote delete"), "path", path)
	default:
		return "", statusErr(domain.ErrRemoteUnavailable, resp.StatusCode, path)
	}

	var meta contentMeta
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil || meta.SHA == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrDeleteFailed, "content metadata has no sha"), "path", path)
	}
	return meta.SHA, nil
}

func (c *Client) do(
	ctx context.Context,
	method, target, token, accept string,
	header http.Header,
	body io.Reader,
) (*http.Response, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrNoCredential
	}

	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrRemoteUnavailable, err.Error())
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrRemoteUnavailable, err.Error()), "method", method)
	}
	return resp, nil
}

// contentsURL builds the contents endpoint URL for path below the configured root.
func (c *Client) contentsURL(path string) (string, error) {
	if c.owner == "" || c.repo == "" {
		return "", zerr.Wrap(domain.ErrRemoteUnavailable, "remote repository is not configured")
	}

	cleaned, err := domain.CleanPath(path)
	if err != nil {
		return "", err
	}
	if c.root != "" {
		cleaned = c.root + "/" + cleaned
	}

	segments := strings.Split(cleaned, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	target := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.apiBase, url.PathEscape(c.owner), url.PathEscape(c.repo), strings.Join(segments, "/"))
	if c.branch != "" {
		target += "?ref=" + url.QueryEscape(c.branch)
	}
	return target, nil
}

func statusErr(sentinel error, status int, path string) error {
	err := zerr.With(zerr.Wrap(sentinel, "unexpected status"), "status_code", status)
	return zerr.With(err, "path", path)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
