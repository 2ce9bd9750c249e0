// Package content fetches document bodies that are referenced by URL.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/docsystem"
	docsysSvc "reportdesk/internal/domain/services/docsystem"
)

// ErrTooLarge is returned when a body exceeds the resolver's limit
var ErrTooLarge = errors.New("document body too large")

// ObjectGetter is the part of the S3 client the resolver needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Mount publishes a local directory under a URL path prefix
type Mount struct {
	Prefix string // e.g. "/files/library"
	Dir    string
}

// Options configures a Resolver. Nil HTTP or S3 clients disable those
// schemes.
type Options struct {
	Mounts   []Mount
	HTTP     *http.Client
	S3       ObjectGetter
	MaxBytes int64

	// RemoteHosts lists the http(s) hosts and s3 buckets that may be
	// fetched. Everything else is refused, redirects included.
	RemoteHosts []string
}

// Resolver reads a document's body on demand: inline content first, then
// its URL. Relative and file:// URLs must fall inside a mount; http(s) and
// s3://bucket/key URLs are fetched remotely.
type Resolver struct {
	mounts   []Mount
	http     *http.Client
	s3       ObjectGetter
	maxBytes int64
	remote   map[string]bool
	logger   *slog.Logger
}

var _ docsysSvc.ContentResolver = (*Resolver)(nil)

// NewResolver creates a resolver
func NewResolver(opts Options, logger *slog.Logger) *Resolver {
	mounts := make([]Mount, 0, len(opts.Mounts))
	for _, m := range opts.Mounts {
		mounts = append(mounts, Mount{Prefix: "/" + strings.Trim(m.Prefix, "/"), Dir: m.Dir})
	}
	// Longest prefix wins
	sort.Slice(mounts, func(i, j int) bool { return len(mounts[i].Prefix) > len(mounts[j].Prefix) })

	r := &Resolver{
		mounts:   mounts,
		s3:       opts.S3,
		maxBytes: opts.MaxBytes,
		remote:   make(map[string]bool, len(opts.RemoteHosts)),
		logger:   logger,
	}
	for _, host := range opts.RemoteHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			r.remote[host] = true
		}
	}
	if opts.HTTP != nil {
		client := *opts.HTTP
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return r.checkRemote(req.URL.Hostname())
		}
		r.http = &client
	}
	return r
}

// Resolve returns the document's body
func (r *Resolver) Resolve(ctx context.Context, node *models.DocumentNode) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("document: %w", domain.ErrNotFound)
	}
	if node.Content != "" {
		return []byte(node.Content), nil
	}
	if node.URL == "" {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %s has no content", node.ID)}
	}

	u, err := url.Parse(node.URL)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("document %s: invalid url: %v", node.ID, err)}
	}

	var body []byte
	switch u.Scheme {
	case "", "file":
		body, err = r.readLocal(u.Path)
	case "http", "https":
		body, err = r.fetchHTTP(ctx, u)
	case "s3":
		body, err = r.fetchS3(ctx, u)
	default:
		err = &domain.ValidationError{Message: fmt.Sprintf("unsupported url scheme %q", u.Scheme)}
	}
	if err != nil {
		r.logger.Debug("content fetch failed", "doc_id", node.ID, "url", node.URL, "error", err)
		return nil, fmt.Errorf("resolve document %s: %w", node.ID, err)
	}

	r.logger.Debug("content fetched", "doc_id", node.ID, "scheme", u.Scheme, "bytes", len(body))
	return body, nil
}

func (r *Resolver) readLocal(urlPath string) ([]byte, error) {
	clean := path.Clean("/" + urlPath)
	for _, m := range r.mounts {
		if clean != m.Prefix && !strings.HasPrefix(clean, m.Prefix+"/") {
			continue
		}
		rel := strings.TrimPrefix(clean, m.Prefix)
		f, err := os.Open(filepath.Join(m.Dir, filepath.FromSlash(rel)))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", urlPath)}
			}
			return nil, err
		}
		defer f.Close()
		return r.readLimited(f)
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("no mount serves %s", urlPath)}
}

func (r *Resolver) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	if r.http == nil {
		return nil, &domain.ValidationError{Message: "http fetching is disabled"}
	}
	if err := r.checkRemote(u.Hostname()); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("%s not found", u.Redacted())}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: unexpected status %d", u.Redacted(), resp.StatusCode)
	}
	return r.readLimited(resp.Body)
}

func (r *Resolver) fetchS3(ctx context.Context, u *url.URL) ([]byte, error) {
	if r.s3 == nil {
		return nil, &domain.ValidationError{Message: "s3 fetching is not configured"}
	}
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("s3 url %s needs a bucket and a key", u)}
	}

	if err := r.checkRemote(bucket); err != nil {
		return nil, err
	}

	out, err := r.s3.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	return r.readLimited(out.Body)
}

func (r *Resolver) checkRemote(host string) error {
	if !r.remote[strings.ToLower(host)] {
		return &domain.ValidationError{Message: fmt.Sprintf("fetching from %q is not allowed", host)}
	}
	return nil
}

func (r *Resolver) readLimited(rd io.Reader) ([]byte, error) {
	if r.maxBytes <= 0 {
		return io.ReadAll(rd)
	}
	body, err := io.ReadAll(io.LimitReader(rd, r.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > r.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, r.maxBytes)
	}
	return body, nil
}
