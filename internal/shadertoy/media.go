package shadertoy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"linux-shadertoy/internal/utils"
)

var mediaLog = utils.NewLogger("Media")

// MediaFetcher loads the media referenced by inputs. Site-relative paths
// ("/media/a/...") are resolved against Host, "file://" URLs and plain paths
// are read from disk, relative paths against Dir.
type MediaFetcher struct {
	Host string
	Dir  string
	HTTP *http.Client

	UseCache bool
}

func NewMediaFetcher(host string) *MediaFetcher {
	return &MediaFetcher{
		Host: host,
		HTTP: &http.Client{Timeout: 60 * time.Second},
	}
}

// Resolve turns an input source into a fetchable location.
func (f *MediaFetcher) Resolve(src string) string {
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	case strings.HasPrefix(src, "file://"):
		return strings.TrimPrefix(src, "file://")
	case strings.HasPrefix(src, "/media/"), strings.HasPrefix(src, "/presets/"):
		host := f.Host
		if host == "" {
			host = DefaultHost
		}
		return strings.TrimRight(host, "/") + src
	case filepath.IsAbs(src) || f.Dir == "":
		return src
	}
	return filepath.Join(f.Dir, src)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch returns the bytes behind src.
func (f *MediaFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	location := f.Resolve(src)
	if location == "" {
		return nil, fmt.Errorf("media: empty source")
	}

	if !isRemote(location) {
		return os.ReadFile(location)
	}

	if f.UseCache {
		if data, ok := utils.ReadCached("media", location); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}

	httpClient := f.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	mediaLog.Debug("GET %s", location)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("media: fetch %s: unexpected status %s", location, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("media: read %s: %w", location, err)
	}

	if f.UseCache {
		utils.WriteCached("media", location, data)
	}
	return data, nil
}
