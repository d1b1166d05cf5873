package shadertoy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linux-shadertoy/internal/utils"
)

var clientLog = utils.NewLogger("Client")

const DefaultHost = "https://www.shadertoy.com"

// Client fetches shader definitions from the Shadertoy API.
type Client struct {
	Host   string
	AppKey string
	HTTP   *http.Client

	// UseCache serves definitions from utils.CacheDir when present and stores fetched ones.
	UseCache bool
}

func NewClient(appKey string) *Client {
	return &Client{
		Host:   DefaultHost,
		AppKey: appKey,
		HTTP:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) host() string {
	if c.Host == "" {
		return DefaultHost
	}
	return strings.TrimRight(c.Host, "/")
}

// ShaderURL is the API endpoint for one shader.
func (c *Client) ShaderURL(id string) string {
	return fmt.Sprintf("%s/api/v1/shaders/%s?key=%s", c.host(), url.PathEscape(id), url.QueryEscape(c.AppKey))
}

// Shader fetches and decodes the definition for id.
// An {"Error": ...} reply is returned as an error wrapping ErrAPI.
func (c *Client) Shader(ctx context.Context, id string) (*Definition, error) {
	if id == "" {
		return nil, fmt.Errorf("shadertoy: empty shader id")
	}

	if c.UseCache {
		if data, ok := utils.ReadCached("shaders", id+".json"); ok {
			if def, err := Parse(data); err == nil {
				clientLog.Info("Loaded shader %s from cache", id)
				return def, nil
			}
			clientLog.Warn("Ignoring unreadable cache entry for %s", id)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ShaderURL(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clientLog.Debug("GET %s/api/v1/shaders/%s", c.host(), id)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shadertoy: fetch %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("shadertoy: read %s: %w", id, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("shadertoy: fetch %s: unexpected status %s", id, resp.Status)
	}

	def, err := Parse(body)
	if err != nil {
		return nil, err
	}

	if c.UseCache {
		utils.WriteCached("shaders", id+".json", body)
	}
	clientLog.Info("Loaded shader %s (%q by %s, %d passes)", id, def.Info.Name, def.Info.Username, len(def.RenderPass))
	return def, nil
}
