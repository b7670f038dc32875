package mediahost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/marwyg/annotation-tool/internal/pkg/ctxutil"
	"github.com/marwyg/annotation-tool/internal/pkg/envutil"
	"github.com/marwyg/annotation-tool/internal/platform/logger"
)

// Client talks to the host platform's media package endpoint and evaluates
// the ACLs it returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	baseURL := envutil.String("MEDIAHOST_BASE_URL", "http://localhost:8085")
	timeout := envutil.Int("MEDIAHOST_TIMEOUT_SECONDS", 10)
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		log:        log.With("client", "MediaHostClient"),
	}
}

func (c *Client) FindMediaPackage(ctx context.Context, extID string) (*MediaPackage, error) {
	reqURL := fmt.Sprintf("%s/api/mediapackages/%s", c.baseURL, url.PathEscape(extID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media package lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var mp MediaPackage
		if err := json.NewDecoder(resp.Body).Decode(&mp); err != nil {
			return nil, fmt.Errorf("decoding media package: %w", err)
		}
		return &mp, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("media package lookup returned status %d", resp.StatusCode)
	}
}

func (c *Client) HasAction(ctx context.Context, principal *ctxutil.Principal, mp *MediaPackage, action string) bool {
	return EvaluateACL(principal, mp, action)
}

// EvaluateACL grants an action when the principal is a host admin, appears
// in the action's grant list, or the list contains the wildcard role.
func EvaluateACL(principal *ctxutil.Principal, mp *MediaPackage, action string) bool {
	if principal == nil || mp == nil {
		return false
	}
	if principal.Admin {
		return true
	}
	for _, grant := range mp.ACL[action] {
		if grant == "*" || grant == principal.ExtID {
			return true
		}
	}
	return false
}
