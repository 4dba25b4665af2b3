package artifacts

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
)

// ServerStore pushes the report bundle to an HTTP report server, one POST
// per artifact. Retries and timeouts come from the shared resty client
// configuration.
type ServerStore struct {
	client  *resty.Client
	baseURL string
	logger  hclog.Logger
}

// NewServerStore creates a store posting to baseURL/<bundleName>/<artifact>.
func NewServerStore(client *resty.Client, baseURL string, logger hclog.Logger) *ServerStore {
	return &ServerStore{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Name implements Store.
func (s *ServerStore) Name() string { return "server" }

// Save implements Store.
func (s *ServerStore) Save(ctx context.Context, bundleName string, bundle []Artifact) error {
	for _, artifact := range bundle {
		url := fmt.Sprintf("%s/%s/%s", s.baseURL, bundleName, artifact.Name)
		contentType := mime.TypeByExtension(filepath.Ext(artifact.Name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		resp, err := s.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", contentType).
			SetBody(artifact.Body).
			Post(url)
		if err != nil {
			return fmt.Errorf("failed to upload artifact to %q: %w", url, err)
		}
		if resp.IsError() {
			return fmt.Errorf("report server rejected artifact %q: %s", url, resp.Status())
		}
		s.logger.Debug("artifact uploaded", "url", url)
	}
	s.logger.Info("report bundle uploaded to report server", "server", s.baseURL, "bundle", bundleName, "artifacts", len(bundle))

	return nil
}
