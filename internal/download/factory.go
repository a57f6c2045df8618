// file: internal/download/factory.go
// version: 1.0.0
// guid: f70b163d-39de-4aee-829d-80b07c9f8ef7

package download

import (
	"encoding/json"
	"time"

	"github.com/svetakrava/chorrosion/internal/clienterr"
)

// Config selects and configures one download agent.
type Config struct {
	Type     string `mapstructure:"type" json:"type"`
	BaseURL  string `mapstructure:"base_url" json:"base_url"`
	Username string `mapstructure:"username" json:"username,omitempty"`
	Password string `mapstructure:"password" json:"password,omitempty"`

	MaxConcurrent  int           `mapstructure:"max_concurrent" json:"max_concurrent,omitempty"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout,omitempty"`
}

// NewClient builds the adapter for the configured agent type.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Type {
	case "qbittorrent":
		return NewQBittorrentClient(QBittorrentOptions{
			BaseURL:        cfg.BaseURL,
			Username:       cfg.Username,
			Password:       cfg.Password,
			MaxConcurrent:  cfg.MaxConcurrent,
			RequestTimeout: cfg.RequestTimeout,
		})
	case "":
		return nil, clienterr.Parameter("download client type not configured")
	default:
		return nil, clienterr.Parameter("unsupported download client type %q", cfg.Type)
	}
}

func decodeJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return clienterr.Deserialization(err)
	}
	return nil
}
