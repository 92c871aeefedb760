package keys

import (
	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

// NewKeyService selects a [KeyService] implementation from configuration:
// remote when a remote address is configured, local otherwise.
func NewKeyService(cfg config.Keys, log *logger.Logger) (KeyService, error) {
	if cfg.RemoteAddress != "" {
		log.Info().
			Str("func", "NewKeyService").
			Str("address", cfg.RemoteAddress).
			Msg("using remote key service")
		return NewRemoteKeyService(cfg, log), nil
	}

	return NewLocalKeyService(cfg, log)
}
