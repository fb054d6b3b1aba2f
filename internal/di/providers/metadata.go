package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelflistapp/shelflist-server/internal/config"
	"github.com/shelflistapp/shelflist-server/internal/logger"
	"github.com/shelflistapp/shelflist-server/internal/metadata/openlibrary"
)

// OpenLibraryClientHandle wraps the Open Library client with shutdown capability.
type OpenLibraryClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *OpenLibraryClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideOpenLibraryClient provides the Open Library metadata client.
func ProvideOpenLibraryClient(i do.Injector) (*OpenLibraryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.New(openlibrary.Config{
		BaseURL: cfg.OpenLibrary.BaseURL,
		Timeout: cfg.OpenLibrary.RequestTimeout,
	}, log.Logger)

	log.Info("Open Library client initialized", "base_url", cfg.OpenLibrary.BaseURL)

	return &OpenLibraryClientHandle{Client: client}, nil
}
