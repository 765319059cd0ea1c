package commercetools

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"pizzatools/internal/core/domain/model/state"
)

// StateAdapter implements ports.StateStore against the platform state API.
// A fetch failure degrades to an empty catalog instead of an error: state
// names are display data, and operations that need a specific key resolve it
// against the catalog and fail there.
type StateAdapter struct {
	client *Client
	logger *slog.Logger
}

// NewStateAdapter creates the state store adapter.
func NewStateAdapter(client *Client, logger *slog.Logger) *StateAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateAdapter{client: client, logger: logger}
}

// Load fetches all order-state definitions and builds the catalog.
func (a *StateAdapter) Load(ctx context.Context) (state.Catalog, error) {
	query := url.Values{}
	query.Set("limit", "500")
	query.Set("where", `type = "OrderState"`)

	var page pagedDTO[stateDTO]
	err := a.client.do(ctx, call{
		method:   http.MethodGet,
		path:     "/states",
		query:    query,
		out:      &page,
		resource: "state",
	})
	if err != nil {
		a.logger.Warn("state catalog fetch failed, degrading to empty catalog", "error", err)
		return state.EmptyCatalog(), nil
	}

	definitions := make([]state.State, 0, len(page.Results))
	for _, dto := range page.Results {
		if dto.Type != "OrderState" {
			continue
		}
		def, err := dto.toDomain()
		if err != nil {
			a.logger.Warn("skipping malformed state definition", "key", dto.Key, "error", err)
			continue
		}
		definitions = append(definitions, def)
	}

	return state.NewCatalog(definitions), nil
}
