package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reliefmap/relief-camps/internal/model"
	"github.com/reliefmap/relief-camps/internal/queue"
)

// CampStore persists camp documents.  *repository.CampRepo implements it.
type CampStore interface {
	Insert(ctx context.Context, camp *model.Camp) (string, error)
}

// CampEventPublisher announces stored camps.  *queue_publisher.Publisher
// implements it.
type CampEventPublisher interface {
	PublishCampCreated(ctx context.Context, ev queue.CampCreatedEvent) error
}

// publishTimeout bounds a single best-effort event publish.
const publishTimeout = 10 * time.Second

// CampHandler serves the camp endpoints.  A nil store means the process was
// started without a document store; a nil publisher disables events.
type CampHandler struct {
	store  CampStore
	events CampEventPublisher
	now    func() time.Time
}

// NewCampHandler constructs a CampHandler.  Pass an untyped nil store when
// no store is configured.
func NewCampHandler(store CampStore, events CampEventPublisher) *CampHandler {
	return &CampHandler{store: store, events: events, now: time.Now}
}

// StoreAvailable reports whether camps can be persisted.
func (h *CampHandler) StoreAvailable() bool {
	return h.store != nil
}

// CreateCamp handles POST /api/camps.  It validates the body, shapes a camp
// document, inserts it once and answers 201 with the generated id.
func (h *CampHandler) CreateCamp(c echo.Context) error {
	if !h.StoreAvailable() {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server not configured with MONGO_URI"})
	}

	body, err := io.ReadAll(c.Request().Body)
	var he *echo.HTTPError
	if errors.As(err, &he) { // body limit exceeded mid-stream
		return he
	}
	p := decodePayload(body) // read errors leave a partial body, which decodes to empty

	if missing := p.missingFields(); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Missing fields", "fields": missing})
	}
	camp, invalid := p.toCamp()
	if len(invalid) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid fields", "fields": invalid})
	}

	id, err := h.store.Insert(c.Request().Context(), camp)
	if err != nil {
		c.Logger().Errorf("create camp: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create camp"})
	}

	if h.events != nil {
		go h.publishCreated(id, camp)
	}
	return c.JSON(http.StatusCreated, map[string]any{"ok": true, "id": id})
}

// publishCreated sends the camp.created event detached from the request.
// Failures are ignored here.
func (h *CampHandler) publishCreated(id string, camp *model.Camp) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	ev := queue.CampCreatedEvent{
		CampID:      id,
		Name:        camp.Name,
		Type:        camp.Type,
		District:    camp.District,
		City:        camp.City,
		MaxCapacity: camp.MaxCapacity,
		Amenities:   camp.Amenities,
		Lng:         camp.Location.Lng(),
		Lat:         camp.Location.Lat(),
		CreatedBy:   camp.CreatedBy,
		CreatedAt:   h.now().UTC().Format(time.RFC3339),
	}
	_ = h.events.PublishCampCreated(ctx, ev) // the publisher logs its own failures
}
