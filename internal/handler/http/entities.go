package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, kind, err := requestScope(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entities, err := h.services.EntityService.ListEntities(r.Context(), userID, kind)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listEntities").Str("entity_kind", kind.String()).Msg("error listing entities")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.EntityListResponse{Entities: entities, Length: len(entities)}, http.StatusOK)
}

func (h *Handler) createEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, kind, err := requestScope(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := decodePayload(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createEntity").Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	created, err := h.services.EntityService.CreateEntity(r.Context(), userID, kind, payload.Attributes)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createEntity").Str("entity_kind", kind.String()).Msg("error creating entity")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, kind, err := requestScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	payload, err := decodePayload(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateEntity").Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	updated, err := h.services.EntityService.UpdateEntity(r.Context(), userID, kind, id, payload.Attributes)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateEntity").Str("entity_kind", kind.String()).Str("entity_id", id).Msg("error updating entity")
		writeError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, kind, err := requestScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	if err = h.services.EntityService.DeleteEntity(r.Context(), userID, kind, id); err != nil {
		log.Err(err).Str("func", "*Handler.deleteEntity").Str("entity_kind", kind.String()).Str("entity_id", id).Msg("error deleting entity")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requestScope returns the authenticated user and the entity kind of the
// route.
func requestScope(r *http.Request) (string, models.EntityKind, error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return "", "", ErrMissingUser
	}

	kind, err := models.ParseEntityKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", "", err
	}

	return userID, kind, nil
}

func decodePayload(r *http.Request) (models.EntityPayload, error) {
	var payload models.EntityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return models.EntityPayload{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return payload, nil
}
