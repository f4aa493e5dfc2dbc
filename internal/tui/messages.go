package tui

import (
	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/models"
)

// tickMsg re-reads the engine state; background syncs and replays change it
// without the UI asking.
type tickMsg struct{}

type createDoneMsg struct {
	kind   models.EntityKind
	entity models.Entity
	err    error
}

type updateDoneMsg struct {
	kind   models.EntityKind
	entity models.Entity
	err    error
}

type deleteDoneMsg struct {
	kind models.EntityKind
	id   string
	err  error
}

type refreshDoneMsg struct {
	kind     models.EntityKind
	decision service.RefreshDecision
	err      error
}
