package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wayfarer/internal/logging"
	"wayfarer/internal/planner"
	"wayfarer/internal/schedule"
	"wayfarer/internal/trip"
)

// Stage is a session's position in the planning lifecycle.
type Stage string

const (
	// StageFirstGeneration requests a full itinerary build.
	StageFirstGeneration Stage = "first_generation"

	// StageModify requests an incremental edit of an existing itinerary.
	// Not implemented; requests fail fast rather than degrade.
	StageModify Stage = "modify"

	// StageEnd marks a completed session.
	StageEnd Stage = "end"
)

// ErrUnsupportedStage is returned for stages the engine recognizes but
// does not implement.
var ErrUnsupportedStage = errors.New("unsupported session stage")

// Runner abstracts the planning pipeline for the manager.
type Runner interface {
	Run(ctx context.Context, profile *trip.Profile) (*planner.Result, error)
}

// Request is one stage-routed planning request.
type Request struct {
	// SessionID continues an existing session; empty starts a new one.
	SessionID string

	Stage   Stage
	Profile *trip.Profile

	// Reset discards the session's accumulated schedule before routing.
	Reset bool
}

// Manager routes requests to the planning pipeline and persists the
// resulting session state.
type Manager struct {
	store  *Store
	runner Runner
}

// NewManager builds a Manager over a session store and a planner.
func NewManager(store *Store, runner Runner) *Manager {
	return &Manager{store: store, runner: runner}
}

// Handle routes one request by stage and returns the updated session.
func (m *Manager) Handle(ctx context.Context, req Request) (*Record, error) {
	log := logging.Get(logging.CategorySession)

	id := req.SessionID
	if id == "" {
		id = uuid.NewString()
		log.Info("starting session %s", id)
	}

	rec, err := m.store.Load(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &Record{ID: id, Stage: req.Stage}
	}

	if req.Reset && len(rec.Items) > 0 {
		rec.Items = schedule.Merge(rec.Items, []trip.ScheduleItem{schedule.Reset})
		if err := m.store.Save(rec); err != nil {
			return nil, err
		}
		log.Info("session %s schedule reset", id)
	}

	switch req.Stage {
	case StageFirstGeneration:
		if req.Profile == nil {
			return nil, fmt.Errorf("session %s: a trip profile is required", id)
		}
		result, err := m.runner.Run(ctx, req.Profile)
		if result != nil && errors.Is(err, planner.ErrValidationDiverged) {
			// The run carries its best-so-far schedule; persist it so the
			// session can be inspected, but leave the stage untouched and
			// surface the failure.
			rec.Items = result.Items
			rec.Findings = result.Findings
			if saveErr := m.store.Save(rec); saveErr != nil {
				return nil, saveErr
			}
			log.Warn("session %s saved %d unvalidated items", id, len(rec.Items))
			return nil, fmt.Errorf("session %s: %w", id, err)
		}
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", id, err)
		}
		rec.Items = result.Items
		rec.Findings = result.Findings
		rec.Stage = StageEnd
		if err := m.store.Save(rec); err != nil {
			return nil, err
		}
		log.Info("session %s planned %d items", id, len(rec.Items))
		return rec, nil

	case StageModify:
		return nil, fmt.Errorf("session %s: stage %q: %w", id, req.Stage, ErrUnsupportedStage)

	case StageEnd:
		// Completed sessions are read back as-is.
		return rec, nil

	default:
		return nil, fmt.Errorf("session %s: unknown stage %q", id, req.Stage)
	}
}
