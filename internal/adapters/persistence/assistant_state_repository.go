package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/assistant"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/route"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// GormAssistantStateRepository implements assistant.Repository using GORM
type GormAssistantStateRepository struct {
	db     *gorm.DB
	clock  shared.Clock
	logger *slog.Logger
}

var _ assistant.Repository = (*GormAssistantStateRepository)(nil)

// NewGormAssistantStateRepository creates a new state repository.
// If clock is nil, uses RealClock; if logger is nil, uses slog.Default.
func NewGormAssistantStateRepository(db *gorm.DB, clock shared.Clock, logger *slog.Logger) *GormAssistantStateRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GormAssistantStateRepository{db: db, clock: clock, logger: logger}
}

// Load returns the saved state, or a fresh one when nothing was saved yet
func (r *GormAssistantStateRepository) Load(ctx context.Context) (assistant.State, error) {
	var model AssistantStateModel
	result := r.db.WithContext(ctx).Where("id = ?", assistantStateID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return assistant.NewState(), nil
		}
		return assistant.State{}, fmt.Errorf("failed to load assistant state: %w", result.Error)
	}

	return r.modelToState(&model), nil
}

// Save upserts the state row
func (r *GormAssistantStateRepository) Save(ctx context.Context, state assistant.State) error {
	model, err := r.stateToModel(state)
	if err != nil {
		return fmt.Errorf("failed to convert assistant state to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save assistant state: %w", err)
	}
	return nil
}

func (r *GormAssistantStateRepository) stateToModel(state assistant.State) (*AssistantStateModel, error) {
	model := &AssistantStateModel{
		ID:                assistantStateID,
		CommanderName:     state.CommanderName,
		CurrentSystem:     state.CurrentSystem,
		ShipRange:         state.ShipRange,
		ShipMaxRange:      state.ShipMaxRange,
		ShipBuild:         string(state.ShipBuild),
		Loadout:           string(state.Loadout),
		LastKnownPosition: state.Progression.LastKnownPosition,
		LastCopiedSystem:  state.Progression.LastCopiedSystem,
		Status:            string(state.Status),
		Revision:          state.Revision,
		UpdatedAt:         r.clock.Now(),
	}

	if state.HasRoute() {
		records, err := state.Route.Records()
		if err != nil {
			return nil, err
		}
		model.RouteKind = state.Route.Kind().String()
		model.RouteRecords = string(records)
	}
	return model, nil
}

func (r *GormAssistantStateRepository) modelToState(model *AssistantStateModel) assistant.State {
	state := assistant.State{
		CommanderName: model.CommanderName,
		CurrentSystem: model.CurrentSystem,
		ShipRange:     model.ShipRange,
		ShipMaxRange:  model.ShipMaxRange,
		Progression: route.ProgressionState{
			LastKnownPosition: model.LastKnownPosition,
			LastCopiedSystem:  model.LastCopiedSystem,
		},
		Outcome:  route.Unknown(),
		Status:   assistant.Status(model.Status),
		Revision: model.Revision,
	}
	if state.Status == "" {
		state.Status = assistant.StatusStopped
	}
	if model.ShipBuild != "" {
		state.ShipBuild = json.RawMessage(model.ShipBuild)
	}
	if model.Loadout != "" {
		state.Loadout = json.RawMessage(model.Loadout)
	}

	if model.RouteKind != "" {
		decoded, err := route.Decode(model.RouteKind, json.RawMessage(model.RouteRecords))
		if err != nil {
			r.logger.Warn("dropping unreadable stored route", "kind", model.RouteKind, "error", err)
			state.ClearRoute()
		} else {
			state.Route = decoded
		}
	}
	return state
}
