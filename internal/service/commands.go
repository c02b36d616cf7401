package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voltfleet/cpconsole/internal/csms"
	"github.com/voltfleet/cpconsole/internal/domain/ocpp"
	"github.com/voltfleet/cpconsole/internal/ports"
)

// CommandServiceOptions groups dependencies for CommandService.
type CommandServiceOptions struct {
	Backend *csms.Client
	Log     ports.CommandLog
}

// CommandService dispatches OCPP actions through the backend and records
// each dispatch in the operator's command history.
type CommandService struct {
	backend *csms.Client
	log     ports.CommandLog
}

// NewCommandService constructs a CommandService.
func NewCommandService(opts CommandServiceOptions) *CommandService {
	return &CommandService{backend: opts.Backend, log: opts.Log}
}

// DispatchResult reports one command's outcome back to the page.
type DispatchResult struct {
	Entry   ocpp.HistoryEntry
	Message string
	OK      bool
}

// Dispatch sends one OCPP action to a charge point. The history entry is
// written as pending before the round-trip and finalized afterwards; a
// backend failure marks only this entry and is not an error here, so one
// failed command never takes the console down.
func (s *CommandService) Dispatch(ctx context.Context, token, userID string, cpID int, action string, params map[string]any) (DispatchResult, error) {
	if !ocpp.KnownAction(action) {
		return DispatchResult{}, fmt.Errorf("unknown OCPP action %q", action)
	}
	if params == nil {
		params = map[string]any{}
	}

	entry := ocpp.HistoryEntry{
		ID:          uuid.New().String(),
		ChargePoint: cpID,
		Action:      action,
		Params:      params,
		Status:      ocpp.StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.log.Append(ctx, userID, entry); err != nil {
		return DispatchResult{}, fmt.Errorf("record command: %w", err)
	}

	out, err := s.backend.SendCommand(ctx, token, cpID, csms.CommandRequest{
		Action: action,
		Params: params,
	})
	if err != nil {
		entry.Status = ocpp.StatusError
		entry.Error = err.Error()
		s.finalize(ctx, userID, entry)
		return DispatchResult{
			Entry:   entry,
			Message: fmt.Sprintf("Error: %s", err.Error()),
		}, nil
	}

	entry.Status = ocpp.StatusSuccess
	entry.Response = out.Message()
	s.finalize(ctx, userID, entry)
	return DispatchResult{
		Entry:   entry,
		Message: fmt.Sprintf("%s command sent successfully: %s", action, out.Message()),
		OK:      true,
	}, nil
}

// History returns the operator's recent dispatches, newest first.
func (s *CommandService) History(ctx context.Context, userID string, limit int) ([]ocpp.HistoryEntry, error) {
	return s.log.Recent(ctx, userID, limit)
}

// finalize best-effort updates the pending entry; a history write failure
// must not mask the command outcome.
func (s *CommandService) finalize(ctx context.Context, userID string, entry ocpp.HistoryEntry) {
	_ = s.log.Update(ctx, userID, entry)
}
