// Package ocpp describes the OCPP 1.6 actions the console can dispatch and
// the per-operator history of those dispatches. Protocol semantics live in
// the backend; this package only names actions and shapes their parameters.
package ocpp

import "time"

// History entry statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Action is a dispatchable OCPP call.
type Action struct {
	Name        string
	Description string
	// ParamHints names the parameters the console's command form offers
	// for this action, in display order.
	ParamHints []string
}

// Catalog lists every action the diagnose console offers, in menu order.
var Catalog = []Action{
	{Name: "Reset", Description: "Restart the charge point (Soft or Hard)", ParamHints: []string{"type"}},
	{Name: "ChangeAvailability", Description: "Set a connector Operative or Inoperative", ParamHints: []string{"connectorId", "type"}},
	{Name: "GetConfiguration", Description: "Read configuration keys (empty = all)", ParamHints: []string{"key"}},
	{Name: "ChangeConfiguration", Description: "Write one configuration key", ParamHints: []string{"key", "value"}},
	{Name: "RemoteStartTransaction", Description: "Start charging for an idTag", ParamHints: []string{"connectorId", "idTag"}},
	{Name: "RemoteStopTransaction", Description: "Stop a running transaction", ParamHints: []string{"transactionId"}},
	{Name: "GetDiagnostics", Description: "Upload diagnostics to a URL", ParamHints: []string{"location"}},
	{Name: "UpdateFirmware", Description: "Fetch and install a firmware image", ParamHints: []string{"location", "retrieveDate"}},
	{Name: "FirmwareStatusNotification", Description: "Report firmware install status", ParamHints: []string{"status"}},
	{Name: "GetLocalListVersion", Description: "Read the local authorization list version"},
	{Name: "SetChargingProfile", Description: "Install a charging profile on a connector", ParamHints: []string{"connectorId", "csChargingProfiles"}},
	{Name: "ClearChargingProfile", Description: "Remove charging profiles (0 = all)", ParamHints: []string{"id"}},
	{Name: "GetCompositeSchedule", Description: "Read the composite schedule horizon", ParamHints: []string{"connectorId", "duration"}},
}

// KnownAction reports whether name is in the catalog.
func KnownAction(name string) bool {
	for _, a := range Catalog {
		if a.Name == name {
			return true
		}
	}
	return false
}

// HistoryEntry is one dispatched command as shown in the diagnose console.
type HistoryEntry struct {
	ID          string         `json:"id"`
	ChargePoint int            `json:"charge_point"`
	Action      string         `json:"action"`
	Params      map[string]any `json:"params,omitempty"`
	Status      string         `json:"status"`
	Response    string         `json:"response,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
