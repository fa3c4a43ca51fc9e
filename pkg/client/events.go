package client

import (
	"sync"

	"github.com/aerolink/fsdpilot/pkg/fsd"
)

// Handlers is the callback registration surface. All callbacks run on the
// session goroutine, in receive order; a slow callback delays the session.
// Registration is safe from any goroutine.
type Handlers struct {
	mu sync.RWMutex

	stateChange      func(SessionState, error)
	textMessage      func(fsd.TextMessage)
	pilotData        func(fsd.PilotDataUpdate)
	interimPilotData func(fsd.InterimPilotDataUpdate)
	visualPilotData  func(fsd.VisualPilotDataUpdate)
	visualToggle     func(bool)
	atcData          func(fsd.AtcDataUpdate)
	addPilot         func(fsd.AddPilot)
	addAtc           func(fsd.AddAtc)
	deletePilot      func(fsd.DeletePilot)
	deleteAtc        func(fsd.DeleteAtc)
	flightPlan       func(fsd.FlightPlan)
	serverError      func(fsd.ServerError)
	kill             func(fsd.KillRequest)
	mute             func(bool)
	pong             func(fsd.Pong)
	clientQuery      func(fsd.ClientQuery)
	clientResponse   func(fsd.ClientResponse)
	planeInfoRequest func(fsd.PlaneInfoRequest)
	planeInfo        func(fsd.PlaneInformation)
	fsinnInfoRequest func(fsd.PlaneInfoRequestFsinn)
	fsinnInfo        func(fsd.PlaneInformationFsinn)
	customPacket     func(fsd.CustomPilotPacket)
	simData          func(fsd.EuroscopeSimData)
}

func (h *Handlers) OnStateChange(fn func(SessionState, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stateChange = fn
}

func (h *Handlers) OnTextMessage(fn func(fsd.TextMessage)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.textMessage = fn
}

func (h *Handlers) OnPilotDataUpdate(fn func(fsd.PilotDataUpdate)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pilotData = fn
}

func (h *Handlers) OnInterimPilotDataUpdate(fn func(fsd.InterimPilotDataUpdate)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.interimPilotData = fn
}

func (h *Handlers) OnVisualPilotDataUpdate(fn func(fsd.VisualPilotDataUpdate)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visualPilotData = fn
}

// OnVisualDataToggle fires when the server enables or disables fast visual
// updates for this client.
func (h *Handlers) OnVisualDataToggle(fn func(bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visualToggle = fn
}

func (h *Handlers) OnAtcDataUpdate(fn func(fsd.AtcDataUpdate)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.atcData = fn
}

func (h *Handlers) OnAddPilot(fn func(fsd.AddPilot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addPilot = fn
}

func (h *Handlers) OnAddAtc(fn func(fsd.AddAtc)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addAtc = fn
}

func (h *Handlers) OnDeletePilot(fn func(fsd.DeletePilot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletePilot = fn
}

func (h *Handlers) OnDeleteAtc(fn func(fsd.DeleteAtc)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleteAtc = fn
}

func (h *Handlers) OnFlightPlan(fn func(fsd.FlightPlan)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flightPlan = fn
}

func (h *Handlers) OnServerError(fn func(fsd.ServerError)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.serverError = fn
}

func (h *Handlers) OnKill(fn func(fsd.KillRequest)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kill = fn
}

// OnMute fires only for mute changes addressed to the own callsign.
func (h *Handlers) OnMute(fn func(bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mute = fn
}

func (h *Handlers) OnPong(fn func(fsd.Pong)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pong = fn
}

// OnClientQuery receives the queries the session does not answer itself.
func (h *Handlers) OnClientQuery(fn func(fsd.ClientQuery)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clientQuery = fn
}

func (h *Handlers) OnClientResponse(fn func(fsd.ClientResponse)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clientResponse = fn
}

func (h *Handlers) OnPlaneInfoRequest(fn func(fsd.PlaneInfoRequest)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.planeInfoRequest = fn
}

func (h *Handlers) OnPlaneInformation(fn func(fsd.PlaneInformation)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.planeInfo = fn
}

func (h *Handlers) OnPlaneInfoRequestFsinn(fn func(fsd.PlaneInfoRequestFsinn)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fsinnInfoRequest = fn
}

func (h *Handlers) OnPlaneInformationFsinn(fn func(fsd.PlaneInformationFsinn)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fsinnInfo = fn
}

// OnCustomPilotPacket receives #SB sub-messages with unmodeled
// discriminators.
func (h *Handlers) OnCustomPilotPacket(fn func(fsd.CustomPilotPacket)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.customPacket = fn
}

func (h *Handlers) OnEuroscopeSimData(fn func(fsd.EuroscopeSimData)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.simData = fn
}

func fire[T any](h *Handlers, get func(*Handlers) func(T), value T) {
	h.mu.RLock()
	fn := get(h)
	h.mu.RUnlock()
	if fn != nil {
		fn(value)
	}
}
