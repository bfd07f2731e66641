// Package meeting coordinates presence and WebRTC signaling for team meetings.
//
// Everything that touches room state runs on one goroutine, the Hub loop
// started by Run. Transports feed it through Register, Unregister and Dispatch;
// the loop applies those events strictly in arrival order, so a join is fully
// recorded in the registry before any peer is told about it.
package meeting

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mossy-p/meeting-signaling/internal/models"
	"github.com/mossy-p/meeting-signaling/internal/registry"
)

const (
	defaultQueueSize     = 1024
	defaultEmptyRoomTTL  = 10 * time.Minute
	defaultSweepInterval = time.Minute
)

var ErrStopped = errors.New("meeting hub stopped")

// Peer is a live transport the hub can push frames to. Deliver must not block;
// it reports false when the frame was dropped.
type Peer interface {
	Handle() string
	Deliver(f models.Frame) bool
}

// Options configures a Hub. Zero values pick the defaults.
type Options struct {
	Logger        *zerolog.Logger
	EmptyRoomTTL  time.Duration
	SweepInterval time.Duration
	QueueSize     int
}

// Hub owns the room registry, the room broadcast channels and the set of live
// transports.
type Hub struct {
	registry *registry.Registry
	channels *channels
	peers    map[string]Peer

	events chan event
	done   chan struct{}

	emptyRoomTTL  time.Duration
	sweepInterval time.Duration

	logger zerolog.Logger
}

func NewHub(reg *registry.Registry, opts Options) *Hub {
	if reg == nil {
		reg = registry.New()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.EmptyRoomTTL <= 0 {
		opts.EmptyRoomTTL = defaultEmptyRoomTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	return &Hub{
		registry:      reg,
		channels:      newChannels(),
		peers:         make(map[string]Peer),
		events:        make(chan event, opts.QueueSize),
		done:          make(chan struct{}),
		emptyRoomTTL:  opts.EmptyRoomTTL,
		sweepInterval: opts.SweepInterval,
		logger:        logger.With().Str("component", "meeting-hub").Logger(),
	}
}

// Run processes events until ctx is cancelled. It must be started exactly once.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.sweepInterval)
	defer func() {
		ticker.Stop()
		close(h.done)
		h.logger.Debug().Msg("hub stopped")
	}()

	h.logger.Info().
		Dur("emptyRoomTTL", h.emptyRoomTTL).
		Dur("sweepInterval", h.sweepInterval).
		Msg("hub started")

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.events:
			ev.apply(h)
		case <-ticker.C:
			h.sweep()
		}
	}
}

// Register adds a freshly opened transport in the CONNECTED state.
func (h *Hub) Register(p Peer) error {
	return h.enqueue(context.Background(), registerEvent{peer: p})
}

// Unregister reports a closed transport. Safe to call more than once.
func (h *Hub) Unregister(handle string) {
	_ = h.enqueue(context.Background(), unregisterEvent{handle: handle})
}

// Dispatch hands a decoded client event to the loop.
func (h *Hub) Dispatch(handle string, ev models.Event, payload any) error {
	return h.enqueue(context.Background(), inboundEvent{handle: handle, event: ev, payload: payload})
}

// StartMeeting opens (or resets) the room of m.TeamID and announces it.
func (h *Hub) StartMeeting(ctx context.Context, m models.Meeting) error {
	return h.call(ctx, func() { h.meetingStarted(m) })
}

// EndMeeting announces the end of m and drops its room.
func (h *Hub) EndMeeting(ctx context.Context, m models.Meeting) error {
	return h.call(ctx, func() { h.meetingEnded(m) })
}

// Snapshot returns the current participants of roomID.
func (h *Hub) Snapshot(ctx context.Context, roomID string) ([]models.Participant, error) {
	var snap []models.Participant
	err := h.call(ctx, func() { snap = h.registry.Snapshot(roomID) })
	return snap, err
}

func (h *Hub) call(ctx context.Context, fn func()) error {
	reply := make(chan struct{})
	if err := h.enqueue(ctx, callEvent{fn: fn, reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrStopped
	}
}

func (h *Hub) enqueue(ctx context.Context, ev event) error {
	select {
	case <-h.done:
		return ErrStopped
	default:
	}
	select {
	case h.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrStopped
	}
}

func (h *Hub) register(p Peer) {
	handle := p.Handle()
	if _, exists := h.peers[handle]; exists {
		h.logger.Warn().Str("socketId", handle).Msg("handle registered twice, replacing transport")
	}
	h.peers[handle] = p
	h.send(handle, models.EventConnected, models.Connected{SocketID: handle})
	h.logger.Debug().Str("socketId", handle).Int("connections", len(h.peers)).Msg("transport connected")
}

func (h *Hub) unregister(handle string) {
	if _, ok := h.peers[handle]; !ok {
		return
	}
	delete(h.peers, handle)
	h.channels.unsubscribeAll(handle)
	h.leave(handle)
	h.logger.Debug().Str("socketId", handle).Int("connections", len(h.peers)).Msg("transport disconnected")
}

func (h *Hub) sweep() {
	for _, roomID := range h.registry.Sweep(h.emptyRoomTTL) {
		h.logger.Debug().Str("roomId", roomID).Msg("swept empty room")
	}
}

// send delivers one frame to handle. Unknown handles are dropped silently.
func (h *Hub) send(handle string, ev models.Event, data any) bool {
	p, ok := h.peers[handle]
	if !ok {
		h.logger.Debug().Str("socketId", handle).Str("event", string(ev)).Msg("no live transport, frame dropped")
		return false
	}
	if !p.Deliver(models.Frame{Event: ev, Data: data}) {
		h.logger.Warn().Str("socketId", handle).Str("event", string(ev)).Msg("send buffer full, frame dropped")
		return false
	}
	return true
}

// broadcast sends to every transport subscribed to roomID except skip.
func (h *Hub) broadcast(roomID string, ev models.Event, data any, skip string) int {
	sent := 0
	for _, handle := range h.channels.members(roomID) {
		if handle == skip {
			continue
		}
		if h.send(handle, ev, data) {
			sent++
		}
	}
	return sent
}

func (h *Hub) publishSnapshot(roomID, skip string) {
	h.broadcast(roomID, models.EventParticipantsUpdated, models.Views(h.registry.Snapshot(roomID)), skip)
}
