package events

import (
	"encoding/json"
	"sync"

	"github.com/kingsholm/duel-server/internal/game"
	"github.com/kingsholm/duel-server/internal/logging"
)

// EventWriter is the transport side of one subscription. Satisfied by
// *websocket.Conn; tests substitute a recorder.
type EventWriter interface {
	WriteJSON(v interface{}) error
	Close() error
}

// OutMessage is what a participant receives for each match event: the event
// itself plus a full snapshot from that participant's perspective.
type OutMessage struct {
	Type     string                 `json:"type"`
	Seq      uint64                 `json:"seq"`
	Detail   map[string]interface{} `json:"detail"`
	Snapshot *game.Snapshot         `json:"snapshot"`
}

// EventStore is the slice of the repository the hub needs for replay.
type EventStore interface {
	GetEventsAfter(matchID uint, afterSeq uint64) ([]game.Event, error)
}

type subscriber struct {
	matchID    uint
	playerUUID string
	send       chan OutMessage
	conn       EventWriter
}

// Hub fans match events out to connected participants. Delivery per match
// is strictly ordered: replay and live publication both happen under the
// hub mutex, and each subscriber drains a single FIFO channel. Reconnecting
// with the last seen seq replays everything newer from the outbox, which
// gives at-least-once delivery.
type Hub struct {
	mu    sync.Mutex
	subs  map[uint]map[*subscriber]struct{}
	store EventStore
	rules *game.Rules
}

func NewHub(store EventStore, rules *game.Rules) *Hub {
	return &Hub{
		subs:  make(map[uint]map[*subscriber]struct{}),
		store: store,
		rules: rules,
	}
}

// Publish implements service.Broadcaster. Called after the state mutation
// that produced the events has been persisted.
func (h *Hub) Publish(m *game.Match, evs []game.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[m.ID] {
		for i := range evs {
			h.enqueue(sub, m, &evs[i])
		}
	}
}

// Subscribe registers a connection for a match's events and replays the
// outbox from afterSeq. The caller must have verified the viewer is a
// participant. The replay query runs under the hub mutex so nothing
// published concurrently can slot in between replayed and live events.
func (h *Hub) Subscribe(m *game.Match, playerUUID string, conn EventWriter, afterSeq uint64) {
	sub := &subscriber{
		matchID:    m.ID,
		playerUUID: playerUUID,
		send:       make(chan OutMessage, 64),
		conn:       conn,
	}

	h.mu.Lock()
	backlog, err := h.store.GetEventsAfter(m.ID, afterSeq)
	if err != nil {
		logging.Error("event replay failed", err, logging.Fields{"match_id": m.ID})
	}
	for i := range backlog {
		h.enqueue(sub, m, &backlog[i])
	}
	if h.subs[m.ID] == nil {
		h.subs[m.ID] = make(map[*subscriber]struct{})
	}
	h.subs[m.ID][sub] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(sub)
}

func (h *Hub) writeLoop(sub *subscriber) {
	for msg := range sub.send {
		if err := sub.conn.WriteJSON(msg); err != nil {
			h.drop(sub)
			return
		}
	}
	_ = sub.conn.Close()
}

// enqueue composes the per-viewer message and queues it. A subscriber whose
// buffer is full is dropped; the client reconnects and replays, which is
// cheaper than letting one stalled socket block a match.
func (h *Hub) enqueue(sub *subscriber, m *game.Match, ev *game.Event) {
	msg := OutMessage{
		Type:     ev.Type,
		Seq:      ev.Seq,
		Detail:   perspectiveDetail(ev.Payload, sub.playerUUID),
		Snapshot: game.BuildSnapshot(m, sub.playerUUID, h.rules),
	}
	select {
	case sub.send <- msg:
	default:
		go h.drop(sub)
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[sub.matchID]; ok {
		if _, present := set[sub]; present {
			delete(set, sub)
			close(sub.send)
		}
		if len(set) == 0 {
			delete(h.subs, sub.matchID)
		}
	}
	h.mu.Unlock()
	_ = sub.conn.Close()
}

// Unsubscribe removes a connection, e.g. when its read side closes.
func (h *Hub) Unsubscribe(matchID uint, conn EventWriter) {
	h.mu.Lock()
	var found *subscriber
	for sub := range h.subs[matchID] {
		if sub.conn == conn {
			found = sub
			break
		}
	}
	h.mu.Unlock()
	if found != nil {
		h.drop(found)
	}
}

// perspectiveDetail decodes a stored neutral payload and re-keys player
// references for the viewer: any "*_uuid" field holding a participant UUID
// becomes a "you"/"opponent" label under the key without the suffix. Raw
// player-keyed data never reaches a client.
func perspectiveDetail(payload, viewerUUID string) map[string]interface{} {
	detail := map[string]interface{}{}
	if payload != "" {
		_ = json.Unmarshal([]byte(payload), &detail)
	}
	for k, v := range detail {
		uuid, ok := v.(string)
		if !ok || len(k) <= len("_uuid") || k[len(k)-len("_uuid"):] != "_uuid" {
			continue
		}
		label := "opponent"
		if uuid == viewerUUID {
			label = "you"
		}
		delete(detail, k)
		detail[k[:len(k)-len("_uuid")]] = label
	}
	return detail
}
