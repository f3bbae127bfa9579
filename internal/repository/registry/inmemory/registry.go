// Package inmemory holds the room registry: a process-lifetime map of
// room key to member sessions. Nothing here is persisted; a restart
// empties every room and clients reconnect.
package inmemory

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/studyroom/server/internal/repository/registry"
)

const defaultQueueSize = 16

type Registry struct {
	logger    *slog.Logger
	queueSize int

	mu          sync.RWMutex
	rooms       map[string]map[registry.Session]struct{}
	sessionRoom map[registry.Session]string
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:      logger,
		queueSize:   defaultQueueSize,
		rooms:       make(map[string]map[registry.Session]struct{}),
		sessionRoom: make(map[registry.Session]string),
	}
}

// NewSession creates an unattached session. It joins a room only via
// AddMember.
func (r *Registry) NewSession() *Session {
	return newSession(r.queueSize)
}

// AddMember inserts session into roomId, creating the room on first
// join. A session belongs to at most one room: joining a new room
// removes it from the previous one first. Re-adding to the same room is
// a no-op.
func (r *Registry) AddMember(roomId string, session registry.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessionRoom[session]; ok {
		if prev == roomId {
			return
		}
		r.removeLocked(prev, session)
	}

	members, ok := r.rooms[roomId]
	if !ok {
		members = make(map[registry.Session]struct{})
		r.rooms[roomId] = members
	}
	members[session] = struct{}{}
	r.sessionRoom[session] = roomId

	r.logger.Debug("member added", "room_id", roomId, "session_id", session.ID(), "members", len(members))
}

// RemoveMember removes session from roomId. The room entry is deleted
// as soon as its member set empties; rooms hold no other state.
func (r *Registry) RemoveMember(roomId string, session registry.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(roomId, session)
}

// RemoveSession removes session from whichever room it is in, if any,
// and closes its queue. Used on disconnect, when the caller does not
// know the room.
func (r *Registry) RemoveSession(session registry.Session) {
	r.mu.Lock()
	if roomId, ok := r.sessionRoom[session]; ok {
		r.removeLocked(roomId, session)
	}
	r.mu.Unlock()

	session.Close()
}

// SessionRoom reports the room the session currently belongs to.
func (r *Registry) SessionRoom(session registry.Session) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.sessionRoom[session]
	if !ok {
		return "", registry.ErrNotFound
	}

	return roomId, nil
}

// Broadcast delivers msg to every member of roomId except sender. An
// unknown room is a silent no-op: a late event for a room nobody is in
// is dropped, not an error. One member's dead queue never blocks or
// aborts delivery to the rest.
func (r *Registry) Broadcast(roomId string, sender registry.Session, msg registry.Message) {
	r.mu.RLock()
	members, ok := r.rooms[roomId]
	if !ok {
		r.mu.RUnlock()
		return
	}

	targets := make([]registry.Session, 0, len(members))
	for member := range members {
		if member != sender {
			targets = append(targets, member)
		}
	}
	r.mu.RUnlock()

	for _, target := range targets {
		if err := target.Send(msg); err != nil {
			if errors.Is(err, registry.ErrSessionClosed) {
				r.logger.Debug("skipping closed session", "room_id", roomId, "session_id", target.ID())
				continue
			}
			r.logger.Warn("failed to send to session", "room_id", roomId, "session_id", target.ID(), "error", err)
		}
	}
}

// MembersCount reports the current member count of roomId.
func (r *Registry) MembersCount(roomId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[roomId])
}

func (r *Registry) removeLocked(roomId string, session registry.Session) {
	members, ok := r.rooms[roomId]
	if !ok {
		return
	}

	if _, ok := members[session]; !ok {
		return
	}

	delete(members, session)
	delete(r.sessionRoom, session)
	if len(members) == 0 {
		delete(r.rooms, roomId)
	}

	r.logger.Debug("member removed", "room_id", roomId, "session_id", session.ID(), "members", len(members))
}
