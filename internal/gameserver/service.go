package gameserver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/entity"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/room"
)

// CombatService orchestrates room membership and combat encounters. It owns
// the mapping from rooms to sessions and NPC drivers; all client-facing
// output flows through the Broadcaster so the service never touches
// connections.
type CombatService struct {
	logger      *zap.Logger
	cfg         config.CombatConfig
	catalog     *catalog.Catalog
	npcs        *npc.Manager
	rooms       *room.Registry
	broadcaster room.Broadcaster
	policy      npc.Policy

	mu sync.Mutex
	// drivers maps session ID to that session's NPC drivers. Presence of a
	// key also marks the session as not yet finished; finishSession deletes
	// it, making completion idempotent.
	drivers map[string][]*npc.Driver
}

// NewCombatService creates the orchestration service.
//
// Precondition: all arguments must be non-nil; cfg must be validated.
func NewCombatService(
	logger *zap.Logger,
	cfg config.CombatConfig,
	cat *catalog.Catalog,
	npcs *npc.Manager,
	rooms *room.Registry,
	broadcaster room.Broadcaster,
	policy npc.Policy,
) *CombatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == nil {
		policy = npc.WeakestTargetPolicy{}
	}
	return &CombatService{
		logger:      logger,
		cfg:         cfg,
		catalog:     cat,
		npcs:        npcs,
		rooms:       rooms,
		broadcaster: broadcaster,
		policy:      policy,
		drivers:     make(map[string][]*npc.Driver),
	}
}

// Join adds a member to a room, creating the room on first use, and
// broadcasts the updated membership.
//
// Postcondition: Returns an error iff the member ID is already present.
func (s *CombatService) Join(roomID string, m room.Member) error {
	if m.Stats.MaxHealth == 0 {
		m.Stats = entity.DefaultStats()
	}
	rm := s.rooms.GetOrCreate(roomID)
	if err := rm.Join(m); err != nil {
		return err
	}
	s.logger.Info("player joined room",
		zap.String("room", roomID),
		zap.String("player", m.ID),
		zap.String("name", m.DisplayName))
	s.broadcaster.Broadcast(roomID, EventPlayerJoined, PlayerJoinedPayload{
		Player:  m,
		Members: rm.Members(),
	})
	return nil
}

// Leave removes a member from a room and broadcasts the updated membership.
// When the last member leaves, the room and any attached session are torn
// down. A member leaving mid-combat does not end the encounter; their
// participant simply stops receiving commands.
func (s *CombatService) Leave(roomID, memberID string) {
	rm, ok := s.rooms.Get(roomID)
	if !ok {
		return
	}
	if !rm.Leave(memberID) {
		return
	}
	s.logger.Info("player left room",
		zap.String("room", roomID),
		zap.String("player", memberID))
	s.broadcaster.Broadcast(roomID, EventPlayerLeft, PlayerLeftPayload{
		PlayerID: memberID,
		Members:  rm.Members(),
	})
	if rm.Len() == 0 {
		s.TeardownRoom(roomID)
	}
}

// InitiateCombat starts an encounter in the initiator's room. Every room
// member enters as a human participant; NPC target specs spawn opponents
// from templates. An initiate request naming no NPC targets spawns one
// default opponent so the encounter is always winnable by wipe.
//
// Rejections (unknown room, absent initiator, combat already in progress)
// are delivered to the initiator via NotifyError; nothing is mutated.
func (s *CombatService) InitiateCombat(roomID, initiatorID string, data InitiateCombatData) {
	rm, ok := s.rooms.Get(roomID)
	if !ok {
		s.broadcaster.NotifyError(initiatorID, "Room not found")
		return
	}
	if _, ok := rm.Member(initiatorID); !ok {
		s.broadcaster.NotifyError(initiatorID, "Initiator not found")
		return
	}
	if rm.Session() != nil {
		s.broadcaster.NotifyError(initiatorID, "Combat already in progress")
		return
	}

	participants := s.buildParticipants(rm, data.Targets)

	session, err := combat.NewSession("combat-"+uuid.NewString(), participants, combat.Options{
		Catalog:         s.catalog,
		DefendMagnitude: s.cfg.DefendMagnitude,
		DefendDuration:  s.cfg.DefendDuration,
	})
	if err != nil {
		s.logger.Error("failed to create combat session",
			zap.String("room", roomID), zap.Error(err))
		s.broadcaster.NotifyError(initiatorID, "Could not start combat")
		return
	}

	if err := rm.AttachSession(session); err != nil {
		s.broadcaster.NotifyError(initiatorID, "Combat already in progress")
		return
	}

	submit := npc.SubmitterFunc(func(actorID string, action combat.Action) {
		s.submitNPCAction(roomID, actorID, action)
	})
	var drivers []*npc.Driver
	for _, p := range participants {
		if p.Kind != entity.KindAI {
			continue
		}
		drivers = append(drivers, npc.NewDriver(p.ID, session, s.policy, submit, s.cfg.NPCTickInterval, s.logger))
	}

	s.mu.Lock()
	s.drivers[session.ID()] = drivers
	s.mu.Unlock()

	s.logger.Info("combat initiated",
		zap.String("room", roomID),
		zap.String("session", session.ID()),
		zap.String("initiator", initiatorID),
		zap.Int("participants", len(participants)),
		zap.Int("npcs", len(drivers)))
	s.broadcaster.Broadcast(roomID, EventCombatStarted, CombatStartedPayload{Combat: session.Snapshot()})

	for _, d := range drivers {
		d.Start()
	}
}

// buildParticipants assembles the encounter roster: all room members in join
// order, then spawned NPCs.
func (s *CombatService) buildParticipants(rm *room.Room, targets []TargetSpec) []*entity.Participant {
	var participants []*entity.Participant
	for _, m := range rm.Members() {
		participants = append(participants, &entity.Participant{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Kind:        entity.KindHuman,
			Stats:       m.Stats,
			Clock:       entity.NewActionPointClock(s.cfg.ActionPointCapacity, s.cfg.RechargeInterval),
		})
	}

	spawned := 0
	for _, t := range targets {
		if t.Type != "npc" {
			// Player targets are already in the roster via room membership.
			continue
		}
		p := s.npcs.Spawn(t.Template, s.cfg.ActionPointCapacity, s.cfg.RechargeInterval)
		if t.Name != "" {
			p.DisplayName = t.Name
		}
		if t.Stats != nil {
			p.Stats = *t.Stats
		}
		participants = append(participants, p)
		spawned++
	}
	if spawned == 0 {
		participants = append(participants, s.npcs.Spawn("", s.cfg.ActionPointCapacity, s.cfg.RechargeInterval))
	}
	return participants
}

// HandleAction submits a client action to the room's session. Admission
// errors go back to the actor alone; resolved actions broadcast an update to
// the whole room.
func (s *CombatService) HandleAction(roomID, actorID string, data CombatActionData) {
	rm, ok := s.rooms.Get(roomID)
	if !ok {
		s.broadcaster.NotifyError(actorID, "Room not found")
		return
	}
	session := rm.Session()
	if session == nil {
		s.broadcaster.NotifyError(actorID, "No active combat")
		return
	}

	action, err := data.Action()
	if err != nil {
		s.broadcaster.NotifyError(actorID, "Invalid action type")
		return
	}

	s.submit(roomID, rm, session, actorID, action, true)
}

// submitNPCAction is the driver-facing submission path. NPC admission
// failures are logged, never notified.
func (s *CombatService) submitNPCAction(roomID, actorID string, action combat.Action) {
	rm, ok := s.rooms.Get(roomID)
	if !ok {
		return
	}
	session := rm.Session()
	if session == nil {
		return
	}
	s.submit(roomID, rm, session, actorID, action, false)
}

// submit runs one action through the session and fans out the outcome.
func (s *CombatService) submit(roomID string, rm *room.Room, session *combat.Session, actorID string, action combat.Action, notify bool) {
	update, err := session.SubmitAction(actorID, action)
	if err != nil {
		// Admission rejections are routine; anything else is unexpected.
		logFn := s.logger.Debug
		if !combat.IsAdmissionError(err) {
			logFn = s.logger.Warn
		}
		logFn("action rejected",
			zap.String("room", roomID),
			zap.String("actor", actorID),
			zap.String("kind", action.Kind.String()),
			zap.Error(err))
		if notify {
			s.broadcaster.NotifyError(actorID, admissionMessage(err))
		}
		return
	}

	s.broadcaster.Broadcast(roomID, EventCombatUpdate, CombatUpdatePayload{
		Record: update.Record,
		Combat: update.Snapshot,
	})

	if update.Ended {
		s.finishSession(roomID, rm, session, update.Snapshot, update.Winner)
	}
}

// finishSession tears down a completed encounter exactly once: drivers are
// stopped, the room is detached, and combatEnded is broadcast.
func (s *CombatService) finishSession(roomID string, rm *room.Room, session *combat.Session, snap combat.Snapshot, winner combat.Winner) {
	s.mu.Lock()
	drivers, ok := s.drivers[session.ID()]
	if ok {
		delete(s.drivers, session.ID())
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	for _, d := range drivers {
		d.Stop()
	}
	rm.ClearSession()

	s.logger.Info("combat ended",
		zap.String("room", roomID),
		zap.String("session", session.ID()),
		zap.String("winner", string(winner)))
	s.broadcaster.Broadcast(roomID, EventCombatEnded, CombatEndedPayload{
		Combat: snap,
		Winner: string(winner),
	})
}

// TeardownRoom removes a room and stops any combat running in it. No events
// are broadcast; callers use it when nobody is left to hear them.
func (s *CombatService) TeardownRoom(roomID string) {
	rm, ok := s.rooms.Get(roomID)
	if !ok {
		return
	}
	if session := rm.Session(); session != nil {
		s.mu.Lock()
		drivers, ok := s.drivers[session.ID()]
		if ok {
			delete(s.drivers, session.ID())
		}
		s.mu.Unlock()
		for _, d := range drivers {
			d.Stop()
		}
		rm.ClearSession()
	}
	s.rooms.Remove(roomID)
	s.logger.Info("room torn down", zap.String("room", roomID))
}

// admissionMessage maps admission errors onto client-facing messages.
func admissionMessage(err error) string {
	switch {
	case errors.Is(err, combat.ErrSessionNotActive):
		return "No active combat"
	case errors.Is(err, combat.ErrActorNotFound):
		return "You are not in this combat"
	case errors.Is(err, combat.ErrTargetNotFound):
		return "Target not found"
	case errors.Is(err, combat.ErrTargetDefeated):
		return "Target already defeated"
	case errors.Is(err, combat.ErrIllegalTarget):
		return "Illegal target"
	case errors.Is(err, combat.ErrUnknownActionKind):
		return "Invalid action type"
	case errors.Is(err, combat.ErrNoActionPointAvailable):
		return "No action points available"
	default:
		return fmt.Sprintf("Action failed: %v", err)
	}
}
