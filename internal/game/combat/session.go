// Package combat implements the per-room combat session: the authoritative
// state machine that admits actions through the action point gate, resolves
// them against participants, and detects termination.
package combat

import (
	"fmt"
	"sync"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/entity"
)

// Status is the session lifecycle state. The only transition is
// Active → Completed, and it fires exactly once.
type Status int

const (
	StatusActive Status = iota
	StatusCompleted
)

// String returns "active" or "completed".
func (s Status) String() string {
	if s == StatusCompleted {
		return "completed"
	}
	return "active"
}

// Winner names the faction that survived the encounter.
type Winner string

const (
	// WinnerHumans is the human faction. A simultaneous full wipe also
	// resolves to the human faction by convention.
	WinnerHumans Winner = "players"
	// WinnerAI is the AI faction.
	WinnerAI Winner = "npcs"
)

// Options configures a Session. Zero values select the defaults noted on
// each field.
type Options struct {
	// Catalog is the action definition table; nil uses catalog.Default().
	Catalog *catalog.Catalog
	// Source provides randomness for damage/heal rolls; nil uses crypto/rand.
	Source dice.Source
	// Now supplies the current time; nil uses time.Now. Injected for tests
	// and for deterministic action point accounting.
	Now func() time.Time
	// DefendMagnitude is the default defend buff strength; 0 uses 5.
	DefendMagnitude int
	// DefendDuration is the default defend buff duration; 0 uses 2.
	DefendDuration int
}

// Session owns one active encounter's authoritative state. All participant
// and log data is owned exclusively by the session; every reaction (a client
// action or an NPC tick) runs to completion under the session mutex, so no
// partial mutation is ever observed.
type Session struct {
	mu           sync.Mutex
	id           string
	participants []*entity.Participant
	log          []ActionRecord
	status       Status
	startedAt    time.Time
	endedAt      time.Time
	winner       Winner

	catalog         *catalog.Catalog
	src             dice.Source
	now             func() time.Time
	defendMagnitude int
	defendDuration  int
}

// NewSession creates an active session owning the given participants.
// Participant order is fixed at creation and used only for indexing and
// tie-breaking, never for turn sequencing.
//
// Precondition: id must be non-empty; participants must be non-empty with
// unique IDs and non-nil action point clocks.
// Postcondition: Returns an active Session or a non-nil error.
func NewSession(id string, participants []*entity.Participant, opts Options) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id must not be empty")
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("session requires at least one participant")
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.ID == "" {
			return nil, fmt.Errorf("participant id must not be empty")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate participant id %q", p.ID)
		}
		if p.Clock == nil {
			return nil, fmt.Errorf("participant %q has no action point clock", p.ID)
		}
		seen[p.ID] = true
	}

	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Source == nil {
		opts.Source = dice.NewCryptoSource()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefendMagnitude == 0 {
		opts.DefendMagnitude = 5
	}
	if opts.DefendDuration == 0 {
		opts.DefendDuration = 2
	}

	return &Session{
		id:              id,
		participants:    participants,
		status:          StatusActive,
		startedAt:       opts.Now(),
		catalog:         opts.Catalog,
		src:             opts.Source,
		now:             opts.Now,
		defendMagnitude: opts.DefendMagnitude,
		defendDuration:  opts.DefendDuration,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Winner returns the recorded winner; empty while the session is active.
func (s *Session) Winner() Winner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner
}

// EndedAt returns the completion time, or the zero time while active.
func (s *Session) EndedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endedAt
}

// ActorCanAct reports whether the participant currently holds at least one
// available action point slot. Used by NPC drivers to skip ticks without
// consuming anything.
//
// Postcondition: Returns false for unknown actors and completed sessions.
func (s *Session) ActorCanAct(actorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return false
	}
	actor := s.findParticipantLocked(actorID)
	if actor == nil {
		return false
	}
	return actor.Clock.HasAvailableSlot(s.now())
}

// Update is the outcome of a successfully admitted action: the appended log
// record, the fresh authoritative snapshot, and the termination outcome if
// this action ended the encounter.
type Update struct {
	Record   ActionRecord
	Snapshot Snapshot
	Ended    bool
	Winner   Winner
}

// SubmitAction is the single entry point for all actors, human and AI alike.
// Admission order: session active → actor resolved → action kind known →
// target resolved, alive, and legal → one action point slot consumed.
// Admission failures mutate nothing; once the gate is passed the action
// resolves, every participant's status effects tick once, a record is
// appended, and termination is evaluated.
//
// Precondition: actorID must be non-empty.
// Postcondition: On success exactly one action point slot of the actor has
// been consumed and exactly one record appended; on an admission error the
// session state is unchanged.
func (s *Session) SubmitAction(actorID string, a Action) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return nil, ErrSessionNotActive
	}

	actor := s.findParticipantLocked(actorID)
	if actor == nil {
		return nil, fmt.Errorf("%w: %q", ErrActorNotFound, actorID)
	}

	def, err := s.resolveDefinition(a)
	if err != nil {
		return nil, err
	}

	target, err := s.resolveTargetLocked(actor, a, def)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if _, err := actor.Clock.ConsumeSlot(now); err != nil {
		return nil, err
	}

	var result ActionResult
	switch a.Kind {
	case ActionAttack:
		result = s.resolveAttack(actor, target, a.Attack, def)
	case ActionDefend:
		result = s.resolveDefend(actor, a.Defend, def)
	case ActionCast:
		result = s.resolveCast(actor, target, a.Cast, def)
	default:
		// resolveDefinition admits only the three known kinds.
		return nil, ErrUnknownActionKind
	}

	// One action tick: every participant's status effects advance.
	for _, p := range s.participants {
		p.TickStatusEffects()
	}

	record := ActionRecord{
		ActorID:    actor.ID,
		ActionKind: a.Kind.String(),
		TargetID:   target.ID,
		Result:     result,
		Timestamp:  now,
	}
	s.log = append(s.log, record)

	ended, winner := s.evaluateTerminationLocked(now)

	return &Update{
		Record:   record,
		Snapshot: s.snapshotLocked(now),
		Ended:    ended,
		Winner:   winner,
	}, nil
}

// CheckCombatEnd evaluates the termination rule and finalizes the session if
// either faction has been wiped out. It is idempotent: once completed, later
// calls report the recorded outcome without transitioning again.
//
// Postcondition: Returns (winner, true) iff the session is completed.
func (s *Session) CheckCombatEnd() (Winner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ended, winner := s.evaluateTerminationLocked(s.now())
	return winner, ended
}

// evaluateTerminationLocked applies the termination rule: combat ends the
// instant either faction has zero living members. A simultaneous wipe
// resolves to the human faction. Finalization happens at most once.
func (s *Session) evaluateTerminationLocked(now time.Time) (bool, Winner) {
	if s.status == StatusCompleted {
		return true, s.winner
	}

	aliveHumans, aliveAI := 0, 0
	for _, p := range s.participants {
		if !p.IsAlive() {
			continue
		}
		if p.Kind == entity.KindAI {
			aliveAI++
		} else {
			aliveHumans++
		}
	}

	if aliveHumans > 0 && aliveAI > 0 {
		return false, ""
	}

	winner := WinnerHumans
	if aliveHumans == 0 && aliveAI > 0 {
		winner = WinnerAI
	}
	s.status = StatusCompleted
	s.endedAt = now
	s.winner = winner
	return true, winner
}

// findParticipantLocked returns the participant with the given ID, or nil.
func (s *Session) findParticipantLocked(id string) *entity.Participant {
	for _, p := range s.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// resolveDefinition maps the action variant to its catalog definition.
// Cast actions resolve by spell ID; an empty or unknown spell falls back to
// the default damage spell, matching the catalog's baseline behaviour.
func (s *Session) resolveDefinition(a Action) (*catalog.Definition, error) {
	switch a.Kind {
	case ActionAttack:
		if def, ok := s.catalog.Get("attack"); ok {
			return def, nil
		}
	case ActionDefend:
		if def, ok := s.catalog.Get("defend"); ok {
			return def, nil
		}
	case ActionCast:
		if def, ok := s.catalog.Get(a.Cast.SpellID); ok && def.Kind == "cast" {
			return def, nil
		}
		if def, ok := s.catalog.Get("fireball"); ok {
			return def, nil
		}
	default:
		return nil, ErrUnknownActionKind
	}
	return nil, fmt.Errorf("%w: catalog has no entry for %q", ErrUnknownActionKind, a.Kind)
}

// resolveTargetLocked resolves and validates the action's target. Self-only
// actions default to the actor when no target is named.
func (s *Session) resolveTargetLocked(actor *entity.Participant, a Action, def *catalog.Definition) (*entity.Participant, error) {
	targetID := a.TargetID
	if targetID == "" && def.Target == catalog.TargetSelf {
		targetID = actor.ID
	}

	target := s.findParticipantLocked(targetID)
	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, targetID)
	}
	if !target.IsAlive() {
		return nil, fmt.Errorf("%w: %q", ErrTargetDefeated, targetID)
	}
	if !def.Target.Allows(actor.ID == target.ID, actor.Kind == target.Kind, target.IsAlive()) {
		return nil, fmt.Errorf("%w: %s may not target %q", ErrIllegalTarget, a.Kind, targetID)
	}
	return target, nil
}

// resolveAttack deals weapon damage. A caller-supplied override is applied
// as-is; a rolled base is adjusted by the attacker's strength. Target
// defense and buffs are applied by ApplyDamage.
func (s *Session) resolveAttack(actor, target *entity.Participant, params AttackParams, def *catalog.Definition) ActionResult {
	raw := params.Damage
	if raw <= 0 {
		raw = def.BaseDamage.Roll(s.src) + actor.Stats.Strength/2
	}
	dr := target.ApplyDamage(raw)
	return ActionResult{
		Success:      true,
		Damage:       dr.Dealt,
		TargetHealth: dr.Health,
	}
}

// resolveDefend attaches a defense buff to the actor.
func (s *Session) resolveDefend(actor *entity.Participant, params DefendParams, def *catalog.Definition) ActionResult {
	magnitude := params.Magnitude
	duration := params.Duration
	if magnitude <= 0 {
		if def.Effect != nil {
			magnitude = def.Effect.Magnitude
		} else {
			magnitude = s.defendMagnitude
		}
	}
	if duration <= 0 {
		if def.Effect != nil {
			duration = def.Effect.Duration
		} else {
			duration = s.defendDuration
		}
	}
	buff := entity.StatusEffect{
		Kind:      entity.EffectDefense,
		Magnitude: magnitude,
		Remaining: duration,
	}
	actor.AddBuff(buff)
	return ActionResult{
		Success:      true,
		TargetHealth: actor.Stats.Health,
		BuffApplied:  &buff,
	}
}

// resolveCast spends energy and applies the spell's damage or healing. An
// unaffordable cast is a soft failure: the action point is already spent,
// the result records Success=false, and nothing else mutates.
func (s *Session) resolveCast(actor, target *entity.Participant, params CastParams, def *catalog.Definition) ActionResult {
	cost := params.ManaCost
	if cost <= 0 {
		cost = def.EnergyCost
	}

	if err := actor.SpendEnergy(cost); err != nil {
		return ActionResult{
			Success:      false,
			Message:      "Not enough energy",
			TargetHealth: target.Stats.Health,
		}
	}

	result := ActionResult{Success: true, EnergyUsed: cost}
	if def.Healing != nil {
		amount := params.Amount
		if amount <= 0 {
			amount = def.Healing.Roll(s.src)
		}
		hr := target.ApplyHealing(amount)
		result.Healing = hr.Healed
		result.TargetHealth = hr.Health
		return result
	}

	amount := params.Amount
	if amount <= 0 {
		amount = def.BaseDamage.Roll(s.src)
	}
	dr := target.ApplyDamage(amount)
	result.Damage = dr.Dealt
	result.TargetHealth = dr.Health
	return result
}
