package npc

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Submitter accepts an NPC's chosen action for admission. The combat service
// implements this so NPC actions flow through the same resolution and
// broadcast path as human actions.
type Submitter interface {
	Submit(actorID string, action combat.Action)
}

// SubmitterFunc adapts a plain function to the Submitter interface.
type SubmitterFunc func(actorID string, action combat.Action)

// Submit implements Submitter.
func (f SubmitterFunc) Submit(actorID string, action combat.Action) { f(actorID, action) }

// Driver runs one AI participant's decision loop on an independent timer.
// Each tick it checks the action point gate without consuming anything and,
// when a slot is available, asks the policy for an action and submits it.
// The driver never mutates session state directly.
type Driver struct {
	actorID  string
	session  *combat.Session
	policy   Policy
	submit   Submitter
	interval time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewDriver creates a driver for one AI participant.
//
// Precondition: all arguments must be non-nil/non-zero; interval must be > 0.
func NewDriver(actorID string, session *combat.Session, policy Policy, submit Submitter, interval time.Duration, logger *zap.Logger) *Driver {
	if actorID == "" || session == nil || policy == nil || submit == nil {
		panic("npc.NewDriver: actorID, session, policy, and submit are required")
	}
	if interval <= 0 {
		panic("npc.NewDriver: interval must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		actorID:  actorID,
		session:  session,
		policy:   policy,
		submit:   submit,
		interval: interval,
		logger:   logger.With(zap.String("npc", actorID), zap.String("session", session.ID())),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the decision loop in its own goroutine. The loop exits when
// Stop is called or the session completes.
func (d *Driver) Start() {
	go d.run()
}

// Stop terminates the decision loop. Safe to call multiple times and from
// multiple goroutines; only the first call has an effect.
//
// Postcondition: The loop goroutine has exited or will exit without ticking
// again.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// Done is closed when the decision loop has exited.
func (d *Driver) Done() <-chan struct{} { return d.doneCh }

func (d *Driver) run() {
	defer close(d.doneCh)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Debug("npc driver started", zap.Duration("interval", d.interval))
	for {
		select {
		case <-d.stopCh:
			d.logger.Debug("npc driver stopped")
			return
		case <-ticker.C:
			if !d.Tick() {
				d.logger.Debug("npc driver exiting, session no longer active")
				return
			}
		}
	}
}

// Tick performs one decision step: skip if the actor cannot act, otherwise
// choose and submit an action. Exposed so tests can drive the loop
// deterministically without real timers.
//
// Postcondition: Returns false once the session is no longer active.
func (d *Driver) Tick() bool {
	if d.session.Status() != combat.StatusActive {
		return false
	}
	if !d.session.ActorCanAct(d.actorID) {
		return true
	}

	snap := d.session.Snapshot()
	for _, p := range snap.Participants {
		// A defeated NPC keeps its loop (it may be healed) but never acts.
		if p.ID == d.actorID && p.Stats.Health <= 0 {
			return true
		}
	}

	action, ok := d.policy.ChooseAction(d.actorID, snap)
	if !ok {
		return true
	}

	d.logger.Debug("npc submitting action",
		zap.String("kind", action.Kind.String()),
		zap.String("target", action.TargetID))
	d.submit.Submit(d.actorID, action)
	return true
}
