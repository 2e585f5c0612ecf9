// Package hunt drives the screen state machine. The controller consumes
// one captured frame per step, tracks a single encounter at a time and
// hands finished encounters to the submission gateway.
package hunt

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/RKleminski/Scrapless/internal/catalog"
	"github.com/RKleminski/Scrapless/internal/loot"
	"github.com/RKleminski/Scrapless/internal/overlay"
	"github.com/RKleminski/Scrapless/internal/screens"
	"github.com/RKleminski/Scrapless/internal/submit"
	"github.com/RKleminski/Scrapless/internal/vision"
)

// State identifies the screen the controller believes is in front of the
// player.
type State int

const (
	Idle State = iota
	LobbyDetected
	InHunt
	InLoot
	InBountyDraft
	BountyDraftEnded
	InTrial
	InEscalation
	EscalationSummary
	EscalationLoot
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LobbyDetected:
		return "lobby_detected"
	case InHunt:
		return "in_hunt"
	case InLoot:
		return "in_loot"
	case InBountyDraft:
		return "in_bounty_draft"
	case BountyDraftEnded:
		return "bounty_draft_ended"
	case InTrial:
		return "in_trial"
	case InEscalation:
		return "in_escalation"
	case EscalationSummary:
		return "escalation_summary"
	case EscalationLoot:
		return "escalation_loot"
	}
	return "unknown"
}

// Context accumulates the facts of one encounter. Behemoth and
// Escalation are mutually exclusive.
type Context struct {
	Behemoth   string
	Threat     int
	Tier       string
	HuntType   string
	Escalation string
	Deaths     int
	Elite      bool
	Time       string
}

// LobbyScreen is the lobby reader surface the controller depends on.
type LobbyScreen interface {
	Detect(f *vision.Frame) bool
	Read(f *vision.Frame) (screens.LobbyReading, error)
}

// LootScreen is the loot reader surface the controller depends on.
type LootScreen interface {
	Detect(f *vision.Frame) bool
	DetectTrialResult(f *vision.Frame) bool
	ReadSummary(f *vision.Frame) (screens.LootReading, error)
	ReadDropLines(f *vision.Frame) ([]string, error)
	ReadToken(f *vision.Frame) screens.TokenReading
}

// BountyScreen is the bounty reader surface the controller depends on.
type BountyScreen interface {
	DetectDraft(f *vision.Frame) bool
	DetectMenu(f *vision.Frame) bool
	ReadValue(f *vision.Frame) (screens.BountyReading, error)
}

// EscalationScreen is the escalation reader surface the controller
// depends on.
type EscalationScreen interface {
	DetectSummary(f *vision.Frame) bool
	ReadRank(f *vision.Frame) (screens.EscalationReading, error)
}

// Reconciler rebuilds the submittable roll set from raw drop lines.
type Reconciler interface {
	Reconcile(lines []string, behemoth string, deaths int, elite bool, tier string) ([]loot.Drop, error)
}

// maxRetries bounds consecutive recognition errors in any one state.
const maxRetries = 5

// Deps carries the controller's collaborators. Sleep, Rand and
// SaveFrame are optional; everything else is required.
type Deps struct {
	Lobby      LobbyScreen
	Loot       LootScreen
	Bounty     BountyScreen
	Escalation EscalationScreen
	Reconciler Reconciler
	Catalog    *catalog.Catalog
	Gateway    submit.Gateway
	Sink       overlay.Sink

	Patch string
	User  string

	// Sleep implements the retry backoff; nil means time.Sleep.
	Sleep func(time.Duration)
	// Rand picks flavor lines; nil seeds from the clock.
	Rand *rand.Rand
	// SaveFrame persists a frame for manual inspection when loot data
	// looks corrupt; nil disables persistence.
	SaveFrame func(f *vision.Frame)
}

// Controller owns the active encounter. It is not safe for concurrent
// use; the capture loop calls Step serially.
type Controller struct {
	d Deps

	state         State
	ctx           *Context
	errCount      int
	pendingBounty string
}

// NewController validates the dependency set and starts in the idle
// state.
func NewController(d Deps) (*Controller, error) {
	switch {
	case d.Lobby == nil, d.Loot == nil, d.Bounty == nil, d.Escalation == nil,
		d.Reconciler == nil, d.Catalog == nil, d.Gateway == nil, d.Sink == nil:
		return nil, errors.New("hunt: controller dependency missing")
	case d.Patch == "" || d.User == "":
		return nil, errors.New("hunt: patch and user are required")
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Controller{d: d, state: Idle}, nil
}

// State reports the controller's current state.
func (c *Controller) State() State {
	return c.state
}

// Step processes one captured frame.
func (c *Controller) Step(f *vision.Frame) {
	switch c.state {
	case Idle:
		c.stepIdle(f)
	case LobbyDetected:
		c.stepLobbyDetected(f)
	case InHunt:
		c.stepInHunt(f)
	case InLoot:
		c.stepInLoot(f)
	case InBountyDraft:
		c.stepInBountyDraft(f)
	case BountyDraftEnded:
		c.stepBountyDraftEnded(f)
	case InTrial:
		c.stepInTrial(f)
	case InEscalation:
		c.stepInEscalation(f)
	case EscalationSummary:
		c.stepEscalationSummary(f)
	case EscalationLoot:
		c.stepEscalationLoot(f)
	}
}

func (c *Controller) stepIdle(f *vision.Frame) {
	if c.d.Lobby.Detect(f) {
		c.state = LobbyDetected
		c.stepLobbyDetected(f)
		return
	}
	if c.d.Bounty.DetectDraft(f) {
		c.state = InBountyDraft
		c.d.Sink.Post(overlay.Info, "Bounty draft detected.")
	}
}

func (c *Controller) stepLobbyDetected(f *vision.Frame) {
	if !c.d.Lobby.Detect(f) {
		c.toIdle()
		return
	}

	r, err := c.d.Lobby.Read(f)
	if err != nil {
		// Lobby text is commonly mid-render; the next frame will do.
		return
	}

	if r.Escalation != "" {
		c.ctx = &Context{Escalation: r.Escalation, HuntType: r.HuntType}
		c.state = InEscalation
		c.d.Sink.Post(overlay.Info, fmt.Sprintf("Escalation lobby detected: %s.", r.Escalation))
		return
	}

	if r.Behemoth == "" || r.Threat <= 0 {
		return
	}

	tier, err := c.d.Catalog.TierForThreat(r.Threat)
	if err != nil {
		c.d.Sink.Post(overlay.Error, fmt.Sprintf("Threat level %d matches no known tier, ignoring lobby.", r.Threat))
		c.toIdle()
		return
	}

	if catalog.IsTrialTier(tier) {
		c.ctx = &Context{Behemoth: r.Behemoth, Threat: r.Threat, Tier: tier, HuntType: r.HuntType}
		c.state = InTrial
		c.d.Sink.Post(overlay.Info, TrialHypeLine(c.d.Rand, r.Threat))
		return
	}

	if !c.d.Catalog.ValidHunt(r.Behemoth, r.Threat) {
		return
	}

	c.ctx = &Context{Behemoth: r.Behemoth, Threat: r.Threat, Tier: tier, HuntType: r.HuntType}
	c.state = InHunt
	c.d.Sink.Post(overlay.Info,
		fmt.Sprintf("Hunt lobby detected: %s, threat %d, %s %s.", r.Behemoth, r.Threat, tier, r.HuntType))
}

func (c *Controller) stepInHunt(f *vision.Frame) {
	if !c.d.Loot.Detect(f) {
		return
	}
	c.state = InLoot
	c.d.Sink.Post(overlay.Info, "Loot screen detected, reading results.")
}

func (c *Controller) stepInLoot(f *vision.Frame) {
	s, err := c.d.Loot.ReadSummary(f)
	if err != nil {
		c.retry("could not read the loot screen")
		return
	}

	if s.Defeat {
		c.d.Sink.Post(overlay.Warning, "Behemoth triumphant. Hunt discarded, nothing submitted.")
		c.toIdle()
		return
	}
	if !sameBehemoth(c.ctx.Behemoth, s.Behemoth) {
		c.retry(fmt.Sprintf("loot screen names %q, lobby promised %q", s.Behemoth, c.ctx.Behemoth))
		return
	}

	c.ctx.Deaths = s.Deaths
	c.ctx.Elite = s.Elite
	c.ctx.Time = s.Time

	lines, err := c.d.Loot.ReadDropLines(f)
	if err != nil {
		c.retry("could not read the drop list")
		return
	}

	drops, err := c.d.Reconciler.Reconcile(lines, c.ctx.Behemoth, c.ctx.Deaths, c.ctx.Elite, c.ctx.Tier)
	if err != nil {
		if errors.Is(err, loot.ErrSuspiciousStack) {
			if c.d.SaveFrame != nil {
				c.d.SaveFrame(f)
			}
			c.d.Sink.Post(overlay.Error, fmt.Sprintf("Hunt discarded: %v.", err))
			c.toIdle()
			return
		}
		c.retry(err.Error())
		return
	}

	submitted := 0
	for _, d := range drops {
		rec := submit.LootRecord(c.ctx.Behemoth, c.ctx.Tier, c.ctx.Threat, c.ctx.HuntType,
			d.Name, d.Rarity, d.Count, c.d.Patch, c.d.User)
		if err := submit.WithRetry(c.d.Gateway, submit.KindLoot, rec); err != nil {
			c.d.Sink.Post(overlay.Error, fmt.Sprintf("Failed to submit %s: %v.", d.Name, err))
			continue
		}
		submitted++
	}
	c.d.Sink.Post(overlay.Success,
		fmt.Sprintf("Hunt complete: submitted %d drop records for %s.", submitted, c.ctx.Behemoth))
	c.toIdle()
}

func (c *Controller) stepInBountyDraft(f *vision.Frame) {
	v, err := c.d.Bounty.ReadValue(f)
	if err != nil {
		c.retry("could not read the bounty value")
		return
	}

	rarity, ok := c.d.Catalog.BountyRarity[v.Value]
	if !ok {
		c.retry(fmt.Sprintf("unrecognized bounty value %q", v.Value))
		return
	}

	c.pendingBounty = rarity
	c.state = BountyDraftEnded
	c.d.Sink.Post(overlay.Info, fmt.Sprintf("Drafted a %s bounty.", rarity))
}

func (c *Controller) stepBountyDraftEnded(f *vision.Frame) {
	if !c.d.Bounty.DetectMenu(f) {
		return
	}

	rec := submit.BountyRecord(c.pendingBounty, c.d.Patch, c.d.User)
	if err := submit.WithRetry(c.d.Gateway, submit.KindBounty, rec); err != nil {
		c.d.Sink.Post(overlay.Error, fmt.Sprintf("Failed to submit the bounty record: %v.", err))
	} else {
		c.d.Sink.Post(overlay.Success, fmt.Sprintf("Submitted a %s bounty record.", c.pendingBounty))
	}
	c.toIdle()
}

func (c *Controller) stepInTrial(f *vision.Frame) {
	if !c.d.Loot.DetectTrialResult(f) {
		return
	}

	s, err := c.d.Loot.ReadSummary(f)
	if err != nil {
		c.retry("could not read the trial result")
		return
	}

	// Trials are excluded from telemetry; the result only feeds flavor.
	if s.Defeat {
		c.d.Sink.Post(overlay.Warning, TrialDefeatLine(c.d.Rand, c.ctx.Threat))
	} else {
		c.d.Sink.Post(overlay.Success, TrialVictoryLine(c.d.Rand, c.ctx.Threat))
	}
	c.toIdle()
}

func (c *Controller) stepInEscalation(f *vision.Frame) {
	if !c.d.Escalation.DetectSummary(f) {
		return
	}
	c.state = EscalationSummary
	c.d.Sink.Post(overlay.Info, "Escalation summary detected.")
}

func (c *Controller) stepEscalationSummary(f *vision.Frame) {
	r, err := c.d.Escalation.ReadRank(f)
	if err != nil {
		c.retry("could not read the escalation rank")
		return
	}

	switch {
	case r.Rank == "-":
		c.d.Sink.Post(overlay.Warning, "Escalation failed. Nothing to submit.")
		c.toIdle()
	case validRank(r.Rank):
		c.state = EscalationLoot
		c.d.Sink.Post(overlay.Info, fmt.Sprintf("Escalation cleared at rank %s.", r.Rank))
	default:
		c.retry(fmt.Sprintf("unrecognized escalation rank %q", r.Rank))
	}
}

func (c *Controller) stepEscalationLoot(f *vision.Frame) {
	if !c.d.Loot.Detect(f) {
		return
	}

	tok := c.d.Loot.ReadToken(f)
	rec := submit.EscalationRecord(tok.Present, tok.Count, c.ctx.Escalation, c.d.Patch, c.d.User)
	if err := submit.WithRetry(c.d.Gateway, submit.KindEscalation, rec); err != nil {
		c.d.Sink.Post(overlay.Error, fmt.Sprintf("Failed to submit the escalation record: %v.", err))
	} else {
		c.d.Sink.Post(overlay.Success, fmt.Sprintf("Submitted an escalation record for %s.", c.ctx.Escalation))
	}
	c.toIdle()
}

// retry handles one recognition error: warn and back off linearly, or
// abandon the encounter once the ceiling is exceeded.
func (c *Controller) retry(reason string) {
	c.errCount++
	if c.errCount > maxRetries {
		c.d.Sink.Post(overlay.Error, fmt.Sprintf("Giving up after repeated errors: %s. Encounter abandoned.", reason))
		c.toIdle()
		return
	}
	c.d.Sink.Post(overlay.Warning, fmt.Sprintf("%s (attempt %d of %d).", reason, c.errCount, maxRetries))
	c.d.Sleep(time.Duration(c.errCount) * time.Second)
}

func (c *Controller) toIdle() {
	c.state = Idle
	c.ctx = nil
	c.errCount = 0
	c.pendingBounty = ""
}

// sameBehemoth accepts an exact name match or a shared family name, the
// last word of the full name. Variants render with an elemental prefix
// on one screen but not the other.
func sameBehemoth(expected, got string) bool {
	if expected == got {
		return expected != ""
	}
	ew, gw := lastWord(expected), lastWord(got)
	return ew != "" && ew == gw
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

func validRank(r string) bool {
	return len(r) == 1 && strings.Contains("SABCDE", r)
}
