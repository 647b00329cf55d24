// Package playback implements the animation playback driver: frame
// stepping, probabilistic branching, completion disposition, idle-state
// fallback, and per-frame audio-cue emission.
//
// The driver keeps its own state outside the archive; the facade's
// operations stay pure functions of the archive plus the caller's
// current frame.
package playback

import (
	"math/rand"
	"strings"

	"msagent/internal/acsfile"
)

// Archive is the subset of the facade a Player needs: animation lookup by
// name and image compositing by animation/frame. The root msagent package
// satisfies this.
type Archive interface {
	GetAnimation(name string) (acsfile.Animation, bool)
	StateTable() []acsfile.StateInfo
	RenderFrame(animationName string, frameIndex int) (width, height int, rgba []byte, err error)
}

// idleFallbackNames is the fixed preference list consulted when the state
// table has no state whose name contains "IDL".
var idleFallbackNames = []string{"RestPose", "Idle1_1", "Idle", "Stand", "Neutral"}

// Event is one per-frame emission: a rendered frame plus its display
// duration and an optional audio cue.
type Event struct {
	AnimationName string
	FrameIndex    int
	Width, Height int
	RGBA          []byte
	DurationMS    int
	SoundIndex    *int
	// Stopped is true when the driver has come to rest (no further Step
	// will produce a new Event until Play is called again).
	Stopped bool
}

// Player drives an Archive's animations frame by frame.
type Player struct {
	archive Archive
	rng     *rand.Rand

	currentAnim  string
	anim         acsfile.Animation
	currentFrame int
	playing      bool

	// LoopRequested controls what happens when a non-returning animation
	// finishes while it is itself an idle-state member, or when no idle
	// animation can be started: restart from frame 0 instead of stopping.
	LoopRequested bool
	// BranchingEnabled gates the probabilistic branch walk in Step; when
	// false, frames always advance linearly.
	BranchingEnabled bool
}

// New builds a Player over archive, seeding its PRNG so branch selection
// is reproducible for a given seed.
func New(archive Archive, seed int64) *Player {
	return &Player{
		archive:          archive,
		rng:              rand.New(rand.NewSource(seed)),
		BranchingEnabled: true,
	}
}

// Play starts name from frame 0 and returns its first emission. It reports
// false if name does not exist in the archive.
func (p *Player) Play(name string) (Event, bool) {
	anim, ok := p.archive.GetAnimation(name)
	if !ok {
		return Event{}, false
	}
	p.currentAnim = name
	p.anim = anim
	p.currentFrame = 0
	p.playing = true
	return p.emit(), true
}

// Stop halts playback without emitting a further event.
func (p *Player) Stop() {
	p.playing = false
}

// Playing reports whether the driver currently has an animation running.
func (p *Player) Playing() bool { return p.playing }

// ExitNow jumps to the current frame's exit frame in response to an
// external interrupt. If the current frame has no exit frame, playback
// stops immediately instead.
func (p *Player) ExitNow() Event {
	if !p.playing {
		return Event{Stopped: true}
	}
	frame := p.anim.Frames[p.currentFrame]
	if frame.ExitFrame == nil {
		p.playing = false
		return Event{AnimationName: p.currentAnim, Stopped: true}
	}
	p.currentFrame = int(*frame.ExitFrame)
	return p.emit()
}

// Step advances playback by one frame, handling branching and, on
// completion of the current animation, its transition disposition.
func (p *Player) Step() Event {
	if !p.playing {
		return Event{Stopped: true}
	}

	frame := p.anim.Frames[p.currentFrame]
	nextFrame := p.currentFrame + 1

	if p.BranchingEnabled && len(frame.Branches) > 0 {
		if nf, ok := p.selectBranch(frame.Branches); ok {
			nextFrame = nf
		}
	}

	if nextFrame < len(p.anim.Frames) {
		p.currentFrame = nextFrame
		return p.emit()
	}

	return p.complete()
}

// selectBranch walks branches in declared order, picking the first whose
// cumulative weight exceeds the draw. It reports false (fall through to
// linear advance) when the branch weights sum to zero.
func (p *Player) selectBranch(branches []acsfile.Branch) (int, bool) {
	var total uint32
	for _, b := range branches {
		total += uint32(b.ProbabilityPct)
	}
	if total == 0 {
		return 0, false
	}

	r := uint32(p.rng.Int63n(int64(total)))
	var cumulative uint32
	for _, b := range branches {
		cumulative += uint32(b.ProbabilityPct)
		if cumulative > r {
			return int(b.TargetFrame), true
		}
	}
	// Numerical edge: fall back to the last branch's target.
	return int(branches[len(branches)-1].TargetFrame), true
}

// complete decides what happens once the next frame has run off the end
// of the current animation's frame list: return animation, idle fallback,
// loop, or rest.
func (p *Player) complete() Event {
	if p.anim.TransitionType.UsesReturnAnimation(p.anim.ReturnAnimation) {
		ev, ok := p.Play(p.anim.ReturnAnimation)
		if ok {
			return ev
		}
		p.playing = false
		return Event{AnimationName: p.currentAnim, Stopped: true}
	}

	if !p.inIdleState() {
		if name, ok := p.pickIdleAnimation(); ok {
			ev, ok := p.Play(name)
			if ok {
				return ev
			}
		}
		// No idle animation anywhere in the archive: loop in place if
		// requested, otherwise come to rest.
		if p.LoopRequested {
			p.currentFrame = 0
			return p.emit()
		}
		p.playing = false
		return Event{AnimationName: p.currentAnim, Stopped: true}
	}

	if p.LoopRequested {
		p.currentFrame = 0
		return p.emit()
	}
	p.playing = false
	return Event{AnimationName: p.currentAnim, Stopped: true}
}

// inIdleState reports whether the current animation belongs to a state
// whose name contains "IDL" (case-folded).
func (p *Player) inIdleState() bool {
	for _, state := range p.archive.StateTable() {
		if !strings.Contains(strings.ToUpper(state.Name), "IDL") {
			continue
		}
		for _, member := range state.Members {
			if strings.EqualFold(member, p.currentAnim) {
				return true
			}
		}
	}
	return false
}

// pickIdleAnimation chooses uniformly at random among the union of every
// idle state's members, falling back to a fixed name preference list when
// the state table has no idle members at all.
func (p *Player) pickIdleAnimation() (string, bool) {
	var candidates []string
	for _, state := range p.archive.StateTable() {
		if strings.Contains(strings.ToUpper(state.Name), "IDL") {
			candidates = append(candidates, state.Members...)
		}
	}
	if len(candidates) > 0 {
		return candidates[p.rng.Intn(len(candidates))], true
	}

	for _, name := range idleFallbackNames {
		if _, ok := p.archive.GetAnimation(name); ok {
			return name, true
		}
	}
	return "", false
}

// emit renders the current frame and builds its Event.
func (p *Player) emit() Event {
	width, height, rgba, err := p.archive.RenderFrame(p.currentAnim, p.currentFrame)
	if err != nil {
		p.playing = false
		return Event{AnimationName: p.currentAnim, FrameIndex: p.currentFrame, Stopped: true}
	}

	frame := p.anim.Frames[p.currentFrame]
	durationMS := int(frame.DurationCS) * 10
	if frame.DurationCS == 0 {
		durationMS = 100
	}

	var sound *int
	if frame.SoundIndex != nil {
		v := int(*frame.SoundIndex)
		sound = &v
	}

	return Event{
		AnimationName: p.currentAnim,
		FrameIndex:    p.currentFrame,
		Width:         width,
		Height:        height,
		RGBA:          rgba,
		DurationMS:    durationMS,
		SoundIndex:    sound,
	}
}
