package playback

import (
	"fmt"
	"testing"

	"msagent/internal/acsfile"
)

type fakeArchive struct {
	anims  map[string]acsfile.Animation
	states []acsfile.StateInfo
}

func (f *fakeArchive) GetAnimation(name string) (acsfile.Animation, bool) {
	a, ok := f.anims[name]
	return a, ok
}

func (f *fakeArchive) StateTable() []acsfile.StateInfo { return f.states }

func (f *fakeArchive) RenderFrame(animationName string, frameIndex int) (int, int, []byte, error) {
	if _, ok := f.anims[animationName]; !ok {
		return 0, 0, nil, fmt.Errorf("no such animation %q", animationName)
	}
	return 1, 1, []byte{byte(frameIndex)}, nil
}

func twoFrameAnim(transition acsfile.TransitionType, returnAnim string) acsfile.Animation {
	return acsfile.Animation{
		TransitionType:  transition,
		ReturnAnimation: returnAnim,
		Frames: []acsfile.Frame{
			{DurationCS: 10},
			{DurationCS: 10},
		},
	}
}

func TestPlayAndStepLinearAdvance(t *testing.T) {
	arch := &fakeArchive{anims: map[string]acsfile.Animation{
		"Walk": twoFrameAnim(acsfile.TransitionNone, ""),
	}}
	p := New(arch, 1)

	ev, ok := p.Play("Walk")
	if !ok || ev.FrameIndex != 0 {
		t.Fatalf("Play = %+v, %v", ev, ok)
	}
	ev = p.Step()
	if ev.FrameIndex != 1 || ev.Stopped {
		t.Fatalf("Step = %+v, want frame 1 not stopped", ev)
	}
	ev = p.Step()
	if !ev.Stopped || p.Playing() {
		t.Fatalf("Step past last frame = %+v, want Stopped with no idle fallback available", ev)
	}
}

func TestPlayUnknownAnimationFails(t *testing.T) {
	arch := &fakeArchive{anims: map[string]acsfile.Animation{}}
	p := New(arch, 1)
	if _, ok := p.Play("Nope"); ok {
		t.Fatal("expected Play to fail for an unknown animation")
	}
}

func TestCompletionUsesReturnAnimation(t *testing.T) {
	arch := &fakeArchive{anims: map[string]acsfile.Animation{
		"Greet": {
			TransitionType:  acsfile.TransitionReturn,
			ReturnAnimation: "Idle",
			Frames:          []acsfile.Frame{{DurationCS: 10}},
		},
		"Idle": twoFrameAnim(acsfile.TransitionNone, ""),
	}}
	p := New(arch, 1)
	p.Play("Greet")
	ev := p.Step()
	if ev.AnimationName != "Idle" || ev.FrameIndex != 0 {
		t.Fatalf("Step after completion = %+v, want to land on Idle frame 0", ev)
	}
}

func TestCompletionFallsBackToIdleState(t *testing.T) {
	arch := &fakeArchive{
		anims: map[string]acsfile.Animation{
			"Talk": {TransitionType: acsfile.TransitionNone, Frames: []acsfile.Frame{{DurationCS: 10}}},
			"Idle": twoFrameAnim(acsfile.TransitionNone, ""),
		},
		states: []acsfile.StateInfo{
			{Name: "Idling", Members: []string{"Idle"}},
		},
	}
	p := New(arch, 1)
	p.Play("Talk")
	ev := p.Step()
	if ev.AnimationName != "Idle" {
		t.Fatalf("completion = %+v, want fallback onto the sole idle-state member", ev)
	}
}

func TestCompletionLoopsWhenAlreadyIdleAndLoopRequested(t *testing.T) {
	arch := &fakeArchive{
		anims: map[string]acsfile.Animation{
			"Idle": twoFrameAnim(acsfile.TransitionNone, ""),
		},
		states: []acsfile.StateInfo{
			{Name: "Idling", Members: []string{"Idle"}},
		},
	}
	p := New(arch, 1)
	p.LoopRequested = true
	p.Play("Idle")
	p.Step() // frame 1
	ev := p.Step()
	if ev.AnimationName != "Idle" || ev.FrameIndex != 0 || ev.Stopped {
		t.Fatalf("looping idle completion = %+v, want restart at frame 0", ev)
	}
}

func TestCompletionStopsWhenIdleAndNotLooping(t *testing.T) {
	arch := &fakeArchive{
		anims: map[string]acsfile.Animation{
			"Idle": twoFrameAnim(acsfile.TransitionNone, ""),
		},
		states: []acsfile.StateInfo{
			{Name: "Idling", Members: []string{"Idle"}},
		},
	}
	p := New(arch, 1)
	p.Play("Idle")
	p.Step()
	ev := p.Step()
	if !ev.Stopped || p.Playing() {
		t.Fatalf("completion = %+v, want Stopped", ev)
	}
}

func TestBranchSelectionWithSingleFullWeightBranchIsDeterministic(t *testing.T) {
	frame := acsfile.Frame{
		DurationCS: 10,
		Branches:   []acsfile.Branch{{TargetFrame: 1, ProbabilityPct: 100}},
	}
	anim := acsfile.Animation{
		TransitionType: acsfile.TransitionNone,
		Frames:         []acsfile.Frame{frame, {DurationCS: 10}, {DurationCS: 10}},
	}
	arch := &fakeArchive{anims: map[string]acsfile.Animation{"Branchy": anim}}

	for _, seed := range []int64{1, 42, 12345} {
		p := New(arch, seed)
		p.Play("Branchy")
		ev := p.Step()
		if ev.FrameIndex != 1 {
			t.Fatalf("seed %d: branch target = %d, want 1 (sole full-weight branch)", seed, ev.FrameIndex)
		}
	}
}

func TestBranchSelectionApproximatesDeclaredProbabilities(t *testing.T) {
	frames := make([]acsfile.Frame, 10)
	for i := range frames {
		frames[i] = acsfile.Frame{DurationCS: 10}
	}
	frames[0].Branches = []acsfile.Branch{
		{TargetFrame: 5, ProbabilityPct: 70},
		{TargetFrame: 8, ProbabilityPct: 30},
	}
	anim := acsfile.Animation{TransitionType: acsfile.TransitionNone, Frames: frames}
	arch := &fakeArchive{anims: map[string]acsfile.Animation{"Branchy": anim}}

	p := New(arch, 42)
	const trials = 1000
	hits := map[int]int{}
	for i := 0; i < trials; i++ {
		p.Play("Branchy")
		ev := p.Step()
		hits[ev.FrameIndex]++
	}

	if hits[5]+hits[8] != trials {
		t.Fatalf("branch targets = %v, want every step to land on frame 5 or 8", hits)
	}
	got := float64(hits[5]) / trials * 100
	if got < 65 || got > 75 {
		t.Fatalf("70%% branch taken %.1f%% of %d trials, want within [65, 75]", got, trials)
	}
}

func TestExitNowJumpsToExitFrame(t *testing.T) {
	exitTarget := int16(1)
	anim := acsfile.Animation{
		TransitionType: acsfile.TransitionNone,
		Frames: []acsfile.Frame{
			{DurationCS: 10, ExitFrame: &exitTarget},
			{DurationCS: 10},
		},
	}
	arch := &fakeArchive{anims: map[string]acsfile.Animation{"Anim": anim}}
	p := New(arch, 1)
	p.Play("Anim")
	ev := p.ExitNow()
	if ev.FrameIndex != 1 || ev.Stopped {
		t.Fatalf("ExitNow = %+v, want frame 1", ev)
	}
}

func TestExitNowStopsWhenNoExitFrame(t *testing.T) {
	arch := &fakeArchive{anims: map[string]acsfile.Animation{
		"Anim": twoFrameAnim(acsfile.TransitionNone, ""),
	}}
	p := New(arch, 1)
	p.Play("Anim")
	ev := p.ExitNow()
	if !ev.Stopped || p.Playing() {
		t.Fatalf("ExitNow without an exit frame = %+v, want Stopped", ev)
	}
}

func TestEmitCarriesSoundIndexAndMinimumDuration(t *testing.T) {
	sound := uint16(3)
	anim := acsfile.Animation{
		TransitionType: acsfile.TransitionNone,
		Frames:         []acsfile.Frame{{DurationCS: 0, SoundIndex: &sound}},
	}
	arch := &fakeArchive{anims: map[string]acsfile.Animation{"Anim": anim}}
	p := New(arch, 1)
	ev, _ := p.Play("Anim")
	if ev.SoundIndex == nil || *ev.SoundIndex != 3 {
		t.Fatalf("SoundIndex = %v, want pointer to 3", ev.SoundIndex)
	}
	if ev.DurationMS != 100 {
		t.Fatalf("DurationMS = %d, want 100 (zero-duration floor)", ev.DurationMS)
	}
}

func TestEmitKeepsShortNonZeroDurations(t *testing.T) {
	anim := acsfile.Animation{
		TransitionType: acsfile.TransitionNone,
		Frames:         []acsfile.Frame{{DurationCS: 5}},
	}
	arch := &fakeArchive{anims: map[string]acsfile.Animation{"Anim": anim}}
	p := New(arch, 1)
	ev, _ := p.Play("Anim")
	if ev.DurationMS != 50 {
		t.Fatalf("DurationMS = %d, want 50 (only zero durations are floored)", ev.DurationMS)
	}
}

func TestCompletionLoopsWhenNoIdleExistsAndLoopRequested(t *testing.T) {
	arch := &fakeArchive{anims: map[string]acsfile.Animation{
		"Walk": twoFrameAnim(acsfile.TransitionNone, ""),
	}}
	p := New(arch, 1)
	p.LoopRequested = true
	p.Play("Walk")
	p.Step() // frame 1
	ev := p.Step()
	if ev.Stopped || ev.FrameIndex != 0 || ev.AnimationName != "Walk" {
		t.Fatalf("completion with no idle animation anywhere = %+v, want loop to frame 0", ev)
	}
}
