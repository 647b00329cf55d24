package msagent

import "msagent/internal/acsfile"

// AnimationInfo is the bulk-query summary of one animation, sized to
// amortize cross-boundary calls when the caller lives in another runtime
// (e.g. a scripting host embedding this library).
type AnimationInfo struct {
	Name            string
	FrameCount      int
	HasSound        bool
	TransitionType  acsfile.TransitionType
	ReturnAnimation string // "" unless TransitionType.UsesReturnAnimation is true
}

// GetAllAnimationInfo returns a summary of every animation in the archive,
// in on-disk order.
func (a *Archive) GetAllAnimationInfo() []AnimationInfo {
	out := make([]AnimationInfo, len(a.doc.Animations))
	for i, entry := range a.doc.Animations {
		anim := entry.Animation
		out[i] = AnimationInfo{
			Name:           entry.Name,
			FrameCount:     len(anim.Frames),
			HasSound:       animationHasSound(anim),
			TransitionType: anim.TransitionType,
		}
		if anim.TransitionType.UsesReturnAnimation(anim.ReturnAnimation) {
			out[i].ReturnAnimation = anim.ReturnAnimation
		}
	}
	return out
}

// animationHasSound reports whether some frame carries a sound cue.
func animationHasSound(anim acsfile.Animation) bool {
	for _, f := range anim.Frames {
		if f.SoundIndex != nil {
			return true
		}
	}
	return false
}
