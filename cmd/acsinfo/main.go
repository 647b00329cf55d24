// Command acsinfo dumps the character, voice, and animation metadata of an
// ACS v2 character file.
//
// Usage:
//
//	acsinfo [--filter substring] [--verbose] <file.acs>
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"msagent"
	"msagent/internal/acsfile"
)

var (
	filter  = pflag.StringP("filter", "f", "", "only show animations whose name contains this substring (case-insensitive)")
	verbose = pflag.BoolP("verbose", "v", false, "log parse diagnostics to stderr")
)

var log = logrus.New()

func main() {
	pflag.Parse()

	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: acsinfo [--filter substring] [--verbose] <file.acs>")
		os.Exit(2)
	}
	path := pflag.Arg(0)

	if err := run(path); err != nil {
		log.WithError(err).Error("acsinfo failed")
		os.Exit(1)
	}
}

func run(path string) error {
	log.WithField("path", path).Debug("reading archive")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	archive, err := msagent.Open(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	log.WithField("bytes", len(data)).Debug("parsed archive")

	printCharacterInfo(archive)
	printAnimations(archive, *filter)
	return nil
}

func printCharacterInfo(a *msagent.Archive) {
	c := a.Character()
	fmt.Printf("Character: %s\n", c.Name(0))
	fmt.Printf("  GUID: %s\n", c.GUID())
	fmt.Printf("  Size: %dx%d\n", c.Width(), c.Height())
	fmt.Printf("  Palette entries: %d\n", c.PaletteSize())

	if !c.HasVoice() {
		fmt.Println("\nNo voice info in this ACS file")
		return
	}
	v := c.Voice()
	fmt.Println("\nVoice Info:")
	fmt.Printf("  TTS Engine ID: %s\n", v.TTSEngineID)
	fmt.Printf("  TTS Mode ID:   %s\n", v.TTSModeID)
	fmt.Printf("  Speed: %d\n", v.Speed)
	fmt.Printf("  Pitch: %d\n", v.Pitch)
	if v.Extra != nil {
		fmt.Printf("  Language ID: 0x%04X\n", v.Extra.LangID)
		fmt.Printf("  Dialect: %q\n", v.Extra.Dialect)
		fmt.Printf("  Gender: %s\n", v.Extra.GenderString())
		fmt.Printf("  Age: %d\n", v.Extra.Age)
		fmt.Printf("  Style: %q\n", v.Extra.Style)
	}
}

func printAnimations(a *msagent.Archive, filter string) {
	fmt.Println("\nAnimations with transitions:")
	for _, info := range a.GetAllAnimationInfo() {
		if filter != "" && !strings.Contains(strings.ToLower(info.Name), strings.ToLower(filter)) {
			continue
		}
		returnAnim := "(none)"
		if info.ReturnAnimation != "" {
			returnAnim = info.ReturnAnimation
		}
		fmt.Printf("  %s (%d frames) -> %s (type: %s, has_sound: %v)\n",
			info.Name, info.FrameCount, returnAnim, info.TransitionType, info.HasSound)

		if info.TransitionType == acsfile.TransitionExitBranches {
			printBranchDetail(a, info.Name)
		}
	}
}

// printBranchDetail lists the exit frames and probabilistic branches of an
// exit-branching animation, one line per frame that has either.
func printBranchDetail(a *msagent.Archive, name string) {
	anim, ok := a.GetAnimation(name)
	if !ok {
		return
	}
	for i, f := range anim.Frames {
		if f.ExitFrame == nil && len(f.Branches) == 0 {
			continue
		}
		line := fmt.Sprintf("    frame %d:", i)
		if f.ExitFrame != nil {
			line += fmt.Sprintf(" exit -> %d", *f.ExitFrame)
		}
		for _, b := range f.Branches {
			line += fmt.Sprintf(" branch -> %d (%d%%)", b.TargetFrame, b.ProbabilityPct)
		}
		fmt.Println(line)
	}
}
