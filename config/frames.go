package config

import "github.com/robmorgan/conductor/music"

// DefaultFrames returns the level progression of the bundled soundtrack at 115 BPM.
func DefaultFrames() []music.Frame {
	s := make([]music.Frame, 0)

	s = append(s, menuFrames()...)
	s = append(s, levelOneFrames()...)
	s = append(s, levelTwoFrames()...)
	s = append(s, levelThreeFrames()...)
	s = append(s, creditFrames()...)

	return s
}

// DefaultEndFrame returns the death jingle.
func DefaultEndFrame() music.Frame {
	return music.Frame{
		Name:                  "Death",
		IntroStart:            542.912,
		LoopStart:             542.912,
		LoopEnd:               560.000,
		TransitionImmediately: true,
	}
}

func menuFrames() []music.Frame {
	return []music.Frame{
		{
			Name:       "Main Menu",
			IntroStart: 9.391,
			LoopStart:  9.391,
			LoopEnd:    36.521,
		},
	}
}

func levelOneFrames() []music.Frame {
	return []music.Frame{
		// the level starts on the next beat, the intro is the whole lead-in
		{
			Name:                  "Level 1",
			IntroStart:            0,
			LoopStart:             82.434,
			LoopEnd:               161.739,
			TransitionImmediately: true,
		},
	}
}

func levelTwoFrames() []music.Frame {
	return []music.Frame{
		{
			Name:       "Level 2 Low Intensity",
			IntroStart: 136.695,
			LoopStart:  161.739,
			LoopEnd:    270.260,
		},
		{
			Name:       "Level 2 High Intensity",
			IntroStart: 270.260,
			LoopStart:  295.304,
			LoopEnd:    351.652,
		},
	}
}

func levelThreeFrames() []music.Frame {
	return []music.Frame{
		{
			Name:       "Level 3 Low Intensity",
			IntroStart: 351.652,
			LoopStart:  355.826,
			LoopEnd:    420.521,
		},
		// boss fight
		{
			Name:                  "Level 3 High Intensity",
			IntroStart:            420.521,
			LoopStart:             441.391,
			LoopEnd:               485.217,
			TransitionImmediately: true,
		},
	}
}

func creditFrames() []music.Frame {
	return []music.Frame{
		{
			Name:       "Credits",
			IntroStart: 485.217,
			LoopStart:  535.304,
			LoopEnd:    566.000,
		},
	}
}
