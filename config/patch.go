package config

import "github.com/robmorgan/conductor/lighting"

// DefaultFixtures returns the fixtures flashed on the beat when lighting is enabled.
func DefaultFixtures() []lighting.Fixture {
	s := make([]lighting.Fixture, 0)

	s = append(s, patchFrontMiddlePars()...)

	return s
}

func patchFrontMiddlePars() []lighting.Fixture {
	return []lighting.Fixture{
		// left middle par
		{
			Name:     "left_middle_par",
			Address:  115,
			Universe: 1,
			Profile:  "shehds-par",
		},
		// right middle par
		{
			Name:     "right_middle_par",
			Address:  139,
			Universe: 1,
			Profile:  "shehds-par",
		},
	}
}
