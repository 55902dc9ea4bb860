package lighting

const (
	ChannelTypeIntensity = "channel:type:intensity"
	ChannelTypeRed       = "channel:type:red"
	ChannelTypeGreen     = "channel:type:green"
	ChannelTypeBlue      = "channel:type:blue"
	ChannelTypeWhite     = "channel:type:white"
	ChannelTypeStrobe    = "channel:type:strobe"
)

// Profile holds the channel layout of a fixture model. Channel offsets start at 1.
type Profile struct {
	Name     string
	Channels map[string]int
}

// Profiles returns the known fixture profiles by key.
func Profiles() map[string]Profile {
	return map[string]Profile{
		"shehds-par": {
			Name: "Shehds LED Flat PAR 12x3W RGBW",
			Channels: map[string]int{
				ChannelTypeIntensity: 1,
				ChannelTypeRed:       2,
				ChannelTypeGreen:     3,
				ChannelTypeBlue:      4,
				ChannelTypeWhite:     5,
				ChannelTypeStrobe:    6,
			},
		},
		"generic-rgb": {
			Name: "Generic 3 channel RGB",
			Channels: map[string]int{
				ChannelTypeRed:   1,
				ChannelTypeGreen: 2,
				ChannelTypeBlue:  3,
			},
		},
	}
}
