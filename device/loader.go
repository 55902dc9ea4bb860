package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/logger"
	"github.com/sirupsen/logrus"
)

// LoadBuffer decodes a wav, mp3 or ogg vorbis file fully into memory.
func LoadBuffer(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	default:
		return nil, errors.WithStackTrace(fmt.Errorf("unsupported audio format %q", ext))
	}
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{
		"file":        path,
		"sample_rate": format.SampleRate,
		"duration":    format.SampleRate.D(buffer.Len()).String(),
	}).Info("Music buffer loaded")

	return buffer, nil
}
