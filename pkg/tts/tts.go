// Package tts turns answers and route instructions into playable audio.
//
//	voice, _ := tts.NewElevenLabs(tts.WithAPIKey(os.Getenv("ELEVENLABS_API_KEY")))
//	speaker := tts.NewSpeaker(tts.NewCache(voice, 64), audio.NewPlayer(), logger)
//	_ = speaker.Speak(ctx, "Turn left onto Market Street")
package tts

import (
	"context"
	"time"
)

// Provider synthesizes one utterance at a time.
type Provider interface {
	Synthesize(ctx context.Context, text string) (*Clip, error)
	Close() error
}

// Clip is one synthesized utterance.
type Clip struct {
	Audio   []byte
	Format  Format
	Chars   int
	Latency time.Duration
}

// Duration estimates playback length from the encoded size.
func (c *Clip) Duration() time.Duration {
	return c.Format.Duration(len(c.Audio))
}

// Format is an ElevenLabs output_format value.
type Format string

const (
	FormatMP3    Format = "mp3_44100_128"
	FormatMP3Low Format = "mp3_22050_32"
	FormatPCM16k Format = "pcm_16000"
	FormatPCM24k Format = "pcm_24000"
)

// MIMEType is the Accept header for f.
func (f Format) MIMEType() string {
	switch f {
	case FormatPCM16k, FormatPCM24k:
		return "audio/pcm"
	}
	return "audio/mpeg"
}

// Duration estimates how long size bytes of f play for.
func (f Format) Duration(size int) time.Duration {
	var bytesPerSec float64
	switch f {
	case FormatMP3:
		bytesPerSec = 128_000 / 8
	case FormatMP3Low:
		bytesPerSec = 32_000 / 8
	case FormatPCM16k:
		bytesPerSec = 16_000 * 2
	case FormatPCM24k:
		bytesPerSec = 24_000 * 2
	default:
		return 0
	}
	return time.Duration(float64(size) / bytesPerSec * float64(time.Second))
}

func (f Format) valid() bool {
	switch f {
	case FormatMP3, FormatMP3Low, FormatPCM16k, FormatPCM24k:
		return true
	}
	return false
}
