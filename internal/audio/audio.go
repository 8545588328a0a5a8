// Package audio renders the CHIP-8 tone to a WAV file.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/chip8vm/internal/timer"
)

const (
	// SampleRate of the recording in Hz.
	SampleRate = 44100
	// BitDepth of a sample.
	BitDepth = 16
	// ToneFrequency of the square wave in Hz.
	ToneFrequency = 440

	amplitude       = 8000
	samplesPerFrame = SampleRate / timer.TickRate
	pcmFormat       = 1
)

// Recorder renders a square wave for every timer frame with an active sound
// timer and silence otherwise.
type Recorder struct {
	encoder *wav.Encoder
	closer  io.Closer
	buffer  *audio.IntBuffer

	sample int // running sample index, keeps the wave phase across frames
	frames int
	active int
	err    error
}

// NewRecorder returns a recorder that writes to out.
func NewRecorder(out io.WriteSeeker) *Recorder {
	return &Recorder{
		encoder: wav.NewEncoder(out, SampleRate, BitDepth, 1, pcmFormat),
		buffer: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
			Data:           make([]int, samplesPerFrame),
			SourceBitDepth: BitDepth,
		},
	}
}

// Create returns a recorder writing to a new file.
func Create(path string) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file %s: %w", path, err)
	}
	r := NewRecorder(file)
	r.closer = file
	return r, nil
}

// Frame appends one timer frame of audio. Errors are reported by Close.
func (r *Recorder) Frame(active bool) {
	if r.err != nil {
		return
	}

	for i := range r.buffer.Data {
		r.buffer.Data[i] = 0
		if active {
			r.buffer.Data[i] = squareWave(r.sample)
		}
		r.sample++
	}

	r.frames++
	if active {
		r.active++
	}
	if err := r.encoder.Write(r.buffer); err != nil {
		r.err = fmt.Errorf("writing samples: %w", err)
	}
}

// Frames returns the number of recorded frames and how many of them had the
// tone active.
func (r *Recorder) Frames() (total, active int) {
	return r.frames, r.active
}

// Close finalizes the WAV header and closes the file if the recorder
// created it.
func (r *Recorder) Close() error {
	err := r.err
	if closeErr := r.encoder.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("finalizing wav: %w", closeErr))
	}
	if r.closer != nil {
		if closeErr := r.closer.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}
	return err
}

func squareWave(sample int) int {
	halfPeriods := sample * 2 * ToneFrequency / SampleRate
	if halfPeriods%2 == 0 {
		return amplitude
	}
	return -amplitude
}
