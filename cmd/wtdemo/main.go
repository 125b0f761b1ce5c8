// Command wtdemo renders a short note from a synthesized wavetable to a WAV
// file, for auditioning the engine's frame-switching, glide and mip-level
// crossfades without a host plugin shell.
//
// Usage:
//
//	wtdemo -wave saw -note 60 -duration 2 out.wav
//	wtdemo -wave sine -blend saw -mix 0.5 -note 72 -glide 0.3 out.wav
//	wtdemo -wave noise -note 108 -rate 96000 out.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gowave/wavesynth"
)

const (
	bitDepth  = 16
	maxInt16  = 32767.0
	numFrames = 1

	defaultSampleRate = 48000.0
	defaultDuration   = 1.5
	defaultNote       = 60.0
	defaultVoice      = 0
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	waveName := flag.String("wave", "saw", "Wavetable frame shape: sine, saw, square, noise")
	blendName := flag.String("blend", "", "Second frame shape to crossfade in, blank for none")
	mix := flag.Float64("mix", 0.5, "Blend mix between -wave and -blend, 0 (all -wave) to 1 (all -blend)")
	sampleRate := flag.Float64("rate", defaultSampleRate, "Output sample rate in Hz")
	note := flag.Float64("note", defaultNote, "MIDI note number to play")
	duration := flag.Float64("duration", defaultDuration, "Duration to render, in seconds")
	glideTime := flag.Float64("glide", 0, "Glide time in seconds; 0 disables glide")
	glideMult := flag.Float64("glide-mult", 2.0, "Glide target as a multiplier of the note's pitch")
	volume := flag.Float64("volume", 0.8, "Output volume, 0 to 1")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("missing output path")
	}
	outputPath := args[0]

	raw, err := frame(*waveName)
	if err != nil {
		return err
	}

	wt, err := buildWavetable(raw, *blendName, *mix, *sampleRate)
	if err != nil {
		return err
	}

	eng, err := wavesynth.NewEngine(wavesynth.EngineConfig{
		SampleRate: *sampleRate,
		BlockSize:  int(*sampleRate * *duration),
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	eng.SetWavetable(wt)

	if *verbose {
		log.Printf("Wave: %s, blend: %q, mix: %.2f", *waveName, *blendName, *mix)
		log.Printf("Note: %.1f, rate: %.0f Hz, duration: %.2fs", *note, *sampleRate, *duration)
	}

	eng.SetParameter(wavesynth.ParamVolume, *volume)
	if *glideTime > 0 {
		eng.SetParameter(wavesynth.ParamGlideOn, 1)
		eng.SetParameter(wavesynth.ParamGlideTime, *glideTime)
		eng.SetParameter(wavesynth.ParamGlideMult, *glideMult)
	}

	if err := eng.NoteOn(wavesynth.NoteEvent{
		Voice:    defaultVoice,
		MIDINote: int(*note),
		Velocity: 1.0,
		Frame:    0,
	}); err != nil {
		return fmt.Errorf("failed to trigger note: %w", err)
	}

	n := int(*sampleRate * *duration)
	left := make([]float32, n)
	right := make([]float32, n)
	eng.Process(left, right)

	if err := writeWAV(outputPath, left, right, int(*sampleRate)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("Wrote %s (%d samples, %.0f Hz, %d-bit stereo)\n", outputPath, n, *sampleRate, bitDepth)
	return nil
}

// buildWavetable places raw at frame slot 0 of a full-size table (every
// other slot silent) and hands it to NewWavetable/BlendWavetables, mirroring
// how a host would publish a freshly rendered table through a TableBuilder.
func buildWavetable(raw []float32, blendName string, mix, sampleRate float64) (*wavesynth.Wavetable, error) {
	cfg := wavesynth.WavetableConfig{SampleRate: sampleRate}
	if blendName == "" {
		return wavesynth.NewWavetable(fullTable(raw), cfg)
	}

	blendRaw, err := frame(blendName)
	if err != nil {
		return nil, err
	}
	return wavesynth.BlendWavetables(fullTable(raw), fullTable(blendRaw), mix, cfg)
}

// fullTable places a single FrameSize-sample cycle at frame slot 0 of a
// MaxSamples-long buffer, leaving every other slot silent.
func fullTable(frame0 []float32) []float32 {
	out := make([]float32, wavesynth.MaxSamples)
	copy(out, frame0)
	return out
}

// frame renders one FrameSize-sample cycle of the named shape.
func frame(name string) ([]float32, error) {
	out := make([]float32, wavesynth.FrameSize*numFrames)
	switch name {
	case "sine":
		for i := range out {
			out[i] = float32(math.Sin(2 * math.Pi * float64(i) / wavesynth.FrameSize))
		}
	case "saw":
		for i := range out {
			phase := float64(i) / wavesynth.FrameSize
			out[i] = float32(2*phase - 1)
		}
	case "square":
		for i := range out {
			phase := float64(i) / wavesynth.FrameSize
			if phase < 0.5 {
				out[i] = 1
			} else {
				out[i] = -1
			}
		}
	case "noise":
		rng := rand.New(rand.NewSource(1))
		for i := range out {
			out[i] = float32(rng.Float64()*2 - 1)
		}
	default:
		return nil, fmt.Errorf("unknown wave shape %q (want sine, saw, square, or noise)", name)
	}
	return out, nil
}

// writeWAV encodes interleaved stereo float32 samples as a 16-bit PCM WAV
// file via go-audio/wav's encoder.
func writeWAV(path string, left, right []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	const stereoChannels = 2
	enc := wav.NewEncoder(f, sampleRate, bitDepth, stereoChannels, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: stereoChannels, SampleRate: sampleRate},
		Data:   make([]int, len(left)*stereoChannels),
	}
	for i := range left {
		buf.Data[i*stereoChannels] = clampInt16(left[i])
		buf.Data[i*stereoChannels+1] = clampInt16(right[i])
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	return enc.Close()
}

func clampInt16(s float32) int {
	v := float64(s)
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return int(v * maxInt16)
}
