package provider

import (
	"math"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// DefaultSampleRate is the assumed input rate for duration accounting.
const DefaultSampleRate = 16000

// vadState tracks where the detector is in the speech cycle.
type vadState int

const (
	// vadListening waits for energy to cross the threshold.
	vadListening vadState = iota

	// vadPending has seen energy but the segment is not yet confirmed.
	vadPending

	// vadSpeaking is inside a confirmed speech segment.
	vadSpeaking

	// vadHangover is silence inside a segment, not yet long enough to
	// close it.
	vadHangover
)

// String returns a string representation of the detector state.
func (s vadState) String() string {
	switch s {
	case vadListening:
		return "listening"
	case vadPending:
		return "pending"
	case vadSpeaking:
		return "speaking"
	case vadHangover:
		return "hangover"
	default:
		return "unknown"
	}
}

// EnergyVAD is a local RMS-energy speech detector. A segment opens once
// energy stays above the threshold for the minimum speech duration and
// closes once it stays below the threshold for the minimum silence
// duration. Short blips in either direction are absorbed.
type EnergyVAD struct {
	threshold  float64
	minSpeech  float64 // seconds
	minSilence float64 // seconds
	sampleRate float64

	state      vadState
	speechSec  float64
	silenceSec float64
}

// NewEnergyVAD creates the local detector for the given parameters. Zero
// values take the pipeline defaults.
func NewEnergyVAD(params kwami.VadParams) *EnergyVAD {
	defaults := kwami.DefaultVoicePipeline().Vad

	threshold := params.Threshold
	if threshold <= 0 {
		threshold = defaults.Threshold
	}
	minSpeech := params.MinSpeechDuration
	if minSpeech <= 0 {
		minSpeech = defaults.MinSpeechDuration
	}
	minSilence := params.MinSilenceDuration
	if minSilence <= 0 {
		minSilence = defaults.MinSilenceDuration
	}

	return &EnergyVAD{
		threshold:  threshold,
		minSpeech:  minSpeech,
		minSilence: minSilence,
		sampleRate: DefaultSampleRate,
		state:      vadListening,
	}
}

// Name returns the detector name
func (v *EnergyVAD) Name() string {
	return "energy"
}

// Process consumes one frame of samples and reports the verdict.
func (v *EnergyVAD) Process(samples []float32) Decision {
	if len(samples) == 0 {
		return Decision{Speaking: v.state == vadSpeaking || v.state == vadHangover}
	}

	energy := rmsEnergy(samples)
	frame := float64(len(samples)) / v.sampleRate
	loud := energy >= v.threshold

	d := Decision{Energy: energy}

	switch v.state {
	case vadListening, vadPending:
		if !loud {
			v.state = vadListening
			v.speechSec = 0
			break
		}
		v.state = vadPending
		v.speechSec += frame
		if v.speechSec >= v.minSpeech {
			v.state = vadSpeaking
		}

	case vadSpeaking, vadHangover:
		if loud {
			v.state = vadSpeaking
			v.silenceSec = 0
			break
		}
		v.state = vadHangover
		v.silenceSec += frame
		if v.silenceSec >= v.minSilence {
			v.state = vadListening
			v.speechSec = 0
			v.silenceSec = 0
			d.TurnEnded = true
		}
	}

	d.Speaking = v.state == vadSpeaking || v.state == vadHangover
	return d
}

// Reset clears accumulated state between utterances.
func (v *EnergyVAD) Reset() {
	v.state = vadListening
	v.speechSec = 0
	v.silenceSec = 0
}

// rmsEnergy computes the root mean square energy of a frame.
func rmsEnergy(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
