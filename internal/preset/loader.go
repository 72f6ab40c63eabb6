package preset

import (
	"math"
	"strconv"

	"github.com/cwsl/radiod-engine/internal/channel"
	"github.com/cwsl/radiod-engine/internal/env"
	"github.com/cwsl/radiod-engine/internal/freqparse"
)

// dB2Power converts a dB value to a power ratio: 10^(x/10).
func dB2Power(x float64) float64 { return math.Pow(10, x/10) }

// dB2Voltage converts a dB value to a voltage ratio: 10^(x/20).
func dB2Voltage(x float64) float64 { return math.Pow(10, x/20) }

// RoundSamprate forces x to a positive multiple of the environment's base
// rate ((1/Blocktime)*(Overlap-1)), floored at 400 Hz. Values below the
// base rate round up to exactly one base-rate unit.
func RoundSamprate(x float64, e env.Environment) int {
	if x < 400 {
		return 400
	}
	base := e.BaseRate()
	if base <= 0 {
		return int(math.Round(x))
	}
	if x < base {
		return int(math.Round(base))
	}
	return int(math.Round(base * math.Round(x/base)))
}

// Loader applies a dictionary section onto a channel, in the teacher's
// idiom of a stateless struct whose methods do the real work (mirrors
// SessionManager's method-per-mutation shape).
type Loader struct {
	Env env.Environment
}

// Apply overlays section's recognized keys onto c. Missing keys leave c's
// current value untouched; the loader is idempotent and composable (call
// it once for a "global" section, again for the named preset, and later
// calls win). Returns an error only if section carries an unrecognized
// key — structural validation, not value validation.
func (l Loader) Apply(c *channel.Channel, d Dictionary, section string) error {
	if err := d.Validate(section); err != nil {
		return err
	}

	if name := d.GetString(section, "demod", ""); name != "" {
		if dt, ok := channel.DemodTypeFromName(name); ok {
			c.DemodType = dt
		}
	}

	if sr := d.GetString(section, "samprate", ""); sr != "" {
		if hz, err := freqparse.Parse(sr, false); err == nil && hz != 0 {
			c.Output.SampRate = RoundSamprate(hz, l.Env)
		}
	}
	if c.Output.SampRate == 0 {
		c.Output.SampRate = RoundSamprate(8000, l.Env)
	}

	c.Output.Channels = d.GetInt(section, "channels", c.Output.Channels)
	if d.GetBool(section, "mono", false) {
		c.Output.Channels = 1
	}
	if d.GetBool(section, "stereo", false) {
		c.Output.Channels = 2
	}

	c.Filter.KaiserBeta = d.GetFloat(section, "kaiser-beta", c.Filter.KaiserBeta)

	minIF, maxIF := c.Filter.MinIF, c.Filter.MaxIF
	if low, ok := d.Get(section, "low"); ok {
		if hz, err := freqparse.Parse(low, false); err == nil {
			minIF = hz
		}
	}
	if high, ok := d.Get(section, "high"); ok {
		if hz, err := freqparse.Parse(high, false); err == nil {
			maxIF = hz
		}
	}
	c.Filter.SetEdges(minIF, maxIF)

	if v, ok := d.Get(section, "squelch-open"); ok {
		c.FM.SquelchOpen = dB2Power(parseFloatOr0(v))
	}
	if v, ok := d.Get(section, "squelch-close"); ok {
		c.FM.SquelchClose = dB2Power(parseFloatOr0(v))
	}
	c.FM.SquelchTail = d.GetInt(section, "squelchtail", c.FM.SquelchTail)
	c.FM.SquelchTail = d.GetInt(section, "squelch-tail", c.FM.SquelchTail)

	if v, ok := d.Get(section, "headroom"); ok {
		c.Output.Headroom = dB2Voltage(-math.Abs(parseFloatOr0(v)))
	}
	if v, ok := d.Get(section, "shift"); ok {
		if hz, err := freqparse.Parse(v, false); err == nil {
			c.Tune.Shift = hz
		}
	}
	if v, ok := d.Get(section, "recovery-rate"); ok {
		c.Linear.RecoveryRate = dB2Voltage(math.Abs(parseFloatOr0(v)))
	}
	if v, ok := d.Get(section, "hang-time"); ok {
		c.Linear.Hangtime = math.Abs(parseFloatOr0(v))
	}
	if v, ok := d.Get(section, "threshold"); ok {
		c.Linear.Threshold = dB2Voltage(-math.Abs(parseFloatOr0(v)))
	}
	if v, ok := d.Get(section, "gain"); ok {
		c.Output.Gain = dB2Voltage(parseFloatOr0(v))
	}

	c.Linear.Envelope = d.GetBool(section, "envelope", c.Linear.Envelope)
	c.PLL.Enable = d.GetBool(section, "pll", c.PLL.Enable)
	c.PLL.Square = d.GetBool(section, "square", c.PLL.Square)
	if c.PLL.Square {
		c.PLL.Enable = true // square implies pll
	}
	c.Conj = d.GetBool(section, "conj", c.Conj)
	c.PLL.LoopBW = d.GetFloat(section, "pll-bw", c.PLL.LoopBW)
	c.Linear.AGCEnable = d.GetBool(section, "agc", c.Linear.AGCEnable)
	c.FM.ThresholdExtend = d.GetBool(section, "extend", c.FM.ThresholdExtend)
	c.FM.ThresholdExtend = d.GetBool(section, "threshold-extend", c.FM.ThresholdExtend)
	c.FM.SNRSquelchEnable = d.GetBool(section, "snr-squelch", c.FM.SNRSquelchEnable)

	const noCutoffSentinel = -987
	if cutoff := d.GetFloat(section, "dc-cut", noCutoffSentinel); cutoff != noCutoffSentinel {
		c.Linear.DCTau = -math.Expm1(-2 * math.Pi * cutoff / float64(c.Output.SampRate))
	}

	if v, ok := d.Get(section, "deemph-tc"); ok {
		tc := parseFloatOr0(v) * 1e-6
		samprate := float64(c.Output.SampRate)
		if c.DemodType == channel.WFM {
			samprate = fullSamprate
		}
		if tc > 0 && samprate > 0 {
			c.FM.DeemphRate = -math.Expm1(-1 / (tc * samprate))
		}
	}
	if v, ok := d.Get(section, "deemph-gain"); ok {
		c.FM.DeemphGain = dB2Voltage(parseFloatOr0(v))
	}

	tone := c.FM.ToneFreq
	tone = d.GetFloat(section, "tone", tone)
	tone = d.GetFloat(section, "pl", tone)
	tone = math.Abs(d.GetFloat(section, "ctcss", tone))
	if tone <= 3000 {
		c.FM.ToneFreq = tone
	}

	c.Output.Pacing = d.GetBool(section, "pacing", c.Output.Pacing)
	if enc, ok := d.Get(section, "encoding"); ok {
		c.Output.Encoding = enc
	}

	bitrate := abs(d.GetInt(section, "bitrate", c.Output.Opus.BitRate))
	bitrate = abs(d.GetInt(section, "opus-bitrate", bitrate))
	if bitrate > 0 && bitrate < 510 {
		bitrate *= 1000 // below 510, the value is kbit/s
	}
	if bitrate <= 510000 {
		c.Output.Opus.BitRate = bitrate
	}
	c.Output.Opus.DTX = d.GetBool(section, "opus-dtx", c.Output.Opus.DTX)
	if fec := abs(d.GetInt(section, "opus-fec", c.Output.Opus.FEC)); fec <= 100 {
		c.Output.Opus.FEC = fec
	}
	if app, ok := d.Get(section, "opus-application"); ok && app != "" {
		c.Output.Opus.Application = app
	}
	if sig, ok := d.Get(section, "opus-signal"); ok && sig != "" {
		c.Output.Opus.Signal = sig
	}

	c.Status.OutputInterval = abs(d.GetInt(section, "update", c.Status.OutputInterval))
	if buf := abs(d.GetInt(section, "buffer", c.Output.Minpacket)); buf <= 4 {
		c.Output.Minpacket = buf
	}
	if blocking := d.GetInt(section, "filter2", c.Filter2Blocking); blocking <= 10 {
		c.Filter2Blocking = blocking
	}
	c.Prio = d.GetInt(section, "prio", c.Prio)
	c.Output.TTL = d.GetInt(section, "ttl", c.Output.TTL)

	if _, ok := d.Get(section, "beam"); ok {
		c.Filter.Beam = d.GetBool(section, "beam", c.Filter.Beam)
		if c.Filter.Beam {
			aAmp := d.GetFloat(section, "a-amp", 1.0)
			aPhase := d.GetFloat(section, "a-phase", 0.0)
			bAmp := d.GetFloat(section, "b-amp", 0.0)
			bPhase := d.GetFloat(section, "b-phase", 0.0)
			c.Filter.AWeight = channel.BeamWeight(aAmp, aPhase)
			c.Filter.BWeight = channel.BeamWeight(bAmp, bPhase)
		}
	}

	return nil
}

// fullSamprate is the front end's full sample rate, used as the deemphasis
// time base for WFM (which deemphasizes ahead of any output decimation)
// instead of the channel's own (possibly much lower) output rate.
const fullSamprate = 384000.0

func parseFloatOr0(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
