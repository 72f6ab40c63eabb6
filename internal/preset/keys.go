package preset

// RecognizedKeys is the closed set of keys loadpreset understands, carried
// over verbatim from the channel section key table (numbered tone/freq/
// raster/except variants included, since multi-channel front ends key them
// per sub-channel index).
var RecognizedKeys = []string{
	"advertise", "dns", "disable", "data", "dc-cut", "demod",
	"beam", "a-amp", "a-phase", "b-amp", "b-phase",
	"mode", "preset", "samprate", "channels", "mono", "stereo",
	"low", "high",
	"squelch-open", "squelch-close", "squelchtail", "squelch-tail",
	"headroom", "shift", "recovery-rate", "hang-time", "threshold", "gain",
	"envelope", "pll", "square", "conj", "pll-bw", "agc",
	"extend", "threshold-extend",
	"deemph-tc", "deemph-gain",
	"tone", "tone0", "tone1", "tone2", "tone3", "tone4", "tone5", "tone6", "tone7", "tone8", "tone9",
	"pl", "ctcss",
	"pacing", "encoding", "bitrate",
	"opus-bitrate", "opus-dtx", "opus-application", "opus-fec", "opus-signal",
	"update", "buffer",
	"freq", "freq0", "freq1", "freq2", "freq3", "freq4", "freq5", "freq6", "freq7", "freq8", "freq9",
	"raster", "raster0", "raster1", "raster2", "raster3", "raster4", "raster5", "raster6", "raster7", "raster8", "raster9",
	"except", "except0", "except1", "except2", "except3", "except4", "except5", "except6", "except7", "except8", "except9",
	"ttl", "snr-squelch", "filter2",
	"crossover", "window", "kaiser-beta", "bin-count", "spectrum-shape",
	"prio",
}

var recognizedKeys = func() map[string]bool {
	m := make(map[string]bool, len(RecognizedKeys))
	for _, k := range RecognizedKeys {
		m[k] = true
	}
	return m
}()
