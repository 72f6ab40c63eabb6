package manager

import (
	"fmt"

	"github.com/cwsl/radiod-engine/internal/channel"
)

// PollSpectrum runs one spectrum-analysis poll cycle for ssrc's channel
// against the shared front end. It is a no-op (not an error) for any
// channel not currently configured as a spectrum demodulator, since the
// periodic status loop calls it unconditionally for every live channel.
func (mgr *Manager) PollSpectrum(ssrc uint32) error {
	c, ok := mgr.Get(ssrc)
	if !ok {
		return fmt.Errorf("manager: no such channel %#x", ssrc)
	}
	if c.DemodType != channel.Spect && c.DemodType != channel.Spect2 {
		return nil
	}
	return c.PollSpectrum(c.Filter.BinShift)
}
