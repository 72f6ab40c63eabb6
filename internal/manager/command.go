package manager

import (
	"fmt"

	"github.com/cwsl/radiod-engine/internal/channel"
	"github.com/cwsl/radiod-engine/internal/preset"
	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
)

// presetNameOf scans a decoded command's fields for a PRESET field naming
// a dictionary section.
func presetNameOf(fields []tlv.Field) (string, bool) {
	for _, f := range fields {
		if f.Type == wire.Preset {
			return tlv.DecodeString(f.Value), true
		}
	}
	return "", false
}

// applyDecodedCommand applies one decoded command's fields onto c: a named
// preset section first, if the command carries a PRESET field, then every
// other recognized field in the same command directly onto the channel's
// typed parameters. Direct fields are applied after the preset so that a
// command combining both wins over the section it also selects, the same
// latest-wins rule the pending-command mailbox itself follows.
func applyDecodedCommand(c *channel.Channel, fields []tlv.Field, loader preset.Loader, dict preset.Dictionary) error {
	if name, ok := presetNameOf(fields); ok && name != "" {
		if _, exists := dict[name]; !exists {
			return fmt.Errorf("preset: no section %q in the preset dictionary", name)
		}
		c.Lock()
		err := loader.Apply(c, dict, name)
		c.Unlock()
		if err != nil {
			return err
		}
	}
	c.ApplyFields(fields)
	return nil
}
