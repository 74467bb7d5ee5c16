package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/eowm/eowm/internal/keys"
)

func init() {
	xevent.IgnoreMods = lockCombos(keys.IgnoredMods)
}

// lockCombos lists every subset of the lock modifiers so a binding fires
// whatever the Caps Lock and Num Lock state.
func lockCombos(locks keys.Mods) []uint16 {
	combos := []uint16{0}
	for bit := keys.Mods(1); bit <= keys.Mod5; bit <<= 1 {
		if locks&bit == 0 {
			continue
		}
		for _, m := range combos {
			combos = append(combos, m|uint16(bit))
		}
	}
	return combos
}

// GrabKeys replaces every key grab on the root window with bindings.
func (c *Conn) GrabKeys(bindings []keys.Binding) error {
	xproto.UngrabKey(c.conn, xproto.GrabAny, c.root, xproto.ModMaskAny)
	var errs []error
	for _, b := range bindings {
		codes := keybind.StrToKeycodes(c.xu, b.Key)
		if len(codes) == 0 {
			errs = append(errs, fmt.Errorf("%s: unknown key %q", b.Combo(), b.Key))
			continue
		}
		for _, code := range codes {
			if err := keybind.GrabChecked(c.xu, c.root, uint16(b.Mods), code); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Combo(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// keyName resolves a pressed keycode to its unshifted keysym name, the
// form bindings are written in.
func (c *Conn) keyName(code xproto.Keycode) string {
	return keybind.LookupString(c.xu, 0, code)
}
