package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

// Outputs reports the physical outputs. RandR CRTCs are preferred, then
// Xinerama heads. With neither extension the list is empty and the caller
// falls back to the whole screen.
func (c *Conn) Outputs() ([]state.Output, error) {
	if c.randr {
		outputs, err := c.randrOutputs()
		if err == nil && len(outputs) > 0 {
			return outputs, nil
		}
		if err != nil {
			c.logger.Debugf("randr outputs: %v", err)
		}
	}
	if c.xinerama {
		return c.xineramaOutputs()
	}
	return nil, nil
}

func (c *Conn) randrOutputs() ([]state.Output, error) {
	res, err := randr.GetScreenResourcesCurrent(c.conn, c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen resources: %w", err)
	}
	var out []state.Output
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(c.conn, crtc, xproto.TimeCurrentTime).Reply()
		if err != nil {
			return nil, fmt.Errorf("crtc info: %w", err)
		}
		name := fmt.Sprintf("crtc-%d", crtc)
		if len(info.Outputs) > 0 {
			if oi, err := randr.GetOutputInfo(c.conn, info.Outputs[0], xproto.TimeCurrentTime).Reply(); err == nil {
				name = string(oi.Name)
			}
		}
		out = append(out, state.Output{
			Name:   name,
			Rect:   layout.Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)},
			Active: info.Mode != 0 && len(info.Outputs) > 0,
		})
	}
	return out, nil
}

func (c *Conn) xineramaOutputs() ([]state.Output, error) {
	reply, err := xinerama.QueryScreens(c.conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("xinerama screens: %w", err)
	}
	out := make([]state.Output, 0, len(reply.ScreenInfo))
	for i, s := range reply.ScreenInfo {
		out = append(out, state.Output{
			Name:   fmt.Sprintf("xinerama-%d", i),
			Rect:   layout.Rect{X: int(s.XOrg), Y: int(s.YOrg), Width: int(s.Width), Height: int(s.Height)},
			Active: true,
		})
	}
	return out, nil
}
