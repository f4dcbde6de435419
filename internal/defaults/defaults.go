// Package defaults computes where MetaEditor is expected to be installed on
// the current platform.
package defaults

import (
	"path/filepath"

	"github.com/sverrirab/mtbridge/internal/mounts"
	"github.com/sverrirab/mtbridge/internal/platform"
)

// Binary names. MetaTrader 4 ships a 32-bit editor, MetaTrader 5 a 64-bit one.
const (
	MetaEditor4Binary = "metaeditor.exe"
	MetaEditor5Binary = "MetaEditor64.exe"
)

// Paths holds the default editor locations for both MetaTrader versions.
type Paths struct {
	MetaEditor4 string `json:"metaeditor4"`
	MetaEditor5 string `json:"metaeditor5"`
}

// WineProber probes the Wine prefix. *pathconv.Translator implements it.
type WineProber interface {
	Wine() mounts.WineInfo
}

// Provider computes Paths for a platform.
type Provider struct {
	platform platform.Platform
	wine     WineProber
}

func NewProvider(p platform.Platform, wine WineProber) *Provider {
	return &Provider{platform: p, wine: wine}
}

// Get returns the default paths. Nothing is cached: the Wine prefix is
// probed on every call.
func (p *Provider) Get() Paths {
	switch {
	case p.platform.IsNative():
		return Paths{
			MetaEditor4: `C:\MT4_Install\MetaTrader\metaeditor.exe`,
			MetaEditor5: `C:\MT5_Install\MetaTrader\metaeditor.exe`,
		}
	case p.platform.IsHost():
		if p.wine != nil {
			if info := p.wine.Wine(); info.HasPrefix {
				return Paths{
					MetaEditor4: filepath.Join(info.MT4Dir, MetaEditor4Binary),
					MetaEditor5: filepath.Join(info.MT5Dir, MetaEditor5Binary),
				}
			}
		}
		return Paths{
			MetaEditor4: "/Volumes/C/MT4_Install/MetaTrader/metaeditor.exe",
			MetaEditor5: "/Volumes/C/MT5_Install/MetaTrader/metaeditor.exe",
		}
	default:
		return Paths{
			MetaEditor4: "/mnt/c/MT4_Install/MetaTrader/metaeditor.exe",
			MetaEditor5: "/mnt/c/MT5_Install/MetaTrader/metaeditor.exe",
		}
	}
}
