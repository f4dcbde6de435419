package mounts

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultWinePrefix is the prefix created by the MetaTrader 5 macOS
// installer, relative to the user's home directory.
const DefaultWinePrefix = "Library/Application Support/net.metaquotes.wine.metatrader5"

// Install directories inside the prefix.
const (
	MT4Dir = "drive_c/Program Files/MetaTrader 4"
	MT5Dir = "drive_c/Program Files/MetaTrader 5"
)

// WineInfo describes a probed Wine prefix. Paths are filled in even when
// the corresponding Has flag is false.
type WineInfo struct {
	HasPrefix bool
	HasMT4    bool
	HasMT5    bool
	Prefix    string
	MT4Dir    string
	MT5Dir    string
}

// ProbeWine checks for the Wine prefix and both MetaTrader installs.
// If prefix is empty the MetaQuotes default under home is used.
// Each location is checked independently; stat errors count as absent.
func ProbeWine(fs afero.Fs, home, prefix string) WineInfo {
	if prefix == "" {
		prefix = filepath.Join(home, DefaultWinePrefix)
	}
	info := WineInfo{
		Prefix: prefix,
		MT4Dir: filepath.Join(prefix, MT4Dir),
		MT5Dir: filepath.Join(prefix, MT5Dir),
	}
	info.HasPrefix = exists(fs, info.Prefix)
	info.HasMT4 = exists(fs, info.MT4Dir)
	info.HasMT5 = exists(fs, info.MT5Dir)
	return info
}

func exists(fs afero.Fs, name string) bool {
	ok, err := afero.Exists(fs, name)
	return err == nil && ok
}
