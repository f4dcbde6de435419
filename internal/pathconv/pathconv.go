// Package pathconv translates paths between the Windows view used by
// MetaEditor and the macOS host view, using the Parallels volumes and the
// Wine prefix discovered at call time.
//
// Translation is best effort: volume names are not a reliable contract, so
// every rule falls back to a conventional mapping and callers must tolerate
// a result that does not exist.
package pathconv

import (
	"log/slog"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/sverrirab/mtbridge/internal/logging"
	"github.com/sverrirab/mtbridge/internal/mounts"
	"github.com/sverrirab/mtbridge/internal/platform"
)

// HomeShare is the Parallels network path for the macOS home directory.
const HomeShare = `\\Mac\Home`

// VolumeSource supplies the current volume names. *volumecache.Cache
// implements it.
type VolumeSource interface {
	Volumes() []string
}

// Options configures a Translator.
type Options struct {
	Platform platform.Platform
	Volumes  VolumeSource
	Fs       afero.Fs
	// VolumesRoot is where volumes are mounted, e.g. "/Volumes".
	VolumesRoot string
	// LowerDriveLetters makes the generic drive rule produce "/mnt/d/..."
	// rather than "/Volumes/D/...".
	LowerDriveLetters bool
	// Candidates replaces DefaultCandidates when non-nil.
	Candidates []Candidate
	// WinePrefix overrides the default Wine prefix location.
	WinePrefix string
	Logger     *slog.Logger
}

// Translator converts paths in both directions.
type Translator struct {
	platform   platform.Platform
	volumes    VolumeSource
	fs         afero.Fs
	root       string
	lower      bool
	candidates []Candidate
	winePrefix string
	logger     *slog.Logger
}

// New creates a Translator.
func New(opts Options) *Translator {
	t := &Translator{
		platform:   opts.Platform,
		volumes:    opts.Volumes,
		fs:         opts.Fs,
		root:       strings.TrimRight(opts.VolumesRoot, "/"),
		lower:      opts.LowerDriveLetters,
		candidates: opts.Candidates,
		winePrefix: opts.WinePrefix,
		logger:     logging.OrDiscard(opts.Logger),
	}
	if t.fs == nil {
		t.fs = afero.NewOsFs()
	}
	if t.root == "" {
		t.root = "/Volumes"
	}
	if t.candidates == nil {
		t.candidates = DefaultCandidates(opts.Platform.Home)
	}
	return t
}

// Mounts discovers the current drive mounts.
func (t *Translator) Mounts() mounts.Info {
	var vols []string
	if t.volumes != nil {
		vols = t.volumes.Volumes()
	}
	return mounts.Discover(vols, t.root)
}

// Wine probes the Wine prefix. The result is never cached.
func (t *Translator) Wine() mounts.WineInfo {
	return mounts.ProbeWine(t.fs, t.platform.Home, t.winePrefix)
}

// ToHost converts a Windows path such as C:\MT5\metaeditor.exe to the
// matching host path. Empty input and native Windows return the input.
func (t *Translator) ToHost(winPath string) string {
	if winPath == "" || t.platform.IsNative() {
		return winPath
	}

	hostPath := winPath
	if letter, rest, ok := splitDrive(winPath); ok {
		if mount := t.Mounts().Drive(letter); mount != "" {
			hostPath = mount + "/" + rest
		} else {
			hostPath = t.genericMount(letter) + "/" + rest
		}
	}

	hostPath = normalize(hostPath)
	hostPath = t.expandHomeShare(hostPath)

	if t.exists(hostPath) || !strings.HasPrefix(hostPath, t.root+"/") {
		return hostPath
	}

	rel := strings.TrimPrefix(hostPath, t.root+"/")
	for _, candidate := range t.candidates {
		alt := candidate(rel)
		if alt == "" {
			continue
		}
		if t.exists(alt) {
			t.logger.Debug("using alternate path", "path", hostPath, "alternate", alt)
			return alt
		}
	}
	return hostPath
}

// ToWindows converts a host path back to the Windows view. No existence
// checks are made: the Windows side cannot be probed from the host.
func (t *Translator) ToWindows(hostPath string) string {
	if hostPath == "" || t.platform.IsNative() {
		return hostPath
	}

	winPath := hostPath
	m := t.Mounts()
	switch {
	case m.CDrive != "" && hasPathPrefixFold(winPath, m.CDrive):
		winPath = `C:\` + strings.TrimLeft(winPath[len(m.CDrive):], "/")
	case m.DDrive != "" && hasPathPrefixFold(winPath, m.DDrive):
		winPath = `D:\` + strings.TrimLeft(winPath[len(m.DDrive):], "/")
	default:
		if letter, rest, ok := t.splitGenericMount(winPath); ok {
			winPath = letter + `:\` + rest
		} else if home := t.platform.Home; home != "" && hasPathPrefix(winPath, home) {
			winPath = HomeShare + winPath[len(home):]
		}
	}

	return strings.ReplaceAll(winPath, "/", `\`)
}

// ToWine converts a Windows path to its location inside the Wine prefix.
// Without a Wine prefix the input is returned unchanged.
func (t *Translator) ToWine(winPath string) string {
	if winPath == "" || t.platform.IsNative() {
		return winPath
	}
	wine := t.Wine()
	if !wine.HasPrefix {
		return winPath
	}

	winePath := winPath
	if letter, rest, ok := splitDrive(winPath); ok && (letter == "C" || letter == "D") {
		winePath = wine.Prefix + "/drive_" + strings.ToLower(letter) + "/" + rest
	}
	return normalize(winePath)
}

func (t *Translator) genericMount(letter string) string {
	if t.lower {
		letter = strings.ToLower(letter)
	}
	return t.root + "/" + letter
}

// splitGenericMount recognizes <root>/X or <root>/X/rest and returns the
// upper-cased letter and the remainder.
func (t *Translator) splitGenericMount(p string) (letter, rest string, ok bool) {
	prefix := t.root + "/"
	if !hasPathPrefixFold(p, t.root) || len(p) < len(prefix)+1 {
		return "", "", false
	}
	tail := p[len(prefix):]
	if !isLetter(tail[0]) || (len(tail) > 1 && tail[1] != '/') {
		return "", "", false
	}
	rest = ""
	if len(tail) > 2 {
		rest = tail[2:]
	}
	return strings.ToUpper(tail[:1]), rest, true
}

// expandHomeShare maps //Mac/Home (the normalized \\Mac\Home) to the home
// directory.
func (t *Translator) expandHomeShare(p string) string {
	share := strings.ReplaceAll(HomeShare, `\`, "/")
	if t.platform.Home == "" || !hasPathPrefixFold(p, share) {
		return p
	}
	return t.platform.Home + p[len(share):]
}

func (t *Translator) exists(name string) bool {
	ok, err := afero.Exists(t.fs, name)
	return err == nil && ok
}

// splitDrive recognizes X:\ and X:/ prefixes, returning the upper-cased
// letter and the remainder.
func splitDrive(p string) (letter, rest string, ok bool) {
	if len(p) < 3 || !isLetter(p[0]) || p[1] != ':' || (p[2] != '\\' && p[2] != '/') {
		return "", "", false
	}
	return strings.ToUpper(p[:1]), p[3:], true
}

// normalize converts backslashes to forward slashes and collapses repeated
// separators, keeping a leading // that marks a network path.
func normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	lead := ""
	if strings.HasPrefix(p, "//") {
		lead = "/"
		p = p[1:]
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return lead + p
}

// hasPathPrefix reports whether p equals prefix or continues it with "/".
func hasPathPrefix(p, prefix string) bool {
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	return len(p) == len(prefix) || p[len(prefix)] == '/'
}

func hasPathPrefixFold(p, prefix string) bool {
	if len(p) < len(prefix) || !strings.EqualFold(p[:len(prefix)], prefix) {
		return false
	}
	return len(p) == len(prefix) || p[len(prefix)] == '/'
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Candidate produces an alternative host location for a path relative to
// the volumes root, or "" when it has none.
type Candidate func(rel string) string

// DefaultCandidates returns the Parallels locations tried, in order, when a
// converted path does not exist.
func DefaultCandidates(home string) []Candidate {
	cands := []Candidate{
		func(rel string) string { return "/private/var/folders/parallels/" + rel },
		func(rel string) string { return "/Users/Shared/Parallels/" + rel },
	}
	if home != "" {
		cands = append(cands, func(rel string) string {
			return path.Join(home, "Parallels", path.Base(rel))
		})
	}
	return cands
}

// TemplateCandidates builds candidates from templates using the
// placeholders {rel}, {base} and {home}.
func TemplateCandidates(templates []string, home string) []Candidate {
	cands := make([]Candidate, 0, len(templates))
	for _, tmpl := range templates {
		cands = append(cands, func(rel string) string {
			r := strings.NewReplacer("{rel}", rel, "{base}", path.Base(rel), "{home}", home)
			return normalize(r.Replace(tmpl))
		})
	}
	return cands
}
