// Package pluginindex discovers installed native plugin modules by
// scanning VST_PATH and CLAP_PATH directories, adapted from the teacher's
// pkg/manifest (which glob-scans a plugin directory for JSON manifests and
// validates the required fields). Native VST2/VST3/CLAP modules don't ship
// a JSON manifest alongside them, so discovery here instead looks for a
// "##########" fenced discovery-line block the module prints when queried
// out of process, one plugin per line:
//
//	##########NAME:FILE:UID:CATEGORY:FORMAT
package pluginindex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khremeviuc1004/riff-daw/pkg/plugin"
)

const discoveryFence = "##########"

// Entry is one discovered plugin module.
type Entry struct {
	Name     string
	File     string
	UID      string
	Category string
	Format   plugin.Format
}

// Index is the set of plugins discovered across every scanned search path,
// keyed by UID for fast lookup from project load and the plugin browser.
type Index struct {
	entries map[string]Entry
}

// New returns an empty Index.
func New() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Entries returns every discovered plugin, in no particular order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		out = append(out, e)
	}
	return out
}

// Lookup resolves a plugin by UID.
func (idx *Index) Lookup(uid string) (Entry, bool) {
	e, ok := idx.entries[uid]
	return e, ok
}

// ScanEnv scans the directories named in VST_PATH and CLAP_PATH (each a
// platform-native path-list, like PATH), in that order, loading discovery
// output from every file found. Directories that don't exist are skipped
// rather than treated as an error, matching how most plugin hosts treat an
// absent search path.
func (idx *Index) ScanEnv() error {
	if paths := os.Getenv("VST_PATH"); paths != "" {
		if err := idx.scanPathList(paths, plugin.FormatVST2); err != nil {
			return err
		}
	}
	if paths := os.Getenv("CLAP_PATH"); paths != "" {
		if err := idx.scanPathList(paths, plugin.FormatCLAP); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index) scanPathList(pathList string, format plugin.Format) error {
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := idx.ScanDirectory(dir, format); err != nil {
			return err
		}
	}
	return nil
}

// ScanDirectory walks dir for discovery-line files and merges what it
// finds into the index. format is used when a discovery line omits its
// own format field, which the VST2/VST3 module convention does (only CLAP
// modules can host more than one format per file).
func (idx *Index) ScanDirectory(dir string, format plugin.Format) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		entries, err := parseDiscoveryFile(path, format)
		if err != nil {
			return fmt.Errorf("pluginindex: %s: %w", path, err)
		}
		for _, e := range entries {
			idx.entries[e.UID] = e
		}
		return nil
	})
}

func parseDiscoveryFile(path string, defaultFormat plugin.Format) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, discoveryFence) {
			continue
		}
		entry, err := parseDiscoveryLine(strings.TrimPrefix(line, discoveryFence), defaultFormat)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

func parseDiscoveryLine(line string, defaultFormat plugin.Format) (Entry, error) {
	fields := strings.Split(line, ":")
	if len(fields) < 3 {
		return Entry{}, fmt.Errorf("malformed discovery line %q", line)
	}

	entry := Entry{
		Name:   fields[0],
		File:   fields[1],
		UID:    fields[2],
		Format: defaultFormat,
	}
	if len(fields) > 3 {
		entry.Category = fields[3]
	}
	if len(fields) > 4 {
		entry.Format = parseFormat(fields[4])
	}
	if entry.Name == "" || entry.UID == "" {
		return Entry{}, fmt.Errorf("discovery line %q missing name or uid", line)
	}
	return entry, nil
}

func parseFormat(s string) plugin.Format {
	switch strings.ToUpper(s) {
	case "VST2":
		return plugin.FormatVST2
	case "VST3":
		return plugin.FormatVST3
	case "CLAP":
		return plugin.FormatCLAP
	default:
		return plugin.FormatCLAP
	}
}
