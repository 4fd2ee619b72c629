package journal

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// protonPrefix is where Steam's Proton keeps the game's Windows user profile
const protonPrefix = ".local/share/Steam/steamapps/compatdata/359320/pfx/drive_c/users/steamuser"

var gameSavePath = filepath.Join("Saved Games", "Frontier Developments", "Elite Dangerous")

// DefaultDirectory returns the platform's default journal directory
func DefaultDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			home = profile
		}
		return filepath.Join(home, gameSavePath)
	}
	return filepath.Join(home, protonPrefix, gameSavePath)
}

// NewestJournal returns the most recently modified journal file in dir. Journal
// files are the ones whose name contains "Journal" and ends in ".log".
func NewestJournal(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", shared.NewLogUnavailableError(dir, "directory not readable")
	}

	type candidate struct {
		path    string
		modTime int64
	}
	var journals []candidate
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.Contains(name, "Journal") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		journals = append(journals, candidate{path: filepath.Join(dir, name), modTime: info.ModTime().UnixNano()})
	}
	if len(journals) == 0 {
		return "", shared.NewLogUnavailableError(dir, "no journal files")
	}

	// newest first; names embed the session timestamp and break ties
	sort.Slice(journals, func(i, j int) bool {
		if journals[i].modTime != journals[j].modTime {
			return journals[i].modTime > journals[j].modTime
		}
		return journals[i].path > journals[j].path
	})
	return journals[0].path, nil
}
