package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voiceactorlab/retake/internal/project"
	"github.com/voiceactorlab/retake/internal/scriptfmt"
)

// One project = one folder: the script text, a metadata JSON and a takes/
// subdirectory of WAV files. The script is plain text on purpose so it can
// be edited with any editor without touching take bookkeeping.
const (
	ScriptFilename = "script.txt"
	MetaFilename   = "project_meta.json"
	TakesDir       = "takes"
)

// preferredNameMaxLength is the sanitize limit for caller-supplied basenames,
// which are allowed to be longer than script-derived ones.
const preferredNameMaxLength = 120

type metaFile struct {
	Takes []*project.Take `json:"takes"`
}

// CreateProject creates the project folder and its takes/ subdirectory,
// writes an empty metadata file and returns the empty bound project.
// An existing folder is reused as-is; callers wanting to avoid clobbering
// a prior project must check for one first.
func CreateProject(dir string) (*project.Project, error) {
	if err := os.MkdirAll(filepath.Join(dir, TakesDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}
	proj := &project.Project{Dir: dir}
	if err := saveMeta(dir, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// LoadProject reads a project from its folder. Returns nil when the folder
// does not exist. A missing script file yields an empty script; a missing or
// malformed metadata file yields an empty take list, so a corrupted metadata
// file never blocks reopening the script and recordings.
func LoadProject(dir string) *project.Project {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}

	scriptPath := filepath.Join(dir, ScriptFilename)
	scriptText := ""
	if data, err := os.ReadFile(scriptPath); err == nil {
		scriptText = string(data)
	} else {
		scriptPath = ""
	}

	return &project.Project{
		ScriptPath: scriptPath,
		ScriptText: scriptText,
		Takes:      loadMeta(dir),
		Dir:        dir,
	}
}

// SaveScript overwrites the project's script file, creating the folder
// when needed. Plain overwrite, no backup.
func SaveScript(dir, text string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ScriptFilename), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	return nil
}

// AddTakeFromFile copies a recorded WAV into the project's takes/ directory
// and registers it in the metadata. sourcePath is typically the recorder's
// temporary output. When preferredBasename is non-empty the destination is
// "{sanitized}.wav", disambiguated with a short id suffix when that name is
// taken; otherwise "{id}_{original basename}". The caller must also append
// the returned take to any in-memory project it holds.
func AddTakeFromFile(dir, sourcePath, memo string, favorite bool, preferredBasename string) (*project.Take, error) {
	takesDir := filepath.Join(dir, TakesDir)
	if err := os.MkdirAll(takesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create takes directory: %w", err)
	}

	takeID := uuid.NewString()
	var destName string
	if preferredBasename != "" {
		safe := scriptfmt.SanitizeForFilename(preferredBasename, preferredNameMaxLength)
		if safe == "" {
			destName = takeID + ".wav"
		} else {
			destName = safe + ".wav"
			if _, err := os.Stat(filepath.Join(takesDir, destName)); err == nil {
				destName = fmt.Sprintf("%s_%s.wav", safe, takeID[:8])
			}
		}
	} else {
		base := filepath.Base(sourcePath)
		if !strings.HasSuffix(strings.ToLower(base), ".wav") {
			base += ".wav"
		}
		destName = takeID + "_" + base
	}

	if err := copyFile(sourcePath, filepath.Join(takesDir, destName)); err != nil {
		return nil, fmt.Errorf("failed to copy take audio: %w", err)
	}

	take := &project.Take{
		ID:          takeID,
		WAVFilename: destName,
		Memo:        memo,
		Favorite:    favorite,
		CreatedAt:   time.Now().Format("2006-01-02T15:04:05"),
	}

	proj := LoadProject(dir)
	if proj == nil {
		proj = &project.Project{Dir: dir}
	}
	proj.AddTake(take)
	if err := saveMeta(dir, proj); err != nil {
		return nil, err
	}
	return take, nil
}

// TakeMetaUpdate carries the fields UpdateTakeMeta should change.
// Nil fields are left untouched.
type TakeMetaUpdate struct {
	Memo     *string
	Favorite *bool
	Adopted  *bool
}

// UpdateTakeMeta applies the given fields to a take and rewrites the
// metadata file. Every edit is a read-modify-write round trip against disk;
// concurrent external edits are the caller's problem. Returns false when
// the project or take cannot be found.
func UpdateTakeMeta(dir, takeID string, update TakeMetaUpdate) (bool, error) {
	proj := LoadProject(dir)
	if proj == nil {
		return false, nil
	}
	t := proj.GetTake(takeID)
	if t == nil {
		return false, nil
	}
	if update.Memo != nil {
		t.Memo = *update.Memo
	}
	if update.Favorite != nil {
		t.Favorite = *update.Favorite
	}
	if update.Adopted != nil {
		proj.UpdateTakeAdopted(takeID, *update.Adopted)
	}
	if err := saveMeta(dir, proj); err != nil {
		return false, err
	}
	return true, nil
}

// TakeWAVPath joins the project dir and a take filename. No existence check.
func TakeWAVPath(dir, wavFilename string) string {
	return filepath.Join(dir, TakesDir, wavFilename)
}

// TakeWAVRef pairs a take id with its audio file path.
type TakeWAVRef struct {
	ID   string
	Path string
}

// ListTakeWAVPaths returns (id, path) for every registered take, from a
// fresh load of the metadata.
func ListTakeWAVPaths(dir string) []TakeWAVRef {
	proj := LoadProject(dir)
	if proj == nil {
		return nil
	}
	refs := make([]TakeWAVRef, 0, len(proj.Takes))
	for _, t := range proj.Takes {
		refs = append(refs, TakeWAVRef{ID: t.ID, Path: TakeWAVPath(dir, t.WAVFilename)})
	}
	return refs
}

// DeleteTake removes a take from the metadata and deletes its audio file.
// A missing audio file is not an error. Returns false when the project or
// take is not found.
func DeleteTake(dir, takeID string) (bool, error) {
	proj := LoadProject(dir)
	if proj == nil {
		return false, nil
	}
	t := proj.GetTake(takeID)
	if t == nil {
		return false, nil
	}
	wavPath := TakeWAVPath(dir, t.WAVFilename)
	if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to delete take audio: %w", err)
	}
	kept := proj.Takes[:0]
	for _, x := range proj.Takes {
		if x.ID != takeID {
			kept = append(kept, x)
		}
	}
	proj.Takes = kept
	if err := saveMeta(dir, proj); err != nil {
		return false, err
	}
	return true, nil
}

// ExportTakes copies the requested takes, in the order given, into destDir.
// Takes that are unknown or whose audio file is missing are skipped.
// With friendly names the files are named "{project folder}_Take{N}.wav"
// where N is the position in the requested id list. Returns the paths of
// the copies that succeeded.
func ExportTakes(dir string, takeIDs []string, destDir string, useFriendlyNames bool) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	proj := LoadProject(dir)
	if proj == nil {
		return nil, nil
	}
	projectName := filepath.Base(filepath.Clean(dir))
	if projectName == "." || projectName == string(filepath.Separator) {
		projectName = "project"
	}

	var copied []string
	for idx, takeID := range takeIDs {
		t := proj.GetTake(takeID)
		if t == nil {
			continue
		}
		src := TakeWAVPath(dir, t.WAVFilename)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		outName := t.WAVFilename
		if useFriendlyNames {
			outName = fmt.Sprintf("%s_Take%d.wav", projectName, idx+1)
		}
		outPath := filepath.Join(destDir, outName)
		if err := copyFile(src, outPath); err != nil {
			return copied, fmt.Errorf("failed to export %s: %w", t.WAVFilename, err)
		}
		copied = append(copied, outPath)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func metaPath(dir string) string {
	return filepath.Join(dir, MetaFilename)
}

func loadMeta(dir string) []*project.Take {
	data, err := os.ReadFile(metaPath(dir))
	if err != nil {
		return nil
	}
	var meta metaFile
	if err := json.Unmarshal(data, &meta); err != nil {
		// Lenient read: a corrupt metadata file must not block reopening
		// the project, but it is worth a warning.
		slog.Warn("Ignoring malformed project metadata", "path", metaPath(dir), "error", err)
		return nil
	}
	return meta.Takes
}

func saveMeta(dir string, proj *project.Project) error {
	meta := metaFile{Takes: proj.Takes}
	if meta.Takes == nil {
		meta.Takes = []*project.Take{}
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project metadata: %w", err)
	}
	if err := os.WriteFile(metaPath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write project metadata: %w", err)
	}
	return nil
}
