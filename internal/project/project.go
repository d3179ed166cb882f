package project

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Take is the metadata for one recorded take.
type Take struct {
	ID          string `json:"id"`
	WAVFilename string `json:"wav_filename"`
	Memo        string `json:"memo"`
	Favorite    bool   `json:"favorite"`
	CreatedAt   string `json:"created_at"`
	Adopted     bool   `json:"adopted"`
}

// DisplayName formats the take for list output. With a non-negative index
// and a parseable creation time it reads "Take 3  02/19 14:32"; otherwise
// it falls back to the WAV filename.
func (t Take) DisplayName(index int) string {
	if index < 0 || t.CreatedAt == "" {
		return t.WAVFilename
	}
	created := strings.Replace(t.CreatedAt, "Z", "+00:00", 1)
	dt, err := time.Parse("2006-01-02T15:04:05", created)
	if err != nil {
		dt, err = time.Parse(time.RFC3339, created)
	}
	short := t.CreatedAt
	if err == nil {
		short = dt.Format("01/02 15:04")
	} else if len(short) > 16 {
		short = short[:16]
	}
	return fmt.Sprintf("Take %d  %s", index+1, short)
}

// Project holds one practice session: the working script plus the ordered
// list of takes. Take order is recording order. The project is a read/write
// view over the storage package's on-disk representation; it performs no
// I/O itself apart from HasProjectDir.
type Project struct {
	ScriptPath string
	ScriptText string
	Takes      []*Take
	Dir        string
}

// SetScript replaces the script path and text unconditionally.
func (p *Project) SetScript(path, text string) {
	p.ScriptPath = path
	p.ScriptText = text
}

// AddTake appends a take. ID uniqueness is the creator's responsibility.
func (p *Project) AddTake(t *Take) {
	p.Takes = append(p.Takes, t)
}

// GetTake returns the take with the given id, or nil.
func (p *Project) GetTake(id string) *Take {
	for _, t := range p.Takes {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// UpdateTakeMemo sets the memo on the take with the given id.
// Returns false when the id is unknown.
func (p *Project) UpdateTakeMemo(id, memo string) bool {
	t := p.GetTake(id)
	if t == nil {
		return false
	}
	t.Memo = memo
	return true
}

// UpdateTakeFavorite sets the favorite flag on the take with the given id.
func (p *Project) UpdateTakeFavorite(id string, favorite bool) bool {
	t := p.GetTake(id)
	if t == nil {
		return false
	}
	t.Favorite = favorite
	return true
}

// UpdateTakeAdopted sets the adopted flag. Adopting a take clears the flag
// on every other take in the same pass, so at most one take is ever adopted.
func (p *Project) UpdateTakeAdopted(id string, adopted bool) bool {
	t := p.GetTake(id)
	if t == nil {
		return false
	}
	if adopted {
		for _, x := range p.Takes {
			x.Adopted = x.ID == id
		}
	} else {
		t.Adopted = false
	}
	return true
}

// AdoptedTake returns the first take marked adopted, or nil.
func (p *Project) AdoptedTake() *Take {
	for _, t := range p.Takes {
		if t.Adopted {
			return t
		}
	}
	return nil
}

// HasScript reports whether a non-blank script is loaded.
func (p *Project) HasScript() bool {
	return strings.TrimSpace(p.ScriptText) != ""
}

// HasProjectDir reports whether the project is bound to an existing folder.
func (p *Project) HasProjectDir() bool {
	if p.Dir == "" {
		return false
	}
	info, err := os.Stat(p.Dir)
	return err == nil && info.IsDir()
}
