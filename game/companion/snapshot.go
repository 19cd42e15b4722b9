package companion

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
)

// SnapshotVersion is the current persisted layout.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned for snapshots written by a newer layout.
var ErrSnapshotVersion = errors.New("companion: unsupported snapshot version")

// Snapshot is the persisted form of a State.
type Snapshot struct {
	Version int   `json:"version"`
	State   State `json:"state"`
}

// EncodeSnapshot serializes s at the current version.
func EncodeSnapshot(s State) ([]byte, error) {
	return json.Marshal(Snapshot{Version: SnapshotVersion, State: s})
}

// DecodeSnapshot reads a snapshot of any supported version. Version 0 is the
// unversioned layout (the state object itself, or wrapped without a version)
// and is migrated by filling defaults.
func DecodeSnapshot(data []byte, petName string) (State, error) {
	var head struct {
		Version int             `json:"version"`
		State   json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	switch head.Version {
	case SnapshotVersion:
		var st State
		if err := json.Unmarshal(head.State, &st); err != nil {
			return State{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return normalize(st, petName), nil
	case 0:
		raw := []byte(head.State)
		if len(raw) == 0 || string(raw) == "null" {
			raw = data
		}
		return migrateV0(raw, petName)
	default:
		return State{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, head.Version)
	}
}

func migrateV0(raw []byte, petName string) (State, error) {
	var legacy struct {
		User          *Profile        `json:"user"`
		Quests        []content.Quest `json:"quests"`
		Tasks         []Task          `json:"tasks"`
		Goals         []Goal          `json:"goals"`
		Pet           json.RawMessage `json:"pet"`
		LastQuestDate string          `json:"lastQuestDate"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	st := NewState(petName)
	st.User = legacy.User
	st.Quests = legacy.Quests
	st.Tasks = legacy.Tasks
	st.Goals = legacy.Goals
	if len(legacy.Pet) > 0 && string(legacy.Pet) != "null" {
		pet := st.Pet
		if err := json.Unmarshal(legacy.Pet, &pet); err == nil {
			st.Pet = pet
		}
	}
	// Unparseable dates are dropped; the next rollover regenerates quests.
	if d, err := seed.ParseDate(legacy.LastQuestDate); err == nil {
		st.LastQuestDate = d
	}
	return normalize(st, petName), nil
}

// normalize fills empty fields and restores the stage invariant. A pet stored
// past the Egg stage has hatched even if the flag was never written.
func normalize(st State, petName string) State {
	st = st.clone()
	if st.Pet.Name == "" {
		st.Pet.Name = petName
		if st.Pet.Name == "" {
			st.Pet.Name = DefaultPetName
		}
	}
	if st.Pet.Stage != "" && st.Pet.Stage != StageEgg {
		st.Pet.HasHatched = true
	}
	st.Pet.XP = max(st.Pet.XP, 0)
	st.Pet.Streak = max(st.Pet.Streak, 0)
	st.Pet.Stage = ComputeStage(st.Pet.XP, st.Pet.HasHatched)
	if st.User != nil {
		st.User.Sign = content.ParseSign(string(st.User.Sign))
	}
	return st
}
