package testdata

import (
	"os"
	"path/filepath"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Level is a small chart in the file format, with every note form in use.
var Level = []byte(`title: Test Level
artist: Nobody
creator: keyfall
filename: song.ogg
data:
  - !S [Key1, 0]
  - !S [Key2, 500]
  - !S [Key3, 500]
  - S: [Key4, 1000]
  - [Key1, 1500]
  - [2, 2000]
`)

// LevelNotes is the number of notes in Level
const LevelNotes = 6

// WriteLevel writes Level into dir and returns its path.
func WriteLevel(dir string) (string, error) {
	return WriteFile(dir, "level.yml", Level)
}

func WriteFile(dir, name string, data []byte) (string, error) {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); nil != err {
		return "", err
	}
	return p, nil
}

// WriteSong writes song.mid into dir: a 120bpm track with one note per
// quarter, so the n-th key starts at n*500ms.
func WriteSong(dir string, keys ...uint8) (string, error) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(960)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(120))
	tempo.Close(0)
	if err := sm.Add(tempo); nil != err {
		return "", err
	}

	var track smf.Track
	for i, k := range keys {
		var delta uint32 = 959
		if i == 0 {
			delta = 960
		}
		track.Add(delta, midi.NoteOn(0, k, 100))
		track.Add(1, midi.NoteOff(0, k))
	}
	track.Close(0)
	if err := sm.Add(track); nil != err {
		return "", err
	}

	p := filepath.Join(dir, "song.mid")
	return p, sm.WriteFile(p)
}
