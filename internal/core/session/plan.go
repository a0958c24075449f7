package session

import (
	"math/rand"
	"path"
	"strconv"
)

// Trial is one planned presentation
type Trial struct {
	Stimulus  string  `json:"face_id"`
	Level     float64 `json:"gaze_level"`
	Repeat    int     `json:"repeat"`
	ImageFile string  `json:"image_file"`
	ImagePath string  `json:"image_path"`
}

// ImageFile names the stimulus image for a face and level, e.g. M1_-3.png
func ImageFile(face string, level float64, ext string) string {
	return face + "_" + strconv.FormatFloat(level, 'f', -1, 64) + "." + ext
}

// Plan expands d into faces x levels x repeats trials and shuffles them
// Repeats are numbered from 1. rng makes the order reproducible
func Plan(d Design, rng *rand.Rand) []Trial {
	out := make([]Trial, 0, d.TrialCount())
	for _, face := range d.Faces {
		for _, lv := range d.Levels {
			for r := 1; r <= d.Repeats; r++ {
				file := ImageFile(face, lv, d.Ext)
				out = append(out, Trial{
					Stimulus:  face,
					Level:     lv,
					Repeat:    r,
					ImageFile: file,
					ImagePath: "./" + path.Join(d.StimDir, file),
				})
			}
		}
	}
	Shuffle(out, rng)
	return out
}

// Shuffle is an in place Fisher-Yates shuffle
func Shuffle[T any](xs []T, rng *rand.Rand) {
	for i := len(xs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
