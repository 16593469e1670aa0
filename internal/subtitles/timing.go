package subtitles

import (
	"strings"

	"reel/internal/language"
)

const (
	// DefaultWordsPerChunk is how many Latin words are grouped into one
	// display chunk at timing time.
	DefaultWordsPerChunk = 6
	// DefaultMinDisplaySeconds is the display floor reserved per chunk
	// before the remaining scene time is distributed by weight.
	DefaultMinDisplaySeconds = 1.0
)

// Entry is one timed, indexed caption record. Indices are one-based and
// strictly increasing across the whole output sequence.
type Entry struct {
	Index     int
	StartTime float64 // seconds
	EndTime   float64 // seconds
	Text      string
}

// Narration carries the per-scene inputs timing allocation needs: the
// narration text (for script classification only) and the chunk list
// computed at scene construction time.
type Narration struct {
	Text  string
	Words []string
}

// Options tunes timing allocation. The zero value selects the defaults.
type Options struct {
	WordsPerChunk     int
	MinDisplaySeconds float64
}

func (o Options) normalized() Options {
	if o.WordsPerChunk <= 0 {
		o.WordsPerChunk = DefaultWordsPerChunk
	}
	if o.MinDisplaySeconds <= 0 {
		o.MinDisplaySeconds = DefaultMinDisplaySeconds
	}
	return o
}

// Generate allocates wall-clock timing to every scene's chunks given the
// measured audio duration of each scene. durations must parallel narrations.
//
// Within a scene each chunk gets the display floor plus a character-weighted
// share of the remaining time; when the scene is shorter than the combined
// floor, every chunk gets an equal share instead and the floor is abandoned.
// The running clock advances by the scene's audio duration, not by the sum
// of allocated chunk durations, so scene boundaries stay exactly aligned
// with the audio track.
func Generate(narrations []Narration, durations []float64, opts Options) []Entry {
	opts = opts.normalized()

	var entries []Entry
	index := 1
	cumulative := 0.0

	for i, narration := range narrations {
		if i >= len(durations) {
			break
		}
		sceneDuration := durations[i]

		if len(narration.Words) == 0 {
			cumulative += sceneDuration
			continue
		}

		chunks := displayChunks(narration, opts.WordsPerChunk)

		totalChars := 0
		charCounts := make([]int, len(chunks))
		for j, chunk := range chunks {
			charCounts[j] = runeLen(chunk)
			totalChars += charCounts[j]
		}

		n := len(chunks)
		guaranteed := opts.MinDisplaySeconds * float64(n)
		remaining := sceneDuration - guaranteed

		chunkDurations := make([]float64, n)
		if remaining > 0 && totalChars > 0 {
			for j := range chunks {
				chunkDurations[j] = opts.MinDisplaySeconds +
					(float64(charCounts[j])/float64(totalChars))*remaining
			}
		} else {
			for j := range chunks {
				chunkDurations[j] = sceneDuration / float64(n)
			}
		}

		offset := 0.0
		for j, chunk := range chunks {
			start := cumulative + offset
			entries = append(entries, Entry{
				Index:     index,
				StartTime: start,
				EndTime:   start + chunkDurations[j],
				Text:      chunk,
			})
			index++
			offset += chunkDurations[j]
		}

		cumulative += sceneDuration
	}

	return entries
}

// displayChunks returns the final display units for one scene. CJK scenes
// already carry display-sized chunks; Latin scenes group their words.
func displayChunks(narration Narration, wordsPerChunk int) []string {
	if language.Detect(narration.Text) == language.ScriptCJK {
		return narration.Words
	}
	words := narration.Words
	chunks := make([]string, 0, (len(words)+wordsPerChunk-1)/wordsPerChunk)
	for start := 0; start < len(words); start += wordsPerChunk {
		end := start + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
