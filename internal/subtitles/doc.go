// Package subtitles turns scene narration into display-sized subtitle chunks
// and allocates wall-clock timing to them once the real spoken-audio duration
// of each scene is known.
//
// Chunking happens at scene construction time: CJK narration is cut after
// punctuation and at natural kana break points into final display units,
// Latin narration is split into words that are grouped at timing time.
// Timing allocation is character-weighted above a per-chunk display floor and
// realigns to the scene's measured audio duration at every scene boundary so
// the subtitle track can never drift against the audio track.
//
// Everything here is pure and in-memory except WriteSRT.
package subtitles
