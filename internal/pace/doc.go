// Package pace estimates spoken narration durations before any real audio
// exists. Scene segmentation uses it to bound input length; the estimates are
// replaced by measured audio durations once speech synthesis has run.
package pace
