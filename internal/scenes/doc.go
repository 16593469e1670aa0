// Package scenes splits narration source material into an ordered list of
// Scene records ready for speech synthesis, image generation, and subtitle
// chunking.
//
// Two entry points produce scenes. Split infers boundaries from free prose:
// paragraphs first, sentences when paragraphs are scarce, grouped and merged
// toward a 3-6 scene target. ParseStoryboard reads an explicit per-scene
// storyboard document (## シーン / ## Scene headers with labeled fields)
// and extracts scenes without inference.
//
// Scenes are immutable after construction except for the TTSText override
// applied by the readings dictionary.
package scenes
