// Package language classifies text spans as CJK-dominant or Latin and
// provides language-aware length metrics.
//
// The classification is the single dispatch decision shared by scene
// segmentation, subtitle chunking, and timing allocation. It is a heuristic
// over Unicode ranges, not a tokenizer: a span is CJK-dominant when more than
// 20% of its runes fall in the CJK punctuation, Hiragana, Katakana, CJK
// Unified Ideograph, or CJK Compatibility Ideograph blocks.
//
// All functions are pure and allocation-free; they are called repeatedly on
// every segment boundary decision and must stay cheap.
package language
