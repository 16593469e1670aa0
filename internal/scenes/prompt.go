package scenes

// DefaultStylePrefix keeps image generation visually consistent across
// scenes when no profile or config prefix is supplied.
const DefaultStylePrefix = "Cinematic vertical composition, vibrant colors, high detail, dramatic lighting. "

// noTextSuffix stops the image model from rendering garbled glyphs of the
// narration inside the picture.
const noTextSuffix = "Do not include any text, words, or letters in the image."

// promptSourceLimit bounds how much narration is quoted into a synthesized
// prompt.
const promptSourceLimit = 300

// GenerateImagePrompt synthesizes a generation prompt from narration when no
// explicit visual description exists. The narration is framed as inspiration
// rather than content so the model paints a scene instead of typesetting the
// words.
func GenerateImagePrompt(narration, stylePrefix string) string {
	if stylePrefix == "" {
		stylePrefix = DefaultStylePrefix
	}
	runes := []rune(narration)
	if len(runes) > promptSourceLimit {
		runes = runes[:promptSourceLimit]
	}
	return stylePrefix + noTextSuffix + " Visual scene inspired by: " + string(runes)
}

// visualPrompt builds the prompt for an explicit visual description from a
// storyboard.
func visualPrompt(visual, stylePrefix string) string {
	if stylePrefix == "" {
		stylePrefix = DefaultStylePrefix
	}
	return stylePrefix + visual + " " + noTextSuffix
}
