package providers

const (
	AbridgeInstruction = "abridge this by half like an audiobook abridgment; do not acknowledge the prompt, just begin"

	SystemInstruction = "You are a text abridger. Shorten the passage you are given the way audiobooks are abridged, keeping the narrative, voice and dialogue intact."
)

func ComposePrompt(chunk string) string {
	return AbridgeInstruction + " " + chunk
}
