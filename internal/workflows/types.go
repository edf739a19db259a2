package workflows

// AbridgeBookInput carries the run settings. ChunkTimeoutSeconds is the
// backend request timeout; zero leaves chunk activities at three minutes.
type AbridgeBookInput struct {
	InputPath           string `json:"input_path"`
	SoftLimit           int    `json:"soft_limit"`
	Concurrency         int    `json:"concurrency"`
	ChunkTimeoutSeconds int    `json:"chunk_timeout_seconds,omitempty"`
}

type AbridgeBookOutput struct {
	OutputPath string `json:"output_path"`
	Chunks     int    `json:"chunks"`
	Failed     int    `json:"failed"`
}

type AbridgeProgress struct {
	InputPath   string `json:"input_path"`
	CurrentStep string `json:"current_step"`
	Total       int    `json:"total"`
	Done        int    `json:"done"`
	Failed      int    `json:"failed"`
}
