package activities

type ExtractChunksInput struct {
	InputPath string `json:"input_path"`
	SoftLimit int    `json:"soft_limit"`
}

type ExtractChunksOutput struct {
	Chunks []string `json:"chunks"`
}

type AbridgeChunkInput struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type AbridgeChunkOutput struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Failed    bool   `json:"failed"`
	ErrorType string `json:"error_type,omitempty"`
}

type WriteOutputInput struct {
	InputPath string   `json:"input_path"`
	Parts     []string `json:"parts"`
}

type WriteOutputOutput struct {
	OutputPath string `json:"output_path"`
}
