package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	ollamaGeneratePath   = "/api/generate"
)

// OllamaProvider talks to a local Ollama server and reads its streamed
// newline-delimited JSON reply.
type OllamaProvider struct {
	url    string
	model  string
	client *resty.Client
}

func NewOllamaProvider(baseURL, model string, timeout time.Duration) *OllamaProvider {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	url := baseURL
	if !strings.HasSuffix(url, ollamaGeneratePath) {
		url += ollamaGeneratePath
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaProvider{
		url:    url,
		model:  model,
		client: resty.New().SetTimeout(timeout),
	}
}

type generateFragment struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (o *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "ollama", Model: o.model}
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":  o.model,
			"prompt": req.Prompt,
		}).
		SetDoNotParseResponse(true).
		Post(o.url)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("ollama generate request failed: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.StatusCode() >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(body, 4096))
		return GenerateResponse{}, info, fmt.Errorf("ollama generate error %d: %s", resp.StatusCode(), strings.TrimSpace(string(msg)))
	}
	text, err := readGenerateStream(body)
	if err != nil {
		return GenerateResponse{}, info, err
	}
	return GenerateResponse{Text: text}, info, nil
}

// readGenerateStream concatenates the "response" pieces until a fragment
// reports done or the stream ends. Lines that are not JSON objects are kept
// verbatim.
func readGenerateStream(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	var out strings.Builder
	for {
		line, err := br.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			var frag generateFragment
			if jerr := json.Unmarshal([]byte(line), &frag); jerr != nil {
				out.WriteString(line)
			} else {
				out.WriteString(frag.Response)
				if frag.Done {
					return out.String(), nil
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out.String(), nil
			}
			return "", fmt.Errorf("read ollama stream: %w", err)
		}
	}
}
