package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExecutionResult is the adapter-level outcome of running one program
// against one stdin.
type ExecutionResult struct {
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	CompileOutput string  `json:"compile_output"`
	Status        string  `json:"status"`
	TimeMs        float64 `json:"time_ms"`
	MemoryKB      int     `json:"memory_kb"`
}

// Executor submits code plus stdin to the execution service and returns
// the run outcome. Implementations must be safe for concurrent use.
type Executor interface {
	Execute(ctx context.Context, code string, languageID int, stdin string) (*ExecutionResult, error)
}

// Client is an HTTP client for a Judge0-compatible execution service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates an execution service client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type submissionResponse struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Time          *string `json:"time"` // seconds, decimal string
	Memory        *int    `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute runs one submission synchronously (wait=true) and maps the
// service response onto ExecutionResult.
func (c *Client) Execute(ctx context.Context, code string, languageID int, stdin string) (*ExecutionResult, error) {
	body, err := json.Marshal(submissionRequest{
		SourceCode: code,
		LanguageID: languageID,
		Stdin:      stdin,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}

	url := c.baseURL + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Auth-Token", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execution service request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("execution service status %d: %s", resp.StatusCode, raw)
	}

	var sub submissionResponse
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	result := &ExecutionResult{Status: sub.Status.Description}
	if sub.Stdout != nil {
		result.Stdout = *sub.Stdout
	}
	if sub.Stderr != nil {
		result.Stderr = *sub.Stderr
	}
	if sub.CompileOutput != nil {
		result.CompileOutput = *sub.CompileOutput
	}
	if sub.Time != nil {
		var secs float64
		if _, err := fmt.Sscanf(*sub.Time, "%f", &secs); err == nil {
			result.TimeMs = secs * 1000
		}
	}
	if sub.Memory != nil {
		result.MemoryKB = *sub.Memory
	}
	return result, nil
}
