package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/utils"
)

// Endpoints of the external NLP scorer.
const (
	nlpPathCultural    = "/green_cultural"
	nlpPathCoherenceQT = "/green_coherence_QT"
	nlpPathCoherenceQA = "/green_coherence_QA"
	nlpPathValidity    = "/green_validity"
	nlpPathAnswer      = "/cyan"
	nlpPathHumanize    = "/magenta"
)

// The scorer encodes coherence verdicts as literal Italian tokens, not JSON
// booleans.
const (
	nlpTokenTrue  = "Vero"
	nlpTokenFalse = "Falso"
)

type NLPScore struct {
	Score    int
	Feedback string
}

// NLPClient issues one scoring or generation request to the external NLP
// service. The whole process holds a single admission slot: at most one call
// is in flight at any time, all callers queue on the injected permit. No
// retries are performed here; retry policy, if any, belongs to the caller.
type NLPClient interface {
	EvaluateCultural(ctx context.Context, question string) (NLPScore, error)
	EvaluateCoherenceQT(ctx context.Context, question, theme string) (bool, error)
	EvaluateCoherenceQA(ctx context.Context, question, answer string) (bool, error)
	EvaluateValidity(ctx context.Context, question, answer string) (NLPScore, error)
	GenerateAnswer(ctx context.Context, topic string, level int) (string, error)
	Humanize(ctx context.Context, text string, level int) (string, error)
}

type nlpClient struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	slot       *semaphore.Weighted
}

func NewNLPClient(log *logger.Logger, slot *semaphore.Weighted) NLPClient {
	baseURL := utils.GetEnv("NLP_BASE_URL", "http://localhost:8071", log)
	timeoutSec := utils.GetEnvAsInt("NLP_TIMEOUT_SECONDS", 300, log)
	return NewNLPClientWithHTTP(log, slot, baseURL, &http.Client{
		Timeout: time.Duration(timeoutSec) * time.Second,
	})
}

// NewNLPClientWithHTTP wires an explicit base URL and http.Client. Tests use
// it to intercept transport and to shrink the timeout.
func NewNLPClientWithHTTP(log *logger.Logger, slot *semaphore.Weighted, baseURL string, httpClient *http.Client) NLPClient {
	if slot == nil {
		slot = semaphore.NewWeighted(1)
	}
	return &nlpClient{
		log:        log.With("service", "NLPClient"),
		baseURL:    baseURL,
		httpClient: httpClient,
		slot:       slot,
	}
}

// post serializes the call through the admission slot and decodes the reply
// into out. Ordering among queued callers is not guaranteed, only mutual
// exclusion.
func (c *nlpClient) post(ctx context.Context, path string, payload any, out any) error {
	if err := c.slot.Acquire(ctx, 1); err != nil {
		return &UpstreamUnavailableError{Err: err}
	}
	defer c.slot.Release(1)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode nlp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build nlp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamUnavailableError{Err: err}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return &UpstreamUnavailableError{Err: readErr}
	}
	c.log.Debug("NLP call finished", "path", path, "status", resp.StatusCode, "took", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamStatusError{Status: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &UpstreamContractError{Field: "body", Raw: string(raw)}
	}
	return nil
}

func (c *nlpClient) EvaluateCultural(ctx context.Context, question string) (NLPScore, error) {
	var resp struct {
		Score    *int    `json:"score"`
		Feedback *string `json:"feedback"`
	}
	payload := map[string]string{"question": question}
	if err := c.post(ctx, nlpPathCultural, payload, &resp); err != nil {
		return NLPScore{}, err
	}
	if resp.Score == nil {
		return NLPScore{}, &UpstreamContractError{Field: "score", Raw: "missing"}
	}
	if *resp.Score < 0 || *resp.Score > 10 {
		return NLPScore{}, &UpstreamContractError{Field: "score", Raw: fmt.Sprintf("%d out of range 0-10", *resp.Score)}
	}
	feedback := ""
	if resp.Feedback != nil {
		feedback = *resp.Feedback
	}
	return NLPScore{Score: *resp.Score, Feedback: feedback}, nil
}

func (c *nlpClient) EvaluateCoherenceQT(ctx context.Context, question, theme string) (bool, error) {
	payload := map[string]string{"question": question, "theme": theme}
	return c.postBool(ctx, nlpPathCoherenceQT, payload)
}

func (c *nlpClient) EvaluateCoherenceQA(ctx context.Context, question, answer string) (bool, error) {
	payload := map[string]string{"question": question, "answer": answer}
	return c.postBool(ctx, nlpPathCoherenceQA, payload)
}

func (c *nlpClient) postBool(ctx context.Context, path string, payload any) (bool, error) {
	var resp struct {
		Bool *string `json:"bool"`
	}
	if err := c.post(ctx, path, payload, &resp); err != nil {
		return false, err
	}
	if resp.Bool == nil {
		return false, &UpstreamContractError{Field: "bool", Raw: "missing"}
	}
	switch *resp.Bool {
	case nlpTokenTrue:
		return true, nil
	case nlpTokenFalse:
		return false, nil
	default:
		return false, &UpstreamContractError{Field: "bool", Raw: *resp.Bool}
	}
}

func (c *nlpClient) EvaluateValidity(ctx context.Context, question, answer string) (NLPScore, error) {
	var resp struct {
		Score    *int    `json:"score"`
		Feedback *string `json:"feedback"`
	}
	payload := map[string]string{"question": question, "answer": answer}
	if err := c.post(ctx, nlpPathValidity, payload, &resp); err != nil {
		return NLPScore{}, err
	}
	if resp.Score == nil {
		return NLPScore{}, &UpstreamContractError{Field: "score", Raw: "missing"}
	}
	if *resp.Score < 1 || *resp.Score > 5 {
		return NLPScore{}, &UpstreamContractError{Field: "score", Raw: fmt.Sprintf("%d out of range 1-5", *resp.Score)}
	}
	feedback := ""
	if resp.Feedback != nil {
		feedback = *resp.Feedback
	}
	return NLPScore{Score: *resp.Score, Feedback: feedback}, nil
}

func (c *nlpClient) GenerateAnswer(ctx context.Context, topic string, level int) (string, error) {
	var resp struct {
		Risposta *string `json:"risposta"`
	}
	payload := map[string]any{"argomento": topic, "livello": level}
	if err := c.post(ctx, nlpPathAnswer, payload, &resp); err != nil {
		return "", err
	}
	if resp.Risposta == nil {
		return "", &UpstreamContractError{Field: "risposta", Raw: "missing"}
	}
	return *resp.Risposta, nil
}

func (c *nlpClient) Humanize(ctx context.Context, text string, level int) (string, error) {
	var resp struct {
		HumanizedResponse *string `json:"humanized_response"`
	}
	payload := map[string]any{"llm_response": text, "level": level}
	if err := c.post(ctx, nlpPathHumanize, payload, &resp); err != nil {
		return "", err
	}
	if resp.HumanizedResponse == nil {
		return "", &UpstreamContractError{Field: "humanized_response", Raw: "missing"}
	}
	return *resp.HumanizedResponse, nil
}
