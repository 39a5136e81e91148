package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxResults   = 3
	defaultModelVersion = "gemini-2.5-flash/answer_gen/v1"
	defaultPseudoID     = "agent.reader@moengage.com"
	maxResponseBytes    = 4 << 20
)

// Datastores names the three knowledge sources the assistant draws on.
type Datastores struct {
	Runbooks string `split_words:"true"`
	Zendesk  string `split_words:"true"`
	HelpDocs string `split_words:"true"`
}

// Config describes an answer-API deployment. An empty Token leaves the client
// in credential-free mode: Search then returns mock answers instead of calling
// out, which keeps local development working without a search deployment.
type Config struct {
	ProjectID  string        `split_words:"true"`
	Location   string        `split_words:"true" default:"global"`
	EngineID   string        `split_words:"true"`
	Datastores Datastores    `split_words:"true"`
	Endpoint   string        `split_words:"true"`
	Token      string        `split_words:"true"`
	Timeout    time.Duration `split_words:"true" default:"30s"`
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Nil is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithModelVersion overrides the answer-generation model version.
func WithModelVersion(v string) Option {
	return func(cl *Client) {
		if v != "" {
			cl.modelVersion = v
		}
	}
}

// WithUserPseudoID overrides the pseudo identity attached to requests.
func WithUserPseudoID(id string) Option {
	return func(cl *Client) {
		if id != "" {
			cl.userPseudoID = id
		}
	}
}

// Client calls a generative answer API over REST. Construct with NewClient;
// the zero value is not usable. A Client is immutable after construction and
// safe for concurrent use.
type Client struct {
	projectID    string
	location     string
	engineID     string
	endpoint     string
	token        string
	modelVersion string
	userPseudoID string
	httpClient   *http.Client
}

var _ Backend = (*Client)(nil)

// NewClient validates the configuration and builds a Client. Endpoint
// defaults to the Google answer-API host for the configured location.
// ProjectID and EngineID are required only when a token is present; without
// a token the client serves mock answers and never dials out.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "global"
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		if location == "global" {
			endpoint = "https://discoveryengine.googleapis.com"
		} else {
			endpoint = fmt.Sprintf("https://%s-discoveryengine.googleapis.com", location)
		}
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token != "" {
		if strings.TrimSpace(cfg.ProjectID) == "" {
			return nil, errors.New("search project id is required")
		}
		if strings.TrimSpace(cfg.EngineID) == "" {
			return nil, errors.New("search engine id is required")
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		projectID:    strings.TrimSpace(cfg.ProjectID),
		location:     location,
		engineID:     strings.TrimSpace(cfg.EngineID),
		endpoint:     endpoint,
		token:        token,
		modelVersion: defaultModelVersion,
		userPseudoID: defaultPseudoID,
		httpClient:   &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

type answerRequest struct {
	Query                wireQuery                `json:"query"`
	Session              string                   `json:"session,omitempty"`
	UserPseudoID         string                   `json:"userPseudoId"`
	SearchSpec           wireSearchSpec           `json:"searchSpec"`
	AnswerGenerationSpec wireAnswerGenerationSpec `json:"answerGenerationSpec"`
}

type wireQuery struct {
	Text string `json:"text"`
}

type wireSearchSpec struct {
	SearchParams wireSearchParams `json:"searchParams"`
}

type wireSearchParams struct {
	MaxReturnResults int                 `json:"maxReturnResults"`
	DataStoreSpecs   []wireDataStoreSpec `json:"dataStoreSpecs"`
}

type wireDataStoreSpec struct {
	DataStore string `json:"dataStore"`
}

type wireAnswerGenerationSpec struct {
	ModelSpec          wireModelSpec  `json:"modelSpec"`
	PromptSpec         wirePromptSpec `json:"promptSpec"`
	IncludeCitations   bool           `json:"includeCitations"`
	AnswerLanguageCode string         `json:"answerLanguageCode"`
}

type wireModelSpec struct {
	ModelVersion string `json:"modelVersion"`
}

type wirePromptSpec struct {
	Preamble string `json:"preamble"`
}

type answerResponse struct {
	Answer struct {
		AnswerText string `json:"answerText"`
		Citations  []struct {
			StartIndex int    `json:"startIndex"`
			EndIndex   int    `json:"endIndex"`
			URI        string `json:"uri"`
			Title      string `json:"title"`
		} `json:"citations"`
	} `json:"answer"`
}

// Search sends one answer request against the queried datastore. Transport
// and API failures come back as errors; callers that must not fail (the
// search tools) convert them into error-status results.
func (c *Client) Search(ctx context.Context, q Query) (*Answer, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, errors.New("search query is empty")
	}

	if c.token == "" {
		return &Answer{
			Status: StatusMock,
			Text: fmt.Sprintf("This is a mock response for the query: '%s'. "+
				"The search backend is not configured with valid credentials.", text),
		}, nil
	}

	if strings.TrimSpace(q.DataStoreID) == "" {
		return nil, errors.New("search datastore id is required")
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	preamble := q.Preamble
	if preamble == "" {
		preamble = DefaultPreamble
	}

	reqBody := answerRequest{
		Query:        wireQuery{Text: text},
		Session:      q.SessionID,
		UserPseudoID: c.userPseudoID,
		SearchSpec: wireSearchSpec{
			SearchParams: wireSearchParams{
				MaxReturnResults: maxResults,
				DataStoreSpecs:   []wireDataStoreSpec{{DataStore: c.dataStorePath(q.DataStoreID)}},
			},
		},
		AnswerGenerationSpec: wireAnswerGenerationSpec{
			ModelSpec:          wireModelSpec{ModelVersion: c.modelVersion},
			PromptSpec:         wirePromptSpec{Preamble: preamble},
			IncludeCitations:   true,
			AnswerLanguageCode: "en",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal answer request: %w", err)
	}

	requestURL := fmt.Sprintf("%s/v1/%s:answer", c.endpoint, c.servingConfigPath())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build answer request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute answer request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read answer response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("answer request status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed answerResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode answer response: %w", err)
	}

	answer := &Answer{
		Status: StatusSuccess,
		Text:   parsed.Answer.AnswerText,
	}
	for _, cit := range parsed.Answer.Citations {
		answer.Citations = append(answer.Citations, Citation{
			StartIndex: cit.StartIndex,
			EndIndex:   cit.EndIndex,
			URI:        cit.URI,
			Title:      cit.Title,
		})
	}

	return answer, nil
}

func (c *Client) servingConfigPath() string {
	return fmt.Sprintf(
		"projects/%s/locations/%s/collections/default_collection/engines/%s/servingConfigs/default_serving_config",
		c.projectID, c.location, c.engineID,
	)
}

func (c *Client) dataStorePath(dataStoreID string) string {
	return fmt.Sprintf(
		"projects/%s/locations/%s/collections/default_collection/dataStores/%s",
		c.projectID, c.location, dataStoreID,
	)
}
