package jobserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/nickalie/crawlship/internal/core/target"
)

// Filename reported for the archive in the multipart upload. The server only
// cares about the field name, not the filename.
const eggFilename = "project.egg"

// Client talks to a job server's REST API. Server payloads go to out so they
// can be piped; progress diagnostics go to log.
type Client struct {
	httpClient *http.Client
	userAgent  string
	netrcPath  string
	out        io.Writer
	log        io.Writer
}

// ClientOption defines functional options for Client
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithNetrcPath overrides the .netrc location used for credential lookups.
func WithNetrcPath(path string) ClientOption {
	return func(c *Client) {
		c.netrcPath = path
	}
}

// WithOutput sets the writers for server payloads and diagnostics.
func WithOutput(out, log io.Writer) ClientOption {
	return func(c *Client) {
		c.out = out
		c.log = log
	}
}

// NewClient creates a new job-server client with default implementations.
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: cleanhttp.DefaultClient(),
		userAgent:  "crawlship",
		out:        os.Stdout,
		log:        os.Stderr,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Deploy uploads an egg archive as a new project version via a multipart POST
// to addversion.json. The server's response body is printed either way; a
// non-2xx status or a network failure yields an error.
func (c *Client) Deploy(ctx context.Context, tgt *target.Target, project, version, eggPath string) error {
	eggData, err := os.ReadFile(eggPath)
	if err != nil {
		return fmt.Errorf("failed to read egg %s: %w", eggPath, err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("project", project); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	if err := writer.WriteField("version", version); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	part, err := writer.CreateFormFile("egg", eggFilename)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	if _, err := part.Write(eggData); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	url, err := tgt.Endpoint("addversion.json")
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", c.userAgent)
	c.applyAuth(req, tgt)

	fmt.Fprintf(c.log, "Deploying to project \"%s\" in %s\n", project, url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(c.log, "Deploy failed: %v\n", err)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read server response: %w", err)
	}

	if resp.StatusCode < http.StatusMultipleChoices {
		fmt.Fprintf(c.log, "Server response (%d):\n", resp.StatusCode)
		fmt.Fprintln(c.out, string(respBody))
		return nil
	}

	fmt.Fprintf(c.log, "Deploy failed (%d):\n", resp.StatusCode)
	c.printErrorBody(respBody)
	return fmt.Errorf("server returned status %d", resp.StatusCode)
}

// ListProjects fetches the project names known to the target's job server.
func (c *Client) ListProjects(ctx context.Context, tgt *target.Target) ([]string, error) {
	url, err := tgt.Endpoint("listprojects.json")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	c.applyAuth(req, tgt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read server response: %w", err)
	}

	var payload struct {
		Status   string   `json:"status"`
		Message  string   `json:"message"`
		Projects []string `json:"projects"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, &MalformedResponse{Body: string(respBody)}
	}
	if payload.Status == "error" {
		return nil, &ErrorResponse{Message: payload.Message}
	}

	return payload.Projects, nil
}

// printErrorBody renders an error response body the way the server meant it:
// a status/message pair when present, pretty-printed JSON otherwise, and the
// raw body when it isn't JSON at all.
func (c *Client) printErrorBody(body []byte) {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		fmt.Fprintln(c.out, string(body))
		return
	}

	status, hasStatus := data["status"]
	message, hasMessage := data["message"]
	if hasStatus && hasMessage {
		fmt.Fprintf(c.out, "Status: %v\n", status)
		fmt.Fprintf(c.out, "Message:\n%v\n", message)
		return
	}

	pretty, err := json.MarshalIndent(data, "", "   ")
	if err != nil {
		fmt.Fprintln(c.out, string(body))
		return
	}
	fmt.Fprintln(c.out, string(pretty))
}
