package source

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lucaslondon8/jobhunterGPT/internal/nlp"

	"go.uber.org/zap"
)

const (
	contentType = "application/json"
	userAgent   = "lucaslondon8/jobhunterGPT (job discovery agent)"
)

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}

// client is the HTTP plumbing shared by all adapters: one GET helper with
// JSON decoding, gzip handling and optional bearer auth.
type client struct {
	httpClient *http.Client
	token      string
	logger     *zap.Logger
}

func newClient(logger *zap.Logger, token string) *client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{
		httpClient: newHTTPClient(),
		token:      token,
		logger:     logger,
	}
}

func (c *client) getJSON(ctx context.Context, rawURL string, q url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", "gzip")
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

// stringID decodes an id that sources emit as either a JSON number or a
// JSON string.
type stringID string

func (s *stringID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = stringID(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = stringID(num.String())
	return nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, " ")
}

// queryMatches reports whether any token of the query text occurs as a
// whole word in one of the posting fields. Sources without server-side
// search use it to filter client-side; an empty query matches everything.
func queryMatches(query Query, fields ...string) bool {
	tokens := nlp.Tokens(query.Text)
	if len(tokens) == 0 {
		return true
	}

	haystack := " " + nlp.Normalize(strings.Join(fields, " ")) + " "
	for _, tok := range tokens {
		if strings.Contains(haystack, " "+tok+" ") {
			return true
		}
	}
	return false
}
