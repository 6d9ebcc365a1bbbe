// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/poiesic/askbase/vectordb"
)

const defaultRequestTimeout = 15 * time.Second

// client is a minimal typed client for the Qdrant collections REST API.
// The langchaingo vector store handles points; this client handles the
// collection lifecycle the store deliberately leaves to its caller.
type client struct {
	baseURL *url.URL
	apiKey  string
	httpc   *http.Client
}

func newClient(baseURL *url.URL, apiKey string, timeout time.Duration) *client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

type collectionInfoResponse struct {
	Result struct {
		PointsCount uint64 `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

type createCollectionRequest struct {
	Vectors struct {
		Size     int    `json:"size"`
		Distance string `json:"distance"`
	} `json:"vectors"`
}

type deleteCollectionResponse struct {
	Result bool `json:"result"`
}

// do issues one request and decodes the JSON response body into out.
// Network failures and 5xx responses are reported as vectordb.ErrUnavailable;
// a 404 is reported as vectordb.ErrCollectionNotFound.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", vectordb.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", vectordb.ErrCollectionNotFound, path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: status %d", vectordb.ErrUnavailable, method, path, resp.StatusCode)
	case resp.StatusCode >= 400:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, detail: fmt.Sprintf("%s %s: %s", method, path, payload)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) listCollections(ctx context.Context) ([]string, error) {
	var resp collectionsResponse
	if err := c.do(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Result.Collections))
	for _, col := range resp.Result.Collections {
		names = append(names, col.Name)
	}
	return names, nil
}

func (c *client) collectionInfo(ctx context.Context, name string) (*vectordb.CollectionInfo, error) {
	var resp collectionInfoResponse
	if err := c.do(ctx, http.MethodGet, "/collections/"+name, nil, &resp); err != nil {
		return nil, err
	}

	return &vectordb.CollectionInfo{
		Name:        name,
		PointsCount: resp.Result.PointsCount,
		VectorSize:  resp.Result.Config.Params.Vectors.Size,
	}, nil
}

// createCollection creates a cosine-distance collection of the given vector
// size. A conflict response means another caller created it first; that is
// the create-if-absent semantics the collection manager relies on.
func (c *client) createCollection(ctx context.Context, name string, vectorSize int) error {
	var req createCollectionRequest
	req.Vectors.Size = vectorSize
	req.Vectors.Distance = "Cosine"

	err := c.do(ctx, http.MethodPut, "/collections/"+name, req, nil)
	if err == nil {
		return nil
	}
	// Qdrant answers 409 when the collection already exists.
	var statusErr *statusError
	if errors.As(err, &statusErr) && statusErr.code == http.StatusConflict {
		return nil
	}
	return err
}

func (c *client) deleteCollection(ctx context.Context, name string) (bool, error) {
	var resp deleteCollectionResponse
	err := c.do(ctx, http.MethodDelete, "/collections/"+name, nil, &resp)
	if err != nil {
		if errors.Is(err, vectordb.ErrCollectionNotFound) {
			return false, nil
		}
		return false, err
	}
	return resp.Result, nil
}

// statusError carries a non-retriable client-side HTTP status from Qdrant.
type statusError struct {
	code   int
	detail string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant: status %d: %s", e.code, e.detail)
}
