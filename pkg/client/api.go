// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianDocs/services/workspace/datatypes"
	"github.com/AleutianAI/AleutianDocs/services/workspace/spaces"
)

// APIClient is a typed HTTP client for the workspace service.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates a client for the service at baseURL, e.g.
// "http://127.0.0.1:8985".
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// EventsURL returns the websocket endpoint for the push channel,
// optionally narrowed to one space.
func (a *APIClient) EventsURL(spaceID string) string {
	wsBase := strings.Replace(a.baseURL, "http", "ws", 1)
	u := wsBase + "/v1/events/ws"
	if spaceID != "" {
		u += "?spaceId=" + url.QueryEscape(spaceID)
	}
	return u
}

// Spaces lists all registered spaces.
func (a *APIClient) Spaces(ctx context.Context) ([]spaces.Space, error) {
	var resp struct {
		Spaces []spaces.Space `json:"spaces"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/v1/spaces", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Spaces, nil
}

// SpaceByName resolves a space by its display name.
func (a *APIClient) SpaceByName(ctx context.Context, name string) (spaces.Space, error) {
	all, err := a.Spaces(ctx)
	if err != nil {
		return spaces.Space{}, err
	}
	for _, sp := range all {
		if strings.EqualFold(sp.Name, name) {
			return sp, nil
		}
	}
	return spaces.Space{}, fmt.Errorf("%w: space %q", ErrStalePath, name)
}

// CreateSpace registers a new space.
func (a *APIClient) CreateSpace(ctx context.Context, name string) (spaces.Space, error) {
	var sp spaces.Space
	err := a.doJSON(ctx, http.MethodPost, "/v1/spaces",
		datatypes.CreateSpaceRequest{Name: name}, &sp)
	return sp, err
}

// DeleteSpace unregisters a space, leaving its documents on disk.
func (a *APIClient) DeleteSpace(ctx context.Context, spaceID string) error {
	return a.doJSON(ctx, http.MethodDelete, "/v1/spaces/"+url.PathEscape(spaceID), nil, nil)
}

// Tree fetches a space's tree. An empty path scans the whole space; a
// folder path scans only that folder's children.
func (a *APIClient) Tree(ctx context.Context, spaceID, path string) (datatypes.TreeResponse, error) {
	endpoint := "/v1/spaces/" + url.PathEscape(spaceID) + "/tree"
	if path != "" {
		endpoint += "?path=" + url.QueryEscape(path)
	}
	var resp datatypes.TreeResponse
	err := a.doJSON(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Templates lists the templates available in a space.
func (a *APIClient) Templates(ctx context.Context, spaceID string) ([]datatypes.Template, error) {
	var resp struct {
		Templates []datatypes.Template `json:"templates"`
	}
	err := a.doJSON(ctx, http.MethodGet,
		"/v1/spaces/"+url.PathEscape(spaceID)+"/templates", nil, &resp)
	return resp.Templates, err
}

// CreateFolder creates a folder and returns the server's patch.
func (a *APIClient) CreateFolder(ctx context.Context, req datatypes.CreateFolderRequest) (datatypes.FolderResponse, error) {
	var resp datatypes.FolderResponse
	err := a.doJSON(ctx, http.MethodPost, "/v1/folders", req, &resp)
	return resp, err
}

// CreateDocument creates a document and returns the server's patch.
func (a *APIClient) CreateDocument(ctx context.Context, req datatypes.CreateDocumentRequest) (datatypes.DocumentResponse, error) {
	var resp datatypes.DocumentResponse
	err := a.doJSON(ctx, http.MethodPost, "/v1/documents", req, &resp)
	return resp, err
}

// Rename renames an entry in place and returns the server's patch.
func (a *APIClient) Rename(ctx context.Context, req datatypes.RenameRequest) (datatypes.RenameResponse, error) {
	var resp datatypes.RenameResponse
	err := a.doJSON(ctx, http.MethodPost, "/v1/rename", req, &resp)
	return resp, err
}

// Delete removes an entry, recursively for folders.
func (a *APIClient) Delete(ctx context.Context, req datatypes.DeleteRequest) (datatypes.MutationResponse, error) {
	var resp datatypes.MutationResponse
	err := a.doJSON(ctx, http.MethodPost, "/v1/delete", req, &resp)
	return resp, err
}

// Upload stores files into a folder via the multipart endpoint. The
// files map is filename to content.
func (a *APIClient) Upload(ctx context.Context, spaceID, folderPath string, files map[string][]byte) (datatypes.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("spaceId", spaceID); err != nil {
		return datatypes.UploadResponse{}, err
	}
	if err := mw.WriteField("folderPath", folderPath); err != nil {
		return datatypes.UploadResponse{}, err
	}
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			return datatypes.UploadResponse{}, err
		}
		if _, err := part.Write(content); err != nil {
			return datatypes.UploadResponse{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return datatypes.UploadResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/v1/documents/upload", &buf)
	if err != nil {
		return datatypes.UploadResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp datatypes.UploadResponse
	err = a.send(req, &resp)
	return resp, err
}

// Content fetches a document's raw bytes.
func (a *APIClient) Content(ctx context.Context, spaceID, path string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/documents/content?spaceId=%s&path=%s",
		a.baseURL, url.QueryEscape(spaceID), url.QueryEscape(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

// PutContent replaces a document's bytes.
func (a *APIClient) PutContent(ctx context.Context, spaceID, path string, content []byte) (datatypes.MutationResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/documents/content?spaceId=%s&path=%s",
		a.baseURL, url.QueryEscape(spaceID), url.QueryEscape(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint,
		bytes.NewReader(content))
	if err != nil {
		return datatypes.MutationResponse{}, err
	}
	var resp datatypes.MutationResponse
	err = a.send(req, &resp)
	return resp, err
}

// doJSON sends a JSON request and decodes a JSON response into out
// (skipped when out is nil).
func (a *APIClient) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, out)
}

func (a *APIClient) send(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError maps an error response to a sentinel where the status is
// meaningful, keeping the server's message.
func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		message = body.Error
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrStalePath, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, message)
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, message)
	}
}
