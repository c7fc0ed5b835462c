package hris

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Documents lists the signed-in user's documents.
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.get(ctx, "/api/v1/documents", &docs, callOptions{fallback: "could not load documents"}); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument sends a file as multipart form data. The whole payload
// is buffered so the request can be replayed after a token refresh.
func (c *Client) UploadDocument(ctx context.Context, name string, content io.Reader) (*Document, error) {
	endpoint := "POST /api/v1/documents"

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: genericMessage, Endpoint: endpoint, Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: genericMessage, Endpoint: endpoint, Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: genericMessage, Endpoint: endpoint, Err: err}
	}

	var doc Document
	err = c.raw(ctx, rawRequest{
		method:      http.MethodPost,
		path:        "/api/v1/documents",
		body:        form.Bytes(),
		contentType: writer.FormDataContentType(),
		fallback:    "document upload failed",
		out:         &doc,
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DownloadDocument fetches a document's raw bytes.
func (c *Client) DownloadDocument(ctx context.Context, documentID string) ([]byte, error) {
	var blob []byte
	err := c.raw(ctx, rawRequest{
		method:   http.MethodGet,
		path:     "/api/v1/documents/" + url.PathEscape(documentID) + "/download",
		fallback: "document download failed",
		blob:     &blob,
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// rawRequest describes a non-JSON call: multipart uploads and blob
// downloads. It goes through the same auth, refresh, classification, and
// notification pipeline as the JSON path.
type rawRequest struct {
	method      string
	path        string
	body        []byte
	contentType string
	fallback    string
	out         any     // JSON-decoded response, when the server replies with JSON
	blob        *[]byte // raw response bytes, for downloads
}

func (c *Client) raw(ctx context.Context, req rawRequest) error {
	err := c.rawOnce(ctx, req, false)
	if err != nil {
		c.report(err, false)
	}
	return err
}

func (c *Client) rawOnce(ctx context.Context, req rawRequest, replayed bool) error {
	endpoint := req.method + " " + req.path

	var bodyReader io.Reader
	if req.body != nil {
		bodyReader = bytes.NewReader(req.body)
	}
	request, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, bodyReader)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: genericMessage, Endpoint: endpoint, Err: err}
	}
	if req.contentType != "" {
		request.Header.Set("Content-Type", req.contentType)
	}
	token := c.sess.current()
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return networkError(endpoint, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized && !replayed && token != "" {
		io.Copy(io.Discard, response.Body)
		if _, refreshErr := c.sess.refresh(ctx, token, c.refreshAccessToken); refreshErr != nil {
			c.teardown()
			return &Error{
				Kind:       KindAuth,
				StatusCode: http.StatusUnauthorized,
				Message:    "your session has expired, please sign in again",
				Endpoint:   endpoint,
				Err:        ErrSessionExpired,
			}
		}
		return c.rawOnce(ctx, req, true)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
		return classify(endpoint, response.StatusCode, body, req.fallback)
	}

	if req.blob != nil {
		data, err := io.ReadAll(response.Body)
		if err != nil {
			return networkError(endpoint, err)
		}
		*req.blob = data
		return nil
	}
	if req.out != nil {
		body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
		if err != nil {
			return networkError(endpoint, err)
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, req.out); err != nil {
				return &Error{Kind: KindUnknown, Message: "unexpected response from server", Endpoint: endpoint, Err: err}
			}
		}
	}
	return nil
}
