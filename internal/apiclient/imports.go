package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ImportResult carries the server's verdict on one uploaded file.
type ImportResult struct {
	Status int
	Body   string
}

// Accepted reports whether the upload was taken (200 or 201).
func (r *ImportResult) Accepted() bool {
	return r.Status == http.StatusOK || r.Status == http.StatusCreated
}

// ImportMushafFile uploads one mushaf JSON file to /mushafs/import/. An empty
// token is tolerated; the request goes out unauthenticated.
func (c *Client) ImportMushafFile(ctx context.Context, token, path string) (*ImportResult, error) {
	return c.uploadFile(ctx, c.url("/mushafs/import/"), token, path)
}

// ImportTranslationFile uploads one translation JSON file to
// /translations/import/. An empty token is tolerated.
func (c *Client) ImportTranslationFile(ctx context.Context, token, path string) (*ImportResult, error) {
	return c.uploadFile(ctx, c.url("/translations/import/"), token, path)
}

// ImportTakhtit uploads a layout file to /takhtits/{id}/import/ tagged with
// the given type. The caller must hold a token and a takhtit identifier.
func (c *Client) ImportTakhtit(ctx context.Context, token, takhtitID, typeName, path string) (*ImportResult, error) {
	target := c.url("/takhtits/"+takhtitID+"/import/") + "?type=" + url.QueryEscape(typeName)
	return c.uploadFile(ctx, target, token, path)
}

// BatchResult summarizes a directory import.
type BatchResult struct {
	Succeeded int
	Failed    int
	Failures  []string
}

// ImportTranslationsDir uploads every *.json file directly inside dir,
// sequentially. Per-file failures are logged and counted but never abort the
// batch. It is an error for the directory to contain no JSON files.
func (c *Client) ImportTranslationsDir(ctx context.Context, token, dir string) (BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".json") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return BatchResult{}, fmt.Errorf("no .json files found in directory %q", dir)
	}

	var result BatchResult
	for _, path := range files {
		fmt.Fprintf(c.Stdout, "importing %s...\n", path)
		res, err := c.ImportTranslationFile(ctx, token, path)
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, path)
			fmt.Fprintf(c.Stdout, "  failed: %v\n", err)
			continue
		}
		fmt.Fprintf(c.Stdout, "  status %d\n", res.Status)
		if body := strings.TrimSpace(res.Body); body != "" {
			fmt.Fprintf(c.Stdout, "  response: %s\n", body)
		}
		if res.Accepted() {
			result.Succeeded++
		} else {
			result.Failed++
			result.Failures = append(result.Failures, path)
		}
	}

	fmt.Fprintf(c.Stdout, "import summary: %d succeeded, %d failed\n", result.Succeeded, result.Failed)
	return result, nil
}

// uploadFile posts one file as multipart form data, field name "file", part
// content type application/json. The whole body is buffered; import files are
// small JSON documents.
func (c *Client) uploadFile(ctx context.Context, target, token, path string) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}

	return &ImportResult{Status: resp.StatusCode, Body: string(body)}, nil
}
