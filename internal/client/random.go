package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRandomDogURL is the public random dog picture API.
const DefaultRandomDogURL = "https://dog.ceo/api/breeds/image/random"

const (
	randomFileName    = "DogImage.jpg"
	randomContentType = "image/jpeg"
	maxRandomBytes    = 20 << 20
)

// DogAPI fetches random dog pictures.
type DogAPI struct {
	url  string
	http *http.Client
}

// NewDogAPI returns a DogAPI for url. A nil httpClient gets a default.
func NewDogAPI(url string, httpClient *http.Client) *DogAPI {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &DogAPI{url: url, http: httpClient}
}

// Random asks the API for a picture URL, downloads it and wraps the bytes
// as a JPEG file. It returns the file and the picture's URL for previewing.
func (d *DogAPI) Random(ctx context.Context) (File, string, error) {
	var body struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	if err := d.getJSON(ctx, d.url, &body); err != nil {
		return File{}, "", fmt.Errorf("random dog: %w", err)
	}
	if body.Status != "success" || body.Message == "" {
		return File{}, "", fmt.Errorf("random dog: api answered status %q", body.Status)
	}

	data, err := d.download(ctx, body.Message)
	if err != nil {
		return File{}, "", fmt.Errorf("download %s: %w", body.Message, err)
	}
	return File{Name: randomFileName, ContentType: randomContentType, Data: data}, body.Message, nil
}

func (d *DogAPI) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (d *DogAPI) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxRandomBytes))
}

func (d *DogAPI) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, resp.Status)
	}
	return resp, nil
}
