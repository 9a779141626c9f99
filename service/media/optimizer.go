package media

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Optimizer downloads product images and stores bounded webp thumbnails.
// Used by the import pipeline when image optimization is requested; every
// failure is soft (the image row keeps its source URL either way).
type Optimizer struct {
	Dir     string
	MaxSize int
	Quality float32
	Client  *http.Client
}

func NewOptimizer(dir string) *Optimizer {
	return &Optimizer{
		Dir:     dir,
		MaxSize: 1024,
		Quality: 85,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Optimize decodes an image, fits it into the MaxSize bounding box and
// re-encodes it as webp.
func (o *Optimizer) Optimize(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Fit(img, o.MaxSize, o.MaxSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, &webp.Options{Quality: o.Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// FetchThumb downloads url, optimizes it and writes <name>.webp under Dir,
// returning the stored filename.
func (o *Optimizer) FetchThumb(url, name string) (string, error) {
	resp, err := o.Client.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := o.Optimize(resp.Body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(o.Dir, 0755); err != nil {
		return "", err
	}
	filename := name + ".webp"
	if err := os.WriteFile(filepath.Join(o.Dir, filename), data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}
