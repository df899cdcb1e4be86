package thumbcache

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	gocache "github.com/patrickmn/go-cache"

	"photopick/internal/metrics"
	"photopick/internal/storage"
)

// Codec decodes source images and encodes thumbnails. Split out so tests
// can count invocations and fail decoding on demand.
type Codec interface {
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image) error
}

type jpegCodec struct{}

func (jpegCodec) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

func (jpegCodec) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
}

// Cache generates bounded-dimension thumbnails at most once per source.
// The target name is a pure function of the source basename, so a second
// Ensure for the same source is a pure cache hit.
type Cache struct {
	baseDir string
	baseURL string
	maxDim  uint
	codec   Codec
	refs    *gocache.Cache
}

func New(baseDir, baseURL string, maxDim uint) (*Cache, error) {
	return NewWithCodec(baseDir, baseURL, maxDim, jpegCodec{})
}

func NewWithCodec(baseDir, baseURL string, maxDim uint, codec Codec) (*Cache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		baseDir: baseDir,
		baseURL: baseURL,
		maxDim:  maxDim,
		codec:   codec,
		refs:    gocache.New(gocache.NoExpiration, 0),
	}, nil
}

// ThumbName maps an item id to its thumbnail filename. Thumbnails are
// always encoded as JPEG regardless of the source format.
func ThumbName(id string) string {
	ext := filepath.Ext(id)
	return strings.TrimSuffix(id, ext) + ".jpg"
}

// Ref returns the public reference for an item's thumbnail.
func (c *Cache) Ref(id string) string {
	return path.Join(c.baseURL, ThumbName(id))
}

// Ensure returns the thumbnail reference for the given source image,
// generating the derivative only if it does not exist yet. Decode and
// encode problems surface as storage.ErrThumbnailFailed; callers treat
// that as a soft failure and skip the file.
func (c *Cache) Ensure(sourcePath string) (string, error) {
	id := filepath.Base(sourcePath)
	name := ThumbName(id)

	if _, ok := c.refs.Get(name); ok {
		return c.Ref(id), nil
	}

	target := filepath.Join(c.baseDir, name)
	if _, err := os.Stat(target); err == nil {
		c.refs.Set(name, struct{}{}, gocache.NoExpiration)
		return c.Ref(id), nil
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrThumbnailFailed, err)
	}
	defer src.Close()

	img, err := c.codec.Decode(src)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", storage.ErrThumbnailFailed, id, err)
	}

	// Bounds both dimensions, keeps aspect ratio, never upscales.
	thumb := resize.Thumbnail(c.maxDim, c.maxDim, img, resize.Lanczos3)

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrThumbnailFailed, err)
	}

	if err := c.codec.Encode(dst, thumb); err != nil {
		dst.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("%w: encode %s: %v", storage.ErrThumbnailFailed, id, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("%w: %v", storage.ErrThumbnailFailed, err)
	}

	c.refs.Set(name, struct{}{}, gocache.NoExpiration)
	metrics.ThumbnailsGenerated.Inc()

	return c.Ref(id), nil
}

// Remove deletes the derivative for an item. A missing file is not an
// error: delete cascades are best-effort.
func (c *Cache) Remove(id string) error {
	name := ThumbName(id)
	c.refs.Delete(name)

	if err := os.Remove(filepath.Join(c.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
