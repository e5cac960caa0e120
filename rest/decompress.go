package rest

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// acceptEncoding is sent on every request. Setting the header ourselves
// disables net/http's automatic gzip handling, so all four encodings go
// through the same decode path below.
const acceptEncoding = "gzip, deflate, br, zstd"

var gzipPool = sync.Pool{}

var zstdPool = sync.Pool{}

type decodedBody struct {
	io.Reader
	closeFn func() error
}

func (b *decodedBody) Close() error { return b.closeFn() }

// decodeBody wraps resp.Body according to its Content-Encoding. The caller
// closes the returned reader exactly once; closing also returns pooled
// decompressors and closes the underlying body.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	src := resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return src, nil

	case "gzip":
		gz, _ := gzipPool.Get().(*gzip.Reader)
		var err error
		if gz == nil {
			gz, err = gzip.NewReader(src)
		} else {
			err = gz.Reset(src)
		}
		if err != nil {
			if gz != nil {
				gzipPool.Put(gz)
			}
			src.Close()
			return nil, fmt.Errorf("gzip response: %w", err)
		}
		return &decodedBody{Reader: gz, closeFn: func() error {
			cerr := gz.Close()
			gzipPool.Put(gz)
			if serr := src.Close(); cerr == nil {
				cerr = serr
			}
			return cerr
		}}, nil

	case "deflate":
		fl := flate.NewReader(src)
		return &decodedBody{Reader: fl, closeFn: func() error {
			cerr := fl.Close()
			if serr := src.Close(); cerr == nil {
				cerr = serr
			}
			return cerr
		}}, nil

	case "br":
		br := brotli.NewReader(src)
		return &decodedBody{Reader: br, closeFn: src.Close}, nil

	case "zstd":
		dec, _ := zstdPool.Get().(*zstd.Decoder)
		if dec == nil {
			var err error
			dec, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
			if err != nil {
				src.Close()
				return nil, fmt.Errorf("zstd response: %w", err)
			}
		}
		if err := dec.Reset(src); err != nil {
			zstdPool.Put(dec)
			src.Close()
			return nil, fmt.Errorf("zstd response: %w", err)
		}
		return &decodedBody{Reader: dec, closeFn: func() error {
			// Pooled decoders are reset, never closed.
			zstdPool.Put(dec)
			return src.Close()
		}}, nil

	default:
		// Unknown encoding, hand the body through untouched.
		return src, nil
	}
}
