package rest

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/stuartf/oae-rest/internal/json"
)

// Raw is the response metadata a caller sometimes needs beyond the parsed
// body: the status line and headers.
type Raw struct {
	StatusCode int
	Status     string
	Header     http.Header
}

// Result is the normalized outcome of one call. Body holds the parsed JSON
// value for structured responses, the text for text responses, the bytes
// for everything else, or nil when the body was empty. A Result is returned
// alongside a RequestError, so failure bodies stay inspectable.
type Result struct {
	Body any
	Raw  *Raw
}

// Bytes returns the body as bytes when it is textual or binary, and nil for
// parsed or empty bodies.
func (r *Result) Bytes() []byte {
	switch b := r.Body.(type) {
	case []byte:
		return b
	case string:
		return []byte(b)
	}
	return nil
}

// Text returns the body as a string when it is textual, and "" otherwise.
func (r *Result) Text() string {
	s, _ := r.Body.(string)
	return s
}

// Decode maps a parsed JSON body onto v, which must be a pointer to a
// struct or map. Field names follow json tags; numeric widening is applied
// so int64 fields accept JSON numbers.
func (r *Result) Decode(v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           v,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(r.Body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBody turns raw response bytes into the body value the Result will
// carry. For structured content types a parse failure yields a ParseError
// and the raw text as the body.
func parseBody(contentType string, data []byte) (any, *ParseError) {
	if len(data) == 0 {
		return nil, nil
	}
	mediaType := contentType
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = mt
	}
	switch {
	case isStructured(mediaType):
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return string(data), &ParseError{ContentType: mediaType, Err: err}
		}
		return v, nil
	case strings.HasPrefix(mediaType, "text/"):
		return string(data), nil
	default:
		return data, nil
	}
}

func isStructured(mediaType string) bool {
	return mediaType == "application/json" ||
		mediaType == "text/json" ||
		strings.HasSuffix(mediaType, "+json")
}
