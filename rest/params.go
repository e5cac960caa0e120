package rest

import (
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Params carries the request parameters for a single call. Keys map to a
// tagged Value: a scalar, an array, a file stream or Absent. Absent values
// are dropped during encoding, so optional parameters can always be passed
// and only materialize when set.
type Params map[string]Value

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindScalar
	kindArray
	kindFile
)

// Value is one request parameter. The zero Value is Absent.
type Value struct {
	kind   valueKind
	scalar string
	array  []string
	file   *FileUpload
}

// FileUpload pairs a readable stream with the filename the server should
// record. ContentType is optional; the part defaults to octet-stream.
type FileUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Absent returns a Value that encoding skips entirely. Passing Absent is
// equivalent to leaving the key out of the Params map.
func Absent() Value { return Value{} }

// String returns a scalar string Value.
func String(s string) Value { return Value{kind: kindScalar, scalar: s} }

// Int returns a scalar Value holding the decimal rendering of i.
func Int(i int) Value { return Value{kind: kindScalar, scalar: strconv.Itoa(i)} }

// Int64 returns a scalar Value holding the decimal rendering of i.
func Int64(i int64) Value {
	return Value{kind: kindScalar, scalar: strconv.FormatInt(i, 10)}
}

// Bool returns a scalar Value holding "true" or "false".
func Bool(b bool) Value { return Value{kind: kindScalar, scalar: strconv.FormatBool(b)} }

// Strings returns an array Value. Each element is encoded as a repeated
// occurrence of the same key, in the order given. An empty slice encodes to
// nothing, like Absent.
func Strings(ss []string) Value {
	return Value{kind: kindArray, array: ss}
}

// File returns a Value carrying an upload stream. File parameters are only
// valid on POST and PUT requests, where they switch the body to multipart.
func File(filename string, r io.Reader) Value {
	return Value{kind: kindFile, file: &FileUpload{Filename: filename, Reader: r}}
}

// FileTyped is File with an explicit part content type.
func FileTyped(filename, contentType string, r io.Reader) Value {
	return Value{kind: kindFile, file: &FileUpload{Filename: filename, ContentType: contentType, Reader: r}}
}

// OptString returns String(s), or Absent when s is empty. Convenience for
// optional parameters.
func OptString(s string) Value {
	if s == "" {
		return Absent()
	}
	return String(s)
}

// OptInt returns Int(i), or Absent when i is zero.
func OptInt(i int) Value {
	if i == 0 {
		return Absent()
	}
	return Int(i)
}

// OptStrings returns Strings(ss), or Absent when ss is empty.
func OptStrings(ss []string) Value {
	if len(ss) == 0 {
		return Absent()
	}
	return Strings(ss)
}

// IsAbsent reports whether the Value encodes to nothing.
func (v Value) IsAbsent() bool {
	return v.kind == kindAbsent || (v.kind == kindArray && len(v.array) == 0)
}

// IsFile reports whether the Value carries an upload stream.
func (v Value) IsFile() bool { return v.kind == kindFile }

func (v Value) strings() []string {
	switch v.kind {
	case kindScalar:
		return []string{v.scalar}
	case kindArray:
		return v.array
	}
	return nil
}

func (p Params) hasFiles() bool {
	for _, v := range p {
		if v.IsFile() {
			return true
		}
	}
	return false
}

// urlValues collects the non-absent, non-file parameters. url.Values.Encode
// sorts by key, which gives every request a deterministic query string and
// form body. Array elements stay in caller order under their key.
func (p Params) urlValues() url.Values {
	vals := url.Values{}
	for k, v := range p {
		if v.IsAbsent() || v.IsFile() {
			continue
		}
		for _, s := range v.strings() {
			vals.Add(k, s)
		}
	}
	return vals
}

// sortedKeys returns the keys of p in ascending order, filtered by keep.
func (p Params) sortedKeys(keep func(Value) bool) []string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if keep(v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartReader streams p as a multipart/form-data body. Scalar and array
// fields are written first, then the file parts, each group in ascending key
// order. File contents are copied straight from their readers, so a large
// upload never has to sit in memory. The returned reader delivers any write
// or source error on Read.
func (p Params) multipartReader() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := p.writeMultipart(mw)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func (p Params) writeMultipart(mw *multipart.Writer) error {
	for _, k := range p.sortedKeys(func(v Value) bool { return !v.IsAbsent() && !v.IsFile() }) {
		for _, s := range p[k].strings() {
			if err := mw.WriteField(k, s); err != nil {
				return err
			}
		}
	}
	for _, k := range p.sortedKeys(Value.IsFile) {
		f := p[k].file
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition",
			`form-data; name="`+quoteEscaper.Replace(k)+`"; filename="`+quoteEscaper.Replace(f.Filename)+`"`)
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		hdr.Set("Content-Type", ct)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return err
		}
	}
	return nil
}
