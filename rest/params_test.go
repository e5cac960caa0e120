package rest

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEncodingSortsByKey(t *testing.T) {
	p := Params{
		"zebra": String("last"),
		"alpha": String("first"),
		"limit": Int(10),
	}
	assert.Equal(t, "alpha=first&limit=10&zebra=last", p.urlValues().Encode())
}

func TestQueryEncodingSkipsAbsent(t *testing.T) {
	p := Params{
		"q":          String("physics"),
		"start":      Absent(),
		"limit":      OptInt(0),
		"scope":      OptString(""),
		"resourceTypes": OptStrings(nil),
	}
	assert.Equal(t, "q=physics", p.urlValues().Encode())
}

func TestArraysEncodeAsRepeatedKeys(t *testing.T) {
	p := Params{
		"managers": Strings([]string{"u:cam:abc123", "u:cam:def456"}),
		"viewers":  Strings([]string{"g:cam:staff"}),
	}
	got := p.urlValues().Encode()
	assert.Equal(t, "managers=u%3Acam%3Aabc123&managers=u%3Acam%3Adef456&viewers=g%3Acam%3Astaff", got)
}

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	assert.True(t, v.IsAbsent())
	assert.False(t, v.IsFile())
	assert.True(t, Strings(nil).IsAbsent())
	assert.False(t, String("").IsAbsent(), "empty string is a real value, not absent")
}

func TestScalarConstructors(t *testing.T) {
	cases := []struct {
		name string
		val  Value
		want string
	}{
		{"string", String("private"), "private"},
		{"int", Int(-3), "-3"},
		{"int64", Int64(1699574400000), "1699574400000"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, []string{tc.want}, tc.val.strings())
		})
	}
}

func TestMultipartFieldsComeBeforeFiles(t *testing.T) {
	p := Params{
		"file":        File("syllabus.pdf", strings.NewReader("%PDF-1.4 fake")),
		"visibility":  String("private"),
		"displayName": String("Syllabus"),
	}
	rd, ct := p.multipartReader()
	defer rd.Close()

	mediaType, mtParams, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(rd, mtParams["boundary"])
	var order []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		order = append(order, part.FormName())
	}
	assert.Equal(t, []string{"displayName", "visibility", "file"}, order)
}

func TestMultipartCarriesFieldAndFileContent(t *testing.T) {
	p := Params{
		"resourceSubType": String("file"),
		"viewers":         Strings([]string{"u:cam:abc123", "u:cam:def456"}),
		"skipped":         Absent(),
		"file":            FileTyped("notes.txt", "text/plain", strings.NewReader("lecture notes")),
	}
	rd, ct := p.multipartReader()
	defer rd.Close()

	_, mtParams, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	form, err := multipart.NewReader(rd, mtParams["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	assert.Equal(t, []string{"file"}, form.Value["resourceSubType"])
	assert.Equal(t, []string{"u:cam:abc123", "u:cam:def456"}, form.Value["viewers"])
	assert.NotContains(t, form.Value, "skipped")

	files := form.File["file"]
	require.Len(t, files, 1)
	assert.Equal(t, "notes.txt", files[0].Filename)
	assert.Equal(t, "text/plain", files[0].Header.Get("Content-Type"))

	f, err := files[0].Open()
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "lecture notes", string(data))
}

func TestMultipartStreamsWithoutBuffering(t *testing.T) {
	// A large body must flow through the pipe; reading it to completion
	// proves the writer goroutine never stalls on an intermediate buffer.
	const size = 4 << 20
	p := Params{
		"file": File("big.bin", strings.NewReader(strings.Repeat("x", size))),
	}
	rd, ct := p.multipartReader()
	defer rd.Close()

	_, mtParams, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	part, err := multipart.NewReader(rd, mtParams["boundary"]).NextPart()
	require.NoError(t, err)
	n, err := io.Copy(io.Discard, part)
	require.NoError(t, err)
	assert.EqualValues(t, size, n)
}

func TestMultipartPropagatesSourceError(t *testing.T) {
	p := Params{
		"file": File("broken.bin", io.MultiReader(strings.NewReader("abc"), failingReader{})),
	}
	rd, _ := p.multipartReader()
	defer rd.Close()

	_, err := io.ReadAll(rd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source exploded")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("source exploded")
}
