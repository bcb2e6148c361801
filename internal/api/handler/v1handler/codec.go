package v1handler

import (
	"io"
	"linkvault/pkg/domain"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

var errNotString = errors.New("value is not a string")

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	return b, nil
}

// optString reads a string field. present is false for null.
func optString(d *jx.Decoder) (s string, present bool, err error) {
	switch d.Next() {
	case jx.Null:
		return "", false, d.Null()
	case jx.String:
		s, err := d.Str()

		return s, true, err
	default:
		if err := d.Skip(); err != nil {
			return "", false, err
		}

		return "", true, errNotString
	}
}

type verifyRequest struct {
	URL string
}

// decodeVerifyRequest reads {"url": string}. A missing or null url decodes to
// the empty string; a url that is not a string yields errNotString.
func decodeVerifyRequest(data []byte) (verifyRequest, error) {
	var req verifyRequest
	if err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "url":
			s, _, err := optString(d)
			req.URL = s

			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return verifyRequest{}, errors.Wrap(err, "decode verify request")
	}

	return req, nil
}

func encodeVerifyResponse(res domain.Verification) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("valid")
	e.Bool(res.Valid())
	if !res.Valid() && res.Message != "" {
		e.FieldStart("message")
		e.Str(res.Message)
	}
	e.ObjEnd()

	return e.Bytes()
}

type createBookmarkRequest struct {
	Title string
	URL   string
}

func decodeCreateBookmarkRequest(data []byte) (createBookmarkRequest, error) {
	var req createBookmarkRequest
	if err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "title":
			req.Title, _, err = optString(d)
		case "url":
			req.URL, _, err = optString(d)
		default:
			err = d.Skip()
		}

		return err
	}); err != nil {
		return createBookmarkRequest{}, errors.Wrap(err, "decode create bookmark request")
	}

	return req, nil
}

func writeBookmark(e *jx.Encoder, b domain.Bookmark) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(b.ID.String())
	e.FieldStart("title")
	e.Str(b.Title)
	e.FieldStart("url")
	e.Str(b.URL)
	e.FieldStart("createdAt")
	e.Str(b.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()
}

func encodeBookmark(b domain.Bookmark) []byte {
	var e jx.Encoder
	writeBookmark(&e, b)

	return e.Bytes()
}

func encodeBookmarkList(items []domain.Bookmark, nextCursor string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for i := range items {
		writeBookmark(&e, items[i])
	}
	e.ArrEnd()
	e.FieldStart("nextCursor")
	if nextCursor == "" {
		e.Null()
	} else {
		e.Str(nextCursor)
	}
	e.ObjEnd()

	return e.Bytes()
}

func encodeEvent(ev domain.BookmarkEvent) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("type")
	e.Str(string(ev.Type))
	e.FieldStart("bookmark")
	writeBookmark(&e, ev.Bookmark)
	e.ObjEnd()

	return e.Bytes()
}

func encodeError(res ErrorResponse) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Str(res.Code)
	e.FieldStart("message")
	e.Str(res.Message)
	e.ObjEnd()

	return e.Bytes()
}
