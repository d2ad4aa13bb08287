package baotang

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/brogergvhs/baotang/internal/providers"
)

// flexString accepts a JSON string or number and keeps its textual form.
// The API is not consistent about quoting ids and chapter numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())

	return nil
}

// chapterNum is a chapter number that remembers whether the API sent it as a
// JSON number, in which case its id form is the canonical decimal.
type chapterNum struct {
	raw     flexString
	numeric bool
}

func (c *chapterNum) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	c.numeric = len(b) > 0 && b[0] != '"' && !bytes.Equal(b, []byte("null"))
	return c.raw.UnmarshalJSON(b)
}

func (c chapterNum) String() string {
	return string(c.raw)
}

// idPart is the number as it appears in chapter URLs.
func (c chapterNum) idPart(n float64) string {
	if c.numeric {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return string(c.raw)
}

type chapterPayload struct {
	NumberChapter    chapterNum `json:"numberChapter"`
	Name             string     `json:"name"`
	StringUpdateTime string     `json:"stringUpdateTime"`
}

type chapterListResponse struct {
	Result *struct {
		Chapters []chapterPayload `json:"chapters"`
	} `json:"result"`
}

func (r *chapterListResponse) validate() error {
	if r.Result == nil {
		return fmt.Errorf("%w: missing result", providers.ErrMalformedPayload)
	}
	if r.Result.Chapters == nil {
		return fmt.Errorf("%w: missing result.chapters", providers.ErrMalformedPayload)
	}

	return nil
}

type comicPayload struct {
	ID          flexString `json:"id"`
	URL         string     `json:"url"`
	ThumbURL    string     `json:"thumbUrl"`
	Name        string     `json:"name"`
	LastChapter *struct {
		Name string `json:"name"`
	} `json:"lastChapter"`
}

type comicListResponse struct {
	Result *struct {
		Comics []comicPayload `json:"comics"`
	} `json:"result"`
}

func (r *comicListResponse) validate() error {
	if r.Result == nil {
		return fmt.Errorf("%w: missing result", providers.ErrMalformedPayload)
	}
	if r.Result.Comics == nil {
		return fmt.Errorf("%w: missing result.comics", providers.ErrMalformedPayload)
	}

	return nil
}

type categoryPayload struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

type categoryListResponse struct {
	Result []categoryPayload `json:"result"`
}

func (r *categoryListResponse) validate() error {
	if r.Result == nil {
		return fmt.Errorf("%w: missing result", providers.ErrMalformedPayload)
	}

	return nil
}

type payload interface {
	validate() error
}

// decodePayload unmarshals body into p and checks the envelope.
func decodePayload(body []byte, p payload) error {
	if err := json.Unmarshal(body, p); err != nil {
		return fmt.Errorf("%w: %v", providers.ErrMalformedPayload, err)
	}

	return p.validate()
}

// chapterNumber parses the textual chapter number. Only fully numeric values
// are accepted.
func chapterNumber(raw flexString) (float64, bool) {
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}

	return n, true
}
