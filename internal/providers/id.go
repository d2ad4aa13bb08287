package providers

import (
	"fmt"
	"strings"
)

// IDSeparator joins the browsable URL and the API id of a composite identifier.
const IDSeparator = "::"

func ComposeID(url, apiID string) string {
	return url + IDSeparator + apiID
}

// SplitID returns both halves of a composite identifier.
func SplitID(id string) (string, string, error) {
	url, apiID, ok := strings.Cut(id, IDSeparator)
	if !ok || url == "" || apiID == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	// anything after a second separator is not part of the api id
	apiID, _, _ = strings.Cut(apiID, IDSeparator)

	return url, apiID, nil
}

// URLPart returns the browsable half of a composite identifier, or the whole
// value when it carries no separator.
func URLPart(id string) string {
	url, _, _ := strings.Cut(id, IDSeparator)
	return url
}
