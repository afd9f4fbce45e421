package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

var (
	errUnexpected   = errors.New("unexpected status code")
	errMissingKey   = errors.New("api key is not configured")
	errMalformed    = errors.New("malformed payload")
	maxResponseSize = int64(1 << 20)
)

// decodeJSON reads at most maxResponseSize bytes of resp into v. Payload shapes
// use pointer fields so absent values can be told apart from zeros.
func decodeJSON(resp *http.Response, v any) error {
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

func unexpectedStatus(provider string, code int) error {
	return fmt.Errorf("%s: %w: %d", provider, errUnexpected, code)
}

func coordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
