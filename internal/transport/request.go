package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/photomap/pkg/errors"
)

// DecodeResponse checks the status and decodes a JSON body into target.
// Non-2xx responses become *errors.APIError tagged with topic; undecodable
// bodies become *errors.ParseError describing what.
func DecodeResponse(resp *http.Response, topic, what string, target any) error {
	body, err := readAndClose(resp)
	if err != nil {
		return errors.WrapParse("json", what, err)
	}
	if !isSuccess(resp.StatusCode) {
		return errors.NewAPIError(topic, endpoint(resp), resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", what, err)
	}
	return nil
}

// CheckStatus discards the body and returns *errors.APIError for any
// non-2xx status.
func CheckStatus(resp *http.Response, topic string) error {
	body, _ := readAndClose(resp)
	if !isSuccess(resp.StatusCode) {
		return errors.NewAPIError(topic, endpoint(resp), resp.StatusCode, string(body))
	}
	return nil
}

// ErrorMessage renders a transport error the way users see it.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var netErr *errors.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("Looks like the server is down (%s).", netErr.Cause())
	}

	var apiErr *errors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}

	var parseErr *errors.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("Couldn't read %s (%s).", parseErr.What, parseErr.Message)
	}

	return err.Error()
}

// Drain reads the rest of the body and closes it, so the connection can be
// reused when only the status code matters.
func Drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func readAndClose(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	return io.ReadAll(resp.Body)
}

func endpoint(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.Path
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
