package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"regexp"
	"time"
)

const bodyLogLimit = 1000

var secretFields = regexp.MustCompile(`"(password|api_key|deepseek_api_key|gemini_api_key|cookies|token)"\s*:\s*"[^"]*"`)

// BackendTransport 记录每一次对后端服务的调用
type BackendTransport struct {
	Transport http.RoundTripper
}

func (t *BackendTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
	}

	next := t.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("url", req.URL.Redacted()),
		log.Duration("latency", elapsed),
		log.String("req_body", Redact(reqBody)),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "BACKEND_CALL_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	var resBody []byte
	if resp.Body != nil {
		resBody, _ = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewBuffer(resBody))
	}
	fields = append(fields, log.Int("status", resp.StatusCode), log.String("res_body", Redact(resBody)))

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		log.ErrorContext(req.Context(), "BACKEND_CALL_FAILED", fields...)
	case elapsed > 3*time.Second:
		log.WarnContext(req.Context(), "BACKEND_CALL_SLOW", fields...)
	default:
		log.InfoContext(req.Context(), "BACKEND_CALL", fields...)
	}

	return resp, nil
}

var secretFormFields = regexp.MustCompile(`\b(password|confirm_password|api_key|deepseek_api_key|gemini_api_key|cookies|token)=[^&]*`)

// Redact 屏蔽 JSON 与表单中的密码、密钥和 cookie
func Redact(body []byte) string {
	s := secretFields.ReplaceAllString(string(body), `"$1":"[PROTECTED]"`)
	s = secretFormFields.ReplaceAllString(s, `$1=[PROTECTED]`)
	if len(s) > bodyLogLimit {
		s = s[:bodyLogLimit] + "...[truncated]"
	}
	return s
}
