package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Таймауты по классам вызовов: генерация заметно медленнее поиска.
const (
	queryTimeout    = 60 * time.Second
	generateTimeout = 120 * time.Second
)

// BackendError — любая ошибка обращения к внешнему бэкенду:
// транспорт, не-2xx статус или невалидный JSON. Не ретраится.
type BackendError struct {
	URL string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend call %s: %v", e.URL, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// postJSON — один синхронный POST с JSON-телом и JSON-ответом.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &BackendError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &BackendError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &BackendError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &BackendError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &BackendError{URL: url, Err: fmt.Errorf("non-JSON response: %w", err)}
	}
	return out, nil
}
