package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/objective-board/internal/model"
)

// APIError - тело ошибки PostgREST
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// RESTStore ходит в таблицу tasks через PostgREST (REST API Supabase)
type RESTStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRESTStore принимает адрес вида https://<project>.supabase.co/rest/v1
func NewRESTStore(baseURL, apiKey string, timeout time.Duration) *RESTStore {
	return &RESTStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createRow struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Period    string `json:"period"`
}

func (s *RESTStore) Create(ctx context.Context, title string, period model.Period) (model.Task, error) {
	title, err := validateCreate(title, period)
	if err != nil {
		return model.Task{}, err
	}

	var rows []model.Task
	body := []createRow{{Title: title, Completed: false, Period: string(period)}}
	if err := s.do(ctx, http.MethodPost, nil, body, &rows); err != nil {
		return model.Task{}, wrap("create", 0, err)
	}
	if len(rows) == 0 {
		return model.Task{}, wrap("create", 0, errors.New("empty representation"))
	}
	return rows[0], nil
}

func (s *RESTStore) List(ctx context.Context) ([]model.Task, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc,id.desc")

	var rows []model.Task
	if err := s.do(ctx, http.MethodGet, q, nil, &rows); err != nil {
		return nil, wrap("list", 0, err)
	}
	if rows == nil {
		rows = make([]model.Task, 0)
	}
	return rows, nil
}

func (s *RESTStore) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	patch, err := validatePatch(patch)
	if err != nil {
		return model.Task{}, err
	}

	var rows []model.Task
	if err := s.do(ctx, http.MethodPatch, byID(id), patch, &rows); err != nil {
		return model.Task{}, wrap("update", id, err)
	}
	if len(rows) == 0 { // PostgREST отвечает пустым массивом, если строки нет
		return model.Task{}, wrap("update", id, ErrNotFound)
	}
	return rows[0], nil
}

func (s *RESTStore) Delete(ctx context.Context, id int64) error {
	return wrap("delete", id, s.do(ctx, http.MethodDelete, byID(id), nil, nil))
}

func byID(id int64) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	return q
}

func (s *RESTStore) do(ctx context.Context, method string, query url.Values, in, out any) error {
	endpoint := s.baseURL + "/tasks"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if out != nil {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
