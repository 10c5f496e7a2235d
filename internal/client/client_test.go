package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-sketcher/internal/drawing"
	"plan-sketcher/internal/shape"
)

func TestSave(t *testing.T) {
	var got drawing.Input
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/drawings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(drawing.Drawing{
			ID:        "65a000000000000000000001",
			Name:      got.Name,
			Shapes:    got.Shapes,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}))
	defer srv.Close()

	shapes := []shape.Shape{shape.Circle{X: 1, Y: 2, Radius: 3}}
	d, err := New(srv.URL + "/").Save(context.Background(), "Plan 1", shapes)
	require.NoError(t, err)

	assert.Equal(t, "Plan 1", got.Name)
	assert.Equal(t, shape.List(shapes), got.Shapes)
	assert.Equal(t, "65a000000000000000000001", d.ID)
	assert.Equal(t, shape.List(shapes), d.Shapes)
}

func TestSaveAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"name is required"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Save(context.Background(), "", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "name is required", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "name is required")
}

func TestSaveAPIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Save(context.Background(), "x", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "api: 500 Internal Server Error", apiErr.Error())
}

func TestSaveAsyncDeliversOneResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"1","name":"Plan 1","shapes":[]}`))
	}))
	defer srv.Close()

	shapes := []shape.Shape{shape.Line{X2: 1}}
	ch := New(srv.URL).SaveAsync(context.Background(), "Plan 1", shapes)
	shapes[0] = nil

	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "1", res.Drawing.ID)

	_, ok = <-ch
	assert.False(t, ok)
}

func TestSaveAsyncTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := <-New(url, WithTimeout(time.Second)).SaveAsync(context.Background(), "x", nil)
	require.Error(t, res.Err)
	var apiErr *APIError
	assert.False(t, errors.As(res.Err, &apiErr))
}

func TestListAndLatest(t *testing.T) {
	body := `[{"_id":"a","name":"first","shapes":[]},{"_id":"b","name":"second","shapes":[{"type":"circle","x":1,"y":1,"radius":2}]}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(srv.URL)
	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)

	latest, err := c.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
	assert.Equal(t, shape.List{shape.Circle{X: 1, Y: 1, Radius: 2}}, latest.Shapes)
}

func TestLatestEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	list, err := New(srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)

	_, err = New(srv.URL).Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoDrawings)
}
