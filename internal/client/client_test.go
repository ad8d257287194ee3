package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/models"
	"stockview/internal/viewer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(NewHostResolver(srv.URL, "", "/api"), 5*time.Second, nil)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return c
}

func TestHostResolver(t *testing.T) {
	local := NewHostResolver("http://localhost:8000/", "", "/api")
	assert.True(t, local.IsLocal())
	assert.Equal(t, "http://localhost:8000/upload", local.URL(EndpointUpload))
	assert.Equal(t, "http://localhost:8000/save_shelf_life", local.URL(EndpointShelfLife))
	assert.Equal(t, "http://localhost:8000/inventory_data.json", local.URL(EndpointDocument))

	loopback := NewHostResolver("http://127.0.0.1:8000", "", "/api")
	assert.Equal(t, "http://127.0.0.1:8000/upload", loopback.URL(EndpointUpload))

	remote := NewHostResolver("https://stock.example.com", "", "/api/")
	assert.False(t, remote.IsLocal())
	assert.Equal(t, "https://stock.example.com/api/upload", remote.URL(EndpointUpload))
	assert.Equal(t, "https://stock.example.com/api/save_shelf_life", remote.URL(EndpointShelfLife))
	assert.Equal(t, "https://stock.example.com/inventory_data.json", remote.URL(EndpointDocument))
}

func TestFetchDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/inventory_data.json", r.URL.Path)
		assert.Equal(t, "1700000000000", r.URL.RawQuery)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"metadata":{"source_file":"22.12.xlsx"},"sheets":[{"sheet_name":"A","total_products":1,"products":[{"Mã":"1"}]}]}`)
	})

	doc, err := c.FetchDocument(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "22.12.xlsx", doc.Metadata.SourceFile)
	require.Len(t, doc.Sheets, 1)
	assert.Equal(t, []string{"Mã"}, doc.Sheets[0].ColumnNames())
}

func TestFetchDocumentFailures(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := c.FetchDocument(context.Background())
		assert.ErrorIs(t, err, viewer.ErrLoadFailed)
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		})
		_, err := c.FetchDocument(context.Background())
		assert.ErrorIs(t, err, viewer.ErrLoadFailed)
	})

	t.Run("unreachable", func(t *testing.T) {
		c := NewClient(NewHostResolver("http://127.0.0.1:1", "", "/api"), time.Second, nil)
		_, err := c.FetchDocument(context.Background())
		assert.ErrorIs(t, err, viewer.ErrLoadFailed)
	})
}

func TestIngest(t *testing.T) {
	t.Run("inline data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/upload", r.URL.Path)
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			content, _ := io.ReadAll(file)
			assert.Equal(t, "22.12.xlsx", header.Filename)
			assert.Equal(t, "workbook-bytes", string(content))

			_ = json.NewEncoder(w).Encode(models.StatusResponse{
				Status:  "success",
				Message: "ok",
				Data: &models.InventoryDocument{Sheets: []models.Sheet{{SheetName: "A"}}},
			})
		})

		doc, err := c.Ingest(context.Background(), "22.12.xlsx", strings.NewReader("workbook-bytes"))
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "A", doc.Sheets[0].SheetName)
	})

	t.Run("no inline data", func(t *testing.T) {
		for _, body := range []string{`{"status":"success"}`, `{"data":null}`, `[]`, `"ok"`} {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			doc, err := c.Ingest(context.Background(), "a.xlsx", strings.NewReader("x"))
			require.NoError(t, err, body)
			assert.Nil(t, doc, body)
		}
	})

	t.Run("error with message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"Chỉ chấp nhận file Excel"}`)
		})
		_, err := c.Ingest(context.Background(), "a.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, viewer.ErrIngestionFailed)

		var remote *viewer.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "Chỉ chấp nhận file Excel", remote.Message)
	})

	t.Run("error without message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.Ingest(context.Background(), "a.xlsx", strings.NewReader("x"))
		var remote *viewer.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "Upload thất bại (502)", remote.Message)
	})
}

func TestSaveShelfLife(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/save_shelf_life", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, map[string]interface{}{
				"product_code":      "CR2032",
				"lot_number":        "2805",
				"shelf_life_months": 84.0,
			}, req)
			_, _ = io.WriteString(w, `{"status":"success","message":"Đã lưu thời hạn thành công"}`)
		})
		err := c.SaveShelfLife(context.Background(), models.ShelfLifeRequest{ProductCode: "CR2032", LotNumber: "2805", ShelfLifeMonths: 84})
		assert.NoError(t, err)
	})

	t.Run("rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"status":"error","message":"db down"}`)
		})
		err := c.SaveShelfLife(context.Background(), models.ShelfLifeRequest{ProductCode: "A", ShelfLifeMonths: 36})
		assert.ErrorIs(t, err, viewer.ErrPersistFailed)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("2xx without json", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "OK")
		})
		err := c.SaveShelfLife(context.Background(), models.ShelfLifeRequest{ProductCode: "A", ShelfLifeMonths: 36})
		assert.ErrorIs(t, err, viewer.ErrPersistFailed)
	})

	t.Run("http status decides, not the status field", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"status":"error","message":"ignored"}`)
		})
		err := c.SaveShelfLife(context.Background(), models.ShelfLifeRequest{ProductCode: "A", ShelfLifeMonths: 36})
		assert.NoError(t, err)
	})
}
